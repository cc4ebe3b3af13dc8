// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package memory

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/lit-miner/internal/vectordb"
)

const collectionPrefix = "db_"

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// CollectionName derives a collection name from a topic. ASCII letters and
// digits are kept, other runs become "_". Topics that leave fewer than
// three characters (most CJK topics) use the first 12 hex digits of the
// topic's MD5 instead.
func CollectionName(query string) string {
	slug := strings.Trim(nonAlnum.ReplaceAllString(query, "_"), "_")
	if len(slug) < 3 {
		sum := md5.Sum([]byte(query))
		slug = hex.EncodeToString(sum[:])[:12]
	}
	return collectionPrefix + slug
}

// Topic describes a stored topic collection.
type Topic struct {
	Query      string    `json:"query" yaml:"query"`
	Collection string    `json:"collection" yaml:"collection"`
	Papers     int       `json:"papers" yaml:"papers"`
	Dimension  int       `json:"dimension" yaml:"dimension"`
	Embedding  string    `json:"embedding" yaml:"embedding"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// ListTopics returns every topic collection. Collections created without
// a recorded query show their name with the prefix removed and
// underscores read as spaces.
func ListTopics(ctx context.Context, db *vectordb.DB) ([]Topic, error) {
	infos, err := db.ListCollections(ctx)
	if err != nil {
		return nil, err
	}
	var out []Topic
	for _, info := range infos {
		if strings.HasSuffix(info.Name, shadowSuffix) {
			continue
		}
		q := info.Metadata[metaQuery]
		if q == "" {
			q = strings.ReplaceAll(strings.TrimPrefix(info.Name, collectionPrefix), "_", " ")
		}
		out = append(out, Topic{
			Query:      q,
			Collection: info.Name,
			Papers:     info.Count,
			Dimension:  info.Dimension,
			Embedding:  info.Metadata[metaEmbedding],
			CreatedAt:  info.CreatedAt,
		})
	}
	return out, nil
}

// FindCollection returns the collection holding topic: the one whose
// recorded query equals topic, else the one named CollectionName(topic).
func FindCollection(ctx context.Context, db *vectordb.DB, topic string) (string, error) {
	topics, err := ListTopics(ctx, db)
	if err != nil {
		return "", err
	}
	name := CollectionName(topic)
	for _, t := range topics {
		if t.Query == topic {
			return t.Collection, nil
		}
	}
	for _, t := range topics {
		if t.Collection == name {
			return name, nil
		}
	}
	return "", fmt.Errorf("topic %q: %w", topic, vectordb.ErrCollectionNotFound)
}
