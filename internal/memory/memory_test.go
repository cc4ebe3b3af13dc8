// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package memory

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/lit-miner/internal/embedding"
	"github.com/pdiddy/lit-miner/internal/vectordb"
	"github.com/pdiddy/lit-miner/pkg/types"
)

type failingEmbedder struct {
	*embedding.Hashing
}

func (failingEmbedder) EmbedDocuments(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("provider unavailable")
}

// countingEmbedder counts the documents it embeds.
type countingEmbedder struct {
	*embedding.Hashing
	docs int
}

func (c *countingEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	c.docs += len(texts)
	return c.Hashing.EmbedDocuments(ctx, texts)
}

func openDB(t *testing.T) *vectordb.DB {
	t.Helper()
	db, err := vectordb.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func samplePapers() []types.ScoredPaper {
	return []types.ScoredPaper{
		{ID: "1", Title: "Ridge preservation", Abstract: "alveolar ridge preservation with xenograft reduced width loss",
			Journal: "Journal of periodontology", Year: 2025, Score: 14, Reasons: []string{"journal(+6)", "recent(+4)"}, Category: types.CategoryRecent},
		{ID: "2", Title: "Implant survival", Abstract: "implant survival after immediate placement in molar sites",
			Journal: "Clinical oral implants research", Year: 2023, Score: 9, ImpactFactor: 5.0, Category: types.CategoryDataRich},
		{ID: "3", Title: "Statins and heart", Abstract: "statin therapy lowers cardiovascular events in elderly patients",
			Journal: "Circulation", Year: 2024, Score: 20, IsReview: true, Category: types.CategoryHighImpact},
	}
}

func TestAdd_Idempotent(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, openDB(t), "db_test", embedding.NewHashing(16), nil)
	require.NoError(t, err)

	p := samplePapers()[:1]
	n, err := s.Add(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.Add(ctx, p)
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestOpen_MatchingDimensionDoesNotReembed(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	emb := &countingEmbedder{Hashing: embedding.NewHashing(32)}

	s, err := Open(ctx, db, "db_test", emb, nil)
	require.NoError(t, err)
	_, err = s.Add(ctx, samplePapers())
	require.NoError(t, err)
	require.Equal(t, 3, emb.docs)

	for range 3 {
		s, err = Open(ctx, db, "db_test", emb, nil)
		require.NoError(t, err)
		need, err := s.NeedsMigration(ctx)
		require.NoError(t, err)
		assert.False(t, need)
	}
	assert.Equal(t, 3, emb.docs)
}

func TestAdd_DuplicatesInBatchAndPartialOverlap(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, openDB(t), "db_test", embedding.NewHashing(16), nil)
	require.NoError(t, err)

	papers := samplePapers()
	n, err := s.Add(ctx, []types.ScoredPaper{papers[0], papers[0], {ID: "", Abstract: "no id"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.Add(ctx, papers)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	n, err = s.Add(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAdd_MetadataExcludesAbstract(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, openDB(t), "db_test", embedding.NewHashing(16), nil)
	require.NoError(t, err)
	_, err = s.Add(ctx, samplePapers()[:1])
	require.NoError(t, err)

	recs, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "alveolar ridge preservation with xenograft reduced width loss", recs[0].Document)
	assert.NotContains(t, recs[0].Metadata, "abstract")
	assert.Equal(t, "Ridge preservation", recs[0].Metadata["title"])
	assert.Equal(t, "journal(+6), recent(+4)", recs[0].Metadata["reasons"])
	assert.Equal(t, "recent", recs[0].Metadata["category"])
	assert.Len(t, recs[0].Vector, 16)
}

func TestQuery(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, openDB(t), "db_test", embedding.NewHashing(256), nil)
	require.NoError(t, err)
	_, err = s.Add(ctx, samplePapers())
	require.NoError(t, err)

	ev, err := s.Query(ctx, "statin therapy cardiovascular events", 2)
	require.NoError(t, err)
	require.Equal(t, 2, ev.Len())
	assert.Len(t, ev.Distances, 2)
	assert.Len(t, ev.Metadatas, 2)
	assert.Len(t, ev.Documents, 2)
	assert.Equal(t, "3", ev.IDs[0])
	assert.Equal(t, "Statins and heart", ev.Metadatas[0]["title"])
	assert.Contains(t, ev.Documents[0], "statin therapy")
	assert.LessOrEqual(t, ev.Distances[0], ev.Distances[1])
}

func TestOpen_MigratesOnDimensionChange(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	old, err := OpenTopic(ctx, db, "ridge preservation", embedding.NewHashing(16), nil)
	require.NoError(t, err)
	_, err = old.Add(ctx, samplePapers())
	require.NoError(t, err)
	before, err := old.Records(ctx)
	require.NoError(t, err)

	s, err := OpenTopic(ctx, db, "ridge preservation", embedding.NewHashing(32), nil)
	require.NoError(t, err)

	need, err := s.NeedsMigration(ctx)
	require.NoError(t, err)
	assert.False(t, need)

	after, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Len(t, after[i].Vector, 32)
		assert.Equal(t, before[i].Document, after[i].Document)

		bm, err := json.Marshal(before[i].Metadata)
		require.NoError(t, err)
		am, err := json.Marshal(after[i].Metadata)
		require.NoError(t, err)
		assert.Equal(t, string(bm), string(am))
	}

	topics, err := ListTopics(ctx, db)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "ridge preservation", topics[0].Query)
	assert.Equal(t, 32, topics[0].Dimension)
	assert.Equal(t, "hashing/32", topics[0].Embedding)
}

func TestMigrate_FailureLeavesOriginalIntact(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	old, err := Open(ctx, db, "db_keep", embedding.NewHashing(16), nil)
	require.NoError(t, err)
	_, err = old.Add(ctx, samplePapers())
	require.NoError(t, err)

	_, err = Open(ctx, db, "db_keep", failingEmbedder{embedding.NewHashing(32)}, nil)
	require.ErrorIs(t, err, ErrMigrationFailed)

	again, err := Open(ctx, db, "db_keep", embedding.NewHashing(16), nil)
	require.NoError(t, err)
	recs, err := again.Records(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	for _, r := range recs {
		assert.Len(t, r.Vector, 16)
	}

	infos, err := db.ListCollections(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "db_keep", infos[0].Name)
}

func TestAdd_ReactiveMigration(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, openDB(t), "db_test", embedding.NewHashing(16), nil)
	require.NoError(t, err)
	papers := samplePapers()
	_, err = s.Add(ctx, papers[:2])
	require.NoError(t, err)

	s.emb = embedding.NewHashing(24)
	n, err := s.Add(ctx, papers[2:])
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	recs, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	for _, r := range recs {
		assert.Len(t, r.Vector, 24)
	}
}

func TestQuery_ReactiveMigration(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, openDB(t), "db_test", embedding.NewHashing(16), nil)
	require.NoError(t, err)
	_, err = s.Add(ctx, samplePapers())
	require.NoError(t, err)

	s.emb = embedding.NewHashing(128)
	ev, err := s.Query(ctx, "implant survival", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, ev.Len())
	assert.Equal(t, "2", ev.IDs[0])

	need, err := s.NeedsMigration(ctx)
	require.NoError(t, err)
	assert.False(t, need)
}

func TestMigrate_EmptyCollection(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, openDB(t), "db_empty", embedding.NewHashing(16), nil)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(ctx))
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCollectionName(t *testing.T) {
	assert.Equal(t, "db_Socket_preservation", CollectionName("Socket preservation!"))
	assert.Equal(t, "db_ridge_preservation_AND_implant", CollectionName("  ridge preservation AND (implant) "))

	for _, q := range []string{"牙周炎", "ab", ""} {
		sum := md5.Sum([]byte(q))
		assert.Equal(t, "db_"+hex.EncodeToString(sum[:])[:12], CollectionName(q), "query %q", q)
	}
}

func TestFindCollection(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	_, err := OpenTopic(ctx, db, "牙周炎", embedding.NewHashing(8), nil)
	require.NoError(t, err)
	_, err = Open(ctx, db, "db_legacy_topic", embedding.NewHashing(8), nil)
	require.NoError(t, err)

	name, err := FindCollection(ctx, db, "牙周炎")
	require.NoError(t, err)
	assert.Equal(t, CollectionName("牙周炎"), name)

	name, err = FindCollection(ctx, db, "legacy topic")
	require.NoError(t, err)
	assert.Equal(t, "db_legacy_topic", name)

	_, err = FindCollection(ctx, db, "unknown")
	assert.ErrorIs(t, err, vectordb.ErrCollectionNotFound)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, openDB(t), "db_test", embedding.NewHashing(8), nil)
	require.NoError(t, err)
	_, err = s.Add(ctx, samplePapers()[:2])
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.Export(ctx, &buf, "json"))
	var fromJSON []types.EmbeddingRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	require.Len(t, fromJSON, 2)
	assert.Equal(t, "1", fromJSON[0].ID)
	assert.NotContains(t, buf.String(), "embedding\"")

	buf.Reset()
	require.NoError(t, s.Export(ctx, &buf, "yaml"))
	var fromYAML []types.EmbeddingRecord
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	require.Len(t, fromYAML, 2)
	assert.Equal(t, "Implant survival", fromYAML[1].Metadata["title"])

	assert.Error(t, s.Export(ctx, &buf, "xml"))
}
