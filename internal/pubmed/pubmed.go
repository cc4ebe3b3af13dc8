// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed is a client for the NCBI E-utilities: esearch for PMIDs,
// efetch for article metadata, and elink for cited-by counts.
package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/lit-miner/internal/httputil"
	"github.com/pdiddy/lit-miner/pkg/types"
)

// eutilsBase is the E-utilities root. Declared as a var so tests can
// substitute an httptest server.
var eutilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

const (
	defaultTool = "lit-miner"

	// fetchBatch caps the ids sent in one efetch or elink request.
	fetchBatch = 200
)

// Client talks to the E-utilities.
type Client struct {
	HTTP       *http.Client
	Email      string
	Tool       string
	APIKey     string
	UserAgent  string
	MaxRetries int
	Log        *zap.Logger
}

// New builds a Client from cfg.
func New(cfg types.PubMedConfig, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		HTTP:       &http.Client{Timeout: timeout},
		Email:      cfg.Email,
		Tool:       cfg.Tool,
		APIKey:     cfg.APIKey,
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
		Log:        log,
	}
}

// params returns the identification parameters NCBI expects on every call.
func (c *Client) params() url.Values {
	v := url.Values{}
	tool := c.Tool
	if tool == "" {
		tool = defaultTool
	}
	v.Set("tool", tool)
	if c.Email != "" {
		v.Set("email", c.Email)
	}
	if c.APIKey != "" {
		v.Set("api_key", c.APIKey)
	}
	return v
}

// get issues a GET to endpoint and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, endpoint string, v url.Values) ([]byte, error) {
	reqURL := eutilsBase + "/" + endpoint + "?" + v.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned HTTP %d", endpoint, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}
	return body, nil
}

type esearchResponse struct {
	Result struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// Search returns up to limit PMIDs for term, in relevance order.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]string, error) {
	if strings.TrimSpace(term) == "" {
		return nil, nil
	}
	v := c.params()
	v.Set("db", "pubmed")
	v.Set("term", term)
	v.Set("retmax", strconv.Itoa(limit))
	v.Set("retmode", "json")
	v.Set("sort", "relevance")

	body, err := c.get(ctx, "esearch.fcgi", v)
	if err != nil {
		return nil, err
	}

	var r esearchResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}
	c.Log.Debug("esearch", zap.String("term", term), zap.String("count", r.Result.Count),
		zap.Int("returned", len(r.Result.IDList)))
	return r.Result.IDList, nil
}

// FetchDetails returns the parsed records for ids. Articles that cannot
// be parsed are skipped; the order follows the efetch response.
func (c *Client) FetchDetails(ctx context.Context, ids []string) ([]types.RawRecord, error) {
	var records []types.RawRecord
	for _, batch := range batches(ids, fetchBatch) {
		v := c.params()
		v.Set("db", "pubmed")
		v.Set("id", strings.Join(batch, ","))
		v.Set("retmode", "xml")

		body, err := c.get(ctx, "efetch.fcgi", v)
		if err != nil {
			return nil, err
		}
		recs, err := ParseArticleSet(body)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	return records, nil
}

type elinkResponse struct {
	LinkSets []struct {
		IDs        []string `json:"ids"`
		LinkSetDBs []struct {
			LinkName string   `json:"linkname"`
			Links    []string `json:"links"`
		} `json:"linksetdbs"`
	} `json:"linksets"`
}

// FetchCitationCounts returns the number of PubMed articles citing each
// id. Ids without citing articles are reported as 0.
func (c *Client) FetchCitationCounts(ctx context.Context, ids []string) (map[string]int, error) {
	counts := make(map[string]int, len(ids))
	for _, batch := range batches(ids, fetchBatch) {
		v := c.params()
		v.Set("dbfrom", "pubmed")
		v.Set("linkname", "pubmed_pubmed_citedin")
		v.Set("retmode", "json")
		for _, id := range batch {
			v.Add("id", id)
		}

		body, err := c.get(ctx, "elink.fcgi", v)
		if err != nil {
			return nil, err
		}

		var r elinkResponse
		if err := json.Unmarshal(body, &r); err != nil {
			return nil, fmt.Errorf("parsing elink response: %w", err)
		}
		for _, id := range batch {
			counts[id] = 0
		}
		for _, ls := range r.LinkSets {
			if len(ls.IDs) == 0 {
				continue
			}
			n := 0
			for _, db := range ls.LinkSetDBs {
				if db.LinkName == "pubmed_pubmed_citedin" {
					n += len(db.Links)
				}
			}
			counts[ls.IDs[0]] = n
		}
	}
	return counts, nil
}

func batches(ids []string, size int) [][]string {
	var out [][]string
	for len(ids) > 0 {
		n := min(size, len(ids))
		out = append(out, ids[:n])
		ids = ids[n:]
	}
	return out
}
