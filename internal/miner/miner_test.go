// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package miner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/lit-miner/internal/rubric"
	"github.com/pdiddy/lit-miner/pkg/types"
)

func fixedClock() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }

func testScorer(r *rubric.Rubric) *Scorer {
	s := NewScorer(r)
	s.Now = fixedClock
	return s
}

func TestNormalize(t *testing.T) {
	rec := types.RawRecord{
		ID:    "101",
		Title: "Socket grafting",
		Abstract: []types.AbstractSegment{
			{Label: "BACKGROUND", Text: "Ridge resorption follows extraction."},
			{Label: "", Text: "  Unlabelled part.  "},
			{Label: "RESULTS", Text: "Width loss was 1.2 mm."},
		},
		Journal:     "Journal of periodontology",
		MedlineDate: "2019 Nov-Dec",
	}
	c, err := Normalize(rec)
	require.NoError(t, err)
	assert.Equal(t, "BACKGROUND: Ridge resorption follows extraction. Unlabelled part. RESULTS: Width loss was 1.2 mm.", c.Abstract)
	assert.Equal(t, 2019, c.Year)
	assert.False(t, c.Retracted)
}

func TestNormalize_NoAbstract(t *testing.T) {
	_, err := Normalize(types.RawRecord{ID: "1", Abstract: []types.AbstractSegment{{Label: "X", Text: "  "}}})
	assert.ErrorIs(t, err, ErrNoAbstract)

	_, err = Normalize(types.RawRecord{Abstract: []types.AbstractSegment{{Text: "text"}}})
	assert.ErrorIs(t, err, ErrNoID)
}

func TestPublicationYear(t *testing.T) {
	assert.Equal(t, 2024, PublicationYear(types.RawRecord{Year: 2024, MedlineDate: "1999"}))
	assert.Equal(t, 2018, PublicationYear(types.RawRecord{MedlineDate: "Winter 2018-2019"}))
	assert.Equal(t, FallbackYear, PublicationYear(types.RawRecord{MedlineDate: "Spring"}))
	assert.Equal(t, FallbackYear, PublicationYear(types.RawRecord{}))
}

func TestIsRetracted(t *testing.T) {
	tests := []struct {
		name string
		rec  types.RawRecord
		want bool
	}{
		{"clean", types.RawRecord{PublicationTypes: []string{"Journal Article"}}, false},
		{"retracted publication type", types.RawRecord{PublicationTypes: []string{"Retracted Publication"}}, true},
		{"retraction notice", types.RawRecord{PublicationTypes: []string{"Retraction of Publication"}}, true},
		{"retraction in", types.RawRecord{Corrections: []types.Correction{{RefType: "RetractionIn", PMID: "9"}}}, true},
		{"retraction of", types.RawRecord{Corrections: []types.Correction{{RefType: "RetractionOf"}}}, true},
		{"erratum only", types.RawRecord{Corrections: []types.Correction{{RefType: "ErratumIn"}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetracted(tt.rec))
		})
	}
}

func TestScore_AllBonuses(t *testing.T) {
	c := types.Candidate{
		ID:               "1",
		Journal:          "Periodontology 2000",
		Year:             2026,
		PublicationTypes: []string{"Journal Article", "Systematic Review"},
		Abstract:         "Defects of 4.5mm and 6 mm were treated.",
	}
	p := testScorer(nil).Score(c, 120)

	assert.Equal(t, 24, p.Score)
	assert.True(t, p.IsReview)
	assert.False(t, p.IsPreprint)
	assert.Equal(t, 17.2, p.ImpactFactor)
	assert.Equal(t, 120, p.Citations)
	assert.Equal(t, []string{"journal(+10)", "recent(+5)", "review", "IF=17.2(+3)", "data(+2)", "cited(+3)"}, p.Reasons)
	assert.Empty(t, p.Category)
}

func TestScore_Base(t *testing.T) {
	c := types.Candidate{ID: "2", Journal: "Unknown Regional Bulletin", Year: 2000, Abstract: "No measurements here."}
	p := testScorer(nil).Score(c, 0)
	assert.Equal(t, 1, p.Score)
	assert.Equal(t, []string{"base"}, p.Reasons)
}

func TestScore_RecencyDecay(t *testing.T) {
	s := testScorer(nil)
	for _, tt := range []struct {
		year int
		want int
	}{{2026, 6}, {2025, 5}, {2022, 2}, {2021, 1}, {2020, 1}} {
		p := s.Score(types.Candidate{ID: "x", Journal: "Unknown Regional Bulletin", Year: tt.year, Abstract: "a"}, 0)
		assert.Equal(t, tt.want, p.Score, "year=%d", tt.year)
	}
}

// The preprint penalty halves everything accumulated before it, including
// journal and impact-factor credit.
func TestScore_PreprintHalvesAccumulatedScore(t *testing.T) {
	for _, tt := range []struct {
		bonus int
		want  int
	}{{6, 3}, {9, 5}} {
		r, err := rubric.New(types.RubricConfig{
			TopJournals: []types.JournalWeight{{Name: "bioRxiv", Bonus: tt.bonus}},
		})
		require.NoError(t, err)
		p := testScorer(r).Score(types.Candidate{ID: "p", Journal: "bioRxiv", Year: 2000, Abstract: "a"}, 0)
		assert.Equal(t, tt.want, p.Score, "pre-penalty score %d", 1+tt.bonus)
		assert.True(t, p.IsPreprint)
		assert.Equal(t, []string{fmt.Sprintf("journal(+%d)", tt.bonus), "preprint(-50%)"}, p.Reasons)
	}
}

func TestScore_BonusesAfterPreprintAreNotHalved(t *testing.T) {
	c := types.Candidate{ID: "p", Journal: "medRxiv", Year: 2026, Abstract: "lesion of 3 mm"}
	p := testScorer(nil).Score(c, 60)
	// (1 + 5) / 2 = 3, then data +2 and cited +2.
	assert.Equal(t, 7, p.Score)
	assert.Equal(t, []string{"recent(+5)", "preprint(-50%)", "data(+2)", "cited(+2)"}, p.Reasons)
}

func TestIsPreprint(t *testing.T) {
	assert.True(t, IsPreprint("bioRxiv : the preprint server for biology"))
	assert.True(t, IsPreprint("SSRN Electronic Journal"))
	assert.True(t, IsPreprint("ArXiv"))
	assert.False(t, IsPreprint("Journal of Clinical Oncology"))
}

func paper(id string, score int, review bool, journal string, year int) types.ScoredPaper {
	return types.ScoredPaper{ID: id, Score: score, IsReview: review, Journal: journal, Year: year, Reasons: []string{"base"}}
}

func testSelector() *Selector {
	s := NewSelector(nil)
	s.Now = fixedClock
	return s
}

func TestSelect_TwelveCandidates(t *testing.T) {
	scores := []int{20, 18, 15, 12, 10, 9, 8, 7, 6, 5, 4, 3}
	var in []types.ScoredPaper
	for i, s := range scores {
		id := fmt.Sprintf("c%d", i+1)
		switch {
		case i < 3:
			in = append(in, paper(id, s, true, "Regional Dental Reports", 2010))
		case i < 7:
			in = append(in, paper(id, s, false, "Nature Medicine", 2026))
		default:
			in = append(in, paper(id, s, false, "Regional Dental Reports", 2015))
		}
	}

	out := testSelector().Select(in)
	require.Len(t, out, 10)

	var ids []string
	cats := map[string]types.Category{}
	for _, p := range out {
		ids = append(ids, p.ID)
		cats[p.ID] = p.Category
	}
	assert.Equal(t, []string{"c1", "c2", "c4", "c5", "c6", "c7", "c8", "c9", "c10", "c11"}, ids)
	assert.Equal(t, types.CategoryHighImpact, cats["c1"])
	assert.Equal(t, types.CategoryRecent, cats["c4"])
	assert.Equal(t, types.CategoryDataRich, cats["c8"])
	assert.NotContains(t, ids, "c3")
	assert.NotContains(t, ids, "c12")
}

func TestSelect_DisjointAndBounded(t *testing.T) {
	var in []types.ScoredPaper
	for i := 0; i < 40; i++ {
		journal := "Regional Dental Reports"
		if i%3 == 0 {
			journal = "Circulation"
		}
		in = append(in, paper(fmt.Sprintf("p%d", i), (i*7)%23, i%5 == 0, journal, 2020+i%7))
	}
	out := testSelector().Select(in)
	assert.LessOrEqual(t, len(out), 10)

	seen := map[string]bool{}
	for _, p := range out {
		assert.False(t, seen[p.ID], "duplicate %s", p.ID)
		seen[p.ID] = true
		assert.NotEmpty(t, p.Category)
	}
}

func TestSelect_RecentTakesPriorityOverDataRich(t *testing.T) {
	in := []types.ScoredPaper{
		paper("top", 30, false, "The Lancet", 2026),
		paper("old", 5, false, "Regional Dental Reports", 2001),
	}
	out := testSelector().Select(in)
	require.Len(t, out, 2)
	assert.Equal(t, "top", out[0].ID)
	assert.Equal(t, types.CategoryRecent, out[0].Category)
	assert.Equal(t, types.CategoryDataRich, out[1].Category)
}

func TestSelect_RecentWindowAndOrdering(t *testing.T) {
	in := []types.ScoredPaper{
		paper("lastyear-high", 40, false, "Neuron", 2025),
		paper("thisyear-low", 2, false, "Neuron", 2026),
		paper("twoyears", 50, false, "Neuron", 2024),
	}
	out := testSelector().Select(in)
	require.Len(t, out, 3)
	assert.Equal(t, "thisyear-low", out[0].ID)
	assert.Equal(t, "lastyear-high", out[1].ID)
	assert.Equal(t, types.CategoryRecent, out[1].Category)
	assert.Equal(t, "twoyears", out[2].ID)
	assert.Equal(t, types.CategoryDataRich, out[2].Category)
}

func TestSelect_StableOnTies(t *testing.T) {
	in := []types.ScoredPaper{
		paper("a", 5, false, "x", 2000),
		paper("b", 5, false, "x", 2000),
		paper("c", 5, false, "x", 2000),
	}
	out := testSelector().Select(in)
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
	assert.Equal(t, "c", out[2].ID)
}

func TestSelect_DoesNotMutateInput(t *testing.T) {
	in := []types.ScoredPaper{paper("r", 3, true, "x", 2000)}
	out := testSelector().Select(in)
	require.Len(t, out, 1)
	out[0].Reasons[0] = "changed"
	assert.Empty(t, in[0].Category)
	assert.Equal(t, "base", in[0].Reasons[0])
}

func TestLimitsFromConfig(t *testing.T) {
	l := LimitsFromConfig(types.MiningConfig{Recent: 6})
	assert.Equal(t, SelectionLimits{HighImpact: 2, Recent: 6, DataRich: 4}, l)
	assert.Equal(t, 12, l.Total())
}

type fakeFetcher struct {
	ids        []string
	searchErr  error
	records    []types.RawRecord
	detailsErr error
	citations  map[string]int
	citeErr    error
}

func (f *fakeFetcher) Search(context.Context, string, int) ([]string, error) {
	return f.ids, f.searchErr
}

func (f *fakeFetcher) FetchDetails(context.Context, []string) ([]types.RawRecord, error) {
	return f.records, f.detailsErr
}

func (f *fakeFetcher) FetchCitationCounts(context.Context, []string) (map[string]int, error) {
	return f.citations, f.citeErr
}

func abstract(text string) []types.AbstractSegment {
	return []types.AbstractSegment{{Text: text}}
}

func newTestMiner(f Fetcher) *Miner {
	m := New(f, nil, DefaultLimits, nil)
	m.SetClock(fixedClock)
	return m
}

func TestMine(t *testing.T) {
	f := &fakeFetcher{
		ids: []string{"1", "2", "3", "4"},
		records: []types.RawRecord{
			{ID: "1", Title: "Good", Abstract: abstract("Gap of 2 mm."), Journal: "Journal of periodontology", Year: 2026},
			{ID: "2", Title: "Empty", Journal: "Journal of periodontology", Year: 2026},
			{ID: "3", Title: "Retracted", Abstract: abstract("Great results."), Journal: "Nature", Year: 2026,
				PublicationTypes: []string{"Retracted Publication"}},
			{ID: "4", Title: "Older", Abstract: abstract("Other."), Journal: "Regional Dental Reports", MedlineDate: "2010 Jan"},
		},
		citations: map[string]int{"1": 55, "3": 900},
	}
	out, stats, err := newTestMiner(f).Mine(context.Background(), "socket preservation", 50)
	require.NoError(t, err)

	assert.Equal(t, RunStats{Found: 4, Fetched: 4, DroppedNoAbstract: 1, DroppedRetracted: 1, Scored: 2, Selected: 2}, stats)
	require.Len(t, out, 2)
	for _, p := range out {
		assert.NotEqual(t, "3", p.ID)
	}
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, 55, out[0].Citations)
	assert.Contains(t, out[0].Reasons, "cited(+2)")
	assert.Equal(t, 2010, out[1].Year)
}

func TestMine_EmptySearch(t *testing.T) {
	out, stats, err := newTestMiner(&fakeFetcher{}).Mine(context.Background(), "nothing", 10)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Zero(t, stats.Found)
}

func TestMine_FetcherFailuresYieldEmpty(t *testing.T) {
	out, _, err := newTestMiner(&fakeFetcher{searchErr: errors.New("down")}).Mine(context.Background(), "x", 10)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, stats, err := newTestMiner(&fakeFetcher{ids: []string{"1"}, detailsErr: errors.New("bad xml")}).Mine(context.Background(), "x", 10)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 1, stats.Found)
}

func TestMine_CitationFailureContinues(t *testing.T) {
	f := &fakeFetcher{
		ids:     []string{"1"},
		records: []types.RawRecord{{ID: "1", Abstract: abstract("text"), Journal: "x", Year: 2001}},
		citeErr: errors.New("elink down"),
	}
	out, _, err := newTestMiner(f).Mine(context.Background(), "x", 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Zero(t, out[0].Citations)
}

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(nil, RunStats{}, &buf)
	assert.Equal(t, "No papers selected.\n", buf.String())

	buf.Reset()
	p := paper("123", 9, true, "Journal of periodontology", 2025)
	p.Title = "A title"
	p.Category = types.CategoryHighImpact
	FormatTable([]types.ScoredPaper{p}, RunStats{Found: 5, Scored: 3, Selected: 1, DroppedRetracted: 1}, &buf)
	assert.Contains(t, buf.String(), "high_impact")
	assert.Contains(t, buf.String(), "1 selected of 3 scored (5 found, 1 retracted)")
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(nil, &buf))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, FormatJSON([]types.ScoredPaper{paper("7", 3, false, "x", 2020)}, &buf))
	var got []types.ScoredPaper
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "7", got[0].ID)
}
