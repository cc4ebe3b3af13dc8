// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package miner

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/lit-miner/internal/rubric"
	"github.com/pdiddy/lit-miner/pkg/types"
)

// preprintFragments identify preprint servers by journal name.
var preprintFragments = []string{"biorxiv", "medrxiv", "arxiv", "ssrn", "preprint"}

// measurementPattern matches a numeric millimetre measurement ("4.5mm", "10 mm").
var measurementPattern = regexp.MustCompile(`(\d+\.?\d*)\s?mm`)

// Scorer computes composite scores against a rubric.
type Scorer struct {
	Rubric *rubric.Rubric

	// Now returns the current time; nil means time.Now.
	Now func() time.Time
}

// NewScorer returns a Scorer using r, or the built-in rubric when r is nil.
func NewScorer(r *rubric.Rubric) *Scorer {
	if r == nil {
		r = rubric.Default()
	}
	return &Scorer{Rubric: r}
}

func (s *Scorer) currentYear() int {
	if s.Now != nil {
		return s.Now().Year()
	}
	return time.Now().Year()
}

// IsPreprint reports whether journal names a preprint server.
func IsPreprint(journal string) bool {
	j := strings.ToLower(journal)
	for _, f := range preprintFragments {
		if strings.Contains(j, f) {
			return true
		}
	}
	return false
}

// IsReview reports whether any publication type contains "review".
func IsReview(pubTypes []string) bool {
	for _, pt := range pubTypes {
		if strings.Contains(strings.ToLower(pt), "review") {
			return true
		}
	}
	return false
}

// Score applies, in order: base 1, journal bonus, recency bonus, review
// flag, impact factor bonus, preprint halving of the accumulated score,
// data-quality bonus and citation bonus.
func (s *Scorer) Score(c types.Candidate, citations int) types.ScoredPaper {
	r := s.Rubric
	score := 1
	var reasons []string

	if bonus, _ := r.JournalBonus(c.Journal); bonus > 0 {
		score += bonus
		reasons = append(reasons, fmt.Sprintf("journal(+%d)", bonus))
	}

	if recency := r.RecencyMaxScore() - (s.currentYear() - c.Year); recency > 0 {
		score += recency
		reasons = append(reasons, fmt.Sprintf("recent(+%d)", recency))
	}

	isReview := IsReview(c.PublicationTypes)
	if isReview {
		reasons = append(reasons, "review")
	}

	impact := r.ImpactFactor(c.Journal)
	if bonus := rubric.ImpactFactorBonus(impact); bonus > 0 {
		score += bonus
		reasons = append(reasons, fmt.Sprintf("IF=%s(+%d)", strconv.FormatFloat(impact, 'f', -1, 64), bonus))
	}

	isPreprint := IsPreprint(c.Journal)
	if isPreprint {
		score /= 2
		reasons = append(reasons, "preprint(-50%)")
	}

	if measurementPattern.MatchString(c.Abstract) {
		if bonus := r.DataQualityBonus(); bonus > 0 {
			score += bonus
			reasons = append(reasons, fmt.Sprintf("data(+%d)", bonus))
		}
	}

	if bonus := r.CitationBonus(citations); bonus > 0 {
		score += bonus
		reasons = append(reasons, fmt.Sprintf("cited(+%d)", bonus))
	}

	if score < 0 {
		score = 0
	}
	if len(reasons) == 0 {
		reasons = []string{"base"}
	}

	return types.ScoredPaper{
		ID:           c.ID,
		Title:        c.Title,
		Abstract:     c.Abstract,
		Journal:      c.Journal,
		Year:         c.Year,
		Score:        score,
		IsReview:     isReview,
		IsPreprint:   isPreprint,
		ImpactFactor: impact,
		Citations:    citations,
		DOI:          c.DOI,
		Reasons:      reasons,
	}
}
