// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package miner

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/lit-miner/pkg/types"
)

// FallbackYear is used when a record carries no parseable year.
const FallbackYear = 2020

var (
	// ErrNoAbstract marks records dropped for lacking abstract text.
	ErrNoAbstract = errors.New("record has no abstract")

	// ErrNoID marks records without an identifier.
	ErrNoID = errors.New("record has no id")
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// Normalize converts a raw record into a scoring candidate and applies the
// retraction quality gate. Records without abstract text fail with
// ErrNoAbstract.
func Normalize(rec types.RawRecord) (types.Candidate, error) {
	if strings.TrimSpace(rec.ID) == "" {
		return types.Candidate{}, ErrNoID
	}
	abstract := JoinAbstract(rec.Abstract)
	if abstract == "" {
		return types.Candidate{}, ErrNoAbstract
	}
	return types.Candidate{
		ID:               rec.ID,
		Title:            rec.Title,
		Abstract:         abstract,
		Journal:          rec.Journal,
		Year:             PublicationYear(rec),
		PublicationTypes: append([]string(nil), rec.PublicationTypes...),
		DOI:              rec.DOI,
		Retracted:        IsRetracted(rec),
	}, nil
}

// JoinAbstract renders labelled segments as "Label: text" and joins all
// segments with single spaces.
func JoinAbstract(segs []types.AbstractSegment) string {
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		if s.Label != "" {
			text = s.Label + ": " + text
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

// PublicationYear returns the structured year, else the first four-digit
// run of the free-text date, else FallbackYear.
func PublicationYear(rec types.RawRecord) int {
	if rec.Year > 0 {
		return rec.Year
	}
	if m := yearPattern.FindString(rec.MedlineDate); m != "" {
		if y, err := strconv.Atoi(m); err == nil {
			return y
		}
	}
	return FallbackYear
}

// IsRetracted reports whether the record's publication types or
// corrections mark it as retracted.
func IsRetracted(rec types.RawRecord) bool {
	for _, pt := range rec.PublicationTypes {
		if strings.Contains(strings.ToLower(pt), "retract") {
			return true
		}
	}
	for _, c := range rec.Corrections {
		if c.RefType == "RetractionIn" || c.RefType == "RetractionOf" {
			return true
		}
	}
	return false
}
