// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package expand

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// termClause maps a Chinese clinical term to a PubMed clause.
type termClause struct {
	term   string
	clause string
}

const ridgePreservation = `("socket preservation" OR "alveolar ridge preservation" OR "ridge preservation" OR "extraction socket management")`

// Core terms: diseases and procedures. Scanned in order.
var coreTerms = []termClause{
	{"牙周炎", `("periodontitis" OR "chronic periodontitis" OR "aggressive periodontitis")`},
	{"慢性牙周炎", `("chronic periodontitis")`},
	{"侵袭性牙周炎", `("aggressive periodontitis")`},
	{"牙龈炎", `("gingivitis")`},
	{"牙周袋", `("periodontal pocket")`},
	{"牙周再生", `("periodontal regeneration" OR "regenerative periodontal therapy")`},
	{"引导组织再生", `("guided tissue regeneration" OR "GTR")`},
	{"引导骨再生", `("guided bone regeneration" OR "GBR")`},
	{"骨内缺损", `("intrabony defect" OR "intra-bony defect")`},
	{"分叉病变", `("furcation involvement" OR "furcation defect")`},

	{"位点保存", ridgePreservation},
	{"牙槽嵴保存", ridgePreservation},
	{"上颌窦提升", `("sinus floor elevation" OR "sinus augmentation" OR "sinus lift")`},
	{"植骨", `("bone graft" OR "bone grafting" OR "bone substitute")`},
	{"异种骨", `("xenograft" OR "deproteinized bovine bone" OR "DBBM")`},
	{"自体骨", `("autograft" OR "autogenous bone")`},
}

// Modifier terms: outcome measures ANDed against the core.
var modifierTerms = []termClause{
	{"骨高度", `("bone height" OR "vertical dimension" OR "alveolar bone")`},
	{"骨增量", `("bone augmentation" OR "ridge augmentation")`},
	{"边缘骨吸收", `("marginal bone loss" OR "crestal bone loss")`},
	{"探诊深度", `("probing pocket depth" OR "PPD")`},
	{"临床附着水平", `("clinical attachment level" OR "CAL")`},
	{"牙龈退缩", `("gingival recession" OR "recession depth")`},
}

const socketPreservationQuery = ridgePreservation + ` AND ("bone height" OR "vertical dimension" OR "alveolar bone")`

// connective matches a whole-token AND/OR with its surrounding whitespace.
var connective = regexp.MustCompile(`(?i)\s+(AND|OR)\s+`)

// Legacy is the deterministic, table-based strategy. It never fails.
type Legacy struct{}

// Name returns the strategy identifier.
func (Legacy) Name() string { return "legacy" }

// Expand applies the term tables to CJK input and field-restricts
// English input.
func (Legacy) Expand(_ context.Context, query string, cjk bool) Result {
	if cjk {
		return Result{Query: expandCJK(query), OK: true}
	}
	lower := strings.ToLower(query)
	if strings.Contains(lower, "socket") && strings.Contains(lower, "preserv") {
		return Result{Query: socketPreservationQuery, OK: true}
	}
	return Result{Query: expandEnglish(query), OK: true}
}

// expandCJK ORs the matching core clauses and ANDs them against the
// matching modifiers. Without a core match the input is returned as is.
func expandCJK(query string) string {
	core := matchTerms(query, coreTerms)
	if len(core) == 0 {
		return query
	}
	out := strings.Join(core, " OR ")
	if mods := matchTerms(query, modifierTerms); len(mods) > 0 {
		out = fmt.Sprintf("(%s) AND (%s)", out, strings.Join(mods, " OR "))
	}
	return out
}

// matchTerms returns the clauses whose term occurs in query, in table
// order and without duplicates.
func matchTerms(query string, table []termClause) []string {
	seen := make(map[string]bool)
	var clauses []string
	for _, tc := range table {
		if strings.Contains(query, tc.term) && !seen[tc.clause] {
			seen[tc.clause] = true
			clauses = append(clauses, tc.clause)
		}
	}
	return clauses
}

// expandEnglish wraps every segment between connectives as
// (segment OR "segment"[Title/Abstract]) and uppercases the connectives.
func expandEnglish(query string) string {
	var parts []string
	last := 0
	for _, m := range connective.FindAllStringSubmatchIndex(query, -1) {
		parts = appendSegment(parts, query[last:m[0]])
		parts = append(parts, strings.ToUpper(query[m[2]:m[3]]))
		last = m[1]
	}
	parts = appendSegment(parts, query[last:])
	return strings.Join(parts, " ")
}

func appendSegment(parts []string, seg string) []string {
	seg = strings.TrimSpace(seg)
	if seg == "" {
		return parts
	}
	return append(parts, fmt.Sprintf(`(%s OR "%s"[Title/Abstract])`, seg, seg))
}
