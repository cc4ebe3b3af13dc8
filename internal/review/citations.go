// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"regexp"
	"sort"
	"strconv"
)

// citationPattern matches numeric citation markers: [3], [1, 4], [2-5], [1; 7].
var citationPattern = regexp.MustCompile(`\[(\d+(?:\s*[,;\-–]\s*\d+)*)\]`)

var numberPattern = regexp.MustCompile(`\d+`)

// ValidateCitations returns, sorted and without repeats, the citation
// numbers in markdown that fall outside 1..n.
func ValidateCitations(markdown string, n int) []int {
	seen := make(map[int]bool)
	for _, m := range citationPattern.FindAllStringSubmatch(markdown, -1) {
		for _, num := range numberPattern.FindAllString(m[1], -1) {
			k, err := strconv.Atoi(num)
			if err != nil || (k >= 1 && k <= n) {
				continue
			}
			seen[k] = true
		}
	}

	var invalid []int
	for k := range seen {
		invalid = append(invalid, k)
	}
	sort.Ints(invalid)
	return invalid
}
