// Package match implements fuzzy label matching for form controls whose
// exact attributes vary between page loads and sites. Matching is pure
// string similarity, so it is fully testable without a live browser.
package match

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/applyforge/applyforge/internal/domain"
)

// DefaultCutoff is the minimum similarity ratio a label must reach
// before it is considered a match.
const DefaultCutoff = 0.5

// Ratio returns the normalized similarity of a and b in [0, 1], computed
// per rune. 1.0 means identical sequences.
func Ratio(a, b string) float64 {
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

// Locate scans labels left to right and returns the index of the best
// case-insensitive match for target. Candidates with empty labels are
// skipped. The best ratio is tracked with a strict greater-than, so the
// first candidate achieving the maximum wins ties. If the best ratio is
// below cutoff, a NO_MATCH_FOUND error carrying that ratio is returned
// with index -1.
func Locate(labels []string, target string, cutoff float64) (int, error) {
	lowered := strings.ToLower(target)

	best := -1
	bestRatio := 0.0
	for i, label := range labels {
		if label == "" {
			continue
		}
		if r := Ratio(strings.ToLower(label), lowered); r > bestRatio {
			best = i
			bestRatio = r
		}
	}

	if best < 0 || bestRatio < cutoff {
		return -1, domain.NoMatchError(target, bestRatio)
	}
	return best, nil
}
