// Package selection turns free-form reply text into a set of 1-based
// candidate indices.
package selection

import (
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/ITKKhan/HorrorWatchBot/internal/errors"
)

// Parse interprets a reply against a numbered candidate list of
// available entries, capped at upperBound. It accepts any separators
// made of non-digit characters ("1 2", "1,2", "1 and 3"), collapses
// duplicates, and discards out-of-range values. The whole-word
// sentinels "cancel" and "all" short-circuit.
//
// Errors carry distinct kinds: ErrCancelled for an explicit abort,
// ErrParseFailure when nothing usable remains.
func Parse(text string, upperBound, available int) ([]int, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))

	if normalized == "cancel" {
		return nil, apperrors.Cancelled("selection cancelled")
	}

	max := upperBound
	if available < max {
		max = available
	}

	if normalized == "all" {
		if max < 1 {
			return nil, apperrors.ParseFailure("nothing to select")
		}
		indices := make([]int, max)
		for i := range indices {
			indices[i] = i + 1
		}
		return indices, nil
	}

	seen := make(map[int]bool)
	for _, run := range digitRuns(normalized) {
		n, err := strconv.Atoi(run)
		if err != nil {
			continue // overflow; treat like any other noise
		}
		if n >= 1 && n <= max {
			seen[n] = true
		}
	}

	if len(seen) == 0 {
		return nil, apperrors.ParseFailure("could not interpret selection")
	}

	indices := make([]int, 0, len(seen))
	for n := range seen {
		indices = append(indices, n)
	}
	sort.Ints(indices)
	return indices, nil
}

// digitRuns extracts every maximal run of ASCII digits from s
func digitRuns(s string) []string {
	var runs []string
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, s[start:i])
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, s[start:])
	}
	return runs
}
