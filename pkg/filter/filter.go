// Package filter provides post-search match filtering
package filter

import (
	"math"
	"sort"

	"github.com/ChrisMcGann/TruncSearch/pkg/search"
)

// Config holds filtering configuration
type Config struct {
	TopN         int // Keep only the N matches closest to the target (0 = no limit)
	MaxDeletions int // Drop matches with more deleted residues (0 = no limit)
}

// Apply returns the matches that pass all configured filters, in their
// original search order. The input slice is not modified.
func (c *Config) Apply(matches []search.Match) []search.Match {
	filtered := make([]search.Match, 0, len(matches))
	for _, m := range matches {
		if c.MaxDeletions > 0 && m.Deletions > c.MaxDeletions {
			continue
		}
		filtered = append(filtered, m)
	}

	if c.TopN > 0 {
		filtered = c.filterTopN(filtered)
	}

	return filtered
}

// filterTopN keeps the N matches with the smallest |Delta|; ties keep the
// earlier match.
func (c *Config) filterTopN(matches []search.Match) []search.Match {
	if len(matches) <= c.TopN {
		return matches
	}

	order := make([]int, len(matches))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return math.Abs(matches[order[i]].Delta) < math.Abs(matches[order[j]].Delta)
	})

	keep := order[:c.TopN]
	sort.Ints(keep)

	top := make([]search.Match, 0, c.TopN)
	for _, idx := range keep {
		top = append(top, matches[idx])
	}
	return top
}

// SortByDelta sorts matches by closeness to the target, keeping search
// order among equal deltas
func SortByDelta(matches []search.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return math.Abs(matches[i].Delta) < math.Abs(matches[j].Delta)
	})
}
