package core

// AlignDeletionPattern marks which positions of original were dropped to
// leave kept. Both strings are walked from the right: a symbol that matches
// the last unconsumed kept symbol is kept, anything else is marked with
// DeletedMarker. Once kept is exhausted every remaining original position
// is marked dropped.
//
// With repeated symbols the alignment is greedy and right anchored, so
// "AAG" reduced to "AG" yields "*AG" regardless of which A was removed.
func AlignDeletionPattern(original, kept string) string {
	orig := []rune(original)
	keep := []rune(kept)
	pattern := make([]rune, len(orig))

	j := len(keep) - 1
	for i := len(orig) - 1; i >= 0; i-- {
		if j >= 0 && orig[i] == keep[j] {
			pattern[i] = orig[i]
			j--
			continue
		}
		pattern[i] = DeletedMarker
	}
	return string(pattern)
}

// CountDeletions returns the number of dropped positions in a pattern.
func CountDeletions(pattern string) int {
	n := 0
	for _, r := range pattern {
		if r == DeletedMarker {
			n++
		}
	}
	return n
}
