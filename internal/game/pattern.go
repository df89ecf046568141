package game

import "strings"

// Match describes a triple repeat found at the tail of a sequence.
type Match struct {
	// Pattern is the minimal repeating unit, rendered as a string.
	Pattern string
	// StartIndex is the offset of the first of the three copies.
	StartIndex int
}

// DetectTripleRepeat scans the tail of seq for a block of unit length L
// repeated three times back to back. Unit lengths are tried in ascending
// order and the first hit wins; the minimal unit is the one reported, not
// an arbitrary one, so do not reorder this loop.
func DetectTripleRepeat(seq []Symbol) (Match, bool) {
	n := len(seq)

	for unit := 1; unit <= n/3; unit++ {
		tail := seq[n-3*unit:]
		if blocksEqual(tail[:unit], tail[unit:2*unit]) && blocksEqual(tail[unit:2*unit], tail[2*unit:]) {
			return Match{
				Pattern:    joinSymbols(tail[:unit]),
				StartIndex: n - 3*unit,
			}, true
		}
	}

	return Match{}, false
}

func blocksEqual(a, b []Symbol) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func joinSymbols(seq []Symbol) string {
	var sb strings.Builder
	for _, s := range seq {
		sb.WriteString(string(s))
	}
	return sb.String()
}
