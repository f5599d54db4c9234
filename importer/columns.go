package importer

import "strings"

const fuzzyAcceptConfidence = 0.8

// normalizeHeader drops a UTF-8 BOM, case, spaces, underscores and ampersands
func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "&", "", "-", "").Replace(s)
}

func getColumnIndex(headers []string, columnName string) int {
	want := normalizeHeader(columnName)
	for i, h := range headers {
		if normalizeHeader(h) == want {
			return i
		}
	}
	return -1
}

// findBestColumnMatch picks the unclaimed header closest to any of the
// wanted names, accepting it only at fuzzyAcceptConfidence or better.
func findBestColumnMatch(wanted []string, headers []string, claimed map[int]bool) int {
	best, bestConfidence := -1, 0.0
	for i, h := range headers {
		source := normalizeHeader(h)
		if source == "" || claimed[i] {
			continue
		}
		for _, name := range wanted {
			dest := normalizeHeader(name)
			if len(dest) < 3 {
				// single letters and "#" only match exactly
				continue
			}
			distance := levenshteinDistance(source, dest)
			confidence := 1.0 - float64(distance)/float64(max(len(source), len(dest)))
			if confidence > bestConfidence {
				best, bestConfidence = i, confidence
			}
		}
	}
	if bestConfidence < fuzzyAcceptConfidence {
		return -1
	}
	return best
}

func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(s2)]
}
