package engine

import "strings"

// Similarity computes a symmetric [0,1] similarity between two intent
// strings. Empty strings score 0; case-insensitive trimmed equality scores
// 1. Otherwise it is a longest-matching-blocks character ratio — deliberately
// simple, adequate at session-count scale without embeddings.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	ca := strings.ToLower(strings.TrimSpace(a))
	cb := strings.ToLower(strings.TrimSpace(b))
	if ca == cb {
		return 1
	}
	ra, rb := []rune(ca), []rune(cb)
	if len(ra)+len(rb) == 0 {
		return 0
	}
	return 2 * float64(matchingTotal(ra, rb)) / float64(len(ra)+len(rb))
}

// matchingTotal sums the sizes of all matching blocks between a and b: find
// the longest common block, then recurse into the unmatched regions on each
// side of it.
func matchingTotal(a, b []rune) int {
	b2j := make(map[rune][]int, len(b))
	for j, c := range b {
		b2j[c] = append(b2j[c], j)
	}

	type region struct{ alo, ahi, blo, bhi int }
	stack := []region{{0, len(a), 0, len(b)}}
	total := 0

	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		i, j, size := longestMatch(a, b2j, r.alo, r.ahi, r.blo, r.bhi)
		if size == 0 {
			continue
		}
		total += size
		stack = append(stack,
			region{r.alo, i, r.blo, j},
			region{i + size, r.ahi, j + size, r.bhi},
		)
	}

	return total
}

// longestMatch finds the longest block where a[i:i+size] == b[j:j+size]
// within the given bounds. Among equally long blocks the earliest in a (then
// b) wins, keeping results deterministic.
func longestMatch(a []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo
	j2len := make(map[int]int)

	for i := alo; i < ahi; i++ {
		next := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}

	return besti, bestj, bestsize
}
