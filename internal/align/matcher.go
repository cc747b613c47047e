package align

import "sort"

// Match is a run of Size equal tokens starting at A in the first sequence
// and at B in the second.
type Match struct {
	A, B, Size int
}

// autojunkMinLength is the second-sequence length from which very frequent
// tokens are excluded from match seeding.
const autojunkMinLength = 200

type matcher struct {
	a, b []string
	b2j  map[string][]int
}

func newMatcher(a, b []string) *matcher {
	m := &matcher{a: a, b: b, b2j: make(map[string][]int)}
	for j, tok := range b {
		m.b2j[tok] = append(m.b2j[tok], j)
	}
	if n := len(b); n >= autojunkMinLength {
		limit := n/100 + 1
		for tok, positions := range m.b2j {
			if len(positions) > limit {
				delete(m.b2j, tok)
			}
		}
	}
	return m
}

// longest finds the longest run of equal tokens in a[alo:ahi] and
// b[blo:bhi], preferring the earliest start in a, then in b.
func (m *matcher) longest(alo, ahi, blo, bhi int) Match {
	besti, bestj, bestSize := alo, blo, 0
	j2len := map[int]int{}
	for i := alo; i < ahi; i++ {
		next := map[int]int{}
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestSize {
				besti, bestj, bestSize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	// Popular tokens were excluded from seeding but may still extend a run.
	for besti > alo && bestj > blo && m.a[besti-1] == m.b[bestj-1] {
		besti, bestj, bestSize = besti-1, bestj-1, bestSize+1
	}
	for besti+bestSize < ahi && bestj+bestSize < bhi && m.a[besti+bestSize] == m.b[bestj+bestSize] {
		bestSize++
	}
	return Match{A: besti, B: bestj, Size: bestSize}
}

// MatchingBlocks returns the non-overlapping matching runs between a and b
// in increasing order, found by recursively taking the longest match and
// repeating on either side of it. Adjacent runs are coalesced.
func MatchingBlocks(a, b []string) []Match {
	m := newMatcher(a, b)
	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(a), 0, len(b)}}
	var blocks []Match
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		match := m.longest(s.alo, s.ahi, s.blo, s.bhi)
		if match.Size == 0 {
			continue
		}
		blocks = append(blocks, match)
		if s.alo < match.A && s.blo < match.B {
			queue = append(queue, span{s.alo, match.A, s.blo, match.B})
		}
		if match.A+match.Size < s.ahi && match.B+match.Size < s.bhi {
			queue = append(queue, span{match.A + match.Size, s.ahi, match.B + match.Size, s.bhi})
		}
	}
	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].A != blocks[j].A {
			return blocks[i].A < blocks[j].A
		}
		return blocks[i].B < blocks[j].B
	})
	coalesced := make([]Match, 0, len(blocks))
	for _, block := range blocks {
		if n := len(coalesced); n > 0 {
			last := &coalesced[n-1]
			if last.A+last.Size == block.A && last.B+last.Size == block.B {
				last.Size += block.Size
				continue
			}
		}
		coalesced = append(coalesced, block)
	}
	return coalesced
}
