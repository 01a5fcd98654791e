package similarity

import "sort"

// autoJunkMinLen is the length of the second sequence from which frequently
// occurring runes stop being used as match anchors.
const autoJunkMinLen = 200

// Block is a matching block: a[A:A+Size] == b[B:B+Size].
type Block struct {
	A    int
	B    int
	Size int
}

// SequenceMatcher finds matching blocks between two strings using
// Ratcliff/Obershelp alignment: the longest common contiguous run is taken
// first, then the unmatched regions on either side are searched recursively.
//
// Positions are rune offsets. A SequenceMatcher is not safe for concurrent use.
type SequenceMatcher struct {
	a, b []rune

	// b2j maps each anchor rune of b to its ascending positions in b.
	// Popular runes are absent when b is long enough for autojunk.
	b2j map[rune][]int

	// Scratch rows for findLongestMatch, indexed by j+1.
	row, next []int

	blocks []Block
}

// NewSequenceMatcher prepares a matcher comparing a against b.
func NewSequenceMatcher(a, b string) *SequenceMatcher {
	m := &SequenceMatcher{
		a: []rune(a),
		b: []rune(b),
	}
	m.chainB()
	return m
}

func (m *SequenceMatcher) chainB() {
	b2j := make(map[rune][]int)
	for j, r := range m.b {
		b2j[r] = append(b2j[r], j)
	}

	n := len(m.b)
	if n >= autoJunkMinLen {
		limit := n/100 + 1
		for r, positions := range b2j {
			if len(positions) > limit {
				delete(b2j, r)
			}
		}
	}

	m.b2j = b2j
	m.row = make([]int, n+1)
	m.next = make([]int, n+1)
}

// findLongestMatch returns the longest block within a[alo:ahi] and b[blo:bhi].
// Among equally long blocks it returns the one starting earliest in a, and of
// those the one starting earliest in b. A zero Size means no match.
func (m *SequenceMatcher) findLongestMatch(alo, ahi, blo, bhi int) Block {
	besti, bestj, bestsize := alo, blo, 0

	row, next := m.row, m.next
	var touched, nextTouched []int
	for i := alo; i < ahi; i++ {
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := row[j] + 1
			next[j+1] = k
			nextTouched = append(nextTouched, j+1)
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		for _, t := range touched {
			row[t] = 0
		}
		row, next = next, row
		touched, nextTouched = nextTouched, touched[:0]
	}
	for _, t := range touched {
		row[t] = 0
	}

	// Popular runes never anchor a match but may still extend one.
	for besti > alo && bestj > blo && m.a[besti-1] == m.b[bestj-1] {
		besti--
		bestj--
		bestsize++
	}
	for besti+bestsize < ahi && bestj+bestsize < bhi && m.a[besti+bestsize] == m.b[bestj+bestsize] {
		bestsize++
	}

	return Block{A: besti, B: bestj, Size: bestsize}
}

// MatchingBlocks returns the non-overlapping matching blocks in increasing
// order of position. Adjacent blocks are merged. Zero-length blocks are never
// returned, so the result is empty when nothing matches.
func (m *SequenceMatcher) MatchingBlocks() []Block {
	if m.blocks != nil {
		return m.blocks
	}

	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(m.a), 0, len(m.b)}}
	var found []Block
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		blk := m.findLongestMatch(s.alo, s.ahi, s.blo, s.bhi)
		if blk.Size == 0 {
			continue
		}
		found = append(found, blk)
		if s.alo < blk.A && s.blo < blk.B {
			queue = append(queue, span{s.alo, blk.A, s.blo, blk.B})
		}
		if blk.A+blk.Size < s.ahi && blk.B+blk.Size < s.bhi {
			queue = append(queue, span{blk.A + blk.Size, s.ahi, blk.B + blk.Size, s.bhi})
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].A != found[j].A {
			return found[i].A < found[j].A
		}
		return found[i].B < found[j].B
	})

	blocks := make([]Block, 0, len(found))
	for _, blk := range found {
		if n := len(blocks); n > 0 {
			last := &blocks[n-1]
			if last.A+last.Size == blk.A && last.B+last.Size == blk.B {
				last.Size += blk.Size
				continue
			}
		}
		blocks = append(blocks, blk)
	}

	m.blocks = blocks
	return blocks
}

// Ratio returns 2*M/T where M is the number of matched runes and T the total
// rune count of both strings. Two empty strings have a ratio of 1.
func (m *SequenceMatcher) Ratio() float64 {
	total := len(m.a) + len(m.b)
	if total == 0 {
		return 1.0
	}

	matches := 0
	for _, blk := range m.MatchingBlocks() {
		matches += blk.Size
	}
	return 2.0 * float64(matches) / float64(total)
}

// Ratio computes the sequence ratio of base against query.
// Identical strings score 1, strings with no rune in common score 0, and a
// single empty string scores 0.
func Ratio(base, query string) float64 {
	return NewSequenceMatcher(base, query).Ratio()
}

// RatioMatch reports whether Ratio(base, query) reaches threshold.
// The boundary is inclusive.
func RatioMatch(base, query string, threshold float64) bool {
	return MeetsThreshold(Ratio(base, query), threshold)
}
