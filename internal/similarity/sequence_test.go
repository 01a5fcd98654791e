package similarity

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		query string
		want  float64
	}{
		{"both empty", "", "", 1.0},
		{"base empty", "", "x", 0.0},
		{"query empty", "x", "", 0.0},
		{"identical", "similarity", "similarity", 1.0},
		{"disjoint", "abc", "xyz", 0.0},
		{"shared run", "cosine", "similarity", 0.25},
		{"shifted", "abcd", "bcde", 0.75},
		{"split blocks", "abxcd", "abcd", 8.0 / 9.0},
		{"reversed keeps one block", "abcd", "dcba", 0.25},
		{"prefix inside longer", " abcd", "abcd abcd", 10.0 / 14.0},
		{"whitespace counts", "a b", "ab", 0.8},
		{"multibyte runes", "héllo", "hello", 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.base, tt.query)
			if !almostEqual(got, tt.want) {
				t.Errorf("Ratio(%q, %q) = %v, want %v", tt.base, tt.query, got, tt.want)
			}
		})
	}
}

func TestRatio_ExactValues(t *testing.T) {
	if got := Ratio("", ""); got != 1.0 {
		t.Errorf("Ratio(\"\", \"\") = %v, want exactly 1", got)
	}
	if got := Ratio("x", ""); got != 0.0 {
		t.Errorf("Ratio(\"x\", \"\") = %v, want exactly 0", got)
	}
	if got := Ratio("cosine", "similarity"); got != 0.25 {
		t.Errorf("Ratio(cosine, similarity) = %v, want exactly 0.25", got)
	}
}

func TestRatio_Deterministic(t *testing.T) {
	first := Ratio("private Thread currentThread;", "private volatile Thread currentThread;")
	for i := 0; i < 10; i++ {
		if got := Ratio("private Thread currentThread;", "private volatile Thread currentThread;"); got != first {
			t.Fatalf("run %d: %v != %v", i, got, first)
		}
	}
}

func TestMatchingBlocks(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want []Block
	}{
		{
			name: "two blocks",
			a:    "abxcd",
			b:    "abcd",
			want: []Block{{A: 0, B: 0, Size: 2}, {A: 3, B: 2, Size: 2}},
		},
		{
			name: "earliest longest match wins",
			a:    " abcd",
			b:    "abcd abcd",
			want: []Block{{A: 0, B: 4, Size: 5}},
		},
		{
			name: "no match",
			a:    "abc",
			b:    "xyz",
			want: []Block{},
		},
		{
			name: "rune offsets",
			a:    "ñab",
			b:    "ab",
			want: []Block{{A: 1, B: 0, Size: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewSequenceMatcher(tt.a, tt.b).MatchingBlocks()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MatchingBlocks() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMatchingBlocks_NonOverlapping(t *testing.T) {
	m := NewSequenceMatcher("the quick brown fox jumps", "a quick brown dog jumps high")
	blocks := m.MatchingBlocks()
	for i := 1; i < len(blocks); i++ {
		prev, cur := blocks[i-1], blocks[i]
		if prev.A+prev.Size > cur.A || prev.B+prev.Size > cur.B {
			t.Errorf("blocks overlap or are out of order: %+v then %+v", prev, cur)
		}
	}
	for _, blk := range blocks {
		if blk.Size == 0 {
			t.Errorf("zero-length block returned: %+v", blk)
		}
	}
}

func TestRatio_AutoJunk(t *testing.T) {
	long := strings.Repeat("a", 200)

	// 'a' is popular in a 200-rune query, so it cannot anchor a match; the
	// single-rune match is only found by extension.
	if got, want := Ratio("a", long), 2.0/201.0; !almostEqual(got, want) {
		t.Errorf("Ratio(a, a*200) = %v, want %v", got, want)
	}

	// Extension still covers the whole string when both sides are identical.
	if got := Ratio(long, long); got != 1.0 {
		t.Errorf("Ratio(a*200, a*200) = %v, want 1", got)
	}

	// Below the autojunk length every rune anchors.
	short := strings.Repeat("a", 199)
	if got, want := Ratio(short[:100], short), 200.0/299.0; !almostEqual(got, want) {
		t.Errorf("Ratio(a*100, a*199) = %v, want %v", got, want)
	}
}

func TestRatio_AgreesWithDifflib(t *testing.T) {
	pairs := [][2]string{
		{"cosine", "similarity"},
		{"abxcd", "abcd"},
		{"I love horror movies", "Lights out is a horror movie"},
		{"private Thread currentThread;", "private volatile Thread currentThread;"},
		{"the quick brown fox jumps over the lazy dog", "the lazy dog jumps over the quick brown fox"},
		{"kitten", "sitting"},
		{"", "abc"},
		{
			strings.Repeat("lorem ipsum dolor sit amet ", 10),
			strings.Repeat("dolor sit amet lorem ipsum ", 9) + "consectetur",
		},
	}

	for _, p := range pairs {
		want := difflib.NewMatcher(splitRunes(p[0]), splitRunes(p[1])).Ratio()
		got := Ratio(p[0], p[1])
		if got != want {
			t.Errorf("Ratio(%.20q, %.20q) = %v, difflib = %v", p[0], p[1], got, want)
		}
	}
}

func TestRatioMatch(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		want      bool
	}{
		{"below score", 0.2, true},
		{"exactly at score", 0.25, true},
		{"above score", 0.3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RatioMatch("cosine", "similarity", tt.threshold); got != tt.want {
				t.Errorf("RatioMatch(threshold=%v) = %v, want %v", tt.threshold, got, tt.want)
			}
		})
	}
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
