package similarity

import (
	"errors"
	"reflect"
	"testing"
)

func TestSearch(t *testing.T) {
	db := []string{"cosine", "similarity", ""}

	tests := []struct {
		name       string
		candidates []string
		query      string
		opts       []SearchOption
		want       []Match
	}{
		{
			name:       "single candidate with score",
			candidates: []string{"cosine"},
			query:      "similarity",
			want:       []Match{{Candidate: "cosine", Score: 0.25, Index: 0}},
		},
		{
			name:       "default returns best match",
			candidates: db,
			query:      "similarity",
			want:       []Match{{Candidate: "similarity", Score: 1.0, Index: 1}},
		},
		{
			name:       "two matches",
			candidates: db,
			query:      "similarity",
			opts:       []SearchOption{WithMatchCount(2)},
			want: []Match{
				{Candidate: "similarity", Score: 1.0, Index: 1},
				{Candidate: "cosine", Score: 0.25, Index: 0},
			},
		},
		{
			name:       "threshold filters partial matches",
			candidates: db,
			query:      "similarity",
			opts:       []SearchOption{WithMatchCount(2), WithThreshold(1)},
			want:       []Match{{Candidate: "similarity", Score: 1.0, Index: 1}},
		},
		{
			name:       "zero threshold keeps zero scores",
			candidates: db,
			query:      "similarity",
			opts:       []SearchOption{WithMatchCount(3)},
			want: []Match{
				{Candidate: "similarity", Score: 1.0, Index: 1},
				{Candidate: "cosine", Score: 0.25, Index: 0},
				{Candidate: "", Score: 0, Index: 2},
			},
		},
		{
			name:       "match count larger than qualifying set",
			candidates: db,
			query:      "similarity",
			opts:       []SearchOption{WithMatchCount(10), WithThreshold(0.2)},
			want: []Match{
				{Candidate: "similarity", Score: 1.0, Index: 1},
				{Candidate: "cosine", Score: 0.25, Index: 0},
			},
		},
		{
			name:       "ties keep input order",
			candidates: []string{"ab", "ba"},
			query:      "a",
			opts:       []SearchOption{WithMatchCount(2)},
			want: []Match{
				{Candidate: "ab", Score: 2.0 / 3.0, Index: 0},
				{Candidate: "ba", Score: 2.0 / 3.0, Index: 1},
			},
		},
		{
			name:       "ties keep input order reversed",
			candidates: []string{"ba", "ab"},
			query:      "a",
			opts:       []SearchOption{WithMatchCount(2)},
			want: []Match{
				{Candidate: "ba", Score: 2.0 / 3.0, Index: 0},
				{Candidate: "ab", Score: 2.0 / 3.0, Index: 1},
			},
		},
		{
			name:       "duplicates ranked independently",
			candidates: []string{"abd", "abc", "abc"},
			query:      "abc",
			opts:       []SearchOption{WithMatchCount(3)},
			want: []Match{
				{Candidate: "abc", Score: 1.0, Index: 1},
				{Candidate: "abc", Score: 1.0, Index: 2},
				{Candidate: "abd", Score: 2.0 / 3.0, Index: 0},
			},
		},
		{
			name:       "nothing qualifies",
			candidates: []string{"xyz"},
			query:      "abc",
			opts:       []SearchOption{WithThreshold(0.5)},
			want:       []Match{},
		},
		{
			name:       "no candidates",
			candidates: nil,
			query:      "abc",
			want:       []Match{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Search(tt.candidates, tt.query, tt.opts...)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Search() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSearchStrings(t *testing.T) {
	got, err := SearchStrings([]string{"cosine", "similarity", ""}, "similarity")
	if err != nil {
		t.Fatalf("SearchStrings() error = %v", err)
	}
	if want := []string{"similarity"}; !reflect.DeepEqual(got, want) {
		t.Errorf("SearchStrings() = %q, want %q", got, want)
	}
}

func TestSearch_InvalidMatchCount(t *testing.T) {
	for _, n := range []int{0, -1} {
		got, err := Search([]string{"a"}, "a", WithMatchCount(n))
		if !errors.Is(err, ErrInvalidMatchCount) {
			t.Errorf("WithMatchCount(%d): error = %v, want ErrInvalidMatchCount", n, err)
		}
		if got != nil {
			t.Errorf("WithMatchCount(%d): expected nil result, got %v", n, got)
		}

		if _, err := SearchStrings([]string{"a"}, "a", WithMatchCount(n)); !errors.Is(err, ErrInvalidMatchCount) {
			t.Errorf("SearchStrings WithMatchCount(%d): error = %v", n, err)
		}
	}
}

func TestSearch_DoesNotMutateCandidates(t *testing.T) {
	candidates := []string{"zzz", "similarity", "cosine"}
	snapshot := append([]string(nil), candidates...)

	if _, err := Search(candidates, "similarity", WithMatchCount(3)); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(candidates, snapshot) {
		t.Errorf("candidates mutated: %q, was %q", candidates, snapshot)
	}
}

func TestCandidates(t *testing.T) {
	got := Candidates([]Match{{Candidate: "b"}, {Candidate: "a"}})
	if want := []string{"b", "a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates() = %q, want %q", got, want)
	}
}
