package similarity

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "simple words",
			input: "hello world",
			want:  []string{"hello", "world"},
		},
		{
			name:  "with punctuation",
			input: "hello, world!",
			want:  []string{"hello", "world"},
		},
		{
			name:  "with underscores",
			input: "hello_world foo_bar",
			want:  []string{"hello_world", "foo_bar"},
		},
		{
			name:  "with numbers",
			input: "test123 foo456",
			want:  []string{"test123", "foo456"},
		},
		{
			name:  "case preserved",
			input: "Horror horror",
			want:  []string{"Horror", "horror"},
		},
		{
			name:  "hyphen splits",
			input: "state-of-the-art",
			want:  []string{"state", "of", "the", "art"},
		},
		{
			name:  "unicode letters",
			input: "héllo wörld",
			want:  []string{"héllo", "wörld"},
		},
		{
			name:  "empty string",
			input: "",
			want:  []string{},
		},
		{
			name:  "only punctuation",
			input: "!@#$%",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCountTokens(t *testing.T) {
	got := CountTokens("cosine sim sim, Sim")
	want := TokenFrequency{"cosine": 1, "sim": 2, "Sim": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CountTokens() = %v, want %v", got, want)
	}

	empty := CountTokens("  ...  ")
	if len(empty) != 0 {
		t.Errorf("expected no tokens, got %v", empty)
	}
	for tok, c := range CountTokens("a b a c a") {
		if c < 1 {
			t.Errorf("token %q stored with count %d", tok, c)
		}
	}
}

func TestTokenFrequency_Magnitude(t *testing.T) {
	// sqrt(1 + 4) for {cosine:1, sim:2}
	got := CountTokens("cosine sim sim").Magnitude()
	if !almostEqual(got, 2.23606797749979) {
		t.Errorf("Magnitude() = %v, want sqrt(5)", got)
	}
	if m := CountTokens("").Magnitude(); m != 0 {
		t.Errorf("empty Magnitude() = %v, want 0", m)
	}
}
