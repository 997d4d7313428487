package scoring

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Paris  ", "paris"},
		{"SEINE", "seine"},
		{"", ""},
		{"  ", ""},
		{"already lower", "already lower"},
	}

	for _, tc := range tests {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "splits on whitespace runs", in: "the  quick\tbrown\nfox", want: []string{"the", "quick", "brown", "fox"}},
		{name: "strips edge punctuation", in: `"Hello," she said.`, want: []string{"hello", "she", "said"}},
		{name: "keeps interior apostrophes", in: "don't stop", want: []string{"don't", "stop"}},
		{name: "drops punctuation-only tokens", in: "yes ... no", want: []string{"yes", "no"}},
		{name: "empty input", in: "   ", want: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Tokenize(tc.in); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Tokenize(%q): expected %v, got %v", tc.in, tc.want, got)
			}
		})
	}
}

func TestWordCount(t *testing.T) {
	if got := WordCount("one two three"); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := WordCount("   "); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}
