package runes_test

import (
	"testing"

	"github.com/brunokim/l0/runes"
)

func TestFirst(t *testing.T) {
	if r, ok := runes.First("Água"); !ok || r != 'Á' {
		t.Errorf("First(Água) = %q, %v", r, ok)
	}
	if _, ok := runes.First(""); ok {
		t.Errorf("First(\"\") = _, true")
	}
}

func TestSingle(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"a", true},
		{"ç", true},
		{"ab", false},
		{"", false},
	}
	for _, test := range tests {
		if _, ok := runes.Single(test.s); ok != test.want {
			t.Errorf("Single(%q) = _, %v, want %v", test.s, ok, test.want)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		s       string
		want    string
		wantErr bool
	}{
		{`'a'`, "a", false},
		{`'hello world'`, "hello world", false},
		{`'it\'s'`, "it's", false},
		{`"line\nbreak"`, "line\nbreak", false},
		{`''`, "", false},
		{`'a\q'`, "", true},
		{`'a`, "", true},
		{`a`, "", true},
	}
	for _, test := range tests {
		got, err := runes.Unquote(test.s)
		if (err != nil) != test.wantErr {
			t.Errorf("Unquote(%q): got err %v, want err? %v", test.s, err, test.wantErr)
			continue
		}
		if got != test.want {
			t.Errorf("Unquote(%q) = %q, want %q", test.s, got, test.want)
		}
	}
}
