// Package runes contains some generally useful operations on runes.
package runes

import (
	"strings"
	"unicode/utf8"

	"github.com/brunokim/l0/errors"
)

// First returns the first rune of s. If the string is empty or not proper UTF-8, returns false.
func First(s string) (rune, bool) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size < 2 {
		return 0, false
	}
	return r, true
}

// Single returns the single rune of s. If the string doesn't have exactly one rune, returns
// false.
func Single(s string) (rune, bool) {
	r, size := utf8.DecodeRuneInString(s)
	return r, size > 0 && size == len(s)
}

var unescapes = map[rune]rune{
	'n':  '\n',
	't':  '\t',
	'v':  '\v',
	'f':  '\f',
	'r':  '\r',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
}

// Unquote removes the delimiters of a single- or double-quoted text and resolves
// its backslash escapes.
func Unquote(s string) (string, error) {
	n := len(s)
	if n < 2 || s[0] != s[n-1] || (s[0] != '\'' && s[0] != '"') {
		return "", errors.New(errors.Syntax, "not a quoted text: %q", s)
	}
	var b strings.Builder
	escaped := false
	for _, ch := range s[1 : n-1] {
		if !escaped && ch == '\\' {
			escaped = true
			continue
		}
		if escaped {
			un, ok := unescapes[ch]
			if !ok {
				return "", errors.New(errors.Syntax, "invalid escape \\%c in %q", ch, s)
			}
			ch = un
			escaped = false
		}
		b.WriteRune(ch)
	}
	if escaped {
		return "", errors.New(errors.Syntax, "unterminated escape in %q", s)
	}
	return b.String(), nil
}
