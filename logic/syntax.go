package logic

import (
	"strings"
	"unicode"

	"github.com/brunokim/l0/runes"
)

func isIdent(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

func isIdents(text string) bool {
	for _, ch := range text {
		if !isIdent(ch) {
			return false
		}
	}
	return true
}

func isVarFirst(ch rune) bool {
	return ch == '_' || unicode.IsUpper(ch)
}

const symbolChars = `+-*/\^<>=~:.?@#&$`

func isSymbols(text string) bool {
	for _, ch := range text {
		if !strings.ContainsRune(symbolChars, ch) {
			return false
		}
	}
	return true
}

// IsVar returns whether text is a valid variable name.
func IsVar(text string) bool {
	ch, ok := runes.First(text)
	if !ok || !isVarFirst(ch) {
		return false
	}
	return isIdents(text)
}

// IsQuotedAtom returns whether an atom named text must be quoted to be read back.
func IsQuotedAtom(text string) bool {
	ch, ok := runes.First(text)
	if !ok {
		return true
	}
	if isSymbols(text) {
		return false
	}
	if isVarFirst(ch) || unicode.IsDigit(ch) {
		return true
	}
	return !isIdents(text)
}

var escapeChars = map[rune]string{
	'\n': `\n`,
	'\t': `\t`,
	'\v': `\v`,
	'\f': `\f`,
	'\r': `\r`,
	'\'': `\'`,
	'\\': `\\`,
}

// FormatAtom returns the text of an atom, quoted if necessary.
func FormatAtom(text string) string {
	if !IsQuotedAtom(text) {
		return text
	}
	var b strings.Builder
	b.WriteRune('\'')
	for _, ch := range text {
		if exp, ok := escapeChars[ch]; ok {
			b.WriteString(exp)
		} else {
			b.WriteRune(ch)
		}
	}
	b.WriteRune('\'')
	return b.String()
}
