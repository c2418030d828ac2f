package fuzz

import (
	"strings"
	"unicode"

	"github.com/brunokim/l0/logic"
	"github.com/brunokim/l0/parser"
	"github.com/brunokim/l0/wam"
)

// listable returns whether every name survives a listing round trip.
func listable(names []string) bool {
	for _, name := range names {
		if strings.ContainsAny(name, "\n\r") || strings.TrimLeftFunc(name, unicode.IsSpace) != name {
			return false
		}
	}
	return true
}

// Fuzz parses data as a term, and checks that its text form reads back to the
// same term, and that its query and program listings read back to the same
// instructions.
func Fuzz(data []byte) int {
	term, err := parser.ParseTerm(string(data))
	if err != nil {
		return 0
	}
	reread, err := parser.ParseTerm(term.String())
	if err != nil {
		panic(err)
	}
	if !logic.Eq(term, reread) {
		panic(term.String())
	}
	c := wam.NewCompiler()
	query, err := c.CompileQuery(term)
	if err != nil {
		return 0
	}
	program, err := c.CompileProgram(term)
	if err != nil {
		return 0
	}
	if !listable(c.Symbols().Symbols()) {
		return 1
	}
	for _, code := range [][]wam.Instruction{query, program} {
		text, err := wam.Listing(code, c.Symbols())
		if err != nil {
			panic(err)
		}
		decoded, err := wam.ParseListing(text, c.Symbols())
		if err != nil {
			panic(err)
		}
		if len(decoded) != len(code) {
			panic(text)
		}
		for i := range code {
			if decoded[i] != code[i] {
				panic(text)
			}
		}
	}
	return 1
}
