// Package dsl has short constructors for logic terms, to write them in Go
// close to how they would be written in text.
//
//	Comp("p", Var("Z"), Comp("h", Var("Z"), Var("W")), Comp("f", Var("W")))
package dsl

import (
	"github.com/brunokim/l0/logic"
)

// Terms returns its args as a slice.
func Terms(terms ...logic.Term) []logic.Term {
	return terms
}

// Atom returns an atom.
func Atom(name string) logic.Atom {
	return logic.Atom{Name: name}
}

// Var returns a var. It panics if name is not a valid var name.
func Var(name string) logic.Var {
	return logic.NewVar(name)
}

// Comp returns a compound term. Prefer Atom for terms without args.
func Comp(functor string, args ...logic.Term) *logic.Comp {
	return logic.NewComp(functor, args...)
}
