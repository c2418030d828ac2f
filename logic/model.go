// Package logic implements the terms consumed by the abstract machine compiler.
//
// A logic term falls in one of three categories:
//
// * atom: a bare name, equivalent to a structure with no arguments.
//
// * variable: a name standing for a yet-unknown term. Two occurrences of the
// same name within a compiled term denote the same variable.
//
// * compound: a functor name applied to one or more argument terms.
//
// Terms are immutable trees; sharing a subterm between positions is allowed,
// but cycles are not.
package logic

import (
	"fmt"
	"strings"
)

// ---- Basic types

// Term is a representation of a logic term.
type Term interface {
	fmt.Stringer
	vars(seen map[Var]struct{}, xs []Var) []Var
	hasVar() bool
}

// Atom is an atomic term representing a symbol.
type Atom struct {
	// Name is the identifier for an atom.
	Name string
}

// Var is a variable term.
type Var struct {
	// Name is the identifier for a var.
	Name string
}

// Comp is a compound term, a functor applied to a list of args.
type Comp struct {
	// Functor is the primary identifier of a comp.
	Functor string
	// Args is the list of terms within this term.
	Args    []Term
	hasVar_ bool
}

// Indicator is a notation for a comp, usually shown as functor/arity, e.g., f/2.
type Indicator struct {
	// Name is the compound term's functor.
	Name string
	// Arity is the compound term's number of args.
	Arity int
}

func (i Indicator) String() string {
	return fmt.Sprintf("%s/%d", i.Name, i.Arity)
}

// ---- Constructors

// NewVar creates a new var.
//
// It panics if the name doesn't start with an uppercase letter or an underscore.
func NewVar(name string) Var {
	if !IsVar(name) {
		panic(fmt.Sprintf("NewVar: invalid name: %q", name))
	}
	return Var{name}
}

// NewComp creates a compound term.
//
// A compound term without args is equivalent to an atom; callers that want the
// canonical form should use NewTerm.
func NewComp(functor string, args ...Term) *Comp {
	var hasVar bool
	for _, arg := range args {
		if arg.hasVar() {
			hasVar = true
			break
		}
	}
	return &Comp{Functor: functor, Args: args, hasVar_: hasVar}
}

// NewTerm returns an Atom if there are no args, or a Comp otherwise.
func NewTerm(functor string, args ...Term) Term {
	if len(args) == 0 {
		return Atom{functor}
	}
	return NewComp(functor, args...)
}

// Indicator returns the functor's indicator.
func (c *Comp) Indicator() Indicator {
	return Indicator{c.Functor, len(c.Args)}
}

// ---- Vars()

// Vars returns a set with all term variables, in insertion order.
func Vars(term Term) []Var {
	if !term.hasVar() {
		return nil
	}
	return term.vars(make(map[Var]struct{}), nil)
}

func (t Atom) vars(seen map[Var]struct{}, xs []Var) []Var { return xs }

func (t Var) vars(seen map[Var]struct{}, xs []Var) []Var {
	if _, ok := seen[t]; ok {
		return xs
	}
	seen[t] = struct{}{}
	return append(xs, t)
}

func (t *Comp) vars(seen map[Var]struct{}, xs []Var) []Var {
	if !t.hasVar_ {
		return xs
	}
	for _, arg := range t.Args {
		xs = arg.vars(seen, xs)
	}
	return xs
}

func (t Atom) hasVar() bool  { return false }
func (t Var) hasVar() bool   { return true }
func (t *Comp) hasVar() bool { return t.hasVar_ }

// ---- Size metrics

// Depth returns the nesting level of a term. Atoms and vars have depth 0.
func Depth(term Term) int {
	c, ok := term.(*Comp)
	if !ok {
		return 0
	}
	max := 0
	for _, arg := range c.Args {
		if d := Depth(arg); d > max {
			max = d
		}
	}
	return max + 1
}

// Size returns the number of nodes in a term tree.
func Size(term Term) int {
	c, ok := term.(*Comp)
	if !ok {
		return 1
	}
	n := 1
	for _, arg := range c.Args {
		n += Size(arg)
	}
	return n
}

// ---- Comparisons

// Eq returns whether t1 and t2 are identical terms.
//
// Note that this only takes into account the structure of terms, not whether
// any binding may make them identical.
func Eq(t1, t2 Term) bool {
	switch u := t1.(type) {
	case Atom:
		v, ok := t2.(Atom)
		return ok && u == v
	case Var:
		v, ok := t2.(Var)
		return ok && u == v
	case *Comp:
		v, ok := t2.(*Comp)
		if !ok || u.Functor != v.Functor || len(u.Args) != len(v.Args) {
			return false
		}
		for i, arg := range u.Args {
			if !Eq(arg, v.Args[i]) {
				return false
			}
		}
		return true
	default:
		panic(fmt.Sprintf("logic.Eq: unhandled type %T", t1))
	}
}

// ---- String()

func (t Atom) String() string {
	return FormatAtom(t.Name)
}

func (t Var) String() string {
	return t.Name
}

func (t *Comp) String() string {
	args := make([]string, len(t.Args))
	for i, arg := range t.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", FormatAtom(t.Functor), strings.Join(args, ", "))
}
