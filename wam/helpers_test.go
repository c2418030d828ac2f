package wam_test

import (
	"testing"

	"github.com/brunokim/l0/dsl"
	"github.com/brunokim/l0/logic"
	"github.com/brunokim/l0/symbol"
	"github.com/brunokim/l0/wam"
)

type (
	reg = wam.RegAddr

	put_structure  = wam.PutStructure
	set_variable   = wam.SetVariable
	set_value      = wam.SetValue
	get_structure  = wam.GetStructure
	unify_variable = wam.UnifyVariable
	unify_value    = wam.UnifyValue
)

var (
	atom = dsl.Atom
	var_ = dsl.Var
	comp = dsl.Comp
)

// functor interns name into symbols.
func functor(t *testing.T, symbols *symbol.Pool, name string, arity int) wam.Functor {
	t.Helper()
	id, err := symbols.Intern(name)
	if err != nil {
		t.Fatalf("Intern(%q): %v", name, err)
	}
	return wam.Functor{Name: id, Arity: arity}
}

func listing(t *testing.T, code []wam.Instruction, symbols *symbol.Pool) []string {
	t.Helper()
	lines, err := wam.FormatCode(code, symbols)
	if err != nil {
		t.Fatalf("FormatCode: %v", err)
	}
	return lines
}

func compileQuery(t *testing.T, c *wam.Compiler, term logic.Term) []wam.Instruction {
	t.Helper()
	code, err := c.CompileQuery(term)
	if err != nil {
		t.Fatalf("CompileQuery(%v): %v", term, err)
	}
	return code
}

func compileProgram(t *testing.T, c *wam.Compiler, term logic.Term) []wam.Instruction {
	t.Helper()
	code, err := c.CompileProgram(term)
	if err != nil {
		t.Fatalf("CompileProgram(%v): %v", term, err)
	}
	return code
}

// wideComp returns f(X0, X1, ..., X{n-1}).
func wideComp(n int) *logic.Comp {
	args := make([]logic.Term, n)
	for i := range args {
		args[i] = var_(varName(i))
	}
	return comp("f", args...)
}

// deepComp returns f(f(...f(a)...)) with n functors.
func deepComp(n int) logic.Term {
	var term logic.Term = atom("a")
	for i := 0; i < n; i++ {
		term = comp("f", term)
	}
	return term
}

func varName(i int) string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	name := string(letters[i%len(letters)])
	for i /= len(letters); i > 0; i /= len(letters) {
		name += string(letters[i%len(letters)])
	}
	return name
}
