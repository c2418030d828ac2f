package wam_test

import (
	"testing"

	"github.com/brunokim/l0/errors"
	"github.com/brunokim/l0/logic"
	"github.com/brunokim/l0/symbol"
	"github.com/brunokim/l0/wam"

	"github.com/google/go-cmp/cmp"
)

func TestCompileQuery(t *testing.T) {
	tests := []struct {
		term logic.Term
		want []string
	}{
		{
			atom("a"),
			[]string{"put_structure a/0, X1"},
		},
		{
			var_("X"),
			[]string{"set_variable X1"},
		},
		{
			comp("f", atom("a")),
			[]string{
				"put_structure a/0, X2",
				"put_structure f/1, X1",
				"set_value X2",
			},
		},
		{
			comp("f", var_("X"), var_("X")),
			[]string{
				"put_structure f/2, X1",
				"set_variable X2",
				"set_value X2",
			},
		},
		{
			// X is first used inside g, which is built before f.
			comp("f", var_("X"), comp("g", var_("X"))),
			[]string{
				"put_structure g/1, X3",
				"set_variable X2",
				"put_structure f/2, X1",
				"set_value X2",
				"set_value X3",
			},
		},
		{
			comp("p", var_("Z"), comp("h", var_("Z"), var_("W")), comp("f", var_("W"))),
			[]string{
				"put_structure h/2, X3",
				"set_variable X2",
				"set_variable X5",
				"put_structure f/1, X4",
				"set_value X5",
				"put_structure p/3, X1",
				"set_value X2",
				"set_value X3",
				"set_value X4",
			},
		},
		{
			// Registers are never reused across siblings.
			comp("p", comp("f", comp("g", atom("a"))), comp("h", atom("b"))),
			[]string{
				"put_structure a/0, X5",
				"put_structure g/1, X4",
				"set_value X5",
				"put_structure f/1, X2",
				"set_value X4",
				"put_structure b/0, X6",
				"put_structure h/1, X3",
				"set_value X6",
				"put_structure p/2, X1",
				"set_value X2",
				"set_value X3",
			},
		},
		{
			// Identical subterms are compiled independently.
			comp("p", atom("a"), atom("a")),
			[]string{
				"put_structure a/0, X2",
				"put_structure a/0, X3",
				"put_structure p/2, X1",
				"set_value X2",
				"set_value X3",
			},
		},
	}
	for _, test := range tests {
		c := wam.NewCompiler()
		code := compileQuery(t, c, test.term)
		got := listing(t, code, c.Symbols())
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("CompileQuery(%v): (-want, +got)\n%s", test.term, diff)
		}
	}
}

func TestCompileQuery_Instructions(t *testing.T) {
	pool := symbol.NewPool()
	h := functor(t, pool, "h", 2)
	f := functor(t, pool, "f", 1)
	p := functor(t, pool, "p", 3)
	want := []wam.Instruction{
		put_structure{h, reg(2)},
		set_variable{reg(1)},
		set_variable{reg(4)},
		put_structure{f, reg(3)},
		set_value{reg(4)},
		put_structure{p, reg(0)},
		set_value{reg(1)},
		set_value{reg(2)},
		set_value{reg(3)},
	}
	c := wam.NewCompilerWithPool(pool)
	got := compileQuery(t, c, comp("p", var_("Z"), comp("h", var_("Z"), var_("W")), comp("f", var_("W"))))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want, +got)\n%s", diff)
	}
}

func TestCompileProgram(t *testing.T) {
	tests := []struct {
		term logic.Term
		want []string
	}{
		{
			atom("a"),
			[]string{"get_structure a/0, X1"},
		},
		{
			var_("X"),
			[]string{"unify_variable X1"},
		},
		{
			comp("f", var_("X"), var_("X")),
			[]string{
				"get_structure f/2, X1",
				"unify_variable X2",
				"unify_value X2",
			},
		},
		{
			comp("p", comp("f", var_("X")), comp("h", var_("Y"), comp("f", atom("a"))), var_("Y")),
			[]string{
				"get_structure p/3, X1",
				"unify_variable X2",
				"unify_variable X3",
				"unify_variable X4",
				"get_structure f/1, X2",
				"unify_variable X5",
				"get_structure h/2, X3",
				"unify_value X4",
				"unify_variable X6",
				"get_structure f/1, X6",
				"unify_variable X7",
				"get_structure a/0, X7",
			},
		},
	}
	for _, test := range tests {
		c := wam.NewCompiler()
		code := compileProgram(t, c, test.term)
		got := listing(t, code, c.Symbols())
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("CompileProgram(%v): (-want, +got)\n%s", test.term, diff)
		}
	}
}

func TestCompilerVars(t *testing.T) {
	tests := []struct {
		term logic.Term
		want []string
	}{
		{atom("a"), nil},
		{var_("X"), []string{"X=X1"}},
		{
			comp("p", var_("Z"), comp("h", var_("Z"), var_("W")), comp("f", var_("W"))),
			[]string{"Z=X2", "W=X5"},
		},
	}
	for _, test := range tests {
		c := wam.NewCompiler()
		compileQuery(t, c, test.term)
		var got []string
		for _, x := range c.Vars() {
			got = append(got, x.String())
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Vars() of %v: (-want, +got)\n%s", test.term, diff)
		}
	}
}

func TestCompile_Deterministic(t *testing.T) {
	term := comp("p", var_("Z"), comp("h", var_("Z"), var_("W")), comp("f", var_("W")))
	c := wam.NewCompiler()
	first := compileQuery(t, c, term)
	compileQuery(t, c, comp("other", var_("W"), var_("Z"), atom("h")))
	second := compileQuery(t, c, term)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("recompiling with the same compiler: (-first, +second)\n%s", diff)
	}
	if n := c.NumRegisters(); n != 5 {
		t.Errorf("NumRegisters() = %d, want 5", n)
	}
}

func TestCompile_SharedPool(t *testing.T) {
	pool := symbol.NewPool()
	c1 := wam.NewCompilerWithPool(pool)
	c2 := wam.NewCompilerWithPool(pool)
	code1 := compileQuery(t, c1, comp("f", atom("a")))
	code2 := compileQuery(t, c2, comp("f", atom("a")))
	if diff := cmp.Diff(code1, code2); diff != "" {
		t.Errorf("compilers sharing a pool: (-c1, +c2)\n%s", diff)
	}
	if got := pool.Len(); got != 2 {
		t.Errorf("pool.Len() = %d, want 2 (%v)", got, pool.Symbols())
	}
}

// occurrences counts how many times each var appears in term.
func occurrences(term logic.Term, counts map[logic.Var]int) {
	switch t := term.(type) {
	case logic.Var:
		counts[t]++
	case *logic.Comp:
		for _, arg := range t.Args {
			occurrences(arg, counts)
		}
	}
}

// Invariants checked on every query:
// a var with k occurrences gets one set_variable followed by k-1 set_values;
// each put_structure targets a distinct register;
// a structure register is only used by set_value after its put_structure.
func TestCompileQuery_Invariants(t *testing.T) {
	terms := []logic.Term{
		atom("a"),
		var_("X"),
		comp("f", var_("X"), var_("Y"), var_("X")),
		comp("p", var_("Z"), comp("h", var_("Z"), var_("W")), comp("f", var_("W"))),
		comp("p", comp("f", comp("g", atom("a"))), comp("h", atom("b"))),
		comp("p", comp("f", var_("X")), comp("h", var_("Y"), comp("f", atom("a"))), var_("Y")),
		comp("f", comp("g", var_("X"), comp("h", var_("X"), var_("Y"))), var_("Y"), comp("g", var_("X"))),
		comp("f", var_("X"), comp("g", var_("X"), var_("X")), comp("h", comp("g", var_("X"))), var_("X")),
		deepComp(20),
		wideComp(30),
	}
	for _, term := range terms {
		c := wam.NewCompiler()
		code := compileQuery(t, c, term)
		isVar := make(map[reg]bool)
		for _, x := range c.Vars() {
			isVar[x.Reg] = true
		}
		created := make(map[reg]int)
		used := make(map[reg]int)
		built := make(map[reg]bool)
		for i, instr := range code {
			r := wam.RegisterOf(instr)
			switch instr.(type) {
			case put_structure:
				if built[r] {
					t.Errorf("%v: #%d: %v is built twice", term, i, r)
				}
				built[r] = true
			case set_variable:
				if !isVar[r] {
					t.Errorf("%v: #%d: %v is not a var register", term, i, r)
				}
				created[r]++
			case set_value:
				if isVar[r] && created[r] == 0 {
					t.Errorf("%v: #%d: %v used before set_variable", term, i, r)
				}
				if !isVar[r] && !built[r] {
					t.Errorf("%v: #%d: %v used before put_structure", term, i, r)
				}
				used[r]++
			default:
				t.Errorf("%v: #%d: unexpected instruction %v", term, i, instr)
			}
		}
		counts := make(map[logic.Var]int)
		occurrences(term, counts)
		for _, x := range c.Vars() {
			if created[x.Reg] != 1 {
				t.Errorf("%v: %v has %d set_variable, want 1", term, x, created[x.Reg])
			}
			if want := counts[x.Var] - 1; used[x.Reg] != want {
				t.Errorf("%v: %v has %d set_value, want %d", term, x, used[x.Reg], want)
			}
		}
		if len(counts) != len(c.Vars()) {
			t.Errorf("%v: got %d vars in table, want %d", term, len(c.Vars()), len(counts))
		}
		if !isVar[wam.X1] && !built[wam.X1] {
			t.Errorf("%v: X1 is never built", term)
		}
	}
}

func TestCompile_RegisterOverflow(t *testing.T) {
	tests := []struct {
		desc    string
		term    logic.Term
		wantErr bool
	}{
		{"255 args", wideComp(wam.MaxRegisters - 1), false},
		{"256 args", wideComp(wam.MaxRegisters), true},
		{"255 nested", deepComp(wam.MaxRegisters - 1), false},
		{"256 nested", deepComp(wam.MaxRegisters), true},
	}
	for _, test := range tests {
		c := wam.NewCompiler()
		code, err := c.CompileQuery(test.term)
		if !test.wantErr {
			if err != nil {
				t.Errorf("%s: got err %v", test.desc, err)
			}
			continue
		}
		if err == nil {
			t.Errorf("%s: want overflow, got %d instructions", test.desc, len(code))
			continue
		}
		if code != nil {
			t.Errorf("%s: got partial code %v", test.desc, code)
		}
		if kind := errors.KindOf(err); kind != errors.RegisterOverflow {
			t.Errorf("%s: KindOf(%v) = %v, want %v", test.desc, err, kind, errors.RegisterOverflow)
		}
		// The compiler is usable after a failure.
		got := listing(t, compileQuery(t, c, atom("a")), c.Symbols())
		if diff := cmp.Diff([]string{"put_structure a/0, X1"}, got); diff != "" {
			t.Errorf("%s: compiling after failure: (-want, +got)\n%s", test.desc, diff)
		}
	}
}
