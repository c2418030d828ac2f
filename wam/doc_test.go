package wam_test

import (
	"fmt"

	. "github.com/brunokim/l0/dsl"
	"github.com/brunokim/l0/wam"
)

func ExampleCompiler_CompileQuery() {
	c := wam.NewCompiler()
	code, _ := c.CompileQuery(Comp("p", Var("Z"), Comp("h", Var("Z"), Var("W")), Comp("f", Var("W"))))
	text, _ := wam.Listing(code, c.Symbols())
	fmt.Println(text)
	fmt.Println(c.Vars())
	// Output:
	// put_structure h/2, X3
	// set_variable X2
	// set_variable X5
	// put_structure f/1, X4
	// set_value X5
	// put_structure p/3, X1
	// set_value X2
	// set_value X3
	// set_value X4
	// [Z=X2 W=X5]
}

func ExampleMachine() {
	c := wam.NewCompiler()
	m := wam.NewMachine(c.Symbols())

	query, _ := c.CompileQuery(Comp("p", Var("Z"), Comp("h", Var("Z"), Var("W")), Comp("f", Var("W"))))
	m.Run(query)
	vars, _ := m.Track(c.Vars())

	program, _ := c.CompileProgram(Comp("p", Comp("f", Var("X")), Comp("h", Var("Y"), Comp("f", Atom("a"))), Var("Y")))
	if err := m.Run(program); err != nil {
		fmt.Println(err)
		return
	}
	bindings, _ := m.Bindings(vars)
	for _, x := range vars {
		fmt.Println(x.Var, "=", bindings[x.Var])
	}
	// Output:
	// Z = f(f(a))
	// W = f(a)
}
