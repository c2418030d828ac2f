package logic_test

import (
	"fmt"

	. "github.com/brunokim/l0/logic"
)

func ExampleAtom() {
	fmt.Println(Atom{"a"}, Atom{"space-> <-"}, Atom{"Upper"}, Atom{"=.."})
	// Output: a 'space-> <-' 'Upper' =..
}

func ExampleVars() {
	term := NewComp("p", NewVar("Z"), NewComp("h", NewVar("Z"), NewVar("W")), NewComp("f", NewVar("W")))
	fmt.Println(term)
	fmt.Println(Vars(term))
	// Output: p(Z, h(Z, W), f(W))
	// [Z W]
}
