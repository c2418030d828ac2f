package logic_test

import (
	"github.com/brunokim/l0/dsl"
)

var (
	atom = dsl.Atom
	comp = dsl.Comp
	var_ = dsl.Var
)
