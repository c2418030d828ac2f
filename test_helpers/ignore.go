package test_helpers

import (
	"github.com/brunokim/l0/logic"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var (
	IgnoreUnexported = cmp.Options{
		cmpopts.IgnoreUnexported(logic.Comp{}),
	}
)
