package main

import (
	stderrors "errors"

	"github.com/brunokim/l0/errors"
	"github.com/brunokim/l0/logic"
	"github.com/brunokim/l0/wam"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] query program",
	Short: "Build a query on the heap and match a program against it.",
	Long: `Build a query on the heap and match a program against it.

Prints the bindings of the query variables, or 'false.' if the program
doesn't match.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		terms, err := parseTerms(args)
		if err != nil {
			return err
		}
		return run(newPrinter(cmd), getFlag(cmd, "listing"), terms[0], terms[1])
	},
}

func init() {
	runCmd.Flags().Bool("listing", false, "print the compiled instructions before running")
}

func run(p printer, listing bool, query, program logic.Term) error {
	c := wam.NewCompiler()
	m := wam.NewMachine(c.Symbols())

	queryCode, err := c.CompileQuery(query)
	if err != nil {
		return err
	}
	if listing {
		p.comment("query: %v", query)
		if err := p.listing(queryCode, c.Symbols()); err != nil {
			return err
		}
	}
	if err := m.Run(queryCode); err != nil {
		return err
	}
	vars, err := m.Track(c.Vars())
	if err != nil {
		return err
	}

	programCode, err := c.CompileProgram(program)
	if err != nil {
		return err
	}
	if listing {
		p.comment("program: %v", program)
		if err := p.listing(programCode, c.Symbols()); err != nil {
			return err
		}
	}
	if err := m.Run(programCode); err != nil {
		if stderrors.Is(err, errors.Unification) {
			p.fail()
			return nil
		}
		return err
	}
	bindings, err := m.Bindings(vars)
	if err != nil {
		return err
	}
	p.bindings(vars, bindings)
	return nil
}
