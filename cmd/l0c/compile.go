package main

import (
	"github.com/brunokim/l0/batch"
	"github.com/brunokim/l0/symbol"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [flags] term...",
	Short: "Compile terms into instructions that build them.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return compileTerms(cmd, args, false)
	},
}

var programCmd = &cobra.Command{
	Use:   "program [flags] term...",
	Short: "Compile terms into instructions that match them.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return compileTerms(cmd, args, true)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{queryCmd, programCmd} {
		cmd.Flags().Uint("workers", 0, "number of concurrent compilers (0 uses every CPU)")
		cmd.Flags().Bool("vars", false, "show the register of each variable")
	}
}

func compileTerms(cmd *cobra.Command, args []string, program bool) error {
	terms, err := parseTerms(args)
	if err != nil {
		return err
	}
	pool := symbol.NewPool()
	opts := batch.Options{Workers: int(getUint(cmd, "workers")), Program: program}
	results := batch.Compile(pool, terms, opts)
	p := newPrinter(cmd)
	for _, res := range results {
		if res.Err != nil {
			return res.Err
		}
		if len(results) > 1 {
			p.comment("%v", res.Term)
		}
		if getFlag(cmd, "vars") {
			p.comment("vars: %v", res.Vars)
		}
		if err := p.listing(res.Code, pool); err != nil {
			return err
		}
	}
	return nil
}
