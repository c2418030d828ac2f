package main

import (
	"fmt"
	"strings"

	"github.com/brunokim/l0/logic"
	"github.com/brunokim/l0/parser"
	"github.com/brunokim/l0/symbol"
	"github.com/brunokim/l0/wam"

	"github.com/logrusorgru/aurora"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type format int

const (
	textFormat format = iota
	idsFormat
)

func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		log.Fatal(err)
	}
	return r
}

func getUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		log.Fatal(err)
	}
	return r
}

func getFormat(cmd *cobra.Command) (format, error) {
	f, err := cmd.Flags().GetString("format")
	if err != nil {
		return textFormat, err
	}
	switch f {
	case "text":
		return textFormat, nil
	case "ids":
		return idsFormat, nil
	}
	return textFormat, fmt.Errorf("invalid --format %q: want 'text' or 'ids'", f)
}

// printer writes listings and bindings to stdout.
type printer struct {
	au     aurora.Aurora
	format format
}

func newPrinter(cmd *cobra.Command) printer {
	f, _ := getFormat(cmd)
	return printer{aurora.NewAurora(getFlag(cmd, "color")), f}
}

func (p printer) comment(format string, args ...interface{}) {
	fmt.Println(p.au.Green("% " + fmt.Sprintf(format, args...)).String())
}

func (p printer) listing(code []wam.Instruction, symbols *symbol.Pool) error {
	for _, instr := range code {
		line := instr.String()
		if p.format == textFormat {
			var err error
			if line, err = instr.Format(symbols); err != nil {
				return err
			}
		}
		op, operands := line, ""
		if i := strings.IndexByte(line, ' '); i >= 0 {
			op, operands = line[:i], line[i:]
		}
		fmt.Println(p.au.Cyan(op).String() + operands)
	}
	return nil
}

func (p printer) bindings(vars []wam.Binding, bindings map[logic.Var]logic.Term) {
	if len(vars) == 0 {
		fmt.Println(p.au.Bold("true.").String())
		return
	}
	parts := make([]string, len(vars))
	for i, b := range vars {
		parts[i] = fmt.Sprintf("%s = %v", p.au.Yellow(b.Var.Name), bindings[b.Var])
	}
	fmt.Println(strings.Join(parts, ", ") + ".")
}

func (p printer) fail() {
	fmt.Println(p.au.Red("false.").String())
}

func parseTerms(texts []string) ([]logic.Term, error) {
	terms := make([]logic.Term, len(texts))
	for i, text := range texts {
		term, err := parser.ParseTerm(text)
		if err != nil {
			return nil, fmt.Errorf("argument #%d: %w", i+1, err)
		}
		terms[i] = term
	}
	return terms, nil
}
