package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brunokim/l0/parser"
	"github.com/brunokim/l0/wam"

	"github.com/chzyer/readline"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Compile terms read interactively.",
	Long: `Compile terms read interactively.

Each input ends with a period and may span many lines. A single term is
compiled as a query and its listing is printed; two comma-separated terms
'Query, Program.' are run against each other.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := cmd.Flags().GetString("history")
		if err != nil {
			return err
		}
		rl, err := readline.NewEx(&readline.Config{
			Prompt:                 "?- ",
			HistoryFile:            history,
			DisableAutoSaveHistory: true,
		})
		if err != nil {
			return err
		}
		defer rl.Close()
		r := repl{rl, newPrinter(cmd)}
		r.mainLoop()
		return nil
	},
}

func init() {
	replCmd.Flags().String("history", filepath.Join(os.TempDir(), "l0c-history"), "file to keep the input history")
}

type repl struct {
	readline *readline.Instance
	printer  printer
}

func (r repl) mainLoop() {
	for {
		input, isClose := r.readInput()
		if isClose {
			return
		}
		if err := r.eval(input); err != nil {
			log.Error(err)
		}
	}
}

func (r repl) readInput() (string, bool) {
	r.readline.SetPrompt("?- ")
	var lines []string
	for {
		line, err := r.readline.Readline()
		if err != nil {
			return "", true
		}
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		lines = append(lines, line)
		if !strings.HasSuffix(line, ".") {
			r.readline.SetPrompt("|  ")
			continue
		}
		break
	}
	input := strings.Join(lines, " ")
	r.readline.SaveHistory(input)
	return input, false
}

func (r repl) eval(input string) error {
	terms, err := parser.ParseQuery(input)
	if err != nil {
		return err
	}
	switch len(terms) {
	case 1:
		c := wam.NewCompiler()
		code, err := c.CompileQuery(terms[0])
		if err != nil {
			return err
		}
		return r.printer.listing(code, c.Symbols())
	case 2:
		return run(r.printer, false, terms[0], terms[1])
	default:
		return fmt.Errorf("expecting 'Query.' or 'Query, Program.', got %d terms", len(terms))
	}
}
