package wam

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"github.com/brunokim/l0/errors"
	"github.com/brunokim/l0/symbol"
)

var (
	structRE = regexp.MustCompile(`^(put_structure|get_structure)\s+(.+)/(\d+),\s*X(\d+)$`)
	regRE    = regexp.MustCompile(`^(set_variable|set_value|unify_variable|unify_value)\s+X(\d+)$`)
)

func parseReg(s string) (RegAddr, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(errors.Syntax, "invalid register X%s: %v", s, err)
	}
	if n < 1 || n > MaxRegisters {
		return 0, errors.New(errors.Syntax, "register X%d out of range [X1, X%d]", n, MaxRegisters)
	}
	return RegAddr(n - 1), nil
}

// ParseInstruction reads an instruction in the format returned by its Format
// method, interning the functor name into symbols. Names are read verbatim, so
// names with line breaks or leading spaces can't be read back.
func ParseInstruction(line string, symbols *symbol.Pool) (Instruction, error) {
	line = strings.TrimSpace(line)
	if m := structRE.FindStringSubmatch(line); m != nil {
		arity, err := strconv.Atoi(m[3])
		if err != nil {
			return nil, errors.New(errors.Syntax, "invalid arity in %q: %v", line, err)
		}
		reg, err := parseReg(m[4])
		if err != nil {
			return nil, err
		}
		id, err := symbols.Intern(m[2])
		if err != nil {
			return nil, err
		}
		f := Functor{id, arity}
		if m[1] == "put_structure" {
			return PutStructure{f, reg}, nil
		}
		return GetStructure{f, reg}, nil
	}
	if m := regRE.FindStringSubmatch(line); m != nil {
		reg, err := parseReg(m[2])
		if err != nil {
			return nil, err
		}
		switch m[1] {
		case "set_variable":
			return SetVariable{reg}, nil
		case "set_value":
			return SetValue{reg}, nil
		case "unify_variable":
			return UnifyVariable{reg}, nil
		default:
			return UnifyValue{reg}, nil
		}
	}
	return nil, errors.New(errors.Syntax, "unknown instruction %q", line)
}

// ParseListing reads one instruction per line. Blank lines and lines starting
// with '%' are ignored.
func ParseListing(text string, symbols *symbol.Pool) ([]Instruction, error) {
	var code []Instruction
	scanner := bufio.NewScanner(strings.NewReader(text))
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		instr, err := ParseInstruction(line, symbols)
		if err != nil {
			return nil, errors.New(errors.Syntax, "line %d: %v", lineno, err)
		}
		code = append(code, instr)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return code, nil
}
