// Package wam implements the front-end compiler of a Warren Abstract Machine
// (WAM) for the L0 language, and a heap-cell machine that runs its output.
//
// A term is flattened into a sequence of instructions that either build it
// (a query) or match against it (a program). Instructions reference functor
// names by their id in a symbol.Pool, and arguments by register.
//
// Learn more in "Warren’s Abstract Machine: A tutorial reconstruction", Hassan Aït-Kaci
package wam

import (
	"fmt"
	"math"
	"strings"

	"github.com/brunokim/l0/symbol"
)

// ---- Address types

// RegAddr is the index of a machine register. Register 0 holds the outermost
// term of a compilation.
//
// Registers are printed 1-based, so RegAddr(0) is shown as X1.
type RegAddr uint8

// MaxRegisters is the number of registers addressable by RegAddr.
const MaxRegisters = math.MaxUint8 + 1

func (a RegAddr) String() string { return fmt.Sprintf("X%d", int(a)+1) }

// ---- Basic types

// Functor represents a functor's name and arity.
type Functor struct {
	Name  symbol.ID
	Arity int
}

// String shows the functor with its symbol id, e.g. #3/2.
func (f Functor) String() string {
	return fmt.Sprintf("#%d/%d", f.Name, f.Arity)
}

// Format shows the functor with its name resolved from symbols, e.g. h/2.
// Names are shown verbatim, without atom quoting.
func (f Functor) Format(symbols *symbol.Pool) (string, error) {
	name, err := symbols.Resolve(f.Name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%d", name, f.Arity), nil
}

// ---- Instructions

// Instruction represents an instruction of the abstract machine.
type Instruction interface {
	fmt.Stringer
	// Format renders the instruction with functor names resolved from symbols.
	Format(symbols *symbol.Pool) (string, error)
	isInstruction()
}

// PutStructure instruction: put_structure <f/n>, <reg X>
type PutStructure struct {
	Functor Functor
	Reg     RegAddr
}

// SetVariable instruction: set_variable <reg X>
type SetVariable struct {
	Reg RegAddr
}

// SetValue instruction: set_value <reg X>
type SetValue struct {
	Reg RegAddr
}

// GetStructure instruction: get_structure <f/n>, <reg X>
type GetStructure struct {
	Functor Functor
	Reg     RegAddr
}

// UnifyVariable instruction: unify_variable <reg X>
type UnifyVariable struct {
	Reg RegAddr
}

// UnifyValue instruction: unify_value <reg X>
type UnifyValue struct {
	Reg RegAddr
}

func (i PutStructure) isInstruction()  {}
func (i SetVariable) isInstruction()   {}
func (i SetValue) isInstruction()      {}
func (i GetStructure) isInstruction()  {}
func (i UnifyVariable) isInstruction() {}
func (i UnifyValue) isInstruction()    {}

func (i PutStructure) String() string {
	return fmt.Sprintf("put_structure %v, %v", i.Functor, i.Reg)
}

func (i SetVariable) String() string {
	return fmt.Sprintf("set_variable %v", i.Reg)
}

func (i SetValue) String() string {
	return fmt.Sprintf("set_value %v", i.Reg)
}

func (i GetStructure) String() string {
	return fmt.Sprintf("get_structure %v, %v", i.Functor, i.Reg)
}

func (i UnifyVariable) String() string {
	return fmt.Sprintf("unify_variable %v", i.Reg)
}

func (i UnifyValue) String() string {
	return fmt.Sprintf("unify_value %v", i.Reg)
}

func (i PutStructure) Format(symbols *symbol.Pool) (string, error) {
	f, err := i.Functor.Format(symbols)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("put_structure %s, %v", f, i.Reg), nil
}

func (i GetStructure) Format(symbols *symbol.Pool) (string, error) {
	f, err := i.Functor.Format(symbols)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("get_structure %s, %v", f, i.Reg), nil
}

func (i SetVariable) Format(*symbol.Pool) (string, error)   { return i.String(), nil }
func (i SetValue) Format(*symbol.Pool) (string, error)      { return i.String(), nil }
func (i UnifyVariable) Format(*symbol.Pool) (string, error) { return i.String(), nil }
func (i UnifyValue) Format(*symbol.Pool) (string, error)    { return i.String(), nil }

// FormatCode renders each instruction of code, failing on the first functor
// that can't be resolved.
func FormatCode(code []Instruction, symbols *symbol.Pool) ([]string, error) {
	lines := make([]string, len(code))
	for i, instr := range code {
		line, err := instr.Format(symbols)
		if err != nil {
			return nil, fmt.Errorf("instruction #%d (%v): %w", i, instr, err)
		}
		lines[i] = line
	}
	return lines, nil
}

// Listing renders code as a newline-separated listing.
func Listing(code []Instruction, symbols *symbol.Pool) (string, error) {
	lines, err := FormatCode(code, symbols)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// RegisterOf returns the register referenced by an instruction.
func RegisterOf(instr Instruction) RegAddr {
	switch i := instr.(type) {
	case PutStructure:
		return i.Reg
	case SetVariable:
		return i.Reg
	case SetValue:
		return i.Reg
	case GetStructure:
		return i.Reg
	case UnifyVariable:
		return i.Reg
	case UnifyValue:
		return i.Reg
	default:
		panic(fmt.Sprintf("wam.RegisterOf: unhandled type %T (%v)", instr, instr))
	}
}
