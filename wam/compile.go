package wam

import (
	"fmt"

	"github.com/brunokim/l0/errors"
	"github.com/brunokim/l0/logic"
	"github.com/brunokim/l0/symbol"

	log "github.com/sirupsen/logrus"
)

// X1 is always allocated to the outermost term.
const X1 RegAddr = 0

type varAlloc struct {
	reg  RegAddr
	seen bool
}

// VarReg associates a variable of a compiled term with its register.
type VarReg struct {
	Var logic.Var
	Reg RegAddr
}

func (x VarReg) String() string {
	return fmt.Sprintf("%v=%v", x.Var, x.Reg)
}

// Compiler flattens terms into instruction sequences.
//
// The symbol pool grows across compilations, while the variable table and
// instruction buffer are reset for each one. A Compiler must not be used
// concurrently, but many compilers may share the same pool.
type Compiler struct {
	symbols *symbol.Pool
	allocs  map[symbol.ID]*varAlloc
	vars    []VarReg
	instrs  []Instruction
	topReg  int
}

// NewCompiler returns a compiler with a fresh symbol pool.
func NewCompiler() *Compiler {
	return NewCompilerWithPool(symbol.NewPool())
}

// NewCompilerWithPool returns a compiler that interns names into symbols.
func NewCompilerWithPool(symbols *symbol.Pool) *Compiler {
	return &Compiler{
		symbols: symbols,
		allocs:  make(map[symbol.ID]*varAlloc),
	}
}

// Symbols returns the pool used to intern functor and variable names.
func (c *Compiler) Symbols() *symbol.Pool {
	return c.symbols
}

// Vars returns the variables of the last compilation with their registers,
// in allocation order.
func (c *Compiler) Vars() []VarReg {
	vars := make([]VarReg, len(c.vars))
	copy(vars, c.vars)
	return vars
}

// NumRegisters returns how many registers the last compilation used.
func (c *Compiler) NumRegisters() int {
	return c.topReg + 1
}

func (c *Compiler) reset() {
	c.allocs = make(map[symbol.ID]*varAlloc)
	c.vars = nil
	c.instrs = nil
	c.topReg = int(X1)
}

// ---- instruction families

type compileMode int

const (
	queryMode compileMode = iota
	programMode
)

func (m compileMode) String() string {
	if m == queryMode {
		return "query"
	}
	return "program"
}

func (m compileMode) structure(f Functor, reg RegAddr) Instruction {
	if m == queryMode {
		return PutStructure{f, reg}
	}
	return GetStructure{f, reg}
}

func (m compileMode) variable(reg RegAddr) Instruction {
	if m == queryMode {
		return SetVariable{reg}
	}
	return UnifyVariable{reg}
}

func (m compileMode) value(reg RegAddr) Instruction {
	if m == queryMode {
		return SetValue{reg}
	}
	return UnifyValue{reg}
}

// ---- allocation

// argSlot is the register reserved for an argument during allocation.
type argSlot struct {
	reg   RegAddr
	isVar bool
	varID symbol.ID
}

func (c *Compiler) intern(name string) (symbol.ID, error) {
	return c.symbols.Intern(name)
}

func (c *Compiler) nextReg(term *logic.Comp, depth, argIdx int) (RegAddr, error) {
	if c.topReg+1 >= MaxRegisters {
		return 0, errors.New(errors.RegisterOverflow,
			"%v needs more than %d registers (depth %d, argument %d)",
			term.Indicator(), MaxRegisters, depth, argIdx+1)
	}
	c.topReg++
	return RegAddr(c.topReg), nil
}

func (c *Compiler) allocVar(x logic.Var, id symbol.ID, reg RegAddr) {
	c.allocs[id] = &varAlloc{reg: reg}
	c.vars = append(c.vars, VarReg{x, reg})
}

// allocate reserves registers for the args of a single clause level.
//
// New vars and every nested atom or comp get the next register; vars already
// in the table keep theirs. The counter is shared with the whole compilation.
func (c *Compiler) allocate(term *logic.Comp, depth int) ([]argSlot, error) {
	args := make([]argSlot, len(term.Args))
	for i, arg := range term.Args {
		switch a := arg.(type) {
		case logic.Var:
			id, err := c.intern(a.Name)
			if err != nil {
				return nil, err
			}
			args[i] = argSlot{isVar: true, varID: id}
			if alloc, ok := c.allocs[id]; ok {
				args[i].reg = alloc.reg
				continue
			}
			reg, err := c.nextReg(term, depth, i)
			if err != nil {
				return nil, err
			}
			c.allocVar(a, id, reg)
			args[i].reg = reg
		case logic.Atom, *logic.Comp:
			reg, err := c.nextReg(term, depth, i)
			if err != nil {
				return nil, err
			}
			args[i].reg = reg
		default:
			return nil, errors.New(errors.Invalid, "unhandled term type %T (%v)", arg, arg)
		}
	}
	return args, nil
}

// ---- emission

func (c *Compiler) instr(instr Instruction) {
	c.instrs = append(c.instrs, instr)
}

// markSeen returns whether the var was already materialized, and marks it
// as such.
func (c *Compiler) markSeen(id symbol.ID) bool {
	alloc := c.allocs[id]
	if alloc.seen {
		return true
	}
	alloc.seen = true
	return false
}

func (c *Compiler) emitLevel(m compileMode, f Functor, reg RegAddr, args []argSlot) {
	c.instr(m.structure(f, reg))
	for _, arg := range args {
		switch {
		case !arg.isVar && m == queryMode:
			// Nested term was already built during descent.
			c.instr(m.value(arg.reg))
		case !arg.isVar:
			// Nested term will be matched after this level.
			c.instr(m.variable(arg.reg))
		case c.markSeen(arg.varID):
			c.instr(m.value(arg.reg))
		default:
			c.instr(m.variable(arg.reg))
		}
	}
}

// ---- traversal

type frameKind int

const (
	enterTerm frameKind = iota
	exitComp
)

type frame struct {
	kind    frameKind
	term    logic.Term
	reg     RegAddr
	depth   int
	functor Functor
	args    []argSlot
}

// compileTerm walks the term with an explicit work-list.
//
// Entering a comp allocates registers for its args and schedules its nested
// terms left to right. For queries, the comp's own instructions are emitted
// on exit, after every nested term was built, since set_value expects the
// nested register to hold a complete value. For programs they are emitted on
// entry, so that get_structure of the container precedes its nested terms.
func (c *Compiler) compileTerm(term logic.Term, m compileMode) error {
	if x, ok := term.(logic.Var); ok {
		id, err := c.intern(x.Name)
		if err != nil {
			return err
		}
		c.allocVar(x, id, X1)
		c.markSeen(id)
		c.instr(m.variable(X1))
		return nil
	}
	stack := []*frame{{kind: enterTerm, term: term, reg: X1}}
	for len(stack) > 0 {
		n := len(stack)
		fr := stack[n-1]
		stack = stack[:n-1]
		if fr.kind == exitComp {
			c.emitLevel(m, fr.functor, fr.reg, fr.args)
			continue
		}
		switch t := fr.term.(type) {
		case logic.Atom:
			// An atom is a structure with 0 arity.
			id, err := c.intern(t.Name)
			if err != nil {
				return err
			}
			c.instr(m.structure(Functor{id, 0}, fr.reg))
		case *logic.Comp:
			id, err := c.intern(t.Functor)
			if err != nil {
				return err
			}
			args, err := c.allocate(t, fr.depth)
			if err != nil {
				return err
			}
			f := Functor{id, len(t.Args)}
			if m == queryMode {
				stack = append(stack, &frame{kind: exitComp, reg: fr.reg, functor: f, args: args})
			} else {
				c.emitLevel(m, f, fr.reg, args)
			}
			// Post order, so push in reverse.
			for i := len(t.Args) - 1; i >= 0; i-- {
				if args[i].isVar {
					continue
				}
				stack = append(stack, &frame{
					kind:  enterTerm,
					term:  t.Args[i],
					reg:   args[i].reg,
					depth: fr.depth + 1,
				})
			}
		default:
			return errors.New(errors.Invalid, "unhandled term type %T (%v)", fr.term, fr.term)
		}
	}
	return nil
}

func (c *Compiler) compile(term logic.Term, m compileMode) ([]Instruction, error) {
	c.reset()
	if err := c.compileTerm(term, m); err != nil {
		c.reset()
		return nil, err
	}
	code := c.instrs
	log.WithFields(log.Fields{
		"mode":         m,
		"instructions": len(code),
		"registers":    c.NumRegisters(),
		"symbols":      c.symbols.Len(),
	}).Debugf("compiled %v", term)
	return code, nil
}

// CompileQuery compiles a term into instructions that build it on the heap.
//
// Nested terms are built before the terms that contain them, and each
// variable is created by set_variable on its first use and referenced with
// set_value afterwards. Identical subterms in different positions are
// compiled independently.
//
// On error, no instructions are returned.
func (c *Compiler) CompileQuery(term logic.Term) ([]Instruction, error) {
	return c.compile(term, queryMode)
}

// CompileProgram compiles a term into instructions that match it against the
// term in X1, binding unbound parts of the latter.
//
// Registers are allocated the same way as in CompileQuery, but each level is
// matched before the nested terms it contains.
func (c *Compiler) CompileProgram(term logic.Term) ([]Instruction, error) {
	return c.compile(term, programMode)
}
