package wam

import (
	"fmt"
	"strings"

	"github.com/brunokim/l0/errors"
	"github.com/brunokim/l0/logic"
	"github.com/brunokim/l0/symbol"

	log "github.com/sirupsen/logrus"
)

// ---- Heap cells

// Tag identifies the kind of a heap cell.
type Tag uint8

const (
	// RefTag cells point to another heap address. An unbound variable points
	// to itself.
	RefTag Tag = iota
	// StrTag cells point to the functor cell of a structure.
	StrTag
	// FunTag cells hold a functor, and are immediately followed by the
	// structure's arguments.
	FunTag
)

func (t Tag) String() string {
	switch t {
	case RefTag:
		return "REF"
	case StrTag:
		return "STR"
	case FunTag:
		return "FUN"
	default:
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
}

// Cell is a tagged heap cell. Addr is used by REF and STR cells, Functor by
// FUN cells.
type Cell struct {
	Tag     Tag
	Addr    int
	Functor Functor
}

func (c Cell) String() string {
	if c.Tag == FunTag {
		return fmt.Sprintf("<%v, %v>", c.Tag, c.Functor)
	}
	return fmt.Sprintf("<%v, %d>", c.Tag, c.Addr)
}

func ref(addr int) Cell  { return Cell{Tag: RefTag, Addr: addr} }
func str(addr int) Cell  { return Cell{Tag: StrTag, Addr: addr} }
func fun(f Functor) Cell { return Cell{Tag: FunTag, Functor: f} }

// ---- Machine

// UnificationMode is the machine's read or write approach to structure args.
type UnificationMode int

const (
	Write UnificationMode = iota
	Read
)

func (m UnificationMode) String() string {
	if m == Read {
		return "read"
	}
	return "write"
}

const noAddr = -1

// Machine executes compiled instructions against a heap of tagged cells.
//
// Registers hold heap addresses. Structures are laid out as a STR cell, its
// FUN cell, and one cell per argument.
type Machine struct {
	// Heap cells. Its length is the heap top.
	Heap []Cell
	// Reg maps registers to heap addresses; unset registers hold -1.
	Reg []int
	// Read or write mode for structure args.
	Mode UnificationMode
	// Next structure arg to be read or written, and the end of the
	// current structure's args.
	S, end int

	symbols *symbol.Pool
}

// NewMachine returns an empty machine that resolves names from symbols.
func NewMachine(symbols *symbol.Pool) *Machine {
	m := &Machine{symbols: symbols}
	m.Reset()
	return m
}

// Reset clears the heap and registers.
func (m *Machine) Reset() {
	m.Heap = nil
	m.Reg = nil
	m.Mode = Write
	m.S, m.end = noAddr, noAddr
}

func (m *Machine) reg(r RegAddr) (int, bool) {
	if int(r) >= len(m.Reg) || m.Reg[r] == noAddr {
		return noAddr, false
	}
	return m.Reg[r], true
}

func (m *Machine) setReg(r RegAddr, addr int) {
	for len(m.Reg) <= int(r) {
		m.Reg = append(m.Reg, noAddr)
	}
	m.Reg[r] = addr
}

// Addr returns the heap address held by a register.
func (m *Machine) Addr(r RegAddr) (int, bool) {
	return m.reg(r)
}

func (m *Machine) push(c Cell) int {
	m.Heap = append(m.Heap, c)
	return len(m.Heap) - 1
}

// newStruct allocates a structure with unbound args and returns the address
// of its STR cell.
func (m *Machine) newStruct(f Functor) int {
	addr := m.push(str(len(m.Heap) + 1))
	m.push(fun(f))
	for i := 0; i < f.Arity; i++ {
		m.push(ref(len(m.Heap)))
	}
	m.S, m.end = addr+2, addr+2+f.Arity
	return addr
}

func (m *Machine) nextArg(instr Instruction) (int, error) {
	if m.S == noAddr || m.S >= m.end {
		return noAddr, errors.New(errors.Invalid, "%v: no structure argument left to fill", instr)
	}
	s := m.S
	m.S++
	return s, nil
}

func (m *Machine) regAddr(instr Instruction, r RegAddr) (int, error) {
	addr, ok := m.reg(r)
	if !ok {
		return noAddr, errors.New(errors.Invalid, "%v: register %v is unset", instr, r)
	}
	return addr, nil
}

// Run executes code in order, stopping at the first failure.
//
// The heap is kept between runs, so a program may be run against the term
// built by a previous query. Failing to match a program returns an
// errors.Unification error; bindings done before the failure are kept.
func (m *Machine) Run(code []Instruction) error {
	m.S, m.end = noAddr, noAddr
	for i, instr := range code {
		if err := m.execute(instr); err != nil {
			return fmt.Errorf("instruction #%d: %w", i, err)
		}
		log.WithFields(log.Fields{
			"heap": len(m.Heap),
			"mode": m.Mode,
			"S":    m.S,
		}).Tracef("executed %v", instr)
	}
	return nil
}

func (m *Machine) execute(instr Instruction) error {
	switch instr := instr.(type) {
	case PutStructure:
		// Build a struct with fresh arg slots, filled by the set_* instructions that follow.
		m.setReg(instr.Reg, m.newStruct(instr.Functor))
		m.Mode = Write
	case SetVariable:
		// Create a new unbound var and use it as the next arg.
		x := m.push(ref(len(m.Heap)))
		m.setReg(instr.Reg, x)
		if m.S == noAddr {
			// Bare var query, there's no struct to fill.
			return nil
		}
		s, err := m.nextArg(instr)
		if err != nil {
			return err
		}
		m.Heap[s] = ref(x)
	case SetValue:
		// Copy the register's value as the next arg.
		addr, err := m.regAddr(instr, instr.Reg)
		if err != nil {
			return err
		}
		s, err := m.nextArg(instr)
		if err != nil {
			return err
		}
		m.Heap[s] = m.Heap[addr]
	case GetStructure:
		// Match a struct from register, or build it if the register holds an unbound ref.
		addr, err := m.regAddr(instr, instr.Reg)
		if err != nil {
			return err
		}
		addr = m.deref(addr)
		switch cell := m.Heap[addr]; cell.Tag {
		case RefTag:
			m.bind(addr, m.newStruct(instr.Functor))
			m.Mode = Write
		case StrTag:
			f := m.Heap[cell.Addr].Functor
			if f != instr.Functor {
				return m.unifyError(f, instr.Functor)
			}
			m.S, m.end = cell.Addr+1, cell.Addr+1+f.Arity
			m.Mode = Read
		default:
			return errors.New(errors.Invalid, "%v: unexpected cell %v at %d", instr, cell, addr)
		}
	case UnifyVariable:
		if m.S == noAddr {
			// Bare var program matches anything.
			if _, ok := m.reg(instr.Reg); !ok {
				m.setReg(instr.Reg, m.push(ref(len(m.Heap))))
			}
			return nil
		}
		s, err := m.nextArg(instr)
		if err != nil {
			return err
		}
		// In write mode the arg slot is already an unbound ref.
		m.setReg(instr.Reg, s)
	case UnifyValue:
		addr, err := m.regAddr(instr, instr.Reg)
		if err != nil {
			return err
		}
		s, err := m.nextArg(instr)
		if err != nil {
			return err
		}
		if m.Mode == Write {
			m.Heap[s] = m.Heap[addr]
			return nil
		}
		return m.unify(addr, s)
	default:
		panic(fmt.Sprintf("wam.Machine.execute: unhandled type %T (%v)", instr, instr))
	}
	return nil
}

// deref walks the reference chain until it finds a non-ref cell, or an unbound ref.
func (m *Machine) deref(addr int) int {
	for {
		cell := m.Heap[addr]
		if cell.Tag != RefTag || cell.Addr == addr {
			return addr
		}
		addr = cell.Addr
	}
}

func (m *Machine) isUnbound(addr int) bool {
	cell := m.Heap[addr]
	return cell.Tag == RefTag && cell.Addr == addr
}

// bind must be called with at least one unbound ref. The newer var is bound
// to the older one.
func (m *Machine) bind(a1, a2 int) {
	unbound1, unbound2 := m.isUnbound(a1), m.isUnbound(a2)
	if unbound1 && (!unbound2 || a2 < a1) {
		m.Heap[a1] = ref(a2)
		return
	}
	if unbound2 {
		m.Heap[a2] = ref(a1)
		return
	}
	panic(fmt.Sprintf("bind(%d, %d): no unbound refs", a1, a2))
}

func (m *Machine) formatFunctor(f Functor) string {
	s, err := f.Format(m.symbols)
	if err != nil {
		return f.String()
	}
	return s
}

func (m *Machine) unifyError(f1, f2 Functor) error {
	return errors.New(errors.Unification, "%s != %s", m.formatFunctor(f1), m.formatFunctor(f2))
}

// unify executes a depth-first traversal of cells, binding unbound refs to the other
// cell, or comparing functors for equality.
func (m *Machine) unify(a1, a2 int) error {
	stack := []int{a1, a2}
	for len(stack) > 0 {
		// Pop address pair from stack.
		n := len(stack)
		d1, d2 := m.deref(stack[n-2]), m.deref(stack[n-1])
		stack = stack[:n-2]
		if d1 == d2 {
			continue
		}
		if m.isUnbound(d1) || m.isUnbound(d2) {
			m.bind(d1, d2)
			continue
		}
		c1, c2 := m.Heap[d1], m.Heap[d2]
		if c1.Tag != StrTag || c2.Tag != StrTag {
			return errors.New(errors.Invalid, "unify: unexpected cells %v and %v", c1, c2)
		}
		f1, f2 := m.Heap[c1.Addr].Functor, m.Heap[c2.Addr].Functor
		if f1 != f2 {
			return m.unifyError(f1, f2)
		}
		for i := 1; i <= f1.Arity; i++ {
			stack = append(stack, c1.Addr+i, c2.Addr+i)
		}
	}
	return nil
}

// ---- Decoding

// Term decodes the term stored at a heap address.
//
// Unbound vars are named after their address, e.g. _G12. Cyclic terms, which
// may arise from unification without occurs check, are rejected.
func (m *Machine) Term(addr int) (logic.Term, error) {
	if addr < 0 || addr >= len(m.Heap) {
		return nil, errors.New(errors.Invalid, "address %d out of heap [0, %d)", addr, len(m.Heap))
	}
	return m.decode(addr, make(map[int]struct{}))
}

func (m *Machine) decode(addr int, parents map[int]struct{}) (logic.Term, error) {
	addr = m.deref(addr)
	cell := m.Heap[addr]
	switch cell.Tag {
	case RefTag:
		return logic.Var{Name: fmt.Sprintf("_G%d", addr)}, nil
	case StrTag:
		addr = cell.Addr
	}
	if _, ok := parents[addr]; ok {
		return nil, errors.New(errors.Invalid, "cyclic term at %d", addr)
	}
	parents[addr] = struct{}{}
	defer delete(parents, addr)
	f := m.Heap[addr].Functor
	name, err := m.symbols.Resolve(f.Name)
	if err != nil {
		return nil, err
	}
	args := make([]logic.Term, f.Arity)
	for i := range args {
		if args[i], err = m.decode(addr+1+i, parents); err != nil {
			return nil, err
		}
	}
	return logic.NewTerm(name, args...), nil
}

// RegTerm decodes the term referenced by a register.
func (m *Machine) RegTerm(r RegAddr) (logic.Term, error) {
	addr, ok := m.reg(r)
	if !ok {
		return nil, errors.New(errors.Invalid, "register %v is unset", r)
	}
	return m.Term(addr)
}

// Binding is the heap address of a compiled variable.
type Binding struct {
	Var  logic.Var
	Addr int
}

// Track records the heap address of each variable's register, so they can be
// decoded after registers are reused by another run.
func (m *Machine) Track(vars []VarReg) ([]Binding, error) {
	bs := make([]Binding, len(vars))
	for i, x := range vars {
		addr, ok := m.reg(x.Reg)
		if !ok {
			return nil, errors.New(errors.Invalid, "register %v of %v is unset", x.Reg, x.Var)
		}
		bs[i] = Binding{x.Var, addr}
	}
	return bs, nil
}

// Bindings decodes the current value of tracked variables.
func (m *Machine) Bindings(bs []Binding) (map[logic.Var]logic.Term, error) {
	bindings := make(map[logic.Var]logic.Term)
	for _, b := range bs {
		term, err := m.Term(b.Addr)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", b.Var, err)
		}
		bindings[b.Var] = term
	}
	return bindings, nil
}

func (m *Machine) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "mode: %v\nS: %d\nheap:", m.Mode, m.S)
	for i, cell := range m.Heap {
		fmt.Fprintf(&b, "\n\t#%d: %v", i, cell)
	}
	b.WriteString("\nregisters:")
	for i, addr := range m.Reg {
		if addr != noAddr {
			fmt.Fprintf(&b, "\n\t%v: %d", RegAddr(i), addr)
		}
	}
	return b.String()
}
