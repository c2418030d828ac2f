// Package errors builds the errors returned by this module.
//
// Every error carries a Kind, so callers can classify failures with the
// standard library:
//
//	if errors.Is(err, l0errors.RegisterOverflow) { ... }
package errors

import (
	"fmt"
)

// Kind classifies an error. A Kind is itself an error, so it can be used as
// the target of errors.Is.
type Kind int

const (
	// Invalid is used for malformed inputs that have no more specific kind.
	Invalid Kind = iota
	// UnknownSymbol is returned when resolving an id absent from a symbol pool.
	UnknownSymbol
	// RegisterOverflow is returned when a term needs more registers than RegAddr holds.
	RegisterOverflow
	// PoolExhausted is returned when a symbol pool has issued every possible id.
	PoolExhausted
	// Syntax is returned for unparseable terms or instruction listings.
	Syntax
	// Unification is returned by the machine when matching fails.
	Unification
)

var kindNames = map[Kind]string{
	Invalid:          "invalid",
	UnknownSymbol:    "unknown symbol",
	RegisterOverflow: "register overflow",
	PoolExhausted:    "symbol pool exhausted",
	Syntax:           "syntax error",
	Unification:      "unification failure",
}

func (k Kind) Error() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

type err struct {
	kind Kind
	msg  string
	args []interface{}
}

func (err err) Error() string {
	return fmt.Sprintf("%v: %s", err.kind, fmt.Sprintf(err.msg, err.args...))
}

func (err err) Unwrap() error {
	for _, arg := range err.args {
		if wrapped, ok := arg.(error); ok {
			return wrapped
		}
	}
	return nil
}

func (err err) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == err.kind
}

// New returns an error of the given kind, with msg formatted by fmt.Sprintf.
// If any of args is an error, it's returned by Unwrap.
func New(kind Kind, msg string, args ...interface{}) error {
	return err{kind, msg, args}
}

// KindOf returns the kind of the first error in err's chain that has one.
// Errors without a kind are reported as Invalid.
func KindOf(e error) Kind {
	for e != nil {
		switch x := e.(type) {
		case err:
			return x.kind
		case Kind:
			return x
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	return Invalid
}
