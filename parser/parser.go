// Package parser reads L0 terms from text.
//
// A term is a variable, an atom or a compound term:
//
//	X  _Tmp  a  'quoted name'  =..  f(X, g(a), 'b c')
//
// Comments start with '%' and run until the end of the line.
package parser

import (
	"github.com/brunokim/l0/errors"
	"github.com/brunokim/l0/logic"
	"github.com/brunokim/l0/runes"

	"github.com/alecthomas/participle"
	"github.com/alecthomas/participle/lexer"
)

const lexerRegex = `(\s+)|(%[^\n]*)|` +
	`(?P<Var>[\p{Lu}_][\p{L}\p{Nd}_]*)|` +
	`(?P<Ident>\p{L}[\p{L}\p{Nd}_]*)|` +
	`(?P<Quoted>'(?:[^'\\]|\\.)*')|` +
	`(?P<Symbol>[-+*/\\^<>=~:.?@#&$]+)|` +
	`(?P<Punct>[(),])`

type queryAST struct {
	Terms []*termAST `@@ { "," @@ } [ "." ]`
}

type termAST struct {
	Pos lexer.Position

	Var  *string  `  @Var`
	Comp *compAST `| @@`
}

type compAST struct {
	Pos lexer.Position

	Functor *nameAST   `@@`
	Args    []*termAST `[ "(" @@ { "," @@ } ")" ]`
}

type nameAST struct {
	Pos lexer.Position

	Ident  *string `  @Ident`
	Quoted *string `| @Quoted`
	Symbol *string `| @Symbol`
}

var (
	termLexer   = lexer.Must(lexer.Regexp(lexerRegex))
	termParser  = participle.MustBuild(&termAST{}, participle.Lexer(termLexer))
	queryParser = participle.MustBuild(&queryAST{}, participle.Lexer(termLexer))
)

// ParseTerm parses a single term.
func ParseTerm(text string) (logic.Term, error) {
	ast := &termAST{}
	if err := termParser.ParseString(text, ast); err != nil {
		return nil, errors.New(errors.Syntax, "%v", err)
	}
	return ast.term()
}

// ParseQuery parses a comma-separated sequence of terms, optionally ended
// by a period.
func ParseQuery(text string) ([]logic.Term, error) {
	ast := &queryAST{}
	if err := queryParser.ParseString(text, ast); err != nil {
		return nil, errors.New(errors.Syntax, "%v", err)
	}
	terms := make([]logic.Term, len(ast.Terms))
	for i, t := range ast.Terms {
		term, err := t.term()
		if err != nil {
			return nil, err
		}
		terms[i] = term
	}
	return terms, nil
}

func (t *termAST) term() (logic.Term, error) {
	if t.Var != nil {
		if !logic.IsVar(*t.Var) {
			return nil, errors.New(errors.Syntax, "%v: invalid variable name %q", t.Pos, *t.Var)
		}
		return logic.NewVar(*t.Var), nil
	}
	if t.Comp == nil {
		return nil, errors.New(errors.Syntax, "%v: expected term", t.Pos)
	}
	name, err := t.Comp.Functor.name()
	if err != nil {
		return nil, err
	}
	if len(t.Comp.Args) == 0 {
		return logic.Atom{Name: name}, nil
	}
	args := make([]logic.Term, len(t.Comp.Args))
	for i, arg := range t.Comp.Args {
		if args[i], err = arg.term(); err != nil {
			return nil, err
		}
	}
	return logic.NewComp(name, args...), nil
}

func (n *nameAST) name() (string, error) {
	switch {
	case n.Ident != nil:
		return *n.Ident, nil
	case n.Symbol != nil:
		return *n.Symbol, nil
	}
	text, err := runes.Unquote(*n.Quoted)
	if err != nil {
		return "", errors.New(errors.Syntax, "%v: %v", n.Pos, err)
	}
	return text, nil
}
