// Package compiler parses expression text and emits the corresponding
// bytecode into a vm.Engine.
//
// The compiler is a single pass, recursive descent parser that generates
// code as it recognizes the grammar. There is no intermediate syntax tree.
//
// # Precedence
//
// From lowest to highest:
//
//	?:                 conditional (null condition yields null)
//	??                 null coalescing
//	or                 logical or
//	and                logical and
//	= <> < <= > >=     relational, chainable: a < b < c
//	is, in             type check, member check
//	+ -                additive
//	* / %              multiplicative
//	- + not            unary
//	f(args)            invocation
//
// Null coalescing binds loosely because null propagates through all the
// operators above it.
//
// # Three-valued logic
//
// The conditional and relational chains cannot simply negate a comparison
// and jump, because with null operands neither a comparison nor its
// negation holds. They therefore test for true and false separately and
// fall through for null. The logical operators "and" and "or" always
// evaluate both operands; only "??" and "?:" skip code.
package compiler

import (
	"errors"
	"strings"

	"github.com/prosuite/evaluation/errz"
	"github.com/prosuite/evaluation/lexer"
	"github.com/prosuite/evaluation/op"
	"github.com/prosuite/evaluation/token"
	"github.com/prosuite/evaluation/vm"
)

// Config holds compiler configuration options.
type Config struct {
	// CaseSensitive makes the keywords and, or, not, is, in, null, true and
	// false match only when spelled in lower case. By default they match
	// without regard to case.
	CaseSensitive bool
}

var relops = map[string]op.Code{
	"=":  op.Ceq,
	"==": op.Ceq,
	"<>": op.Cne,
	"!=": op.Cne,
	"<":  op.Clt,
	"<=": op.Cle,
	">":  op.Cgt,
	">=": op.Cge,
}

type parser struct {
	text string
	// Scan position of the token following tok
	next          int
	tok           token.Token
	target        *vm.Engine
	caseSensitive bool
}

// Compile parses the expression that starts at byte offset index in text,
// emits its code into a new engine and commits it. Text after the
// expression is not examined beyond the first token that cannot continue
// it. The second result is the number of bytes consumed, counted from index
// up to that token, so it includes white space before and within the
// expression but not after it. Pass nil for cfg to use default settings.
func Compile(text string, index int, cfg *Config) (*vm.Engine, int, error) {
	if index < 0 || index > len(text) {
		return nil, 0, &errz.SyntaxError{
			Message: "Start index out of range",
			Offset:  index,
			Source:  text,
		}
	}
	p := &parser{text: text, next: index, target: vm.New()}
	if cfg != nil {
		p.caseSensitive = cfg.CaseSensitive
	}
	if err := p.compile(); err != nil {
		return nil, 0, withSource(err, text)
	}
	return p.target, p.tok.Start - index, nil
}

func withSource(err error, text string) error {
	var syntaxErr *errz.SyntaxError
	if errors.As(err, &syntaxErr) && syntaxErr.Source == "" {
		syntaxErr.Source = text
	}
	return err
}

func (p *parser) compile() error {
	if err := p.advance(); err != nil {
		return err
	}
	if err := p.expression(); err != nil {
		return err
	}
	return p.target.Commit()
}

// advance moves to the next token that is not white space.
func (p *parser) advance() error {
	for {
		tok, err := lexer.Scan(p.text, p.next)
		if err != nil {
			return err
		}
		p.tok = tok
		p.next = tok.End
		if tok.Type != token.WHITE {
			return nil
		}
	}
}

func (p *parser) isSymbol() bool {
	return p.tok.Type == token.NAME || p.tok.Type == token.OTHER
}

// isOp reports whether the current token is the operator or keyword op.
func (p *parser) isOp(op string) bool {
	if !p.isSymbol() {
		return false
	}
	if p.caseSensitive {
		return p.tok.Literal == op
	}
	return strings.EqualFold(p.tok.Literal, op)
}

func (p *parser) relop() (op.Code, bool) {
	if p.tok.Type != token.OTHER {
		return 0, false
	}
	code, ok := relops[p.tok.Literal]
	return code, ok
}

// expect consumes the operator op or fails.
func (p *parser) expect(op string) error {
	if !p.isOp(op) {
		return p.errorf("Expected '%s', but got '%s'", op, p.tok.Describe())
	}
	return p.advance()
}

// symbolOrType names the current token in messages about incomplete
// constructs: the symbol itself, or the class of token.
func (p *parser) symbolOrType() string {
	if p.isSymbol() {
		return p.tok.Literal
	}
	return string(p.tok.Type)
}

func (p *parser) errorf(format string, args ...any) error {
	return errz.SyntaxErrorf(p.tok.Start, format, args...)
}

func (p *parser) expression() error {
	return p.conditional()
}

// conditional compiles P ? A : B into
//
//	[P] Dup Jit@c Jif@a Null Jmp@end c: Pop [A] Jmp@end a: [B] end:
//
// so that a null condition yields null.
func (p *parser) conditional() error {
	if err := p.coalesce(); err != nil {
		return err
	}
	if !p.isOp("?") {
		return nil
	}
	if err := p.advance(); err != nil {
		return err
	}
	e := p.target
	consequent := e.ObtainLabel()
	alternative := e.ObtainLabel()
	end := e.ObtainLabel()

	e.EmitCode(op.Dup)
	e.EmitJump(op.Jit, consequent)
	e.EmitJump(op.Jif, alternative)
	e.EmitCode(op.Null)
	e.EmitJump(op.Jmp, end)

	e.DefineLabel(consequent)
	e.EmitCode(op.Pop)
	if err := p.conditional(); err != nil {
		return err
	}
	if err := p.expect(":"); err != nil {
		return err
	}
	e.EmitJump(op.Jmp, end)

	e.DefineLabel(alternative)
	if err := p.conditional(); err != nil {
		return err
	}
	e.DefineLabel(end)
	return nil
}

// coalesce compiles A ?? B into
//
//	[A] Dup Jin@alt Jmp@end alt: Pop [B] end:
//
// Chains associate to the left: a ?? b ?? c is (a ?? b) ?? c.
func (p *parser) coalesce() error {
	if err := p.logicalOr(); err != nil {
		return err
	}
	e := p.target
	for p.isOp("??") {
		if err := p.advance(); err != nil {
			return err
		}
		alt := e.ObtainLabel()
		end := e.ObtainLabel()
		e.EmitCode(op.Dup)
		e.EmitJump(op.Jin, alt)
		e.EmitJump(op.Jmp, end)
		e.DefineLabel(alt)
		e.EmitCode(op.Pop)
		// the alternative is a full disjunction, so a ?? b + 1 is a ?? (b + 1)
		if err := p.logicalOr(); err != nil {
			return err
		}
		e.DefineLabel(end)
	}
	return nil
}

func (p *parser) logicalOr() error {
	if err := p.logicalAnd(); err != nil {
		return err
	}
	for p.isOp("or") {
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.logicalAnd(); err != nil {
			return err
		}
		p.target.EmitCode(op.Or)
	}
	return nil
}

func (p *parser) logicalAnd() error {
	if err := p.predicate(); err != nil {
		return err
	}
	for p.isOp("and") {
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.predicate(); err != nil {
			return err
		}
		p.target.EmitCode(op.And)
	}
	return nil
}

func (p *parser) predicate() error {
	if err := p.additive(); err != nil {
		return err
	}
	switch {
	case p.isOp("is"):
		if err := p.advance(); err != nil {
			return err
		}
		return p.typeCheck()
	case p.isOp("not"):
		if err := p.advance(); err != nil {
			return err
		}
		if !p.isOp("in") {
			return p.errorf("Expected 'not in', but got 'not %s'", p.symbolOrType())
		}
		if err := p.advance(); err != nil {
			return err
		}
		return p.memberCheck(true)
	case p.isOp("in"):
		if err := p.advance(); err != nil {
			return err
		}
		return p.memberCheck(false)
	}
	if _, ok := p.relop(); ok {
		return p.relational()
	}
	return nil
}

// relational compiles a chain of comparisons. The left operand has been
// compiled and the current token is a relational operator. A single
// comparison is just [A] [B] Cop; a chain A op B op C evaluates each operand
// once:
//
//	[A] [B] Dup1 Cop Jif@f [C] Dup1 Cop Jif@f Pop True Jmp@end f: Pop False end:
func (p *parser) relational() error {
	e := p.target
	falsum := e.ObtainLabel()
	end := e.ObtainLabel()
	count := 0
	for {
		code, ok := p.relop()
		if !ok {
			break
		}
		count++
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.additive(); err != nil {
			return err
		}
		if _, more := p.relop(); count == 1 && !more {
			e.EmitCode(code)
			return nil
		}
		e.EmitCode(op.Dup1)
		e.EmitCode(code)
		e.EmitJump(op.Jif, falsum)
	}
	e.EmitCode(op.Pop)
	e.EmitBool(true)
	e.EmitJump(op.Jmp, end)
	e.DefineLabel(falsum)
	e.EmitCode(op.Pop)
	e.EmitBool(false)
	e.DefineLabel(end)
	return nil
}

// typeCheck compiles the rest of "X is [not] null" or "X is [not] Type".
func (p *parser) typeCheck() error {
	negate := false
	if p.isOp("not") {
		negate = true
		if err := p.advance(); err != nil {
			return err
		}
	}
	switch {
	case p.isOp("null"):
		p.target.EmitCode(op.Cin)
	case p.tok.Type == token.NAME:
		p.target.EmitString(p.tok.Literal)
		p.target.EmitCode(op.Is)
	default:
		return p.errorf("Expected 'is null' or 'is Type', but got 'is %s'", p.symbolOrType())
	}
	if negate {
		p.target.EmitCode(op.Not)
	}
	return p.advance()
}

// memberCheck compiles the rest of "X [not] in (a, b, ...)" as
//
//	[X] Dup [a] Ceq Jit@hit Dup [b] Ceq Jit@hit Pop False Jmp@end hit: Pop True end:
//
// with True and False exchanged for "not in". The empty list never
// contains anything, not even for "not in".
func (p *parser) memberCheck(negate bool) error {
	if err := p.expect("("); err != nil {
		return err
	}
	e := p.target
	if p.isOp(")") {
		e.EmitCode(op.Pop)
		e.EmitBool(false)
		return p.advance()
	}
	hit := e.ObtainLabel()
	end := e.ObtainLabel()
	for {
		e.EmitCode(op.Dup)
		if err := p.additive(); err != nil {
			return err
		}
		e.EmitCode(op.Ceq)
		e.EmitJump(op.Jit, hit)
		if !p.isOp(",") {
			break
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
	if err := p.expect(")"); err != nil {
		return err
	}
	e.EmitCode(op.Pop)
	e.EmitBool(negate)
	e.EmitJump(op.Jmp, end)
	e.DefineLabel(hit)
	e.EmitCode(op.Pop)
	e.EmitBool(!negate)
	e.DefineLabel(end)
	return nil
}

func (p *parser) additive() error {
	if err := p.multiplicative(); err != nil {
		return err
	}
	for {
		var code op.Code
		switch {
		case p.isOp("+"):
			code = op.Add
		case p.isOp("-"):
			code = op.Sub
		default:
			return nil
		}
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.multiplicative(); err != nil {
			return err
		}
		p.target.EmitCode(code)
	}
}

func (p *parser) multiplicative() error {
	if err := p.unary(); err != nil {
		return err
	}
	for {
		var code op.Code
		switch {
		case p.isOp("*"):
			code = op.Mul
		case p.isOp("/"):
			code = op.Div
		case p.isOp("%"):
			code = op.Rem
		default:
			return nil
		}
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.unary(); err != nil {
			return err
		}
		p.target.EmitCode(code)
	}
}

func (p *parser) unary() error {
	var code op.Code
	switch {
	case p.isOp("-"):
		code = op.Neg
	case p.isOp("+"):
		code = op.Pos
	case p.isOp("not"):
		code = op.Not
	default:
		return p.postfix()
	}
	if err := p.advance(); err != nil {
		return err
	}
	if err := p.unary(); err != nil {
		return err
	}
	p.target.EmitCode(code)
	return nil
}

// postfix compiles a primary expression followed by any number of
// argument lists: f(a)(b) calls the result of f(a).
func (p *parser) postfix() error {
	if err := p.primary(); err != nil {
		return err
	}
	for p.isOp("(") {
		if err := p.advance(); err != nil {
			return err
		}
		argc, err := p.arguments()
		if err != nil {
			return err
		}
		if err := p.expect(")"); err != nil {
			return err
		}
		p.target.EmitCall(argc)
	}
	return nil
}

func (p *parser) arguments() (int, error) {
	if p.isOp(")") {
		return 0, nil
	}
	count := 1
	if err := p.expression(); err != nil {
		return 0, err
	}
	for p.isOp(",") {
		if err := p.advance(); err != nil {
			return 0, err
		}
		count++
		if err := p.expression(); err != nil {
			return 0, err
		}
	}
	return count, nil
}

func (p *parser) primary() error {
	e := p.target
	switch {
	case p.tok.Type == token.NUMBER:
		e.EmitNumber(p.tok.Number)
		return p.advance()
	case p.tok.Type == token.STRING:
		e.EmitString(p.tok.Literal)
		return p.advance()
	case p.tok.Type == token.NAME:
		return p.name()
	case p.isOp("("):
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.expression(); err != nil {
			return err
		}
		return p.expect(")")
	}
	return p.errorf("Expected a number, a string, a name, or '(', but got '%s'", p.tok.Describe())
}

// name compiles a keyword constant, a name, or a qualified name q.n.
func (p *parser) name() error {
	e := p.target
	switch {
	case p.isOp("null"):
		e.EmitCode(op.Null)
		return p.advance()
	case p.isOp("false"):
		e.EmitBool(false)
		return p.advance()
	case p.isOp("true"):
		e.EmitBool(true)
		return p.advance()
	}
	name := p.tok.Literal
	if err := p.advance(); err != nil {
		return err
	}
	if !p.isOp(".") {
		e.EmitString(name)
		e.EmitCode(op.Get)
		return nil
	}
	if err := p.advance(); err != nil {
		return err
	}
	if p.tok.Type != token.NAME {
		return p.errorf("Expected '%s.Name', but got '%s.%s'", name, name, p.symbolOrType())
	}
	qualifier := name
	name = p.tok.Literal
	e.EmitString(qualifier)
	e.EmitString(name)
	e.EmitCode(op.GetQualified)
	return p.advance()
}
