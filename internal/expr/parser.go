package expr

import (
	"gonum.org/v1/gonum/num/dual"

	"github.com/san-kum/rootlab/internal/root"
)

// Expr is a parsed formula in one variable.
type Expr struct {
	src     string
	varName string
	root    node
}

// Parse parses src as a formula in x.
func Parse(src string) (*Expr, error) {
	return ParseVar(src, "x")
}

// ParseVar parses src as a formula in the named variable.
func ParseVar(src, varName string) (*Expr, error) {
	p := &parser{lex: lexer{src: src}, varName: varName}
	if err := p.advance(); err != nil {
		return nil, err
	}
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.lex.errorf(p.tok.pos, "unexpected "+p.describe())
	}
	return &Expr{src: src, varName: varName, root: n}, nil
}

// MustParse is Parse that panics on error, for formulas fixed at compile time.
func MustParse(src string) *Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Expr) Eval(x float64) (float64, error) { return e.root.eval(x) }

// Derivative returns f'(x).
func (e *Expr) Derivative(x float64) (float64, error) {
	d, err := e.root.deriv(dual.Number{Real: x, Emag: 1})
	if err != nil {
		return 0, err
	}
	return d.Emag, nil
}

func (e *Expr) Func() root.Func { return e.Eval }

func (e *Expr) DerivativeFunc() root.Func { return e.Derivative }

func (e *Expr) Source() string { return e.src }

// String returns the canonical, fully parenthesized form.
func (e *Expr) String() string { return e.root.String() }

type parser struct {
	lex     lexer
	tok     token
	varName string
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) describe() string {
	if p.tok.kind == tokEOF {
		return "end of input"
	}
	return "\"" + p.tok.text + "\""
}

func (p *parser) isOp(ops string) bool {
	if p.tok.kind != tokOp {
		return false
	}
	for i := 0; i < len(ops); i++ {
		if p.tok.text[0] == ops[i] {
			return true
		}
	}
	return false
}

// expr := term (('+'|'-') term)*
func (p *parser) expr() (node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isOp("+-") {
		op := p.tok.text[0]
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = binary{op: op, l: left, r: right}
	}
	return left, nil
}

// term := unary (('*'|'/') unary)*
func (p *parser) term() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*/") {
		op := p.tok.text[0]
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = binary{op: op, l: left, r: right}
	}
	return left, nil
}

// unary := ('-'|'+') unary | power
func (p *parser) unary() (node, error) {
	if p.isOp("+-") {
		neg := p.tok.text[0] == '-'
		if err := p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.unary()
		if err != nil {
			return nil, err
		}
		if neg {
			return negate{arg: arg}, nil
		}
		return arg, nil
	}
	return p.power()
}

// power := atom ('^' unary)?, right associative so -x^2 is -(x^2)
func (p *parser) power() (node, error) {
	base, err := p.atom()
	if err != nil {
		return nil, err
	}
	if !p.isOp("^") {
		return base, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return binary{op: '^', l: base, r: exp}, nil
}

func (p *parser) atom() (node, error) {
	t := p.tok
	switch t.kind {
	case tokNum:
		return number(t.num), p.advance()
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, p.lex.errorf(p.tok.pos, "expected \")\", got "+p.describe())
		}
		return n, p.advance()
	case tokIdent:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if fn, ok := functions[t.text]; ok {
			if p.tok.kind != tokLParen {
				return nil, p.lex.errorf(p.tok.pos, t.text+" needs an argument in parentheses")
			}
			arg, err := p.atom()
			if err != nil {
				return nil, err
			}
			return call{fn: fn, arg: arg}, nil
		}
		if t.text == p.varName {
			return variable(t.text), nil
		}
		if v, ok := constants[t.text]; ok {
			return constant{name: t.text, value: v}, nil
		}
		return nil, p.lex.errorf(t.pos, "unknown identifier \""+t.text+"\"")
	}
	return nil, p.lex.errorf(t.pos, "unexpected "+p.describe())
}
