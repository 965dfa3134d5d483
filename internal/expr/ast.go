package expr

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/num/dual"
)

type node interface {
	eval(x float64) (float64, error)
	deriv(x dual.Number) (dual.Number, error)
	String() string
}

type number float64

func (n number) eval(float64) (float64, error)         { return float64(n), nil }
func (n number) deriv(dual.Number) (dual.Number, error) { return dual.Number{Real: float64(n)}, nil }
func (n number) String() string                         { return strconv.FormatFloat(float64(n), 'g', -1, 64) }

type variable string

func (v variable) eval(x float64) (float64, error)          { return x, nil }
func (v variable) deriv(x dual.Number) (dual.Number, error) { return x, nil }
func (v variable) String() string                           { return string(v) }

type constant struct {
	name  string
	value float64
}

func (c constant) eval(float64) (float64, error)         { return c.value, nil }
func (c constant) deriv(dual.Number) (dual.Number, error) { return dual.Number{Real: c.value}, nil }
func (c constant) String() string                         { return c.name }

type negate struct{ arg node }

func (n negate) eval(x float64) (float64, error) {
	v, err := n.arg.eval(x)
	return -v, err
}

func (n negate) deriv(x dual.Number) (dual.Number, error) {
	v, err := n.arg.deriv(x)
	return dual.Number{Real: -v.Real, Emag: -v.Emag}, err
}

func (n negate) String() string { return "-" + wrap(n.arg) }

type binary struct {
	op   byte
	l, r node
}

func (b binary) eval(x float64) (float64, error) {
	l, err := b.l.eval(x)
	if err != nil {
		return 0, err
	}
	r, err := b.r.eval(x)
	if err != nil {
		return 0, err
	}
	switch b.op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	case '/':
		if r == 0 {
			return 0, domainErr("1/", r)
		}
		return l / r, nil
	default:
		v := math.Pow(l, r)
		if math.IsNaN(v) {
			return 0, domainErr("pow", l)
		}
		return v, nil
	}
}

func (b binary) deriv(x dual.Number) (dual.Number, error) {
	l, err := b.l.deriv(x)
	if err != nil {
		return dual.Number{}, err
	}
	r, err := b.r.deriv(x)
	if err != nil {
		return dual.Number{}, err
	}
	switch b.op {
	case '+':
		return dual.Number{Real: l.Real + r.Real, Emag: l.Emag + r.Emag}, nil
	case '-':
		return dual.Number{Real: l.Real - r.Real, Emag: l.Emag - r.Emag}, nil
	case '*':
		return dual.Mul(l, r), nil
	case '/':
		if r.Real == 0 {
			return dual.Number{}, domainErr("1/", r.Real)
		}
		return dual.Mul(l, dual.Inv(r)), nil
	default:
		var v dual.Number
		if r.Emag == 0 {
			v = dual.PowReal(l, r.Real)
		} else {
			v = dual.Pow(l, r)
		}
		if math.IsNaN(v.Real) {
			return dual.Number{}, domainErr("pow", l.Real)
		}
		return v, nil
	}
}

func (b binary) String() string {
	return wrap(b.l) + " " + string(b.op) + " " + wrap(b.r)
}

type call struct {
	fn  *function
	arg node
}

func (c call) eval(x float64) (float64, error) {
	v, err := c.arg.eval(x)
	if err != nil {
		return 0, err
	}
	if !c.fn.valid(v) {
		return 0, domainErr(c.fn.name, v)
	}
	return c.fn.real(v), nil
}

func (c call) deriv(x dual.Number) (dual.Number, error) {
	v, err := c.arg.deriv(x)
	if err != nil {
		return dual.Number{}, err
	}
	if !c.fn.valid(v.Real) {
		return dual.Number{}, domainErr(c.fn.name, v.Real)
	}
	return c.fn.dual(v), nil
}

func (c call) String() string { return c.fn.name + "(" + c.arg.String() + ")" }

// wrap parenthesizes compound operands so String output re-parses to the
// same tree.
func wrap(n node) string {
	switch n.(type) {
	case binary, negate:
		return "(" + n.String() + ")"
	}
	return n.String()
}
