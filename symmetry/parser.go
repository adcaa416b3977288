/*
 * parser.go, part of xtals.
 *
 * Copyright 2026 the xtals authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package symmetry

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/xtalsgo/xtals/xerr"
)

// affine is a linear function of x, y and z plus a constant.
type affine struct {
	coef  [3]float64
	konst float64
}

func (a affine) isConst() bool {
	return a.coef == [3]float64{}
}

func (a affine) scale(s float64) affine {
	return affine{coef: [3]float64{a.coef[0] * s, a.coef[1] * s, a.coef[2] * s}, konst: a.konst * s}
}

func (a affine) add(b affine) affine {
	return affine{coef: [3]float64{a.coef[0] + b.coef[0], a.coef[1] + b.coef[1], a.coef[2] + b.coef[2]}, konst: a.konst + b.konst}
}

// parser is a recursive descent parser for one component of a symmetry operation:
//
//	expr   = term { ("+"|"-") term }
//	term   = factor { ("*"|"/") factor }
//	factor = ["+"|"-"] ( number | "x" | "y" | "z" | "(" expr ")" )
//
// Products are only allowed when one of the factors is constant, and
// divisors must be non-zero constants, so the result is always affine.
type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return xerr.New(xerr.SymmetryParse, "parser", "%q at %d: "+format, append([]interface{}{p.src, p.pos}, args...)...)
}

func (p *parser) skip() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skip()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) expr() (affine, error) {
	left, err := p.term()
	if err != nil {
		return affine{}, err
	}
	for {
		c := p.peek()
		if c != '+' && c != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return affine{}, err
		}
		if c == '-' {
			right = right.scale(-1)
		}
		left = left.add(right)
	}
}

func (p *parser) term() (affine, error) {
	left, err := p.factor()
	if err != nil {
		return affine{}, err
	}
	for {
		c := p.peek()
		if c != '*' && c != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.factor()
		if err != nil {
			return affine{}, err
		}
		switch {
		case c == '/' && !right.isConst():
			return affine{}, p.errorf("division by a coordinate")
		case c == '/' && right.konst == 0:
			return affine{}, p.errorf("division by zero")
		case c == '/':
			left = left.scale(1 / right.konst)
		case left.isConst():
			left = right.scale(left.konst)
		case right.isConst():
			left = left.scale(right.konst)
		default:
			return affine{}, p.errorf("product of two coordinates")
		}
	}
}

func (p *parser) factor() (affine, error) {
	c := p.peek()
	switch {
	case c == '+' || c == '-':
		p.pos++
		f, err := p.factor()
		if c == '-' {
			f = f.scale(-1)
		}
		return f, err
	case c == '(':
		p.pos++
		e, err := p.expr()
		if err != nil {
			return affine{}, err
		}
		if p.peek() != ')' {
			return affine{}, p.errorf("missing )")
		}
		p.pos++
		return e, nil
	case c == 'x' || c == 'X', c == 'y' || c == 'Y', c == 'z' || c == 'Z':
		p.pos++
		var a affine
		a.coef[unicode.ToLower(rune(c))-'x'] = 1
		return a, nil
	case c == '.' || (c >= '0' && c <= '9'):
		start := p.pos
		for p.pos < len(p.src) && (p.src[p.pos] == '.' || (p.src[p.pos] >= '0' && p.src[p.pos] <= '9')) {
			p.pos++
		}
		v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
		if err != nil {
			return affine{}, p.errorf("bad number %q", p.src[start:p.pos])
		}
		return affine{konst: v}, nil
	case c == 0:
		return affine{}, p.errorf("unexpected end of expression")
	}
	return affine{}, p.errorf("unexpected character %q", c)
}

// parseComponent parses one of the three comma-separated parts of an operation.
func parseComponent(s string) (affine, error) {
	p := &parser{src: s}
	a, err := p.expr()
	if err != nil {
		return affine{}, err
	}
	if p.peek() != 0 {
		return affine{}, p.errorf("unexpected character %q", p.src[p.pos])
	}
	return a, nil
}

// ParseOp parses a symmetry operation in the usual crystallographic notation,
// such as "-x, y+1/2, -z" or "'x-y,x,z+1/6'". The three components must be affine
// functions of x, y and z.
func ParseOp(s string) (Op, error) {
	src := strings.TrimSpace(s)
	src = strings.Trim(src, `'"`)
	parts := strings.Split(src, ",")
	if len(parts) != 3 {
		return Op{}, xerr.New(xerr.SymmetryParse, "symmetry.ParseOp", "%q has %d components, 3 expected", s, len(parts))
	}
	var op Op
	for i, part := range parts {
		a, err := parseComponent(part)
		if err != nil {
			return Op{}, xerr.Decorate(err, "symmetry.ParseOp")
		}
		op.Rot[i] = a.coef
		op.Trans[i] = a.konst
	}
	return op, nil
}

// ParseOps parses every operation in ops, stopping at the first error.
func ParseOps(ops []string) ([]Op, error) {
	ret := make([]Op, 0, len(ops))
	for i, s := range ops {
		op, err := ParseOp(s)
		if err != nil {
			return nil, xerr.Decorate(err, "symmetry.ParseOps(op "+strconv.Itoa(i)+")")
		}
		ret = append(ret, op)
	}
	return ret, nil
}
