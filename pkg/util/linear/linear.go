// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package linear

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/consensys/absynth/pkg/util/source/sexp"
)

// ErrNonLinear is returned when multiplying two expressions which both contain
// symbols, since the result would no longer be linear.
var ErrNonLinear = errors.New("non-linear multiplication")

// Term is a single symbol scaled by a non-zero coefficient.
type Term struct {
	Symbol string
	Coeff  int64
}

// Expr is an affine integer expression: a constant plus zero or more symbols,
// each scaled by a coefficient.  Expressions are immutable and always kept in
// normal form (terms sorted by symbol, no zero coefficients), hence two
// expressions are equal exactly when they are syntactically equal.
type Expr struct {
	constant int64
	terms    []Term
}

// Const constructs a constant expression.
func Const(c int64) Expr {
	return Expr{c, nil}
}

// Var constructs an expression consisting of a single symbol.
func Var(symbol string) Expr {
	return Expr{0, []Term{{symbol, 1}}}
}

// New constructs an expression from a constant and a set of coefficients.
func New(constant int64, coeffs map[string]int64) Expr {
	terms := make([]Term, 0, len(coeffs))
	//
	for s, c := range coeffs {
		if c != 0 {
			terms = append(terms, Term{s, c})
		}
	}
	//
	slices.SortFunc(terms, func(l, r Term) int { return strings.Compare(l.Symbol, r.Symbol) })
	//
	return Expr{constant, terms}
}

// Constant returns the constant part of this expression.
func (p Expr) Constant() int64 {
	return p.constant
}

// Terms returns the symbolic part of this expression.  The returned slice must
// not be modified.
func (p Expr) Terms() []Term {
	return p.terms
}

// Coefficient returns the coefficient of a given symbol (which is zero if the
// symbol does not occur).
func (p Expr) Coefficient(symbol string) int64 {
	for _, t := range p.terms {
		if t.Symbol == symbol {
			return t.Coeff
		}
	}
	//
	return 0
}

// Symbols returns the symbols used in this expression, in sorted order.
func (p Expr) Symbols() []string {
	symbols := make([]string, len(p.terms))
	for i, t := range p.terms {
		symbols[i] = t.Symbol
	}
	//
	return symbols
}

// IsConstant checks whether this expression contains no symbols.
func (p Expr) IsConstant() bool {
	return len(p.terms) == 0
}

// Int64 converts this expression into a plain integer, which is only possible
// when it is constant.
func (p Expr) Int64() (int64, bool) {
	if len(p.terms) != 0 {
		return 0, false
	}
	//
	return p.constant, true
}

// Equals checks whether two expressions are identical.
func (p Expr) Equals(other Expr) bool {
	return p.constant == other.constant && slices.Equal(p.terms, other.terms)
}

// Add two expressions together.
func (p Expr) Add(other Expr) Expr {
	return p.combine(other, 1)
}

// Sub subtracts one expression from another.
func (p Expr) Sub(other Expr) Expr {
	return p.combine(other, -1)
}

// Neg negates this expression.
func (p Expr) Neg() Expr {
	return p.Scale(-1)
}

// Scale multiplies this expression by a constant.
func (p Expr) Scale(k int64) Expr {
	if k == 0 {
		return Const(0)
	}
	//
	terms := make([]Term, len(p.terms))
	for i, t := range p.terms {
		terms[i] = Term{t.Symbol, t.Coeff * k}
	}
	//
	return Expr{p.constant * k, terms}
}

// Mul multiplies two expressions, provided at least one of them is constant.
func (p Expr) Mul(other Expr) (Expr, error) {
	if c, ok := p.Int64(); ok {
		return other.Scale(c), nil
	} else if c, ok := other.Int64(); ok {
		return p.Scale(c), nil
	}
	//
	return Expr{}, ErrNonLinear
}

// Merge two sorted term lists, scaling the right-hand side by a given sign.
func (p Expr) combine(other Expr, sign int64) Expr {
	var (
		terms = make([]Term, 0, len(p.terms)+len(other.terms))
		i, j  int
	)
	//
	for i < len(p.terms) || j < len(other.terms) {
		switch {
		case j == len(other.terms) || (i < len(p.terms) && p.terms[i].Symbol < other.terms[j].Symbol):
			terms = append(terms, p.terms[i])
			i++
		case i == len(p.terms) || other.terms[j].Symbol < p.terms[i].Symbol:
			terms = append(terms, Term{other.terms[j].Symbol, sign * other.terms[j].Coeff})
			j++
		default:
			if c := p.terms[i].Coeff + sign*other.terms[j].Coeff; c != 0 {
				terms = append(terms, Term{p.terms[i].Symbol, c})
			}

			i++
			j++
		}
	}
	//
	if len(terms) == 0 {
		terms = nil
	}
	//
	return Expr{p.constant + sign*other.constant, terms}
}

// SExp returns this expression as an S-Expression, for example "(- x 3)".
func (p Expr) SExp() sexp.SExp {
	var pos, neg []sexp.SExp
	//
	if len(p.terms) == 0 {
		return number(p.constant)
	}
	//
	for _, t := range p.terms {
		if t.Coeff > 0 {
			pos = append(pos, term(t.Symbol, t.Coeff))
		} else {
			neg = append(neg, term(t.Symbol, -t.Coeff))
		}
	}
	//
	if p.constant > 0 {
		pos = append(pos, number(p.constant))
	} else if p.constant < 0 {
		neg = append(neg, number(-p.constant))
	}
	//
	switch {
	case len(neg) == 0 && len(pos) == 1:
		return pos[0]
	case len(neg) == 0:
		return sexp.NewList(append([]sexp.SExp{sexp.NewSymbol("+")}, pos...)...)
	case len(pos) == 0:
		pos = []sexp.SExp{number(0)}
	case len(pos) > 1:
		pos = []sexp.SExp{sexp.NewList(append([]sexp.SExp{sexp.NewSymbol("+")}, pos...)...)}
	}
	//
	return sexp.NewList(append([]sexp.SExp{sexp.NewSymbol("-"), pos[0]}, neg...)...)
}

func (p Expr) String() string {
	return p.SExp().String(false)
}

func term(symbol string, coeff int64) sexp.SExp {
	if coeff == 1 {
		return sexp.NewSymbol(symbol)
	}
	//
	return sexp.NewList(sexp.NewSymbol("*"), number(coeff), sexp.NewSymbol(symbol))
}

func number(c int64) sexp.SExp {
	return sexp.NewSymbol(strconv.FormatInt(c, 10))
}
