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
	"strconv"
	"unicode"

	"github.com/consensys/absynth/pkg/util/source"
	"github.com/consensys/absynth/pkg/util/source/sexp"
)

// Parse a linear expression written as an S-Expression, such as "(- x 3)" or
// "(+ (* 2 n) 1)".
func Parse(text string) (Expr, []source.SyntaxError) {
	term, srcmap, err := sexp.ParseString("expr", text)
	if err != nil {
		return Expr{}, []source.SyntaxError{*err}
	}
	//
	return NewParser(srcmap).Parse(term)
}

// Parser is responsible for parsing S-expressions into linear expressions.
type Parser struct {
	// Maps S-Expressions to their spans in the original source file.  This is
	// used for reporting syntax errors.
	srcmap *source.Map[sexp.SExp]
}

// NewParser constructs a new parser for a given source map.
func NewParser(srcmap *source.Map[sexp.SExp]) *Parser {
	return &Parser{srcmap}
}

// Parse a given S-expression into a linear expression, or produce one or more
// syntax errors.
func (p *Parser) Parse(expr sexp.SExp) (Expr, []source.SyntaxError) {
	switch e := expr.(type) {
	case *sexp.Symbol:
		return p.parseSymbol(e)
	case *sexp.List:
		return p.parseList(e)
	default:
		return Expr{}, p.srcmap.SyntaxErrors(expr, "unknown term")
	}
}

func (p *Parser) parseSymbol(symbol *sexp.Symbol) (Expr, []source.SyntaxError) {
	if c, err := strconv.ParseInt(symbol.Value, 10, 64); err == nil {
		return Const(c), nil
	} else if isIdentifier(symbol.Value) {
		return Var(symbol.Value), nil
	}
	//
	return Expr{}, p.srcmap.SyntaxErrors(symbol, "invalid symbol")
}

func (p *Parser) parseList(list *sexp.List) (Expr, []source.SyntaxError) {
	if list.Len() <= 1 {
		return Expr{}, p.srcmap.SyntaxErrors(list, "malformed expression")
	} else if list.Get(0).AsSymbol() == nil {
		return Expr{}, p.srcmap.SyntaxErrors(list.Get(0), "expected operator")
	}
	//
	switch list.Head() {
	case "+":
		return p.foldList(list.Elements[1:], func(l, r Expr) (Expr, error) {
			return l.Add(r), nil
		})
	case "-":
		if list.Len() == 2 {
			// Unary negation
			e, errs := p.Parse(list.Get(1))
			return e.Neg(), errs
		}
		//
		return p.foldList(list.Elements[1:], func(l, r Expr) (Expr, error) {
			return l.Sub(r), nil
		})
	case "*":
		return p.foldList(list.Elements[1:], Expr.Mul)
	default:
		return Expr{}, p.srcmap.SyntaxErrors(list.Get(0), "unknown operator")
	}
}

// Type of operators to be used with fold.
type foldOp func(Expr, Expr) (Expr, error)

func (p *Parser) foldList(elements []sexp.SExp, op foldOp) (Expr, []source.SyntaxError) {
	var res Expr
	// Fold over each element
	for i := 0; i < len(elements); i++ {
		e, errs := p.Parse(elements[i])
		//
		if len(errs) > 0 {
			return res, errs
		} else if i == 0 {
			res = e
		} else if r, err := op(res, e); err != nil {
			return res, p.srcmap.SyntaxErrors(elements[i], err.Error())
		} else {
			res = r
		}
	}
	//
	return res, nil
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if r != '_' && !unicode.IsLetter(r) && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	//
	return s != ""
}
