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
package domain

import (
	"github.com/consensys/absynth/pkg/ast"
	"github.com/consensys/absynth/pkg/eval"
	"github.com/consensys/absynth/pkg/lattice"
	"github.com/consensys/absynth/pkg/util/linear"
	"github.com/consensys/absynth/pkg/value"
)

type (
	length = lattice.Length
	lmixed = lattice.Mixed[lattice.Length]
)

// Length is the abstract domain of string lengths.  Abstract elements describe
// strings whose length is given by a linear expression over symbols, such as
// the length x of an input.  Operations which cannot be characterised by
// length (e.g. replace, or any integer or boolean result computed from an
// abstract string) give top.
type Length struct{}

// TypeOf returns the type of values described by a mixed value.  Exact lengths
// describe strings, whilst nothing is known about top or bottom.
func (p Length) TypeOf(m lmixed) (value.Type, bool) {
	if l, ok := m.Element(); !ok {
		return concreteType(m)
	} else if _, ok := l.Expr(); ok {
		return value.StringType, true
	}
	//
	return value.ErrorType, false
}

// Apply the abstract semantics of a function to its arguments.
func (p Length) Apply(fn ast.Func, args []lmixed) (lmixed, error) {
	if err := checkTypes[length](p, fn, args); err != nil {
		return lmixed{}, err
	}
	//
	switch fn {
	case ast.Append:
		return p.append(args[0], args[1]), nil
	case ast.Substr:
		return p.substr(args[0], args[1], args[2])
	case ast.At:
		return p.at(args[0], args[1])
	case ast.Len:
		return p.len(args[0]), nil
	}
	// Everything else is uncharacterised
	if anyBot(args) {
		return lattice.Abs(lattice.Bot[length]()), nil
	}
	//
	return lattice.Abs(lattice.Top[length]()), nil
}

func (p Length) append(lhs, rhs lmixed) lmixed {
	l, lok := lhs.Lift()
	r, rok := rhs.Lift()
	//
	switch {
	case !lok || !rok || l.IsTop() || r.IsTop():
		return lattice.Abs(l.Top())
	case l.IsBot():
		return lattice.Abs(r)
	case r.IsBot():
		return lattice.Abs(l)
	default:
		return lattice.Abs(l.Add(r))
	}
}

// Substring of a string whose length is (possibly) known.  Bounds must be
// concrete (though may be symbolic) for the result to be characterised.
// Bounds which are provably invalid are reported as such.
func (p Length) substr(recv, start, end lmixed) (lmixed, error) {
	r, _ := recv.Lift()
	s, sok := index(start)
	e, eok := index(end)
	//
	switch {
	case r.IsBot():
		return lattice.Abs(r), nil
	case !sok || !eok:
		return lattice.Abs(r.Top()), nil
	}
	//
	diff := e.Sub(s)
	//
	if c, ok := s.Int64(); ok && c < 0 {
		return lmixed{}, eval.NewError(eval.InvalidIndex, ast.Substr.String(), "start %d", c)
	} else if c, ok := diff.Int64(); ok && c < 0 {
		return lmixed{}, eval.NewError(eval.InvalidIndex, ast.Substr.String(), "start %s after end %s", s, e)
	} else if l, ok := r.Expr(); ok {
		if c, ok := l.Sub(e).Int64(); ok && c < 0 {
			return lmixed{}, eval.NewError(eval.InvalidIndex, ast.Substr.String(), "end %s beyond length %s", e, l)
		}
	}
	//
	return lattice.Abs(lattice.Len(diff)), nil
}

func (p Length) at(recv, idx lmixed) (lmixed, error) {
	r, _ := recv.Lift()
	//
	if r.IsBot() {
		return lattice.Abs(r), nil
	} else if i, ok := index(idx); !ok {
		return lattice.Abs(lattice.LenOf(1)), nil
	} else if c, ok := i.Int64(); ok && c < 0 {
		return lmixed{}, eval.NewError(eval.InvalidIndex, ast.At.String(), "index %d", c)
	} else if l, ok := r.Expr(); ok {
		if c, ok := l.Sub(i).Int64(); ok && c <= 0 {
			return lmixed{}, eval.NewError(eval.InvalidIndex, ast.At.String(), "index %s beyond length %s", i, l)
		}
	}
	//
	return lattice.Abs(lattice.LenOf(1)), nil
}

// The length of a string of exact (symbolic) length is the symbolic integer
// itself.
func (p Length) len(recv lmixed) lmixed {
	r, ok := recv.Lift()
	//
	if !ok {
		return lattice.Abs(r.Top())
	} else if l, ok := r.Expr(); ok {
		return lattice.Conc[length](value.Int(l))
	}
	//
	return lattice.Abs(r)
}

// Shapes returns the function shapes which can produce a string described by
// the target.
func (p Length) Shapes(target length) []ast.Shape {
	if target.IsBot() {
		return nil
	} else if target.IsTop() {
		return []ast.Shape{Shape(ast.Append), Shape(ast.Replace), Shape(ast.Substr), Shape(ast.At), Shape(ast.ToStr)}
	}
	//
	var (
		shapes  = []ast.Shape{Shape(ast.Append), Shape(ast.Substr)}
		l, _    = target.Expr()
		c, cons = l.Int64()
	)
	//
	if cons && c == 1 {
		shapes = append(shapes, Shape(ast.At))
	}
	//
	if cons && c > 0 {
		shapes = append(shapes, Shape(ast.ToStr))
	}
	//
	return shapes
}

// Invert determines the target of the dependent argument of a function, given
// the target of the call and the remaining arguments.  For append, this is the
// target less the length of the other argument.  A false result indicates no
// argument can satisfy the target.
func (p Length) Invert(fn ast.Func, target length, pos int, args []lmixed) (length, bool) {
	if fn != ast.Append {
		return target.Top(), !target.IsBot()
	}
	//
	other, ok := args[1-pos].Lift()
	if !ok {
		return target.Bot(), false
	}
	//
	rest := target.Sub(other)
	//
	if rest.IsBot() {
		return rest, false
	} else if l, ok := rest.Expr(); ok {
		if c, ok := l.Int64(); ok && c < 0 {
			return rest, false
		}
	}
	//
	return rest, true
}

// Extract an index or bound from a mixed value, which is only possible when it
// is a concrete integer.
func index(m lmixed) (linear.Expr, bool) {
	if v, ok := m.Concrete(); ok {
		return v.AsInt()
	}
	//
	return linear.Expr{}, false
}
