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
package ast

import (
	"fmt"

	"github.com/consensys/absynth/pkg/lattice"
	"github.com/consensys/absynth/pkg/util/source/sexp"
	"github.com/consensys/absynth/pkg/value"
)

// Expr is a handle onto a node of an arena, giving access to the expression
// rooted at that node.
type Expr[L lattice.Lattice[L]] struct {
	arena *Arena[L]
	id    NodeID
}

// Arena returns the arena holding this expression.
func (e Expr[L]) Arena() *Arena[L] {
	return e.arena
}

// ID returns the index of this expression's root node.
func (e Expr[L]) ID() NodeID {
	return e.id
}

// Kind returns the form of this expression's root node.
func (e Expr[L]) Kind() Kind {
	return e.arena.Kind(e.id)
}

// Size returns the size of this expression.
func (e Expr[L]) Size() uint {
	return e.arena.Size(e.id)
}

// HasHole checks whether this expression contains any holes.
func (e Expr[L]) HasHole() bool {
	return e.arena.HasHole(e.id)
}

// SExp converts this expression into an S-Expression.
func (e Expr[L]) SExp() sexp.SExp {
	return e.arena.SExp(e.id)
}

// String renders this expression as a fully parenthesized S-Expression, such as
// (substr arg0 0 (- (len arg0) 3)).
func (e Expr[L]) String() string {
	return e.arena.String(e.id)
}

// String renders a given node as an S-Expression.
func (p *Arena[L]) String(id NodeID) string {
	return p.SExp(id).String(false)
}

// SExp converts a given node into an S-Expression.
func (p *Arena[L]) SExp(id NodeID) sexp.SExp {
	switch p.Kind(id) {
	case ConstKind:
		return valueSExp(p.Value(id))
	case VarKind:
		return sexp.NewSymbol(p.Name(id))
	case CallKind:
		return p.list(sexp.NewSymbol(p.Func(id).String()), p.Args(id))
	case IfKind:
		return p.list(sexp.NewSymbol("if"), p.Args(id))
	case HoleKind:
		list := sexp.NewList(sexp.NewSymbol("□"), sexp.NewSymbol(p.Target(id).String()))
		//
		if call, ok := p.PendingCall(id); ok {
			list.Append(p.SExp(call))
		}
		//
		return list
	case ConcHoleKind:
		return sexp.NewSymbol(fmt.Sprintf("□%d", p.Budget(id)))
	default:
		return sexp.NewSymbol("□")
	}
}

func (p *Arena[L]) list(head sexp.SExp, args []NodeID) *sexp.List {
	elements := make([]sexp.SExp, len(args)+1)
	elements[0] = head
	//
	for i, arg := range args {
		elements[i+1] = p.SExp(arg)
	}
	//
	return sexp.NewList(elements...)
}

func valueSExp(v value.Value) sexp.SExp {
	if s, ok := v.AsString(); ok {
		return sexp.NewString(s)
	} else if e, ok := v.AsInt(); ok {
		return e.SExp()
	}
	//
	return sexp.NewSymbol(v.String())
}
