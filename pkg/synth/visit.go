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
package synth

import (
	"slices"

	"github.com/consensys/absynth/pkg/ast"
	"github.com/consensys/absynth/pkg/lattice"
)

// Expand a partial program by one step, producing its children.  The slack
// is the amount by which a child may grow before exceeding the size bound.
// Closed programs are their own (only) child.
func (p *Context[L]) visit(id ast.NodeID, slack uint) []ast.NodeID {
	arena := p.arena
	//
	if !arena.HasHole(id) {
		return []ast.NodeID{id}
	}
	//
	switch arena.Kind(id) {
	case ast.HoleKind:
		if call, ok := arena.PendingCall(id); ok {
			return p.resolve(id, call, slack)
		}
		//
		return p.expand(arena.Target(id), slack)
	case ast.CallKind, ast.IfKind:
		var (
			args     = arena.Args(id)
			options  = make([][]ast.NodeID, len(args))
			children []ast.NodeID
		)
		//
		for i, arg := range args {
			if options[i] = p.visit(arg, slack); len(options[i]) == 0 {
				return nil
			}
		}
		//
		product(options, func(choice []ast.NodeID) {
			children = append(children, p.rebuild(id, choice))
		})
		//
		return children
	}
	// Placeholders only make sense within a pending call
	return nil
}

// Expand an open hole into every leaf below its target, along with a pending
// call for every shape admitted by the target.
func (p *Context[L]) expand(target L, slack uint) []ast.NodeID {
	children := p.leavesBelow(target)
	//
	if slack > 0 {
		for _, shape := range p.domain.Shapes(target) {
			children = append(children, p.arena.Shape(target, shape))
		}
	}
	//
	return children
}

// Resolve a pending call by filling its concrete positions with every
// concrete expression of the budgeted size and, for each such choice, filling
// its dependent position according to the inverse semantics.  Additionally,
// siblings are produced which raise the budget of one concrete position at
// or after the pivot, such that every budget assignment is generated exactly
// once.
func (p *Context[L]) resolve(hole ast.NodeID, call ast.NodeID, slack uint) []ast.NodeID {
	var (
		arena    = p.arena
		target   = arena.Target(hole)
		fn       = arena.Func(call)
		args     = arena.Args(call)
		params   = fn.Params()
		options  = make([][]ast.NodeID, len(args))
		dep      = -1
		children []ast.NodeID
	)
	//
	for i, arg := range args {
		switch arena.Kind(arg) {
		case ast.ConcHoleKind:
			options[i] = p.concretesOf(arena.Budget(arg), params[i])
		case ast.DepHoleKind:
			dep = i
			options[i] = []ast.NodeID{arg}
		default:
			options[i] = []ast.NodeID{arg}
		}
	}
	//
	product(options, func(choice []ast.NodeID) {
		if dep < 0 {
			children = append(children, arena.Call(fn, choice...))
		} else {
			children = p.fill(children, target, fn, dep, choice, slack)
		}
	})
	//
	if slack == 0 {
		return children
	}
	//
	for i := arena.Pivot(hole); i < len(args); i++ {
		if arena.Kind(args[i]) == ast.ConcHoleKind {
			raised := slices.Clone(args)
			raised[i] = arena.ConcHole(arena.Budget(args[i]) + 1)
			children = append(children, arena.Pending(target, arena.Call(fn, raised...), i))
		}
	}
	//
	return children
}

// Fill the dependent position of a call whose other arguments are resolved.
// This is filled with every leaf below the inverted target and, if there is
// room, with a pending call for every shape admitted by that target.
func (p *Context[L]) fill(children []ast.NodeID, target L, fn ast.Func, dep int, choice []ast.NodeID,
	slack uint) []ast.NodeID {
	var (
		arena = p.arena
		param = fn.Params()[dep]
		mixed = make([]lattice.Mixed[L], len(choice))
		args  = slices.Clone(choice)
		err   error
	)
	//
	for i, arg := range choice {
		if i != dep {
			if mixed[i], err = p.abstract.Eval(arg); err != nil {
				return children
			}
		}
	}
	//
	inverse, ok := p.domain.Invert(fn, target, dep, mixed)
	if !ok {
		return children
	}
	//
	for _, leaf := range p.leavesBelow(inverse) {
		if p.hasType(leaf, param) {
			args[dep] = leaf
			children = append(children, arena.Call(fn, args...))
		}
	}
	//
	if slack == 0 {
		return children
	}
	//
	for _, shape := range p.domain.Shapes(inverse) {
		if shape.Func.Result() == param {
			args[dep] = arena.Shape(inverse, shape)
			children = append(children, arena.Call(fn, args...))
		}
	}
	//
	return children
}

// Rebuild a call or conditional with new arguments.
func (p *Context[L]) rebuild(id ast.NodeID, args []ast.NodeID) ast.NodeID {
	if p.arena.Kind(id) == ast.IfKind {
		return p.arena.If(args[0], args[1], args[2])
	}
	//
	return p.arena.Call(p.arena.Func(id), args...)
}

// Enumerate the cartesian product of a list of options.  The slice passed to
// emit is reused between calls.
func product(options [][]ast.NodeID, emit func([]ast.NodeID)) {
	var (
		choice = make([]ast.NodeID, len(options))
		next   func(int)
	)
	//
	next = func(i int) {
		if i == len(options) {
			emit(choice)
			return
		}
		//
		for _, option := range options[i] {
			choice[i] = option
			next(i + 1)
		}
	}
	//
	next(0)
}
