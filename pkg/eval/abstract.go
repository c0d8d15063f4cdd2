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
package eval

import (
	"github.com/consensys/absynth/pkg/ast"
	"github.com/consensys/absynth/pkg/lattice"
	"github.com/consensys/absynth/pkg/value"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Semantics describes how the functions of the DSL behave over one lattice.
// Each abstract domain supplies one implementation.
type Semantics[L lattice.Lattice[L]] interface {
	// Apply a function to arguments at least one of which is abstract (or
	// which could not be evaluated concretely because an index was symbolic).
	Apply(fn ast.Func, args []lattice.Mixed[L]) (lattice.Mixed[L], error)
	// TypeOf determines the type of values described by a mixed value, if
	// this is known.
	TypeOf(m lattice.Mixed[L]) (value.Type, bool)
}

// AbsEnv binds variable names to mixed values.
type AbsEnv[L lattice.Lattice[L]] map[string]lattice.Mixed[L]

// Abstract evaluates expressions (including partial ones) over mixed values.
// Results stay concrete for as long as all operands are concrete, and holes
// evaluate to their target.  Since nodes are immutable and the environment is
// fixed, results are memoized per node.
type Abstract[L lattice.Lattice[L]] struct {
	arena     *ast.Arena[L]
	semantics Semantics[L]
	env       AbsEnv[L]
	memo      *lru.Cache[ast.NodeID, result[L]]
}

type result[L lattice.Lattice[L]] struct {
	value lattice.Mixed[L]
	err   error
}

// NewAbstract constructs an abstract evaluator for a given arena and
// environment.  At most cacheSize results are memoized (none if cacheSize is
// zero).
func NewAbstract[L lattice.Lattice[L]](arena *ast.Arena[L], semantics Semantics[L], env AbsEnv[L],
	cacheSize int) *Abstract[L] {
	var memo *lru.Cache[ast.NodeID, result[L]]
	//
	if cacheSize > 0 {
		// Only fails for non-positive sizes
		memo, _ = lru.New[ast.NodeID, result[L]](cacheSize)
	}
	//
	return &Abstract[L]{arena, semantics, env, memo}
}

// Semantics returns the semantics used by this evaluator.
func (p *Abstract[L]) Semantics() Semantics[L] {
	return p.semantics
}

// Env returns the environment used by this evaluator.
func (p *Abstract[L]) Env() AbsEnv[L] {
	return p.env
}

// Eval evaluates a given node.
func (p *Abstract[L]) Eval(id ast.NodeID) (lattice.Mixed[L], error) {
	if p.memo != nil {
		if r, ok := p.memo.Get(id); ok {
			return r.value, r.err
		}
	}
	//
	v, err := p.eval(id)
	//
	if p.memo != nil {
		p.memo.Add(id, result[L]{v, err})
	}
	//
	return v, err
}

func (p *Abstract[L]) eval(id ast.NodeID) (lattice.Mixed[L], error) {
	var arena = p.arena
	//
	switch arena.Kind(id) {
	case ast.ConstKind:
		return lattice.Conc[L](arena.Value(id)), nil
	case ast.VarKind:
		if v, ok := p.env[arena.Name(id)]; ok {
			return v, nil
		}
		//
		return lattice.Mixed[L]{}, NewError(UnboundVariable, arena.Name(id), "")
	case ast.HoleKind:
		return lattice.Abs(arena.Target(id)), nil
	case ast.CallKind:
		var (
			params = arena.Args(id)
			args   = make([]lattice.Mixed[L], len(params))
			err    error
		)
		//
		for i, arg := range params {
			if args[i], err = p.Eval(arg); err != nil {
				return lattice.Mixed[L]{}, err
			}
		}
		//
		return p.Apply(arena.Func(id), args)
	case ast.IfKind:
		return p.evalIf(arena.Args(id))
	default:
		return lattice.Mixed[L]{}, NewError(UnresolvedHole, arena.String(id), "")
	}
}

func (p *Abstract[L]) evalIf(args []ast.NodeID) (lattice.Mixed[L], error) {
	cond, err := p.Eval(args[0])
	if err != nil {
		return cond, err
	} else if v, ok := cond.Concrete(); ok {
		if b, ok := v.AsBool(); !ok {
			return lattice.Mixed[L]{}, NewError(TypeMismatch, "if", "condition is %s", v.Type())
		} else if b {
			return p.Eval(args[1])
		}
		//
		return p.Eval(args[2])
	}
	// Either branch may be taken
	then, err1 := p.Eval(args[1])
	otherwise, err2 := p.Eval(args[2])
	//
	if err1 == nil && err2 == nil && then.Equals(otherwise) {
		return then, nil
	}
	//
	return lattice.Abs(lattice.Top[L]()), nil
}

// Apply a function to mixed arguments.  Fully concrete calls are evaluated
// concretely, unless they fail only because an index is symbolic, in which
// case the abstract semantics takes over.
func (p *Abstract[L]) Apply(fn ast.Func, args []lattice.Mixed[L]) (lattice.Mixed[L], error) {
	if vals, ok := concretes(args); ok {
		v, err := Apply(fn, vals)
		//
		if err == nil {
			return lattice.Conc[L](v), nil
		} else if !IsKind(err, NonConstantIndex) {
			return lattice.Mixed[L]{}, err
		}
	}
	//
	return p.semantics.Apply(fn, args)
}

func concretes[L lattice.Lattice[L]](args []lattice.Mixed[L]) ([]value.Value, bool) {
	vals := make([]value.Value, len(args))
	//
	for i, arg := range args {
		v, ok := arg.Concrete()
		if !ok {
			return nil, false
		}
		//
		vals[i] = v
	}
	//
	return vals, true
}
