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
	"sort"

	"github.com/consensys/absynth/pkg/ast"
	"github.com/consensys/absynth/pkg/eval"
	"github.com/consensys/absynth/pkg/lattice"
	"github.com/consensys/absynth/pkg/value"
	log "github.com/sirupsen/logrus"
)

// Options for a synthesis run.
type Options struct {
	// Largest program size considered.
	MaxSize uint
	// Maximum number of worklist items to expand (0 means unlimited).
	MaxItems uint
	// Capacity of the abstract evaluation cache.
	CacheSize int
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{MaxSize: 5, MaxItems: 0, CacheSize: 1 << 16}
}

// Context holds the state of a single synthesis run: the arena holding every
// program constructed, the abstract evaluator used for pruning and the cache
// of concrete expressions of each size.  A context should not be shared
// between goroutines.
type Context[L lattice.Lattice[L]] struct {
	arena    *ast.Arena[L]
	domain   Domain[L]
	abstract *eval.Abstract[L]
	options  Options
	// Constants (in the order given) followed by variables (by name).
	leaves []ast.NodeID
	// Concrete expressions by size.
	concretes map[uint][]ast.NodeID
	// Concrete expressions by size and type.
	typed map[typedKey][]ast.NodeID
	// Keys of concrete values produced by some cached expression.
	seen  map[string]struct{}
	stats Stats
}

type typedKey struct {
	size uint
	typ  value.Type
}

// NewContext constructs a fresh context for synthesizing programs over a
// given environment and set of constants.
func NewContext[L lattice.Lattice[L]](domain Domain[L], env eval.AbsEnv[L], constants []value.Value,
	options Options) *Context[L] {
	arena := ast.NewArena[L]()
	ctx := &Context[L]{
		arena:     arena,
		domain:    domain,
		abstract:  eval.NewAbstract[L](arena, domain, env, options.CacheSize),
		options:   options,
		concretes: make(map[uint][]ast.NodeID),
		typed:     make(map[typedKey][]ast.NodeID),
		seen:      make(map[string]struct{}),
	}
	//
	for _, c := range constants {
		ctx.leaves = append(ctx.leaves, arena.Const(c))
	}
	//
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	//
	sort.Strings(names)
	//
	for _, name := range names {
		ctx.leaves = append(ctx.leaves, arena.Var(name))
	}
	//
	return ctx
}

// Arena returns the arena holding all programs constructed in this context.
func (p *Context[L]) Arena() *ast.Arena[L] {
	return p.arena
}

// Stats returns the statistics gathered so far.
func (p *Context[L]) Stats() Stats {
	return p.stats
}

// Concretize returns every closed expression of exactly the given size built
// from the constants, variables and functions available.  Expressions whose
// abstract evaluation fails are dropped, as are expressions producing the same
// concrete value as some smaller (or earlier) expression.  Results are cached
// for the lifetime of the context.
func (p *Context[L]) Concretize(size uint) []ast.NodeID {
	if exprs, ok := p.concretes[size]; ok {
		return exprs
	}
	//
	var candidates, exprs []ast.NodeID
	//
	p.stats.Enumerations++
	//
	if size == 0 {
		candidates = p.leaves
	} else {
		for _, fn := range ast.Funcs() {
			p.enumerate(fn, size-1, func(args []ast.NodeID) {
				candidates = append(candidates, p.arena.Call(fn, args...))
			})
		}
	}
	// NOTE: all smaller sizes were cached by enumerate, hence seen is
	// populated in size order.
	for _, id := range candidates {
		v, err := p.abstract.Eval(id)
		//
		if err != nil {
			continue
		} else if c, ok := v.Concrete(); ok {
			key := c.Key()
			//
			if _, ok := p.seen[key]; ok {
				continue
			}
			//
			p.seen[key] = struct{}{}
		}
		//
		exprs = append(exprs, id)
	}
	//
	p.concretes[size] = exprs
	p.stats.Concretes += uint(len(exprs))
	//
	log.Debugf("concretized size %d (%d of %d candidates kept)", size, len(exprs), len(candidates))
	//
	return exprs
}

// Concrete expressions of a given size which can be passed where a value of
// the given type is expected.
func (p *Context[L]) concretesOf(size uint, typ value.Type) []ast.NodeID {
	key := typedKey{size, typ}
	//
	if exprs, ok := p.typed[key]; ok {
		return exprs
	}
	//
	var exprs []ast.NodeID
	//
	for _, id := range p.Concretize(size) {
		if p.hasType(id, typ) {
			exprs = append(exprs, id)
		}
	}
	//
	p.typed[key] = exprs
	//
	return exprs
}

// Enumerate every well-typed argument list for a function whose sizes sum to
// the given budget.
func (p *Context[L]) enumerate(fn ast.Func, budget uint, emit func([]ast.NodeID)) {
	var (
		params = fn.Params()
		args   = make([]ast.NodeID, len(params))
		fill   func(int, uint)
	)
	//
	fill = func(i int, remaining uint) {
		if i == len(params)-1 {
			for _, arg := range p.concretesOf(remaining, params[i]) {
				args[i] = arg
				emit(args)
			}
			//
			return
		}
		//
		for n := uint(0); n <= remaining; n++ {
			for _, arg := range p.concretesOf(n, params[i]) {
				args[i] = arg
				fill(i+1, remaining-n)
			}
		}
	}
	//
	fill(0, budget)
}

// Check whether a closed expression can be used where a value of the given
// type is expected.  Variables of unknown type can be used anywhere.
func (p *Context[L]) hasType(id ast.NodeID, typ value.Type) bool {
	switch p.arena.Kind(id) {
	case ast.ConstKind:
		return p.arena.Value(id).Type() == typ
	case ast.CallKind:
		return p.arena.Func(id).Result() == typ
	case ast.IfKind:
		return p.hasType(p.arena.Args(id)[1], typ)
	case ast.VarKind:
		if v, ok := p.abstract.Env()[p.arena.Name(id)]; ok {
			t, known := p.domain.TypeOf(v)
			return !known || t == typ
		}
	}
	//
	return false
}

// Leaves whose value lies below a given target.
func (p *Context[L]) leavesBelow(target L) []ast.NodeID {
	var leaves []ast.NodeID
	//
	for _, leaf := range p.leaves {
		if v, err := p.abstract.Eval(leaf); err == nil && lattice.Below(v, target) {
			leaves = append(leaves, leaf)
		}
	}
	//
	return leaves
}
