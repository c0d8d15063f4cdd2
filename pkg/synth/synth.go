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
	"context"
	"fmt"

	"github.com/consensys/absynth/pkg/ast"
	"github.com/consensys/absynth/pkg/eval"
	"github.com/consensys/absynth/pkg/lattice"
	"github.com/consensys/absynth/pkg/value"
	log "github.com/sirupsen/logrus"
)

// Stats records the work done by a synthesis run.
type Stats struct {
	// Worklist items expanded
	Popped uint
	// Worklist items added
	Pushed uint
	// Partial programs discarded rather than queued
	Pruned uint
	// Closed candidates given to the oracle
	Tested uint
	// Sizes enumerated by Concretize
	Enumerations uint
	// Closed expressions held in the concretize cache
	Concretes uint
}

// Log the statistics of a run at debug level.
func (s Stats) Log() {
	log.WithFields(log.Fields{
		"popped":       s.Popped,
		"pushed":       s.Pushed,
		"pruned":       s.Pruned,
		"tested":       s.Tested,
		"enumerations": s.Enumerations,
		"concretes":    s.Concretes,
	}).Debug("synthesis statistics")
}

// Synthesize searches for the smallest programs whose abstract value lies
// below a given target and which are accepted by the oracle.  Variables in
// the environment may be used in programs, as may the given constants.  All
// programs returned have the same size.
func Synthesize[L lattice.Lattice[L]](ctx context.Context, domain Domain[L], target L, env eval.AbsEnv[L],
	constants []value.Value, oracle Oracle, options Options) ([]ast.Expr[L], error) {
	return NewContext(domain, env, constants, options).Synthesize(ctx, target, oracle)
}

// Synthesize runs a best-first search from a single hole with the given
// target.  Partial programs are expanded in order of size (then discovery),
// with closed programs tested against the oracle as soon as they are
// produced.  The search stops after expanding the first item which yields an
// accepted program, returning every program accepted from that item.
func (p *Context[L]) Synthesize(ctx context.Context, target L, oracle Oracle) ([]ast.Expr[L], error) {
	var (
		arena    = p.arena
		maxSize  = p.options.MaxSize
		queue    = newWorklist()
		explored = uint(0)
	)
	//
	defer func() { p.stats.Log() }()
	//
	queue.push(arena.Hole(target), 0)
	p.stats.Pushed++
	//
	for {
		if err := ctx.Err(); err != nil {
			return nil, p.failure(Cancelled, err)
		} else if p.options.MaxItems > 0 && p.stats.Popped >= p.options.MaxItems {
			return nil, p.failure(Budget, nil)
		}
		//
		next, ok := queue.pop()
		if !ok {
			return nil, p.failure(Exhausted, nil)
		} else if next.size > explored {
			explored = next.size
			log.Debug(fmt.Sprintf("exploring size %d (%d queued, %d tested)", explored, queue.len(), p.stats.Tested))
		}
		//
		p.stats.Popped++
		children := p.visit(next.id, maxSize-next.size)
		//
		if accepted := p.test(children, oracle); len(accepted) > 0 {
			log.Debug(fmt.Sprintf("accepted %d programs of size %d", len(accepted), accepted[0].Size()))
			return accepted, nil
		}
		//
		for _, child := range children {
			if !arena.HasHole(child) {
				continue
			} else if p.admissible(child, target) && queue.push(child, arena.Size(child)) {
				p.stats.Pushed++
			} else {
				p.stats.Pruned++
			}
		}
	}
}

// Test every closed candidate against the oracle, returning those accepted.
func (p *Context[L]) test(children []ast.NodeID, oracle Oracle) []ast.Expr[L] {
	var (
		accepted []ast.Expr[L]
		seen     = make(map[ast.NodeID]struct{})
	)
	//
	for _, child := range children {
		if p.arena.HasHole(child) || p.arena.Size(child) > p.options.MaxSize {
			continue
		} else if _, ok := seen[child]; ok {
			continue
		}
		//
		seen[child] = struct{}{}
		p.stats.Tested++
		//
		if oracle(Interpret(p.arena, child)) {
			accepted = append(accepted, p.arena.Expr(child))
		}
	}
	//
	return accepted
}

// A partial program is admissible if it fits within the size bound, and its
// abstract value lies below the target.  Programs which fail to evaluate
// abstractly can never be completed.
func (p *Context[L]) admissible(id ast.NodeID, target L) bool {
	if p.arena.Size(id) > p.options.MaxSize {
		return false
	}
	//
	v, err := p.abstract.Eval(id)
	//
	return err == nil && lattice.Below(v, target)
}

func (p *Context[L]) failure(reason Reason, cause error) *Failure {
	return &Failure{reason, p.options.MaxSize, p.stats.Popped, cause}
}
