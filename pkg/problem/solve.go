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
package problem

import (
	"context"

	"github.com/consensys/absynth/pkg/domain"
	"github.com/consensys/absynth/pkg/eval"
	"github.com/consensys/absynth/pkg/lattice"
	"github.com/consensys/absynth/pkg/synth"
	"github.com/pkg/errors"
)

// Solution to a problem, consisting of one or more programs of the same size.
type Solution struct {
	// Programs accepted, rendered as S-Expressions.
	Programs []string
	// Size of the programs accepted.
	Size uint
	// Work done by the search.
	Stats synth.Stats
}

// Solve searches for programs satisfying this problem.  The search fails with
// a *synth.Failure when no program within the size bound is found.
func (p *Problem) Solve(ctx context.Context, options synth.Options) (*Solution, error) {
	switch p.Domain {
	case TypeDomain:
		target, err := lattice.ParseType(p.Target)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: target", p.Name)
		}
		//
		env, err := environment(p, lattice.ParseType)
		if err != nil {
			return nil, err
		}
		//
		return solve[lattice.Type](ctx, p, domain.Types{}, target, env, options)
	default:
		target, err := lattice.ParseLength(p.Target)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: target", p.Name)
		}
		//
		env, err := environment(p, lattice.ParseLength)
		if err != nil {
			return nil, err
		}
		//
		return solve[lattice.Length](ctx, p, domain.Length{}, target, env, options)
	}
}

func solve[L lattice.Lattice[L]](ctx context.Context, p *Problem, dom synth.Domain[L], target L,
	env eval.AbsEnv[L], options synth.Options) (*Solution, error) {
	search := synth.NewContext(dom, env, p.Constants, options)
	progs, err := search.Synthesize(ctx, target, synth.Examples(p.Examples...))
	//
	if err != nil {
		return nil, err
	}
	//
	solution := &Solution{Size: progs[0].Size(), Stats: search.Stats()}
	//
	for _, prog := range progs {
		solution.Programs = append(solution.Programs, prog.String())
	}
	//
	return solution, nil
}

// Construct the abstract environment from the variable descriptions of a
// problem.
func environment[L lattice.Lattice[L]](p *Problem, parse func(string) (L, error)) (eval.AbsEnv[L], error) {
	env := make(eval.AbsEnv[L], len(p.Variables))
	//
	for name, text := range p.Variables {
		l, err := parse(text)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: variable %s", p.Name, name)
		}
		//
		env[name] = lattice.Abs(l)
	}
	//
	return env, nil
}
