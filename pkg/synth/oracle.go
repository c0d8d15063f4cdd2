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
	"fmt"

	"github.com/consensys/absynth/pkg/ast"
	"github.com/consensys/absynth/pkg/eval"
	"github.com/consensys/absynth/pkg/lattice"
	"github.com/consensys/absynth/pkg/value"
)

// Interpreter evaluates a candidate program on a list of positional inputs,
// which are bound to the variables arg0, arg1, etc.
type Interpreter func(inputs ...value.Value) (value.Value, error)

// Oracle decides whether a candidate program is acceptable, typically by
// running it on every example.
type Oracle func(Interpreter) bool

// Example is an input/output pair which a synthesized program must satisfy.
type Example struct {
	Inputs []value.Value
	Output value.Value
}

// ArgName returns the name of the variable bound to the ith input.
func ArgName(i int) string {
	return fmt.Sprintf("arg%d", i)
}

// Interpret constructs an interpreter for a given (closed) program.
func Interpret[L lattice.Lattice[L]](arena *ast.Arena[L], id ast.NodeID) Interpreter {
	return func(inputs ...value.Value) (value.Value, error) {
		env := make(eval.Env, len(inputs))
		//
		for i, v := range inputs {
			env[ArgName(i)] = v
		}
		//
		return eval.Concrete(arena, id, env)
	}
}

// Examples constructs an oracle which accepts a program only when it produces
// the expected output on every example.  Programs which fail to evaluate are
// rejected.
func Examples(examples ...Example) Oracle {
	return func(run Interpreter) bool {
		for _, ex := range examples {
			if actual, err := run(ex.Inputs...); err != nil || !actual.Equals(ex.Output) {
				return false
			}
		}
		//
		return true
	}
}
