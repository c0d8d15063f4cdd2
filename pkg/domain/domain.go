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
	"github.com/consensys/absynth/pkg/value"
)

// Dependent argument position of each function when it is used as a hole
// shape.  The dependent position is the one whose target is computed from its
// siblings, all other positions being filled with concrete expressions.  A
// value of -1 indicates every argument is concrete.
var dependents = [ast.NumFuncs]int{
	ast.Append:   1,
	ast.Replace:  0,
	ast.Substr:   0,
	ast.Add:      1,
	ast.Sub:      1,
	ast.Len:      0,
	ast.At:       0,
	ast.ToStr:    -1,
	ast.ToInt:    0,
	ast.IndexOf:  0,
	ast.PrefixOf: 1,
	ast.SuffixOf: 1,
	ast.Contains: 0,
}

// Shape returns the hole shape used when expanding a hole into a call of the
// given function.
func Shape(fn ast.Func) ast.Shape {
	return ast.NewShape(fn, dependents[fn])
}

// Check that every argument whose type is known matches the corresponding
// parameter type of the function being applied.
func checkTypes[L lattice.Lattice[L]](sem eval.Semantics[L], fn ast.Func, args []lattice.Mixed[L]) error {
	params := fn.Params()
	//
	if len(args) != len(params) {
		return eval.NewError(eval.TypeMismatch, fn.String(), "expected %d arguments, found %d", len(params), len(args))
	}
	//
	for i, arg := range args {
		if t, ok := sem.TypeOf(arg); ok && t != params[i] {
			return eval.NewError(eval.TypeMismatch, fn.String(), "argument %d is %s, expected %s", i, t, params[i])
		}
	}
	//
	return nil
}

// Check whether any abstract argument is the bottom element.
func anyBot[L lattice.Lattice[L]](args []lattice.Mixed[L]) bool {
	for _, arg := range args {
		if l, ok := arg.Element(); ok && l.IsBot() {
			return true
		}
	}
	//
	return false
}

func concreteType[L lattice.Lattice[L]](m lattice.Mixed[L]) (value.Type, bool) {
	if v, ok := m.Concrete(); ok {
		return v.Type(), true
	}
	//
	return value.ErrorType, false
}
