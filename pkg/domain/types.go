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
	"github.com/consensys/absynth/pkg/lattice"
	"github.com/consensys/absynth/pkg/value"
)

type tmixed = lattice.Mixed[lattice.Type]

// Types is the abstract domain of value types.  It knows nothing beyond the
// type of each value, hence every operation over abstract arguments simply
// gives its result type.
type Types struct{}

// TypeOf returns the type of values described by a mixed value.
func (p Types) TypeOf(m tmixed) (value.Type, bool) {
	if t, ok := m.Element(); ok {
		return t.ValueType()
	}
	//
	return concreteType(m)
}

// Apply checks the argument types of a function and gives its result type.
func (p Types) Apply(fn ast.Func, args []tmixed) (tmixed, error) {
	if err := checkTypes[lattice.Type](p, fn, args); err != nil {
		return tmixed{}, err
	} else if anyBot(args) {
		return lattice.Abs(lattice.BotType), nil
	}
	//
	t, _ := lattice.TypeOf(fn.Result())
	//
	return lattice.Abs(t), nil
}

// Shapes returns a shape for every function whose result type lies below the
// target.
func (p Types) Shapes(target lattice.Type) []ast.Shape {
	var shapes []ast.Shape
	//
	for _, fn := range ast.Funcs() {
		if t, _ := lattice.TypeOf(fn.Result()); lattice.Leq(t, target) && !target.IsBot() {
			shapes = append(shapes, Shape(fn))
		}
	}
	//
	return shapes
}

// Invert gives the parameter type of the dependent argument.
func (p Types) Invert(fn ast.Func, target lattice.Type, pos int, _ []tmixed) (lattice.Type, bool) {
	t, ok := lattice.TypeOf(fn.Params()[pos])
	return t, ok && !target.IsBot()
}
