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
	"github.com/consensys/absynth/pkg/ast"
	"github.com/consensys/absynth/pkg/eval"
	"github.com/consensys/absynth/pkg/lattice"
)

// Domain provides everything the synthesizer needs to know about an abstract
// domain: its forward semantics (for pruning), the shapes of calls which can
// produce a value described by a given element (for expanding holes) and the
// inverse semantics of each function (for targeting dependent arguments).
type Domain[L lattice.Lattice[L]] interface {
	eval.Semantics[L]
	// Shapes returns the call shapes a hole with the given target can be
	// expanded into.
	Shapes(target L) []ast.Shape
	// Invert computes the target of the dependent argument at position pos of
	// a call to fn, given the target of the call and its other (resolved)
	// arguments.  A false result indicates no argument can meet the target.
	Invert(fn ast.Func, target L, pos int, args []lattice.Mixed[L]) (L, bool)
}
