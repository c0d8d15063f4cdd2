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
package lattice

import "github.com/consensys/absynth/pkg/value"

// Ordering is the result of comparing two elements of a partial order.
type Ordering int8

const (
	// Incomparable indicates neither element is below the other.
	Incomparable Ordering = iota
	// Less indicates the left element is strictly below the right.
	Less
	// Equal indicates the two elements are the same.
	Equal
	// Greater indicates the left element is strictly above the right.
	Greater
)

// Leq checks whether this ordering means "below or equal".
func (o Ordering) Leq() bool {
	return o == Less || o == Equal
}

// Reverse flips an ordering, as obtained by swapping its operands.
func (o Ordering) Reverse() Ordering {
	switch o {
	case Less:
		return Greater
	case Greater:
		return Less
	default:
		return o
	}
}

func (o Ordering) String() string {
	switch o {
	case Less:
		return "<"
	case Equal:
		return "="
	case Greater:
		return ">"
	default:
		return "<>"
	}
}

// Lattice describes a partially ordered domain of abstract values with a
// greatest (top) and least (bottom) element.  The methods Top, Bot and Abstract
// do not depend on their receiver and can be called on the zero value.
type Lattice[L any] interface {
	// Top returns the greatest element of this lattice.
	Top() L
	// Bot returns the least element of this lattice.
	Bot() L
	// IsTop checks whether this is the greatest element.
	IsTop() bool
	// IsBot checks whether this is the least element.
	IsBot() bool
	// PartialCmp compares this element against another.  Elements which are
	// not ordered give Incomparable.
	PartialCmp(L) Ordering
	// Equals checks whether two elements are identical.
	Equals(L) bool
	// Abstract returns the most precise element describing a concrete
	// value, or false if the value has no abstraction in this lattice.
	Abstract(value.Value) (L, bool)
	// String returns a human-readable representation of this element.
	String() string
}

// Leq checks whether a ⊑ b.
func Leq[L Lattice[L]](a, b L) bool {
	return a.PartialCmp(b).Leq()
}

// Top returns the greatest element of a given lattice.
func Top[L Lattice[L]]() L {
	var empty L
	return empty.Top()
}

// Bot returns the least element of a given lattice.
func Bot[L Lattice[L]]() L {
	var empty L
	return empty.Bot()
}

// Abstract returns the abstraction of a concrete value in a given lattice.
func Abstract[L Lattice[L]](v value.Value) (L, bool) {
	var empty L
	return empty.Abstract(v)
}
