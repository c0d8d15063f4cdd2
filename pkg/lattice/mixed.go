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

import (
	"fmt"

	"github.com/consensys/absynth/pkg/value"
)

// Mixed is either a concrete value or an abstract lattice element.  Abstract
// evaluation produces mixed values, keeping results concrete for as long as
// possible.
type Mixed[L Lattice[L]] struct {
	conc     value.Value
	abs      L
	abstract bool
}

// Conc constructs a concrete mixed value.
func Conc[L Lattice[L]](v value.Value) Mixed[L] {
	return Mixed[L]{conc: v}
}

// Abs constructs an abstract mixed value.
func Abs[L Lattice[L]](l L) Mixed[L] {
	return Mixed[L]{abs: l, abstract: true}
}

// IsAbstract checks whether this is an abstract value.
func (m Mixed[L]) IsAbstract() bool {
	return m.abstract
}

// Concrete returns the concrete value, if this is not abstract.
func (m Mixed[L]) Concrete() (value.Value, bool) {
	return m.conc, !m.abstract
}

// Element returns the lattice element, if this is abstract.
func (m Mixed[L]) Element() (L, bool) {
	return m.abs, m.abstract
}

// Lift returns the lattice element describing this value, abstracting it if
// necessary.  This fails for concrete values with no valid abstraction.
func (m Mixed[L]) Lift() (L, bool) {
	if m.abstract {
		return m.abs, true
	}
	//
	return m.abs.Abstract(m.conc)
}

// Equals checks whether two mixed values are identical.
func (m Mixed[L]) Equals(other Mixed[L]) bool {
	if m.abstract != other.abstract {
		return false
	} else if m.abstract {
		return m.abs.Equals(other.abs)
	}
	//
	return m.conc.Equals(other.conc)
}

// Compare two mixed values.  Concrete values are abstracted before being
// compared against lattice elements, and two concrete values are always
// incomparable.
func Compare[L Lattice[L]](a, b Mixed[L]) Ordering {
	if !a.abstract && !b.abstract {
		return Incomparable
	}
	//
	la, oka := a.Lift()
	lb, okb := b.Lift()
	//
	if !oka || !okb {
		return Incomparable
	}
	//
	return la.PartialCmp(lb)
}

// Below checks whether a mixed value is described by a given lattice element.
func Below[L Lattice[L]](m Mixed[L], target L) bool {
	return Compare(m, Abs(target)).Leq()
}

func (m Mixed[L]) String() string {
	if m.abstract {
		return fmt.Sprintf("Abs(%s)", m.abs.String())
	}
	//
	return fmt.Sprintf("Conc(%s)", m.conc.String())
}
