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
	"strings"
	"unicode/utf8"

	"github.com/consensys/absynth/pkg/util/linear"
	"github.com/consensys/absynth/pkg/value"
)

type lengthKind uint8

const (
	lengthBot lengthKind = iota
	lengthExact
	lengthTop
)

// Length abstracts strings by their length, which may be symbolic (e.g. "the
// length of the input minus three").  The ordering is Top ⊒ Len(l) ⊒ Bot,
// where distinct lengths are incomparable.
type Length struct {
	kind lengthKind
	expr linear.Expr
}

var _ Lattice[Length] = Length{}

// Len constructs the abstraction of strings whose length is a given linear
// expression.
func Len(e linear.Expr) Length {
	return Length{lengthExact, e}
}

// LenOf constructs the abstraction of strings with a given constant length.
func LenOf(n int64) Length {
	return Len(linear.Const(n))
}

// ParseLength parses a length element, which is either "top" (or "⊤"), "bot"
// (or "⊥") or a linear expression such as "(- x 3)".
func ParseLength(text string) (Length, error) {
	switch strings.TrimSpace(text) {
	case "top", "⊤":
		return Length{kind: lengthTop}, nil
	case "bot", "⊥":
		return Length{kind: lengthBot}, nil
	}
	//
	e, errs := linear.Parse(text)
	if len(errs) > 0 {
		return Length{}, &errs[0]
	}
	//
	return Len(e), nil
}

// Top implementation for the Lattice interface.
func (p Length) Top() Length {
	return Length{kind: lengthTop}
}

// Bot implementation for the Lattice interface.
func (p Length) Bot() Length {
	return Length{kind: lengthBot}
}

// IsTop implementation for the Lattice interface.
func (p Length) IsTop() bool {
	return p.kind == lengthTop
}

// IsBot implementation for the Lattice interface.
func (p Length) IsBot() bool {
	return p.kind == lengthBot
}

// Expr returns the length expression of this element, provided it is neither
// top nor bottom.
func (p Length) Expr() (linear.Expr, bool) {
	return p.expr, p.kind == lengthExact
}

// PartialCmp implementation for the Lattice interface.
func (p Length) PartialCmp(other Length) Ordering {
	switch {
	case p.kind == other.kind && p.kind != lengthExact:
		return Equal
	case p.kind == lengthTop || other.kind == lengthBot:
		return Greater
	case p.kind == lengthBot || other.kind == lengthTop:
		return Less
	case p.expr.Equals(other.expr):
		return Equal
	default:
		return Incomparable
	}
}

// Equals implementation for the Lattice interface.
func (p Length) Equals(other Length) bool {
	return p.PartialCmp(other) == Equal
}

// Abstract maps a string onto its length.  Other values have no abstraction.
func (p Length) Abstract(v value.Value) (Length, bool) {
	if s, ok := v.AsString(); ok {
		return LenOf(int64(utf8.RuneCountInString(s))), true
	}
	//
	return Length{}, false
}

// Add two lengths.  Top absorbs on the left, then bottom, then top on the
// right.
func (p Length) Add(other Length) Length {
	switch {
	case p.kind != lengthExact:
		return p
	case other.kind != lengthExact:
		return other
	default:
		return Len(p.expr.Add(other.expr))
	}
}

// Sub subtracts one length from another, with the same absorption rules as
// Add.
func (p Length) Sub(other Length) Length {
	switch {
	case p.kind != lengthExact:
		return p
	case other.kind != lengthExact:
		return other
	default:
		return Len(p.expr.Sub(other.expr))
	}
}

func (p Length) String() string {
	switch p.kind {
	case lengthTop:
		return "⊤"
	case lengthBot:
		return "⊥"
	default:
		return p.expr.String()
	}
}

// GoString makes lengths readable in test failure output.
func (p Length) GoString() string {
	return fmt.Sprintf("Length(%s)", p.String())
}
