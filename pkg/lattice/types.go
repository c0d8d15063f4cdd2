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

	"github.com/consensys/absynth/pkg/value"
)

// Type abstracts values by their type.  The ordering is Top ⊒ {String,
// Integer, Boolean} ⊒ Bot, where the three types are mutually incomparable.
type Type uint8

const (
	// BotType is the least element.
	BotType Type = iota
	// StringType describes all strings.
	StringType
	// IntegerType describes all integers.
	IntegerType
	// BooleanType describes both booleans.
	BooleanType
	// TopType is the greatest element.
	TopType
)

var _ Lattice[Type] = TopType

// TypeOf returns the type element describing values of a given type.
func TypeOf(t value.Type) (Type, bool) {
	switch t {
	case value.StringType:
		return StringType, true
	case value.IntType:
		return IntegerType, true
	case value.BoolType:
		return BooleanType, true
	default:
		return BotType, false
	}
}

// ParseType parses the name of a type element.
func ParseType(text string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "top", "⊤":
		return TopType, nil
	case "bot", "⊥":
		return BotType, nil
	case "string", "str":
		return StringType, nil
	case "integer", "int":
		return IntegerType, nil
	case "boolean", "bool":
		return BooleanType, nil
	}
	//
	return BotType, fmt.Errorf("unknown type \"%s\"", text)
}

// Top implementation for the Lattice interface.
func (p Type) Top() Type {
	return TopType
}

// Bot implementation for the Lattice interface.
func (p Type) Bot() Type {
	return BotType
}

// IsTop implementation for the Lattice interface.
func (p Type) IsTop() bool {
	return p == TopType
}

// IsBot implementation for the Lattice interface.
func (p Type) IsBot() bool {
	return p == BotType
}

// ValueType returns the value type described by this element, provided it is
// neither top nor bottom.
func (p Type) ValueType() (value.Type, bool) {
	switch p {
	case StringType:
		return value.StringType, true
	case IntegerType:
		return value.IntType, true
	case BooleanType:
		return value.BoolType, true
	default:
		return value.ErrorType, false
	}
}

// PartialCmp implementation for the Lattice interface.
func (p Type) PartialCmp(other Type) Ordering {
	switch {
	case p == other:
		return Equal
	case p == TopType || other == BotType:
		return Greater
	case p == BotType || other == TopType:
		return Less
	default:
		return Incomparable
	}
}

// Equals implementation for the Lattice interface.
func (p Type) Equals(other Type) bool {
	return p == other
}

// Abstract maps a value onto its type.  The error sentinel has no abstraction.
func (p Type) Abstract(v value.Value) (Type, bool) {
	return TypeOf(v.Type())
}

func (p Type) String() string {
	switch p {
	case TopType:
		return "⊤"
	case StringType:
		return "String"
	case IntegerType:
		return "Integer"
	case BooleanType:
		return "Boolean"
	default:
		return "⊥"
	}
}
