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
package value

import (
	"fmt"
	"strconv"

	"github.com/consensys/absynth/pkg/util/linear"
)

// Type identifies the kind of a value.
type Type uint8

const (
	// StringType is the type of character strings.
	StringType Type = iota
	// IntType is the type of integers (which may be symbolic).
	IntType
	// BoolType is the type of booleans.
	BoolType
	// ErrorType is the type of the error sentinel.
	ErrorType
)

func (t Type) String() string {
	switch t {
	case StringType:
		return "string"
	case IntType:
		return "int"
	case BoolType:
		return "bool"
	default:
		return "error"
	}
}

// Value is a concrete DSL value.  Integers are represented as linear
// expressions so that symbolic quantities, such as the length of an unknown
// input, can be manipulated exactly.  Values are immutable.
type Value struct {
	kind Type
	str  string
	num  linear.Expr
	flag bool
}

// String constructs a string value.
func String(s string) Value {
	return Value{kind: StringType, str: s}
}

// Int constructs an integer value from a (possibly symbolic) linear expression.
func Int(e linear.Expr) Value {
	return Value{kind: IntType, num: e}
}

// IntOf constructs a constant integer value.
func IntOf(c int64) Value {
	return Int(linear.Const(c))
}

// Bool constructs a boolean value.
func Bool(b bool) Value {
	return Value{kind: BoolType, flag: b}
}

// Error constructs the error sentinel.
func Error() Value {
	return Value{kind: ErrorType}
}

// FromAny converts a scalar (as produced by a YAML or JSON decoder) into a
// value.
func FromAny(v any) (Value, error) {
	switch v := v.(type) {
	case string:
		return String(v), nil
	case int:
		return IntOf(int64(v)), nil
	case int64:
		return IntOf(v), nil
	case uint64:
		return IntOf(int64(v)), nil
	case bool:
		return Bool(v), nil
	default:
		return Value{}, fmt.Errorf("unsupported value %v (%T)", v, v)
	}
}

// Type returns the type of this value.
func (v Value) Type() Type {
	return v.kind
}

// AsString returns the underlying string, if this is a string value.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == StringType
}

// AsInt returns the underlying linear expression, if this is an integer value.
func (v Value) AsInt() (linear.Expr, bool) {
	return v.num, v.kind == IntType
}

// AsConstInt returns the underlying integer, if this is a constant integer
// value.
func (v Value) AsConstInt() (int64, bool) {
	if v.kind != IntType {
		return 0, false
	}
	//
	return v.num.Int64()
}

// AsBool returns the underlying boolean, if this is a boolean value.
func (v Value) AsBool() (bool, bool) {
	return v.flag, v.kind == BoolType
}

// IsError checks whether this is the error sentinel.
func (v Value) IsError() bool {
	return v.kind == ErrorType
}

// Equals checks whether two values are identical.
func (v Value) Equals(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	//
	switch v.kind {
	case StringType:
		return v.str == other.str
	case IntType:
		return v.num.Equals(other.num)
	case BoolType:
		return v.flag == other.flag
	default:
		return true
	}
}

// Key returns a canonical, type-tagged representation of this value, such that
// two values have the same key exactly when they are equal.
func (v Value) Key() string {
	switch v.kind {
	case StringType:
		return "s" + v.str
	case IntType:
		return "i" + v.num.String()
	case BoolType:
		return "b" + strconv.FormatBool(v.flag)
	default:
		return "e"
	}
}

func (v Value) String() string {
	switch v.kind {
	case StringType:
		return strconv.Quote(v.str)
	case IntType:
		return v.num.String()
	case BoolType:
		return strconv.FormatBool(v.flag)
	default:
		return "error"
	}
}
