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
package eval

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the ways in which evaluation can fail.
type ErrorKind uint8

const (
	// UnboundVariable indicates a variable with no binding in the environment.
	UnboundVariable ErrorKind = iota
	// TypeMismatch indicates an operator applied to a value of the wrong type.
	TypeMismatch
	// UnresolvedHole indicates evaluation reached a hole.
	UnresolvedHole
	// NonConstantIndex indicates an index or bound which is symbolic.
	NonConstantIndex
	// InvalidIndex indicates an out-of-range index or bound.
	InvalidIndex
	// NotANumber indicates a string which could not be converted to an integer.
	NotANumber
)

func (k ErrorKind) String() string {
	switch k {
	case UnboundVariable:
		return "unbound variable"
	case TypeMismatch:
		return "type mismatch"
	case UnresolvedHole:
		return "unresolved hole"
	case NonConstantIndex:
		return "non-constant index"
	case InvalidIndex:
		return "invalid index"
	default:
		return "not a number"
	}
}

// Error reports a failed evaluation.
type Error struct {
	Kind ErrorKind
	// Operation being evaluated when the error arose.
	Op string
	// Additional detail
	Msg string
}

// NewError constructs an evaluation error of a given kind.
func NewError(kind ErrorKind, op string, format string, args ...any) *Error {
	return &Error{kind, op, fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind.String())
	}
	//
	return fmt.Sprintf("%s: %s (%s)", e.Op, e.Kind.String(), e.Msg)
}

// KindOf determines the kind of an evaluation error, returning false for
// errors which did not arise from evaluation.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	//
	if errors.As(err, &e) {
		return e.Kind, true
	}
	//
	return 0, false
}

// IsKind checks whether an error is an evaluation error of a given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
