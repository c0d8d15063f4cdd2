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
	"errors"
	"fmt"
)

// ErrExhausted is reported (via errors.Is) when a search exhausts every
// candidate within its size bound.
var ErrExhausted = errors.New("no solution within size bound")

// Reason identifies why a search failed.
type Reason uint8

const (
	// Exhausted indicates every candidate within the size bound was tried.
	Exhausted Reason = iota
	// Cancelled indicates the search context was cancelled or timed out.
	Cancelled
	// Budget indicates the maximum number of worklist items was reached.
	Budget
)

func (r Reason) String() string {
	switch r {
	case Exhausted:
		return "exhausted"
	case Cancelled:
		return "cancelled"
	default:
		return "budget exceeded"
	}
}

// Failure is returned by a search which finds no solution.
type Failure struct {
	Reason Reason
	// Size bound in force for the search.
	MaxSize uint
	// Number of worklist items expanded before failing.
	Popped uint
	// Underlying cause (for cancellation)
	Cause error
}

func (f *Failure) Error() string {
	msg := fmt.Sprintf("synthesis %s after %d items (max size %d)", f.Reason, f.Popped, f.MaxSize)
	//
	if f.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, f.Cause)
	}
	//
	return msg
}

// Is allows an exhausted search to match ErrExhausted.
func (f *Failure) Is(target error) bool {
	return target == ErrExhausted && f.Reason == Exhausted
}

// Unwrap returns the underlying cause of this failure, if any.
func (f *Failure) Unwrap() error {
	return f.Cause
}
