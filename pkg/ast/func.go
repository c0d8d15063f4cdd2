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
package ast

import "github.com/consensys/absynth/pkg/value"

// Func identifies a function of the DSL.
type Func uint8

const (
	// Append concatenates two strings.
	Append Func = iota
	// Replace replaces the first occurrence of a pattern within a string.
	Replace
	// Substr extracts the characters [start,end) of a string.
	Substr
	// Add sums two integers.
	Add
	// Sub subtracts one integer from another.
	Sub
	// Len returns the number of characters in a string.
	Len
	// At returns the character at a given index of a string.
	At
	// ToStr renders an integer as a decimal string.
	ToStr
	// ToInt parses a decimal string into an integer.
	ToInt
	// IndexOf finds a pattern in a string, starting from a given index.
	IndexOf
	// PrefixOf checks whether one string is a prefix of another.
	PrefixOf
	// SuffixOf checks whether one string is a suffix of another.
	SuffixOf
	// Contains checks whether one string contains another.
	Contains
)

// NumFuncs is the number of functions in the DSL.
const NumFuncs = int(Contains) + 1

type signature struct {
	name   string
	params []value.Type
	result value.Type
}

var (
	str  = value.StringType
	num  = value.IntType
	flag = value.BoolType
)

var signatures = [NumFuncs]signature{
	{"append", []value.Type{str, str}, str},
	{"replace", []value.Type{str, str, str}, str},
	{"substr", []value.Type{str, num, num}, str},
	{"+", []value.Type{num, num}, num},
	{"-", []value.Type{num, num}, num},
	{"len", []value.Type{str}, num},
	{"at", []value.Type{str, num}, str},
	{"to-str", []value.Type{num}, str},
	{"to-int", []value.Type{str}, num},
	{"indexof", []value.Type{str, str, num}, num},
	{"prefixof", []value.Type{str, str}, flag},
	{"suffixof", []value.Type{str, str}, flag},
	{"contains", []value.Type{str, str}, flag},
}

// Funcs returns every function of the DSL, in declaration order.
func Funcs() []Func {
	fns := make([]Func, NumFuncs)
	for i := range fns {
		fns[i] = Func(i)
	}
	//
	return fns
}

// LookupFunc finds a function by its display name.
func LookupFunc(name string) (Func, bool) {
	for i, sig := range signatures {
		if sig.name == name {
			return Func(i), true
		}
	}
	//
	return 0, false
}

// Arity returns the number of arguments this function accepts.
func (f Func) Arity() int {
	return len(signatures[f].params)
}

// Params returns the argument types of this function.  The returned slice must
// not be modified.
func (f Func) Params() []value.Type {
	return signatures[f].params
}

// Result returns the result type of this function.
func (f Func) Result() value.Type {
	return signatures[f].result
}

func (f Func) String() string {
	return signatures[f].name
}

// Shape is a template for a pending call: every argument position is filled
// with a budgeted placeholder, except for the dependent position (if any)
// whose requirement is only known once its siblings are resolved.
type Shape struct {
	Func Func
	// Dep is the dependent argument position, or -1 when there is none.
	Dep int
}

// NewShape constructs a shape for a given function and dependent position.
func NewShape(f Func, dep int) Shape {
	return Shape{f, dep}
}
