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
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/consensys/absynth/pkg/ast"
	"github.com/consensys/absynth/pkg/lattice"
	"github.com/consensys/absynth/pkg/util/linear"
	"github.com/consensys/absynth/pkg/value"
)

// Env binds variable names to concrete values.
type Env map[string]value.Value

// Concrete evaluates a hole-free expression under a given environment.
func Concrete[L lattice.Lattice[L]](arena *ast.Arena[L], id ast.NodeID, env Env) (value.Value, error) {
	switch arena.Kind(id) {
	case ast.ConstKind:
		return arena.Value(id), nil
	case ast.VarKind:
		if v, ok := env[arena.Name(id)]; ok {
			return v, nil
		}
		//
		return value.Value{}, NewError(UnboundVariable, arena.Name(id), "")
	case ast.CallKind:
		var (
			params = arena.Args(id)
			args   = make([]value.Value, len(params))
			err    error
		)
		//
		for i, arg := range params {
			if args[i], err = Concrete(arena, arg, env); err != nil {
				return value.Value{}, err
			}
		}
		//
		return Apply(arena.Func(id), args)
	case ast.IfKind:
		args := arena.Args(id)
		//
		cond, err := Concrete(arena, args[0], env)
		if err != nil {
			return value.Value{}, err
		} else if b, ok := cond.AsBool(); !ok {
			return value.Value{}, NewError(TypeMismatch, "if", "condition is %s", cond.Type())
		} else if b {
			return Concrete(arena, args[1], env)
		}
		//
		return Concrete(arena, args[2], env)
	default:
		return value.Value{}, NewError(UnresolvedHole, arena.String(id), "")
	}
}

// Apply a function to a list of concrete arguments.
//
//nolint:gocyclo
func Apply(fn ast.Func, args []value.Value) (value.Value, error) {
	op := fn.String()
	// Check argument types
	if len(args) != fn.Arity() {
		return value.Value{}, NewError(TypeMismatch, op, "expected %d arguments, found %d", fn.Arity(), len(args))
	}
	//
	for i, t := range fn.Params() {
		if args[i].Type() != t {
			return value.Value{}, NewError(TypeMismatch, op, "argument %d is %s, expected %s", i, args[i].Type(), t)
		}
	}
	//
	switch fn {
	case ast.Append:
		return value.String(str(args[0]) + str(args[1])), nil
	case ast.Replace:
		return value.String(strings.Replace(str(args[0]), str(args[1]), str(args[2]), 1)), nil
	case ast.Substr:
		chars := []rune(str(args[0]))
		//
		start, end, err := bounds(op, args[1], args[2])
		if err != nil {
			return value.Value{}, err
		} else if start < 0 || start > end || end > int64(len(chars)) {
			return value.Value{}, NewError(InvalidIndex, op, "[%d,%d) of %d characters", start, end, len(chars))
		}
		//
		return value.String(string(chars[start:end])), nil
	case ast.Add:
		return value.Int(num(args[0]).Add(num(args[1]))), nil
	case ast.Sub:
		return value.Int(num(args[0]).Sub(num(args[1]))), nil
	case ast.Len:
		return value.IntOf(int64(utf8.RuneCountInString(str(args[0])))), nil
	case ast.At:
		chars := []rune(str(args[0]))
		//
		index, err := constant(op, args[1])
		if err != nil {
			return value.Value{}, err
		} else if index < 0 || index >= int64(len(chars)) {
			return value.Value{}, NewError(InvalidIndex, op, "%d of %d characters", index, len(chars))
		}
		//
		return value.String(string(chars[index])), nil
	case ast.ToStr:
		n, err := constant(op, args[0])
		if err != nil {
			return value.Value{}, err
		}
		//
		return value.String(strconv.FormatInt(n, 10)), nil
	case ast.ToInt:
		n, err := strconv.ParseInt(str(args[0]), 10, 64)
		if err != nil {
			return value.Value{}, NewError(NotANumber, op, "%q", str(args[0]))
		}
		//
		return value.IntOf(n), nil
	case ast.IndexOf:
		start, err := constant(op, args[2])
		if err != nil {
			return value.Value{}, err
		}
		//
		return value.IntOf(indexOf([]rune(str(args[0])), []rune(str(args[1])), start)), nil
	case ast.PrefixOf:
		return value.Bool(strings.HasPrefix(str(args[1]), str(args[0]))), nil
	case ast.SuffixOf:
		return value.Bool(strings.HasSuffix(str(args[1]), str(args[0]))), nil
	case ast.Contains:
		return value.Bool(strings.Contains(str(args[0]), str(args[1]))), nil
	}
	// unreachable for well-formed functions
	return value.Value{}, NewError(TypeMismatch, op, "unknown function")
}

// Find the first occurrence of a pattern at or after a given character index,
// giving -1 if there is none (or the index is out of range).
func indexOf(text []rune, pattern []rune, start int64) int64 {
	if start < 0 || start > int64(len(text)) {
		return -1
	}
	//
	for i := int(start); i+len(pattern) <= len(text); i++ {
		if runesEqual(text[i:i+len(pattern)], pattern) {
			return int64(i)
		}
	}
	//
	return -1
}

func runesEqual(l, r []rune) bool {
	for i := range l {
		if l[i] != r[i] {
			return false
		}
	}
	//
	return true
}

func bounds(op string, start, end value.Value) (int64, int64, error) {
	s, err := constant(op, start)
	if err != nil {
		return 0, 0, err
	}
	//
	e, err := constant(op, end)
	//
	return s, e, err
}

// Extract a plain integer from an integer value, failing if it is symbolic.
func constant(op string, v value.Value) (int64, error) {
	if n, ok := v.AsConstInt(); ok {
		return n, nil
	}
	//
	return 0, NewError(NonConstantIndex, op, "%s", v.String())
}

func str(v value.Value) string {
	s, _ := v.AsString()
	return s
}

func num(v value.Value) linear.Expr {
	n, _ := v.AsInt()
	return n
}
