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

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/consensys/absynth/pkg/lattice"
	"github.com/consensys/absynth/pkg/util/source"
	"github.com/consensys/absynth/pkg/util/source/sexp"
	"github.com/consensys/absynth/pkg/value"
)

// Parse a program written as an S-Expression into a given arena.  Programs
// are made from integer, boolean and string literals, variables, function
// calls and conditionals, for example (substr arg0 0 (- (len arg0) 3)).
func Parse[L lattice.Lattice[L]](arena *Arena[L], text string) (NodeID, []source.SyntaxError) {
	term, srcmap, err := sexp.ParseString("program", text)
	if err != nil {
		return NoNode, []source.SyntaxError{*err}
	}
	//
	translator := sexp.NewTranslator[NodeID](srcmap)
	translator.AddSymbolRule(stringRule(arena))
	translator.AddSymbolRule(intRule(arena))
	translator.AddSymbolRule(boolRule(arena))
	translator.AddSymbolRule(varRule(arena))
	translator.AddRecursiveListRule("if", ifRule(arena))
	//
	for _, fn := range Funcs() {
		translator.AddRecursiveListRule(fn.String(), callRule(arena, fn))
	}
	//
	return translator.Translate(term)
}

func stringRule[L lattice.Lattice[L]](arena *Arena[L]) sexp.SymbolRule[NodeID] {
	return func(symbol string) (NodeID, bool, error) {
		s := sexp.NewSymbol(symbol)
		if !s.IsString() {
			return NoNode, false, nil
		}
		//
		text, err := s.Unquote()
		if err != nil {
			return NoNode, true, fmt.Errorf("invalid string literal")
		}
		//
		return arena.Const(value.String(text)), true, nil
	}
}

func intRule[L lattice.Lattice[L]](arena *Arena[L]) sexp.SymbolRule[NodeID] {
	return func(symbol string) (NodeID, bool, error) {
		if c, err := strconv.ParseInt(symbol, 10, 64); err == nil {
			return arena.Const(value.IntOf(c)), true, nil
		}
		//
		return NoNode, false, nil
	}
}

func boolRule[L lattice.Lattice[L]](arena *Arena[L]) sexp.SymbolRule[NodeID] {
	return func(symbol string) (NodeID, bool, error) {
		switch symbol {
		case "true":
			return arena.Const(value.Bool(true)), true, nil
		case "false":
			return arena.Const(value.Bool(false)), true, nil
		}
		//
		return NoNode, false, nil
	}
}

func varRule[L lattice.Lattice[L]](arena *Arena[L]) sexp.SymbolRule[NodeID] {
	return func(symbol string) (NodeID, bool, error) {
		for i, r := range symbol {
			if r != '_' && !unicode.IsLetter(r) && (i == 0 || !unicode.IsDigit(r)) {
				return NoNode, false, nil
			}
		}
		//
		return arena.Var(symbol), true, nil
	}
}

func callRule[L lattice.Lattice[L]](arena *Arena[L], fn Func) sexp.RecursiveRule[NodeID] {
	return func(name string, args []NodeID) (NodeID, error) {
		if len(args) != fn.Arity() {
			return NoNode, fmt.Errorf("%s expects %d arguments, found %d", name, fn.Arity(), len(args))
		}
		//
		return arena.Call(fn, args...), nil
	}
}

func ifRule[L lattice.Lattice[L]](arena *Arena[L]) sexp.RecursiveRule[NodeID] {
	return func(_ string, args []NodeID) (NodeID, error) {
		if len(args) != 3 {
			return NoNode, fmt.Errorf("if expects 3 arguments, found %d", len(args))
		}
		//
		return arena.If(args[0], args[1], args[2]), nil
	}
}
