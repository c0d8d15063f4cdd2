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
package sexp

import (
	"fmt"

	"github.com/consensys/absynth/pkg/util/source"
)

// SymbolRule is responsible for converting a terminating expression (i.e. a
// symbol) into an expression of type T.  The boolean result indicates whether
// the rule applies to the symbol at all.
type SymbolRule[T comparable] func(string) (T, bool, error)

// ListRule is responsible for converting a list into an expression of type T.
type ListRule[T comparable] func(*List) (T, []source.SyntaxError)

// RecursiveRule is a wrapper for translating lists whose elements can be built
// by recursively reusing the enclosing translator.
type RecursiveRule[T comparable] func(string, []T) (T, error)

// ===================================================================
// Translator
// ===================================================================

// Translator is a generic mechanism for translating S-Expressions into a
// structured form.
type Translator[T comparable] struct {
	// Rules for parsing lists
	lists map[string]ListRule[T]
	// Fallback rule for lists with no specific rule.
	listDefault ListRule[T]
	// Rules for parsing symbols
	symbols []SymbolRule[T]
	// Maps S-Expressions to their spans in the original source file.
	oldSrcmap *source.Map[SExp]
	// Maps translated expressions to their spans in the original source file.
	newSrcmap *source.Map[T]
}

// NewTranslator constructs a new Translator instance.
func NewTranslator[T comparable](srcmap *source.Map[SExp]) *Translator[T] {
	return &Translator[T]{
		lists:     make(map[string]ListRule[T]),
		symbols:   nil,
		oldSrcmap: srcmap,
		newSrcmap: source.NewSourceMap[T](srcmap.Source()),
	}
}

// SourceMap returns the source map maintained for terms constructed by this
// translator.
func (p *Translator[T]) SourceMap() *source.Map[T] {
	return p.newSrcmap
}

// Translate a given S-Expression into the structured representation T.
func (p *Translator[T]) Translate(sexp SExp) (T, []source.SyntaxError) {
	return translateSExp(p, sexp)
}

// AddListRule adds a raw list rule to this translator.
func (p *Translator[T]) AddListRule(name string, rule ListRule[T]) {
	p.lists[name] = rule
}

// AddRecursiveListRule adds a list rule whose arguments are translated before
// the rule is applied.
func (p *Translator[T]) AddRecursiveListRule(name string, t RecursiveRule[T]) {
	p.lists[name] = p.createRecursiveListRule(t)
}

// AddDefaultListRule adds a rule to be applied when no other list rule applies.
func (p *Translator[T]) AddDefaultListRule(rule ListRule[T]) {
	p.listDefault = rule
}

// AddSymbolRule adds a new symbol rule to this translator.  Rules are tried in
// the order they were added.
func (p *Translator[T]) AddSymbolRule(t SymbolRule[T]) {
	p.symbols = append(p.symbols, t)
}

// SyntaxErrors constructs a suitable syntax error for a given S-Expression.
func (p *Translator[T]) SyntaxErrors(s SExp, msg string) []source.SyntaxError {
	return p.oldSrcmap.SyntaxErrors(s, msg)
}

func (p *Translator[T]) createRecursiveListRule(t RecursiveRule[T]) ListRule[T] {
	return func(l *List) (T, []source.SyntaxError) {
		var (
			empty  T
			errors []source.SyntaxError
			args   = make([]T, len(l.Elements)-1)
		)
		// Translate arguments
		for i, s := range l.Elements[1:] {
			var errs []source.SyntaxError
			args[i], errs = translateSExp(p, s)
			errors = append(errors, errs...)
		}
		// Don't apply the constructor to broken arguments
		if len(errors) > 0 {
			return empty, errors
		}
		// Apply constructor
		term, err := t(l.Head(), args)
		if err != nil {
			return empty, p.SyntaxErrors(l, err.Error())
		}
		//
		return term, nil
	}
}

// ===================================================================
// Private
// ===================================================================

func translateSExp[T comparable](p *Translator[T], s SExp) (T, []source.SyntaxError) {
	var empty T

	switch e := s.(type) {
	case *List:
		return translateSExpList(p, e)
	case *Symbol:
		for _, rule := range p.symbols {
			node, ok, err := rule(e.Value)
			if ok && err != nil {
				return empty, p.SyntaxErrors(s, err.Error())
			} else if ok {
				p.newSrcmap.Put(node, p.oldSrcmap.Get(s))
				return node, nil
			}
		}
		//
		return empty, p.SyntaxErrors(s, fmt.Sprintf("unknown symbol \"%s\"", e.Value))
	}
	// This should be unreachable.
	return empty, p.SyntaxErrors(s, fmt.Sprintf("invalid s-expression (%T)", s))
}

// Translate a list of S-Expressions into an expression of some kind, as
// determined by the first element of the list.
func translateSExpList[T comparable](p *Translator[T], l *List) (T, []source.SyntaxError) {
	var (
		empty  T
		node   T
		errors []source.SyntaxError
	)
	// Sanity check this list makes sense
	if l.Head() == "" {
		return empty, p.SyntaxErrors(l, "invalid list")
	}
	// Lookup appropriate translator
	if t := p.lists[l.Head()]; t != nil {
		node, errors = t(l)
	} else if p.listDefault != nil {
		node, errors = p.listDefault(l)
	} else {
		return empty, p.SyntaxErrors(l, fmt.Sprintf("unknown operator \"%s\"", l.Head()))
	}
	// Map source node
	if len(errors) == 0 {
		p.newSrcmap.Put(node, p.oldSrcmap.Get(l))
	}
	//
	return node, errors
}
