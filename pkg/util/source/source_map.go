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
package source

import "fmt"

// Map maps terms from an AST to the spans of text they originated from.  This
// is used to highlight exactly where, in the original source, an error arose.
//
// Terms may be shared (for example, when the AST is hash-consed), in which
// case a term is mapped to the first span it was registered with.
type Map[T comparable] struct {
	// Maps a given AST object to a span in the original string.
	mapping map[T]Span
	// Enclosing source file
	srcfile *File
}

// NewSourceMap constructs an initially empty source map for a given file.
func NewSourceMap[T comparable](srcfile *File) *Map[T] {
	return &Map[T]{make(map[T]Span), srcfile}
}

// Source returns the underlying source file on which this map operates.
func (p *Map[T]) Source() *File {
	return p.srcfile
}

// Put registers an AST item with a given span, unless it is already present.
func (p *Map[T]) Put(item T, span Span) {
	if _, ok := p.mapping[item]; !ok {
		p.mapping[item] = span
	}
}

// Has checks whether a given item is contained within this source map.
func (p *Map[T]) Has(item T) bool {
	_, ok := p.mapping[item]
	return ok
}

// Get determines the span associated with a given AST item.  Items which were
// never registered map onto the whole file.
func (p *Map[T]) Get(item T) Span {
	if s, ok := p.mapping[item]; ok {
		return s
	}
	//
	return Span{0, len(p.srcfile.contents)}
}

// SyntaxError constructs a syntax error for a given node.
func (p *Map[T]) SyntaxError(node T, msg string) *SyntaxError {
	return p.srcfile.SyntaxError(p.Get(node), msg)
}

// SyntaxErrors is a helper which constructs a syntax error and places it into
// an array of size one.
func (p *Map[T]) SyntaxErrors(node T, msg string) []SyntaxError {
	return []SyntaxError{*p.SyntaxError(node, msg)}
}

// Errorf constructs a syntax error for a given node using a format string.
func (p *Map[T]) Errorf(node T, format string, args ...any) []SyntaxError {
	return p.SyntaxErrors(node, fmt.Sprintf(format, args...))
}
