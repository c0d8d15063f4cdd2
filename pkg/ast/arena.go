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
	"encoding/binary"
	"math"

	"github.com/consensys/absynth/pkg/lattice"
	"github.com/consensys/absynth/pkg/value"
	"github.com/zeebo/xxh3"
)

// NodeID identifies a node within an arena.
type NodeID uint32

// NoNode is used where a node is absent, such as the pending call of a hole
// which has not yet been expanded.
const NoNode = NodeID(math.MaxUint32)

// Kind identifies the form of a node.
type Kind uint8

const (
	// ConstKind is a literal value.
	ConstKind Kind = iota
	// VarKind is a reference to a bound variable.
	VarKind
	// CallKind is a function call.
	CallKind
	// IfKind is a conditional.
	IfKind
	// HoleKind is an open position with a target, possibly committed to a
	// pending call.
	HoleKind
	// ConcHoleKind stands for some concrete expression of a given size.
	ConcHoleKind
	// DepHoleKind stands for an argument whose target depends on its
	// siblings.
	DepHoleKind
)

// Initial number of hash buckets in an arena.
const arenaInitBuckets = 128

// Loading factor (as a percentage) above which an arena rehashes.
const arenaLoading = 75

// Node is a single entry of an arena.  Nodes are immutable once added.
type Node struct {
	kind  Kind
	fn    Func
	arity uint8
	pivot uint8
	args  [3]NodeID
	// Index of the value, name or target of this node (depending on its kind),
	// or the budget of a ConcHole.
	aux uint32
	// Cached size of this node.
	size uint32
	// Cached flag indicating whether this node contains any holes.
	holes bool
}

// Arena stores expression nodes addressed by index.  Nodes are hash-consed:
// adding a node identical to an existing one returns the existing index, so
// sub-terms are shared between the many candidate programs explored during
// search.  Values, variable names and hole targets are interned alongside.
type Arena[L lattice.Lattice[L]] struct {
	nodes []Node
	// hash buckets
	buckets [][]NodeID
	// interned constants
	values     []value.Value
	valueIndex map[string]uint32
	// interned variable names
	names     []string
	nameIndex map[string]uint32
	// interned hole targets
	targets     []L
	targetIndex map[string]uint32
}

// NewArena constructs an empty arena.
func NewArena[L lattice.Lattice[L]]() *Arena[L] {
	return &Arena[L]{
		buckets:     make([][]NodeID, arenaInitBuckets),
		valueIndex:  make(map[string]uint32),
		nameIndex:   make(map[string]uint32),
		targetIndex: make(map[string]uint32),
	}
}

// Len returns the number of distinct nodes in this arena.
func (p *Arena[L]) Len() int {
	return len(p.nodes)
}

// Expr returns a handle for a given node.
func (p *Arena[L]) Expr(id NodeID) Expr[L] {
	return Expr[L]{p, id}
}

// ===================================================================
// Constructors
// ===================================================================

// Const adds a literal value.
func (p *Arena[L]) Const(v value.Value) NodeID {
	key := v.Key()
	index, ok := p.valueIndex[key]
	//
	if !ok {
		index = uint32(len(p.values))
		p.values = append(p.values, v)
		p.valueIndex[key] = index
	}
	//
	return p.put(Node{kind: ConstKind, aux: index})
}

// Var adds a variable reference.
func (p *Arena[L]) Var(name string) NodeID {
	index, ok := p.nameIndex[name]
	//
	if !ok {
		index = uint32(len(p.names))
		p.names = append(p.names, name)
		p.nameIndex[name] = index
	}
	//
	return p.put(Node{kind: VarKind, aux: index})
}

// Call adds a function call.  The number of arguments must match the arity of
// the function.
func (p *Arena[L]) Call(fn Func, args ...NodeID) NodeID {
	node := Node{kind: CallKind, fn: fn, arity: uint8(len(args))}
	copy(node.args[:], args)
	//
	return p.put(node)
}

// If adds a conditional.
func (p *Arena[L]) If(cond, then, otherwise NodeID) NodeID {
	return p.put(Node{kind: IfKind, arity: 3, args: [3]NodeID{cond, then, otherwise}})
}

// Hole adds an open hole which has not yet been expanded.
func (p *Arena[L]) Hole(target L) NodeID {
	return p.Pending(target, NoNode, 0)
}

// Pending adds a hole committed to a (partial) call.  The pivot records the
// last budgeted argument whose size was increased, and is used to ensure each
// combination of budgets is generated exactly once.
func (p *Arena[L]) Pending(target L, call NodeID, pivot int) NodeID {
	key := target.String()
	index, ok := p.targetIndex[key]
	//
	if !ok {
		index = uint32(len(p.targets))
		p.targets = append(p.targets, target)
		p.targetIndex[key] = index
	}
	//
	return p.put(Node{kind: HoleKind, arity: 1, pivot: uint8(pivot), args: [3]NodeID{call, NoNode, NoNode},
		aux: index})
}

// ConcHole adds a placeholder for a concrete expression of a given size.
func (p *Arena[L]) ConcHole(size uint) NodeID {
	return p.put(Node{kind: ConcHoleKind, aux: uint32(size)})
}

// DepHole adds a placeholder for a dependent argument.
func (p *Arena[L]) DepHole() NodeID {
	return p.put(Node{kind: DepHoleKind})
}

// Shape adds a hole with a given target, committed to a call of the given shape
// in which every budgeted argument has size zero.
func (p *Arena[L]) Shape(target L, shape Shape) NodeID {
	var args [3]NodeID
	//
	for i := 0; i < shape.Func.Arity(); i++ {
		if i == shape.Dep {
			args[i] = p.DepHole()
		} else {
			args[i] = p.ConcHole(0)
		}
	}
	//
	return p.Pending(target, p.Call(shape.Func, args[:shape.Func.Arity()]...), 0)
}

// ===================================================================
// Accessors
// ===================================================================

// Kind returns the form of a given node.
func (p *Arena[L]) Kind(id NodeID) Kind {
	return p.nodes[id].kind
}

// Func returns the function called by a given call node.
func (p *Arena[L]) Func(id NodeID) Func {
	return p.nodes[id].fn
}

// Args returns the children of a call or conditional.  The returned slice must
// not be modified.
func (p *Arena[L]) Args(id NodeID) []NodeID {
	node := &p.nodes[id]
	//
	if node.kind != CallKind && node.kind != IfKind {
		return nil
	}
	//
	return node.args[:node.arity]
}

// Value returns the literal value of a constant node.
func (p *Arena[L]) Value(id NodeID) value.Value {
	return p.values[p.nodes[id].aux]
}

// Name returns the variable name of a variable node.
func (p *Arena[L]) Name(id NodeID) string {
	return p.names[p.nodes[id].aux]
}

// Target returns the target of a hole.
func (p *Arena[L]) Target(id NodeID) L {
	return p.targets[p.nodes[id].aux]
}

// PendingCall returns the partial call a hole is committed to, if any.
func (p *Arena[L]) PendingCall(id NodeID) (NodeID, bool) {
	call := p.nodes[id].args[0]
	return call, p.nodes[id].kind == HoleKind && call != NoNode
}

// Pivot returns the pivot of a pending hole.
func (p *Arena[L]) Pivot(id NodeID) int {
	return int(p.nodes[id].pivot)
}

// Budget returns the size of a ConcHole.
func (p *Arena[L]) Budget(id NodeID) uint {
	return uint(p.nodes[id].aux)
}

// Size returns the size of a given node: leaves and open holes have size zero,
// a ConcHole has its budget as size, and calls (including those pending within
// a hole) are one larger than the sum of their arguments.
func (p *Arena[L]) Size(id NodeID) uint {
	return uint(p.nodes[id].size)
}

// HasHole checks whether a given node contains any holes.
func (p *Arena[L]) HasHole(id NodeID) bool {
	return p.nodes[id].holes
}

// ===================================================================
// Hash-consing
// ===================================================================

func (p *Arena[L]) put(node Node) NodeID {
	hash := node.hash()
	bucket := hash % uint64(len(p.buckets))
	// Attempt to lookup node
	for _, index := range p.buckets[bucket] {
		if p.nodes[index].equals(&node) {
			return index
		}
	}
	// Node not present, so add it.
	p.complete(&node)
	index := NodeID(len(p.nodes))
	p.nodes = append(p.nodes, node)
	// Record entry in relevant bucket
	p.buckets[bucket] = append(p.buckets[bucket], index)
	// Rehash (if necessary)
	if load := (100 * len(p.nodes)) / len(p.buckets); load > arenaLoading {
		p.rehash()
	}
	//
	return index
}

// Fill in the size and hole flag of a node from its children.
func (p *Arena[L]) complete(node *Node) {
	switch node.kind {
	case ConstKind, VarKind:
		node.size, node.holes = 0, false
	case ConcHoleKind:
		node.size, node.holes = node.aux, true
	case DepHoleKind:
		node.size, node.holes = 0, true
	case HoleKind:
		node.holes = true
		if node.args[0] != NoNode {
			node.size = p.nodes[node.args[0]].size
		}
	default:
		node.size = 1
		//
		for _, arg := range node.args[:node.arity] {
			node.size += p.nodes[arg].size
			node.holes = node.holes || p.nodes[arg].holes
		}
	}
}

func (p *Arena[L]) rehash() {
	var (
		oldBuckets = p.buckets
		n          = uint64(len(oldBuckets) * 3)
	)
	//
	p.buckets = make([][]NodeID, n)
	//
	for _, bucket := range oldBuckets {
		for _, index := range bucket {
			hash := p.nodes[index].hash() % n
			p.buckets[hash] = append(p.buckets[hash], index)
		}
	}
}

func (n *Node) hash() uint64 {
	var buf [20]byte
	//
	buf[0], buf[1], buf[2], buf[3] = byte(n.kind), byte(n.fn), n.arity, n.pivot
	binary.LittleEndian.PutUint32(buf[4:], uint32(n.args[0]))
	binary.LittleEndian.PutUint32(buf[8:], uint32(n.args[1]))
	binary.LittleEndian.PutUint32(buf[12:], uint32(n.args[2]))
	binary.LittleEndian.PutUint32(buf[16:], n.aux)
	//
	return xxh3.Hash(buf[:])
}

func (n *Node) equals(other *Node) bool {
	return n.kind == other.kind && n.fn == other.fn && n.arity == other.arity && n.pivot == other.pivot &&
		n.args == other.args && n.aux == other.aux
}
