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
	"github.com/consensys/absynth/pkg/ast"
	"github.com/emirpasic/gods/queues/priorityqueue"
)

type item struct {
	id   ast.NodeID
	size uint
	// Discovery order, used to break ties between items of the same size.
	seq uint64
}

// Worklist of partial programs, ordered by size and then by discovery.
type worklist struct {
	queue *priorityqueue.Queue
	// Items ever enqueued
	queued map[ast.NodeID]struct{}
	seq    uint64
}

func newWorklist() *worklist {
	return &worklist{
		queue:  priorityqueue.NewWith(byPriority),
		queued: make(map[ast.NodeID]struct{}),
	}
}

// Push an item onto the worklist, unless it has been pushed before.  Returns
// true if the item was added.
func (p *worklist) push(id ast.NodeID, size uint) bool {
	if _, ok := p.queued[id]; ok {
		return false
	}
	//
	p.queued[id] = struct{}{}
	p.queue.Enqueue(item{id, size, p.seq})
	p.seq++
	//
	return true
}

func (p *worklist) pop() (item, bool) {
	next, ok := p.queue.Dequeue()
	if !ok {
		return item{}, false
	}
	//
	return next.(item), true
}

func (p *worklist) len() int {
	return p.queue.Size()
}

func byPriority(a, b any) int {
	l, r := a.(item), b.(item)
	//
	switch {
	case l.size < r.size:
		return -1
	case l.size > r.size:
		return 1
	case l.seq < r.seq:
		return -1
	case l.seq > r.seq:
		return 1
	default:
		return 0
	}
}
