/*
 * Yat
 *
 * Copyright 2020 Yat Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

/*
Package scope implements the parser's symbol table: a stack of scope
frames, each holding the variables declared directly in one block.
*/
package scope

import (
	"fmt"
	"sync"

	"github.com/krotik/common/errorutil"
	"github.com/yat-lang/yat/ast"
)

/*
Table is a stack of scope frames backed by a single append-only arena.
The arena is never reallocated out from under a live *ast.Var - once a
Var is added it keeps the same address for the lifetime of the Table,
which is what lets VarLeaf, ArrayLeaf and FnCall hold plain *ast.Var
back-references instead of an index that would need resolving later.
*/
type Table struct {
	mu     sync.RWMutex
	arena  []*ast.Var
	frames [][]*ast.Var
}

/*
NewTable creates an empty symbol table with no frames pushed.
*/
func NewTable() *Table {
	return &Table{}
}

/*
PushScope opens a new, empty frame on top of the stack.
*/
func (t *Table) PushScope() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frames = append(t.frames, nil)
}

/*
PopScope discards the top frame. The Vars it held remain valid (they are
still reachable through the arena and through any AST nodes that already
reference them); they simply stop being visible to Lookup.
*/
func (t *Table) PopScope() {
	t.mu.Lock()
	defer t.mu.Unlock()
	errorutil.AssertTrue(len(t.frames) > 0, "pop of an empty scope stack")
	t.frames = t.frames[:len(t.frames)-1]
}

/*
Depth returns the number of currently live frames.
*/
func (t *Table) Depth() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.frames)
}

/*
Add appends v to the frame at frameIndex (0 is the bottommost frame,
Depth()-1 the top). Every currently live frame is scanned for a Var with
the same fully-qualified name; if one exists, Add fails and v is not
added. Callers needing a specific Yat error kind (e.g. "variable already
defined") should wrap this error rather than relying on its text.
*/
func (t *Table) Add(v *ast.Var, frameIndex int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	errorutil.AssertTrue(frameIndex >= 0 && frameIndex < len(t.frames), "invalid frame index")

	for _, frame := range t.frames {
		for _, existing := range frame {
			if existing.Name == v.Name {
				return fmt.Errorf("variable already defined: %s", v.Name)
			}
		}
	}

	t.arena = append(t.arena, v)
	t.frames[frameIndex] = append(t.frames[frameIndex], v)

	return nil
}

/*
Top returns the index of the current top frame, or -1 if no frame is
pushed.
*/
func (t *Table) Top() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.frames) - 1
}

/*
Lookup searches frames top-down for a Var with exactly this name. It
does not attempt namespace qualification or using-list fallback - that
retry sequence lives in the parser, which is the layer that knows the
current namespace and its uses list.
*/
func (t *Table) Lookup(name string) (*ast.Var, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i := len(t.frames) - 1; i >= 0; i-- {
		frame := t.frames[i]
		for j := len(frame) - 1; j >= 0; j-- {
			if frame[j].Name == name {
				return frame[j], true
			}
		}
	}
	return nil, false
}

/*
Frame returns a copy of the Vars declared directly in the frame at
frameIndex, in declaration order. Used by the parser to compute a
StatementBlock's aggregate byte size once the block closes.
*/
func (t *Table) Frame(frameIndex int) []*ast.Var {
	t.mu.RLock()
	defer t.mu.RUnlock()
	errorutil.AssertTrue(frameIndex >= 0 && frameIndex < len(t.frames), "invalid frame index")
	out := make([]*ast.Var, len(t.frames[frameIndex]))
	copy(out, t.frames[frameIndex])
	return out
}
