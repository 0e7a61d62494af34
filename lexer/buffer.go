/*
 * Yat
 *
 * Copyright 2020 Yat Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package lexer

import (
	"github.com/yat-lang/yat/config"
	"github.com/yat-lang/yat/token"
)

/*
padding is appended after the real source so that two characters of
lookahead past the logical end of input can never read out of bounds.
*/
var padding = []rune{' ', '\n', ' '}

/*
buffer holds the concatenated source text plus a small trailing pad, and
tracks the current read position as an (offset, line, column) triple.
*/
type buffer struct {
	src     []rune
	origLen int
	offset  int
	line    int
	col     int
}

/*
newBuffer wraps src (one or more source files already concatenated by the
caller) in a buffer ready for tokenizing.
*/
func newBuffer(src string) *buffer {
	runes := []rune(src)
	b := &buffer{
		src:     append(append([]rune{}, runes...), padding...),
		origLen: len(runes),
		line:    1,
		col:     1,
	}
	return b
}

/*
peek returns the character at offset+k without advancing. k == 0 reads
the current character.
*/
func (b *buffer) peek(k int) rune {
	i := b.offset + k
	if i < 0 || i >= len(b.src) {
		return 0
	}
	return b.src[i]
}

/*
advance consumes one character and returns it, updating line/column. A
tab advances the column by config.TabWidth rather than by one, so
diagnostic column numbers line up with however wide the caller's editor
renders a tab.
*/
func (b *buffer) advance() rune {
	c := b.src[b.offset]
	b.offset++
	switch c {
	case '\n':
		b.line++
		b.col = 1
	case '\t':
		b.col += config.Int(config.TabWidth)
	default:
		b.col++
	}
	return c
}

/*
advanceN consumes n characters.
*/
func (b *buffer) advanceN(n int) {
	for i := 0; i < n; i++ {
		b.advance()
	}
}

/*
atEnd reports whether the buffer has consumed all of the logical (i.e.
pre-padding) source.
*/
func (b *buffer) atEnd() bool {
	return b.offset >= b.origLen
}

/*
pos returns the current position as a token.Position.
*/
func (b *buffer) pos() token.Position {
	return token.Position{Offset: b.offset, Line: b.line, Col: b.col}
}
