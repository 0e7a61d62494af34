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
	"errors"
	"fmt"
)

/*
Sentinel error types a Lexer can raise. The parser package defines further
sentinels of its own (for syntax and semantic errors) and reuses the Error
type below rather than duplicating it, since the parser sits above the
lexer and cannot be imported back from here.
*/
var (
	ErrUnexpectedToken   = errors.New("unexpected token")
	ErrNumericOutOfRange = errors.New("number does not fit the given width")
	ErrUnterminatedToken = errors.New("unterminated token")
)

/*
Error is a structured diagnostic carrying enough context to reproduce the
offending source line, matching the teacher's RuntimeError in shape while
adding the source line text spec.md requires in user-visible output.
*/
type Error struct {
	Source     string // name given to the lexer (filename or "<input>")
	Type       error  // one of the sentinels above, or one from the parser package
	Detail     string
	Line       int
	Col        int
	SourceLine string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s:%d:%d: %v: %s", e.Source, e.Line, e.Col, e.Type, e.Detail)
	if e.SourceLine != "" {
		msg += "\n" + e.SourceLine
	}
	return msg
}

/*
Unwrap lets errors.Is(err, ErrUnexpectedToken) see through the Error
wrapper.
*/
func (e *Error) Unwrap() error {
	return e.Type
}
