/*
 * Yat
 *
 * Copyright 2020 Yat Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package parser

import (
	"errors"

	"github.com/yat-lang/yat/lexer"
)

/*
Error is the parser's diagnostic type. It is the same structured Error
the lexer raises - the parser never duplicates the struct, it just
supplies its own sentinels through lexer.Lexer.ErrorAt.
*/
type Error = lexer.Error

/*
Parser-level sentinel errors. Tokenizer-level sentinels
(ErrUnexpectedToken, ErrNumericOutOfRange, ErrUnterminatedToken) live in
the lexer package and are reused here unchanged.
*/
var (
	ErrAssignToImmutable     = errors.New("cannot assign to an immutable variable")
	ErrExpectedBoolean       = errors.New("expected a boolean expression")
	ErrInlineAsmUnsafe       = errors.New("_asm block outside an unsafe preprocessor section")
	ErrUndeclaredVariable    = errors.New("use of an undeclared variable")
	ErrDuplicateVariable     = errors.New("variable already defined in this scope")
	ErrLetWithoutInitializer = errors.New("let declaration without an initializer")
	ErrMultipleDataTypes     = errors.New("multiple data types in one declaration")
	ErrMismatchedBracket     = errors.New("mismatched bracket")
	ErrConstantRequired      = errors.New("range bound must be a constant expression")
)
