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
Package ast defines the node types the parser builds. Every node carries
an explicit Kind tag; dispatch is a type switch over that tag rather than
virtual methods, so a node's shape is visible at the call site instead of
hidden behind an interface method set.
*/
package ast

import "github.com/yat-lang/yat/token"

/*
Kind tags the variant a Node holds.
*/
type Kind int

const (
	KindNamespace Kind = iota
	KindStatementBlock
	KindVar
	KindLambda
	KindIfStatement
	KindWhileLoop
	KindUnOp
	KindBinOp
	KindFnCall
	KindConstLeaf
	KindStrLeaf
	KindVarLeaf
	KindArrayLeaf
	KindRange
)

func (k Kind) String() string {
	switch k {
	case KindNamespace:
		return "Namespace"
	case KindStatementBlock:
		return "StatementBlock"
	case KindVar:
		return "Var"
	case KindLambda:
		return "Lambda"
	case KindIfStatement:
		return "IfStatement"
	case KindWhileLoop:
		return "WhileLoop"
	case KindUnOp:
		return "UnOp"
	case KindBinOp:
		return "BinOp"
	case KindFnCall:
		return "FnCall"
	case KindConstLeaf:
		return "ConstLeaf"
	case KindStrLeaf:
		return "StrLeaf"
	case KindVarLeaf:
		return "VarLeaf"
	case KindArrayLeaf:
		return "ArrayLeaf"
	case KindRange:
		return "Range"
	}
	return "Kind(?)"
}

/*
Node is the common interface every AST variant satisfies. TypeKW is the
structural replacement for the original's virtual GetTypeKW: each variant
computes its own result type keyword from its fields, with no dispatch
table involved.
*/
type Node interface {
	NodeKind() Kind
	TypeKW() token.Keyword
}

/*
RangeFlags records which side of a Range is inclusive.
*/
type RangeFlags struct {
	LeftInclusive  bool
	RightInclusive bool
}

/*
Namespace is the top-level unit the parser produces: a name, its
statement block, and the list of namespace prefixes it pulled in via
using.
*/
type Namespace struct {
	Name  string
	Block *StatementBlock
	Uses  []string
}

func (n *Namespace) NodeKind() Kind        { return KindNamespace }
func (n *Namespace) TypeKW() token.Keyword { return token.Last }

/*
StatementBlock groups the statements of one scope. Bytes is the summed
storage size of the locals declared directly in this block (computed
after the block closes, not incrementally). IsFn marks a block as a
function body; it does not affect scope handling, since the parser pops
every non-namespace block's frame when the block closes.
*/
type StatementBlock struct {
	Children []Node
	Bytes    int
	IsFn     bool
}

func (b *StatementBlock) NodeKind() Kind        { return KindStatementBlock }
func (b *StatementBlock) TypeKW() token.Keyword { return token.Last }

/*
TemplateParam is a collected-but-uninterpreted type parameter from a
declaration's <...> list.
*/
type TemplateParam struct {
	Keyword token.Keyword
	Name    string
}

/*
Var is a variable (or function) declaration. Name is always fully
qualified (namespace.shortname) once added to a scope, except for lambda
parameters declared directly in a function's own frame. Arr is non-nil
only when IsArr is true.
*/
type Var struct {
	Name       string
	VarType    token.Keyword
	Mut        bool
	IsArr      bool
	Arr        *Range
	Initial    Node
	TypeParams []TemplateParam
}

func (v *Var) NodeKind() Kind        { return KindVar }
func (v *Var) TypeKW() token.Keyword { return v.VarType }

/*
Lambda is a function value: its parameters, declared return type, and
body. Def is nil only transiently, while the parser is still building
the parameter list for the enclosing Var.
*/
type Lambda struct {
	Params  []*Var
	RetType token.Keyword
	Def     *StatementBlock
}

func (l *Lambda) NodeKind() Kind        { return KindLambda }
func (l *Lambda) TypeKW() token.Keyword { return token.KwFn }

/*
IfStatement is a conditional; ElseB is nil when there is no else clause.
An else-if chain is represented as ElseB holding a single-child
StatementBlock wrapping another IfStatement, matching how the parser
builds it.
*/
type IfStatement struct {
	Condition Node
	ThenB     *StatementBlock
	ElseB     *StatementBlock
}

func (i *IfStatement) NodeKind() Kind        { return KindIfStatement }
func (i *IfStatement) TypeKW() token.Keyword { return token.Last }

/*
WhileLoop is a pretest loop.
*/
type WhileLoop struct {
	Condition Node
	Body      *StatementBlock
}

func (w *WhileLoop) NodeKind() Kind        { return KindWhileLoop }
func (w *WhileLoop) TypeKW() token.Keyword { return token.Last }

/*
UnOp is a unary operation. It is also used to represent ret (Operand is
the returned expression, or nil for a bare ret) and _asm (Operand is a
StrLeaf holding the captured assembly body).
*/
type UnOp struct {
	Oper    token.Token
	Operand Node
}

func (u *UnOp) NodeKind() Kind { return KindUnOp }
func (u *UnOp) TypeKW() token.Keyword {
	if u.Operand == nil {
		return token.KwNull
	}
	return u.Operand.TypeKW()
}

/*
BinOp is a binary operation. For an assignment operator L is the
assignment target (an lvalue); for every other operator L and R simply
reflect source order.
*/
type BinOp struct {
	Oper token.Token
	L    Node
	R    Node
}

func (b *BinOp) NodeKind() Kind { return KindBinOp }
func (b *BinOp) TypeKW() token.Keyword {
	if b.L == nil {
		return token.Last
	}
	return b.L.TypeKW()
}

/*
FnCall is a function call resolved against a declared Var of type fn.
Params holds the argument expressions in source order.
*/
type FnCall struct {
	FnName token.Token
	Func   *Var
	Params []Node
}

func (f *FnCall) NodeKind() Kind { return KindFnCall }
func (f *FnCall) TypeKW() token.Keyword {
	if f.Func == nil || f.Func.Initial == nil {
		return token.Last
	}
	if lam, ok := f.Func.Initial.(*Lambda); ok {
		return lam.RetType
	}
	return token.Last
}

/*
ConstLeaf is a literal constant (any of the sized integer kinds, or a
boolean/null keyword literal).
*/
type ConstLeaf struct {
	Tok token.Token
}

func (c *ConstLeaf) NodeKind() Kind { return KindConstLeaf }
func (c *ConstLeaf) TypeKW() token.Keyword {
	switch c.Tok.Kind {
	case token.Int8L:
		return token.KwI8
	case token.Int16L:
		return token.KwI16
	case token.Int32L:
		return token.KwI32
	case token.Int64L:
		return token.KwI64
	case token.Uint8L:
		return token.KwU8
	case token.Uint16L:
		return token.KwU16
	case token.Uint32L:
		return token.KwU32
	case token.Uint64L:
		return token.KwU64
	}
	if c.Tok.Keyword == token.KwTrue || c.Tok.Keyword == token.KwFalse {
		return token.KwBool
	}
	return token.KwNull
}

/*
StrLeaf is a string or character literal.
*/
type StrLeaf struct {
	Tok token.Token
}

func (s *StrLeaf) NodeKind() Kind { return KindStrLeaf }
func (s *StrLeaf) TypeKW() token.Keyword {
	if s.Tok.Kind == token.Char {
		return token.KwCh16
	}
	return token.KwStr16
}

/*
VarLeaf is a reference to a previously declared (non-array, non-function)
variable.
*/
type VarLeaf struct {
	Var *Var
}

func (v *VarLeaf) NodeKind() Kind { return KindVarLeaf }
func (v *VarLeaf) TypeKW() token.Keyword {
	if v.Var == nil {
		return token.Last
	}
	return v.Var.VarType
}

/*
ArrayLeaf is an indexing expression into an array variable.
*/
type ArrayLeaf struct {
	Var   *Var
	Index Node
}

func (a *ArrayLeaf) NodeKind() Kind { return KindArrayLeaf }
func (a *ArrayLeaf) TypeKW() token.Keyword {
	if a.Var == nil {
		return token.Last
	}
	return a.Var.VarType
}

/*
Range is a constant interval, half-open by default.
*/
type Range struct {
	L     *ConstLeaf
	R     *ConstLeaf
	Flags RangeFlags
}

func (r *Range) NodeKind() Kind        { return KindRange }
func (r *Range) TypeKW() token.Keyword { return token.KwRng }
