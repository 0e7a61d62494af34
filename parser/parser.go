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
Package parser implements a recursive-descent driver over the lexer,
with a shunting-yard reducer for expressions. It produces a forest of
*ast.Namespace values and maintains the scope table that resolves every
name as it is read, so the AST it returns already carries resolved
*ast.Var back-references rather than names to be looked up later.
*/
package parser

import (
	"fmt"
	"strconv"

	"github.com/yat-lang/yat/ast"
	"github.com/yat-lang/yat/lexer"
	"github.com/yat-lang/yat/scope"
	"github.com/yat-lang/yat/token"
	"github.com/yat-lang/yat/util"
)

/*
Parser holds the single token of lookahead the grammar needs, the scope
table being built as declarations are read, and the namespace/uses
context of whatever block is currently being parsed.
*/
type Parser struct {
	lex    *lexer.Lexer
	source string
	cur    token.Token

	scope *scope.Table

	curNamespace string
	curUses      []string
	pendingUses  []string

	unsafeNext bool

	logger util.Logger
}

/*
New creates a Parser over src, a source of the given name (used only in
diagnostics).
*/
func New(source, src string) *Parser {
	return &Parser{
		lex:    lexer.New(source, src),
		source: source,
		scope:  scope.NewTable(),
		logger: util.NewNullLogger(),
	}
}

/*
SetLogger installs a logger the parser uses for debug tracing. The
default is a NullLogger.
*/
func (p *Parser) SetLogger(l util.Logger) {
	p.logger = l
}

/*
Scope exposes the symbol table the parser built, for callers that want
to inspect resolved declarations after Parse returns.
*/
func (p *Parser) Scope() *scope.Table {
	return p.scope
}

func (p *Parser) advance() error {
	t, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = t
	p.logger.LogDebug("token ", t)
	return nil
}

func (p *Parser) curIsKeyword(kw token.Keyword) bool {
	return p.cur.Kind == token.Name && p.cur.Keyword == kw
}

func (p *Parser) unexpected(sentinel error, detail string) error {
	return p.lex.ErrorAt(p.cur.Start, sentinel, detail)
}

/*
Parse reads the whole source and returns every namespace it declares.
*/
func (p *Parser) Parse() ([]*ast.Namespace, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}

	var namespaces []*ast.Namespace

	for p.cur.Kind != token.EoF {
		ns, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		if ns != nil {
			namespaces = append(namespaces, ns)
		}
	}

	return namespaces, nil
}

func (p *Parser) parseTopLevel() (*ast.Namespace, error) {
	switch {
	case p.cur.Kind == token.Name && p.cur.Keyword == token.Last && p.cur.Data == "import":
		return nil, p.parseImport()

	case p.curIsKeyword(token.KwUsing):
		return nil, p.parseUsing()

	case p.curIsKeyword(token.KwNspace):
		return p.parseNamespace()
	}

	return nil, p.unexpected(lexer.ErrUnexpectedToken,
		fmt.Sprintf("unexpected token %v at top level", p.cur))
}

/*
parseImport recognizes the "import <name>;" directive. Import
resolution itself is a no-op: the directive is parsed and discarded, it
never reaches into the filesystem.
*/
func (p *Parser) parseImport() error {
	if err := p.advance(); err != nil {
		return err
	}

	if p.cur.Kind != token.Name {
		return p.unexpected(lexer.ErrUnexpectedToken, "expected a module name after import")
	}
	if err := p.advance(); err != nil {
		return err
	}

	if p.cur.Kind == token.Semi {
		return p.advance()
	}
	return nil
}

func (p *Parser) parseDottedName() (string, error) {
	if p.cur.Kind != token.Name {
		return "", p.unexpected(lexer.ErrUnexpectedToken, "expected a name")
	}
	name := p.cur.Data
	if err := p.advance(); err != nil {
		return "", err
	}
	for p.cur.Kind == token.Dot {
		if err := p.advance(); err != nil {
			return "", err
		}
		if p.cur.Kind != token.Name {
			return "", p.unexpected(lexer.ErrUnexpectedToken, "expected a name after '.'")
		}
		name += "." + p.cur.Data
		if err := p.advance(); err != nil {
			return "", err
		}
	}
	return name, nil
}

func (p *Parser) parseUsing() error {
	if err := p.advance(); err != nil {
		return err
	}

	name, err := p.parseDottedName()
	if err != nil {
		return err
	}

	if p.cur.Kind != token.Semi {
		return p.unexpected(lexer.ErrUnexpectedToken, "expected ';' after using directive")
	}
	if err := p.advance(); err != nil {
		return err
	}

	p.pendingUses = append(p.pendingUses, name)
	return nil
}

func (p *Parser) parseNamespace() (*ast.Namespace, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}

	name, err := p.parseDottedName()
	if err != nil {
		return nil, err
	}

	if p.cur.Kind != token.LBrace {
		return nil, p.unexpected(lexer.ErrUnexpectedToken, "expected '{' to open a namespace body")
	}

	prevNamespace, prevUses := p.curNamespace, p.curUses
	p.curNamespace = name
	p.curUses = p.pendingUses
	p.pendingUses = nil

	block, err := p.parseBlockFrame(false, false)
	if err != nil {
		return nil, err
	}

	ns := &ast.Namespace{Name: name, Block: block, Uses: p.curUses}

	p.curNamespace, p.curUses = prevNamespace, prevUses

	return ns, nil
}

/*
parseBlock requires the current token to be '{', parses statements
until the matching '}' and returns the resulting StatementBlock,
popping its scope frame once the block closes. Every block that isn't
a namespace body uses this: locals declared inside an if/while/function
body stop being visible the moment it ends.
*/
func (p *Parser) parseBlock(isFn bool) (*ast.StatementBlock, error) {
	return p.parseBlockFrame(isFn, true)
}

/*
parseBlockFrame is parseBlock generalized with explicit control over
whether the frame it pushes is popped when the block closes. A
namespace body passes popFrame false: its declarations (including
using-imported access from a later namespace) must stay resolvable for
the rest of the parse, not just for the duration of its own block.
*/
func (p *Parser) parseBlockFrame(isFn, popFrame bool) (*ast.StatementBlock, error) {
	if p.cur.Kind != token.LBrace {
		return nil, p.unexpected(lexer.ErrUnexpectedToken, "expected '{'")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	p.scope.PushScope()
	frameIdx := p.scope.Top()

	block := &ast.StatementBlock{IsFn: isFn}

	for p.cur.Kind != token.RBrace {
		if p.cur.Kind == token.EoF {
			return nil, p.unexpected(lexer.ErrUnexpectedToken, "unexpected end of file inside a block")
		}

		stmt, err := p.parseBlockStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			block.Children = append(block.Children, stmt)
		}
	}

	bytes := 0
	for _, v := range p.scope.Frame(frameIdx) {
		size := token.SizeOfType(v.VarType)
		if v.IsArr && v.Arr != nil {
			size *= rangeSize(v.Arr)
		}
		bytes += size
	}
	block.Bytes = bytes

	if popFrame {
		p.scope.PopScope()
	}
	p.unsafeNext = false

	if err := p.advance(); err != nil {
		return nil, err
	}

	return block, nil
}

/*
rangeSize computes the element count of a constant array bound. Both
endpoints must already be integer literals - parseArrayBound only ever
builds a Range out of parseConstExpr results.
*/
func rangeSize(r *ast.Range) int {
	l, lerr := strconv.ParseInt(r.L.Tok.Data, 0, 64)
	h, herr := strconv.ParseInt(r.R.Tok.Data, 0, 64)
	if lerr != nil || herr != nil {
		return 0
	}

	first := l
	if !r.Flags.LeftInclusive {
		first++
	}
	last := h
	if !r.Flags.RightInclusive {
		last--
	}
	if last < first {
		return 0
	}
	return int(last - first + 1)
}

func isTypeKeyword(kw token.Keyword) bool {
	switch kw {
	case token.KwLet, token.KwI8, token.KwI16, token.KwI32, token.KwI64,
		token.KwU8, token.KwU16, token.KwU32, token.KwU64, token.KwF32, token.KwF64,
		token.KwCh16, token.KwStr16, token.KwBool, token.KwFn, token.KwRng:
		return true
	}
	return false
}

func (p *Parser) parseBlockStatement() (ast.Node, error) {
	switch {
	case p.cur.Kind == token.PPBegin:
		return nil, p.parsePreProc()

	case p.curIsKeyword(token.KwIf):
		return p.parseIf()

	case p.curIsKeyword(token.KwWhile):
		return p.parseWhileLoop()

	case p.curIsKeyword(token.KwRet):
		return p.parseRet()

	case p.curIsKeyword(token.KwAsm):
		return p.parseAsm()

	case p.cur.Kind == token.Name && (p.curIsKeyword(token.KwMut) || isTypeKeyword(p.cur.Keyword)):
		return p.parseVarDecl(true)

	case p.cur.Kind == token.Name && p.cur.Keyword == token.Last,
		p.cur.Kind == token.OperInc, p.cur.Kind == token.OperDec:
		return p.parseStatement()
	}

	return nil, p.unexpected(lexer.ErrUnexpectedToken,
		fmt.Sprintf("unexpected token %v in a block", p.cur))
}

/*
parsePreProc reads a "#!( ... )!" section. The only directive with any
effect is "unsafe", which arms a one-shot flag consumed by the very
next _asm statement in this block; every other directive is
recognized, consumed, and silently discarded.
*/
func (p *Parser) parsePreProc() error {
	if err := p.advance(); err != nil {
		return err
	}

	for p.cur.Kind != token.PPEnd {
		if p.cur.Kind == token.EoF {
			return p.unexpected(lexer.ErrUnexpectedToken, "unexpected end of file in a preprocessor section")
		}
		if p.cur.Kind == token.Name && p.cur.Data == "unsafe" {
			p.unsafeNext = true
		}
		if err := p.advance(); err != nil {
			return err
		}
	}

	return p.advance()
}

func (p *Parser) parseIf() (*ast.IfStatement, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if cond.TypeKW() != token.KwBool {
		return nil, p.unexpected(ErrExpectedBoolean, "if condition must be a boolean expression")
	}

	thenB, err := p.parseBlock(false)
	if err != nil {
		return nil, err
	}

	stmt := &ast.IfStatement{Condition: cond, ThenB: thenB}

	if p.curIsKeyword(token.KwElse) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.curIsKeyword(token.KwIf) {
			elseIf, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			stmt.ElseB = &ast.StatementBlock{Children: []ast.Node{elseIf}}
		} else {
			elseB, err := p.parseBlock(false)
			if err != nil {
				return nil, err
			}
			stmt.ElseB = elseB
		}
	}

	return stmt, nil
}

func (p *Parser) parseWhileLoop() (*ast.WhileLoop, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if cond.TypeKW() != token.KwBool {
		return nil, p.unexpected(ErrExpectedBoolean, "while condition must be a boolean expression")
	}

	body, err := p.parseBlock(false)
	if err != nil {
		return nil, err
	}

	return &ast.WhileLoop{Condition: cond, Body: body}, nil
}

func (p *Parser) parseRet() (*ast.UnOp, error) {
	tok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}

	var operand ast.Node
	if p.cur.Kind != token.Semi {
		var err error
		operand, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}

	if p.cur.Kind != token.Semi {
		return nil, p.unexpected(lexer.ErrUnexpectedToken, "expected ';' after ret")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	return &ast.UnOp{Oper: tok, Operand: operand}, nil
}

/*
parseAsm reads "_asm { <verbatim body> }". It requires an unsafe
preprocessor section earlier in the same block (other statements may
come in between); the flag is one-shot, consumed by this _asm, and
cleared when the enclosing block closes.
*/
func (p *Parser) parseAsm() (*ast.UnOp, error) {
	tok := p.cur
	if !p.unsafeNext {
		return nil, p.unexpected(ErrInlineAsmUnsafe, "_asm requires an unsafe preprocessor section")
	}
	p.unsafeNext = false

	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Kind != token.LBrace {
		return nil, p.unexpected(lexer.ErrUnexpectedToken, "expected '{' after _asm")
	}

	body, err := p.lex.ParseRawUntil("}")
	if err != nil {
		return nil, err
	}

	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Kind != token.RBrace {
		return nil, p.unexpected(lexer.ErrUnexpectedToken, "expected '}' to close an _asm block")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	return &ast.UnOp{Oper: tok, Operand: &ast.StrLeaf{Tok: body}}, nil
}

func (p *Parser) addVar(v *ast.Var, frameIdx int) error {
	if err := p.scope.Add(v, frameIdx); err != nil {
		return p.unexpected(ErrDuplicateVariable, err.Error())
	}
	return nil
}

/*
parseVarDecl reads "[mut] type [<params>] [[range]] name [= init];".
When add is true the declared Var is registered in the current top
scope frame. A fn-typed Var is registered before its lambda initializer
is parsed, so it can refer to itself recursively; any other Var is
registered only after its initializer has been parsed.
Lambda parameter declarations call this with add false; the caller
registers them in the parameter frame itself.
*/
func (p *Parser) parseVarDecl(add bool) (*ast.Var, error) {
	v := &ast.Var{}
	haveType := false

	for !(p.cur.Kind == token.Name && p.cur.Keyword == token.Last) {
		switch {
		case p.curIsKeyword(token.KwMut):
			v.Mut = true
			if err := p.advance(); err != nil {
				return nil, err
			}

		case p.cur.Kind == token.Name && isTypeKeyword(p.cur.Keyword):
			if haveType {
				return nil, p.unexpected(ErrMultipleDataTypes, "multiple data types in one declaration")
			}
			v.VarType = p.cur.Keyword
			haveType = true
			if err := p.advance(); err != nil {
				return nil, err
			}

		case p.cur.Kind == token.LBracket:
			if err := p.advance(); err != nil {
				return nil, err
			}
			r, err := p.parseArrayBound()
			if err != nil {
				return nil, err
			}
			v.IsArr = true
			v.Arr = r

		case p.cur.Kind == token.OperLess:
			if err := p.advance(); err != nil {
				return nil, err
			}
			tps, err := p.parseTypeParams()
			if err != nil {
				return nil, err
			}
			v.TypeParams = tps

		default:
			return nil, p.unexpected(lexer.ErrUnexpectedToken,
				fmt.Sprintf("unexpected token %v in a variable declaration", p.cur))
		}
	}

	if !haveType {
		return nil, p.unexpected(lexer.ErrUnexpectedToken, "variable declaration is missing a type")
	}

	shortName := p.cur.Data
	v.Name = shortName
	if add && p.curNamespace != "" {
		v.Name = p.curNamespace + "." + shortName
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	frameIdx := p.scope.Top()

	if p.cur.Kind == token.Assign {
		if v.VarType == token.KwFn {
			if add {
				if err := p.addVar(v, frameIdx); err != nil {
					return nil, err
				}
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			lam, err := p.parseLambda()
			if err != nil {
				return nil, err
			}
			v.Initial = lam
		} else {
			if err := p.advance(); err != nil {
				return nil, err
			}
			init, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if v.VarType == token.KwLet {
				v.VarType = init.TypeKW()
			}
			v.Initial = init
			if add {
				if err := p.addVar(v, frameIdx); err != nil {
					return nil, err
				}
			}
		}
	} else {
		if v.VarType == token.KwLet {
			return nil, p.unexpected(ErrLetWithoutInitializer, "let declaration without an initializer")
		}
		if add {
			if err := p.addVar(v, frameIdx); err != nil {
				return nil, err
			}
		}
	}

	if p.cur.Kind == token.Semi {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	return v, nil
}

/*
parseArrayBound reads the contents of a declaration's "[...]" array
marker, whose opening bracket has already been consumed. A single
expression is widened to the implicit range [0; expr); an explicit
"a;b" range uses the same inclusivity rule as a standalone range
expression (opening '[' sets LeftInclusive, closing ']' sets
RightInclusive - here the opening delimiter was already fixed as '[' by
the declaration grammar, so only the closer varies).
*/
func (p *Parser) parseArrayBound() (*ast.Range, error) {
	first, err := p.parseConstExpr()
	if err != nil {
		return nil, err
	}

	if p.cur.Kind == token.Semi {
		if err := p.advance(); err != nil {
			return nil, err
		}
		second, err := p.parseConstExpr()
		if err != nil {
			return nil, err
		}

		flags := ast.RangeFlags{LeftInclusive: true}
		switch p.cur.Kind {
		case token.RBracket:
			flags.RightInclusive = true
		case token.RParen:
		default:
			return nil, p.unexpected(lexer.ErrUnexpectedToken, "expected ']' or ')' to close an array range")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}

		return &ast.Range{L: first, R: second, Flags: flags}, nil
	}

	if p.cur.Kind != token.RBracket {
		return nil, p.unexpected(lexer.ErrUnexpectedToken, "expected ']' to close an array bound")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	zero := &ast.ConstLeaf{Tok: token.Token{Kind: token.Int32L, Data: "0", Keyword: token.Last}}
	return &ast.Range{L: zero, R: first, Flags: ast.RangeFlags{LeftInclusive: true}}, nil
}

/*
parseConstExpr parses one expression and requires it to already be a
constant literal. Array bounds and range endpoints must be resolvable
at parse time, since they size storage before any evaluation exists.
*/
func (p *Parser) parseConstExpr() (*ast.ConstLeaf, error) {
	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	cl, ok := node.(*ast.ConstLeaf)
	if !ok {
		return nil, p.unexpected(ErrConstantRequired, "range bound must be a constant expression")
	}
	return cl, nil
}

/*
parseTypeParams reads a declaration's "<kw name, kw name, ...>" type
parameter list. The opening '<' has already been consumed.
*/
func (p *Parser) parseTypeParams() ([]ast.TemplateParam, error) {
	var params []ast.TemplateParam

	for p.cur.Kind != token.OperGreater {
		if p.cur.Kind == token.EoF {
			return nil, p.unexpected(lexer.ErrUnexpectedToken, "unexpected end of file in a type parameter list")
		}
		if p.cur.Kind != token.Name {
			return nil, p.unexpected(lexer.ErrUnexpectedToken, "expected a type parameter")
		}
		kw := p.cur.Keyword
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind != token.Name {
			return nil, p.unexpected(lexer.ErrUnexpectedToken, "expected a type parameter name")
		}
		params = append(params, ast.TemplateParam{Keyword: kw, Name: p.cur.Data})
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind == token.Comma {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}

	if err := p.advance(); err != nil {
		return nil, err
	}
	return params, nil
}

/*
parseParamList reads a lambda's parameter list: exactly one declaration
without parens, or a parenthesized, comma-separated list (possibly
empty).
*/
func (p *Parser) parseParamList() ([]*ast.Var, error) {
	if p.cur.Kind != token.LParen {
		v, err := p.parseVarDecl(false)
		if err != nil {
			return nil, err
		}
		return []*ast.Var{v}, nil
	}

	if err := p.advance(); err != nil {
		return nil, err
	}

	var params []*ast.Var
	for p.cur.Kind != token.RParen {
		v, err := p.parseVarDecl(false)
		if err != nil {
			return nil, err
		}
		params = append(params, v)
		if p.cur.Kind == token.Comma {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}

	if err := p.advance(); err != nil {
		return nil, err
	}
	return params, nil
}

/*
parseLambda reads "<params> -> <rettype> <body>", where body is either
a full "{ ... }" block or a single statement implicitly wrapped in ret
when the declared return type is not null. It pushes its own scope
frame for the parameter list, which it pops once the body has been
parsed - the parameter frame is distinct from (and sits directly below)
the body block's own frame.
*/
func (p *Parser) parseLambda() (*ast.Lambda, error) {
	p.scope.PushScope()
	paramFrame := p.scope.Top()

	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	for _, param := range params {
		if err := p.addVar(param, paramFrame); err != nil {
			return nil, err
		}
	}

	if p.cur.Kind != token.Arrow {
		return nil, p.unexpected(lexer.ErrUnexpectedToken, "expected '->' after a lambda parameter list")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.cur.Kind != token.Name || !isTypeKeyword(p.cur.Keyword) && p.cur.Keyword != token.KwNull {
		return nil, p.unexpected(lexer.ErrUnexpectedToken, "expected a return type after '->'")
	}
	retType := p.cur.Keyword
	if err := p.advance(); err != nil {
		return nil, err
	}

	lam := &ast.Lambda{Params: params, RetType: retType}

	if p.cur.Kind == token.LBrace {
		body, err := p.parseBlock(true)
		if err != nil {
			return nil, err
		}
		lam.Def = body
	} else {
		stmt, err := p.parseBlockStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil && retType != token.KwNull {
			if u, ok := stmt.(*ast.UnOp); !ok || u.Oper.Keyword != token.KwRet {
				stmt = &ast.UnOp{
					Oper:    token.Token{Kind: token.Name, Keyword: token.KwRet, Data: "ret"},
					Operand: stmt,
				}
			}
		}
		def := &ast.StatementBlock{IsFn: true}
		if stmt != nil {
			def.Children = []ast.Node{stmt}
		}
		lam.Def = def
	}

	p.scope.PopScope()

	return lam, nil
}

func (p *Parser) parseStatement() (ast.Node, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != token.Semi {
		return nil, p.unexpected(lexer.ErrUnexpectedToken, "expected ';' after a statement")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return expr, nil
}

/*
parseExpression dispatches to the range-expression grammar when the
leading token is the rng keyword, otherwise runs the shunting-yard
expression reducer.
*/
func (p *Parser) parseExpression() (ast.Node, error) {
	if p.curIsKeyword(token.KwRng) {
		return p.parseRangeExpr()
	}
	return p.shuntingYard()
}

/*
parseRangeExpr reads "rng [|(  const ; const  ]|) ". Opening '[' sets
LeftInclusive, closing ']' sets RightInclusive; '(' / ')' leave the
corresponding flag unset.
*/
func (p *Parser) parseRangeExpr() (*ast.Range, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}

	var flags ast.RangeFlags
	switch p.cur.Kind {
	case token.LBracket:
		flags.LeftInclusive = true
	case token.LParen:
	default:
		return nil, p.unexpected(lexer.ErrUnexpectedToken, "expected '[' or '(' to open a range expression")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	l, err := p.parseConstExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != token.Semi {
		return nil, p.unexpected(lexer.ErrUnexpectedToken, "expected ';' inside a range expression")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	r, err := p.parseConstExpr()
	if err != nil {
		return nil, err
	}

	switch p.cur.Kind {
	case token.RBracket:
		flags.RightInclusive = true
	case token.RParen:
	default:
		return nil, p.unexpected(lexer.ErrUnexpectedToken, "expected ']' or ')' to close a range expression")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	return &ast.Range{L: l, R: r, Flags: flags}, nil
}

/*
opEntry is one entry of the shunting-yard operator stack. Group
openers ('(' and '[') carry isOpen; a resolved function or array Name
carries resolvedVar and waits on the stack for its matching closer,
which is what lets a nested call's arguments or an index expression
build up on the operand stack in between.
*/
type opEntry struct {
	tok         token.Token
	arity       int
	prec        int
	isOpen      bool
	resolvedVar *ast.Var
	isArray     bool
}

/*
tryResolve looks a name up against the live scope, the current
namespace-qualified form, and each using prefix in turn.
*/
func (p *Parser) tryResolve(name string) (*ast.Var, bool) {
	if v, ok := p.scope.Lookup(name); ok {
		return v, true
	}
	if p.curNamespace != "" {
		if v, ok := p.scope.Lookup(p.curNamespace + "." + name); ok {
			return v, true
		}
	}
	for _, use := range p.curUses {
		if v, ok := p.scope.Lookup(use + "." + name); ok {
			return v, true
		}
	}
	return nil, false
}

/*
shuntingYard drives the standard two-stack algorithm: operands build up
on one stack, operators (with their precedence at push time) on the
other, and a higher- or equal-precedence incoming operator drains the
stack before it is itself pushed. Assignment is right-associative: it
only drains operators of strictly higher precedence, which is what lets
"a = b = c" parse with b = c reducing first.

The expression ends at ';', '{', '}', end of file, or a ')'/']' with no
matching opener left on the stack (the caller is responsible for
interpreting that unmatched closer, e.g. as the end of an array bound
or the end of a call argument list one level up).
*/
func (p *Parser) shuntingYard() (ast.Node, error) {
	var operators []opEntry
	var operands []ast.Node
	lastWasValue := false

	reduce := func() error {
		if len(operators) == 0 {
			return p.unexpected(lexer.ErrUnexpectedToken, "expression has no operator to reduce")
		}
		top := operators[len(operators)-1]
		operators = operators[:len(operators)-1]

		if top.arity == 1 {
			if len(operands) < 1 {
				return p.unexpected(lexer.ErrUnexpectedToken, "operator is missing its operand")
			}
			operand := operands[len(operands)-1]
			operands = operands[:len(operands)-1]
			operands = append(operands, &ast.UnOp{Oper: top.tok, Operand: operand})
			return nil
		}

		if len(operands) < 2 {
			return p.unexpected(lexer.ErrUnexpectedToken, "operator is missing an operand")
		}
		r := operands[len(operands)-1]
		l := operands[len(operands)-2]
		operands = operands[:len(operands)-2]

		if token.IsAssignment(top.tok.Kind) {
			mutable := false
			switch lv := l.(type) {
			case *ast.VarLeaf:
				mutable = lv.Var != nil && lv.Var.Mut
			case *ast.ArrayLeaf:
				mutable = lv.Var != nil && lv.Var.Mut
			}
			if !mutable {
				return p.unexpected(ErrAssignToImmutable, "cannot assign to an immutable variable")
			}
		}

		operands = append(operands, &ast.BinOp{Oper: top.tok, L: l, R: r})
		return nil
	}

	reduceUntilOpen := func(openKind token.Kind) error {
		for {
			if len(operators) == 0 {
				return p.unexpected(ErrMismatchedBracket, "mismatched bracket")
			}
			top := operators[len(operators)-1]
			if top.isOpen {
				if top.tok.Kind != openKind {
					return p.unexpected(ErrMismatchedBracket, "mismatched bracket")
				}
				operators = operators[:len(operators)-1]
				return nil
			}
			if err := reduce(); err != nil {
				return err
			}
		}
	}

	maybeBuildCall := func() error {
		if len(operators) == 0 {
			return nil
		}
		top := operators[len(operators)-1]
		if top.resolvedVar == nil || top.isArray {
			return nil
		}
		operators = operators[:len(operators)-1]

		n := top.arity
		if len(operands) < n {
			return p.unexpected(lexer.ErrUnexpectedToken, "too few arguments in call")
		}
		args := make([]ast.Node, n)
		copy(args, operands[len(operands)-n:])
		operands = operands[:len(operands)-n]

		operands = append(operands, &ast.FnCall{FnName: top.tok, Func: top.resolvedVar, Params: args})
		return nil
	}

	maybeBuildIndex := func() error {
		if len(operators) == 0 {
			return nil
		}
		top := operators[len(operators)-1]
		if top.resolvedVar == nil || !top.isArray {
			return nil
		}
		operators = operators[:len(operators)-1]

		if len(operands) < 1 {
			return p.unexpected(lexer.ErrUnexpectedToken, "array index is missing an expression")
		}
		idx := operands[len(operands)-1]
		operands = operands[:len(operands)-1]

		operands = append(operands, &ast.ArrayLeaf{Var: top.resolvedVar, Index: idx})
		return nil
	}

	handleName := func() error {
		name := p.cur.Data
		if err := p.advance(); err != nil {
			return err
		}

		v, ok := p.tryResolve(name)
		for !ok && p.cur.Kind == token.Dot {
			if err := p.advance(); err != nil {
				return err
			}
			if p.cur.Kind != token.Name {
				return p.unexpected(lexer.ErrUnexpectedToken, "expected a name after '.'")
			}
			name += "." + p.cur.Data
			if err := p.advance(); err != nil {
				return err
			}
			v, ok = p.tryResolve(name)
		}
		if !ok {
			return p.unexpected(ErrUndeclaredVariable, fmt.Sprintf("use of undeclared variable %q", name))
		}

		nameTok := token.Token{Kind: token.Name, Data: name, Keyword: token.Last}

		if v.VarType == token.KwFn && p.cur.Kind == token.LParen {
			arity := 0
			if lam, ok := v.Initial.(*ast.Lambda); ok {
				arity = len(lam.Params)
			}
			operators = append(operators, opEntry{tok: nameTok, resolvedVar: v, arity: arity})
			lastWasValue = false
			return nil
		}

		if v.IsArr && p.cur.Kind == token.LBracket {
			operators = append(operators, opEntry{tok: nameTok, resolvedVar: v, isArray: true, arity: 1})
			lastWasValue = false
			return nil
		}

		operands = append(operands, &ast.VarLeaf{Var: v})
		lastWasValue = true
		return nil
	}

loop:
	for {
		switch p.cur.Kind {
		case token.Semi, token.LBrace, token.RBrace, token.EoF:
			break loop

		case token.LParen:
			operators = append(operators, opEntry{tok: p.cur, isOpen: true})
			lastWasValue = false
			if err := p.advance(); err != nil {
				return nil, err
			}

		case token.LBracket:
			operators = append(operators, opEntry{tok: p.cur, isOpen: true})
			lastWasValue = false
			if err := p.advance(); err != nil {
				return nil, err
			}

		case token.RParen:
			hasOpen := false
			for _, e := range operators {
				if e.isOpen && e.tok.Kind == token.LParen {
					hasOpen = true
					break
				}
			}
			if !hasOpen {
				break loop
			}
			if err := reduceUntilOpen(token.LParen); err != nil {
				return nil, err
			}
			if err := maybeBuildCall(); err != nil {
				return nil, err
			}
			lastWasValue = true
			if err := p.advance(); err != nil {
				return nil, err
			}

		case token.RBracket:
			hasOpen := false
			for _, e := range operators {
				if e.isOpen && e.tok.Kind == token.LBracket {
					hasOpen = true
					break
				}
			}
			if !hasOpen {
				break loop
			}
			if err := reduceUntilOpen(token.LBracket); err != nil {
				return nil, err
			}
			if err := maybeBuildIndex(); err != nil {
				return nil, err
			}
			lastWasValue = true
			if err := p.advance(); err != nil {
				return nil, err
			}

		case token.Comma:
			lastWasValue = false
			if err := p.advance(); err != nil {
				return nil, err
			}

		case token.Int8L, token.Int16L, token.Int32L, token.Int64L,
			token.Uint8L, token.Uint16L, token.Uint32L, token.Uint64L,
			token.Float32L, token.Float64L:
			operands = append(operands, &ast.ConstLeaf{Tok: p.cur})
			lastWasValue = true
			if err := p.advance(); err != nil {
				return nil, err
			}

		case token.String, token.Char:
			operands = append(operands, &ast.StrLeaf{Tok: p.cur})
			lastWasValue = true
			if err := p.advance(); err != nil {
				return nil, err
			}

		case token.Name:
			if p.cur.Keyword == token.KwTrue || p.cur.Keyword == token.KwFalse || p.cur.Keyword == token.KwNull {
				operands = append(operands, &ast.ConstLeaf{Tok: p.cur})
				lastWasValue = true
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			if p.cur.Keyword != token.Last {
				break loop
			}
			if err := handleName(); err != nil {
				return nil, err
			}

		case token.OperInc, token.OperDec:
			if lastWasValue {
				if len(operands) == 0 {
					return nil, p.unexpected(lexer.ErrUnexpectedToken, "postfix operator has no operand")
				}
				operands[len(operands)-1] = &ast.UnOp{Oper: p.cur, Operand: operands[len(operands)-1]}
			} else {
				operators = append(operators, opEntry{tok: p.cur, arity: 1, prec: token.Precedence(p.cur.Kind, true)})
				lastWasValue = false
			}
			if err := p.advance(); err != nil {
				return nil, err
			}

		default:
			if !token.IsBinary(p.cur.Kind) {
				break loop
			}
			unary := !lastWasValue
			prec := token.Precedence(p.cur.Kind, unary)
			rightAssoc := token.IsAssignment(p.cur.Kind)

			for len(operators) > 0 {
				top := operators[len(operators)-1]
				if top.isOpen {
					break
				}
				if rightAssoc {
					if top.prec <= prec {
						break
					}
				} else if top.prec < prec {
					break
				}
				if err := reduce(); err != nil {
					return nil, err
				}
			}

			arity := 2
			if unary {
				arity = 1
			}
			operators = append(operators, opEntry{tok: p.cur, arity: arity, prec: prec})
			lastWasValue = false
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}

	for len(operators) > 0 {
		if err := reduce(); err != nil {
			return nil, err
		}
	}

	if len(operands) != 1 {
		return nil, p.unexpected(lexer.ErrUnexpectedToken, "malformed expression")
	}

	return operands[0], nil
}
