/*
 * Yat
 *
 * Copyright 2020 Yat Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package ast

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/krotik/common/errorutil"
	"github.com/krotik/common/stringutil"
)

/*
IndentationLevel is the number of spaces one nesting level of
pretty-printed output is shifted by.
*/
const IndentationLevel = 4

var opTemplates = map[string]*template.Template{
	"unop":  template.Must(template.New("unop").Parse("{{.op}}{{.c1}}")),
	"binop": template.Must(template.New("binop").Parse("{{.c1}} {{.op}} {{.c2}}")),
}

/*
blockKinds lists the node kinds that are printed inside a block without
a trailing ';' - checked with stringutil.IndexOf against a fixed list of
node names, the same way the teacher's pretty printer uses it.
*/
var blockKinds = []string{
	KindStatementBlock.String(),
}

/*
Print renders node back to approximately-original source text. It exists
for golden-file tests and diagnostic tooling; it is not a guaranteed
round-trip (comments and original formatting are not preserved).
*/
func Print(node Node) string {
	return strings.TrimRight(print1(node, 0), "\n")
}

func indent(level int) string {
	return stringutil.GenerateRollingString(" ", level*IndentationLevel)
}

func print1(node Node, level int) string {
	if node == nil {
		return ""
	}

	switch n := node.(type) {
	case *Namespace:
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "nspace %s {\n", n.Name)
		for _, use := range n.Uses {
			fmt.Fprintf(&buf, "%susing %s;\n", indent(level+1), use)
		}
		buf.WriteString(print1(n.Block, level+1))
		buf.WriteString("}\n")
		return buf.String()

	case *StatementBlock:
		var buf bytes.Buffer
		for _, c := range n.Children {
			buf.WriteString(indent(level))
			buf.WriteString(print1(c, level))
			if stringutil.IndexOf(nodeKindOf(c), blockKinds) == -1 {
				buf.WriteString(";")
			}
			buf.WriteString("\n")
		}
		return buf.String()

	case *Var:
		return printVarDecl(n, level)

	case *Lambda:
		return printLambda(n, level)

	case *IfStatement:
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "if (%s) {\n", print1(n.Condition, level))
		buf.WriteString(print1(n.ThenB, level+1))
		buf.WriteString(indent(level))
		buf.WriteString("}")
		if n.ElseB != nil {
			buf.WriteString(" else {\n")
			buf.WriteString(print1(n.ElseB, level+1))
			buf.WriteString(indent(level))
			buf.WriteString("}")
		}
		return buf.String()

	case *WhileLoop:
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "while (%s) {\n", print1(n.Condition, level))
		buf.WriteString(print1(n.Body, level+1))
		buf.WriteString(indent(level))
		buf.WriteString("}")
		return buf.String()

	case *UnOp:
		return printUnOp(n, level)

	case *BinOp:
		var buf bytes.Buffer
		tmp := opTemplates["binop"]
		errorutil.AssertOk(tmp.Execute(&buf, map[string]string{
			"op": n.Oper.Data,
			"c1": print1(n.L, level),
			"c2": print1(n.R, level),
		}))
		return buf.String()

	case *FnCall:
		parts := make([]string, len(n.Params))
		for i, p := range n.Params {
			parts[i] = print1(p, level)
		}
		return fmt.Sprintf("%s(%s)", n.FnName.Data, strings.Join(parts, ", "))

	case *ConstLeaf:
		return n.Tok.Data

	case *StrLeaf:
		if n.Tok.Kind.String() == "char" {
			return strconv.QuoteRune([]rune(n.Tok.Data)[0])
		}
		return strconv.Quote(n.Tok.Data)

	case *VarLeaf:
		if n.Var != nil {
			return n.Var.Name
		}
		return "<nil var>"

	case *ArrayLeaf:
		name := "<nil var>"
		if n.Var != nil {
			name = n.Var.Name
		}
		return fmt.Sprintf("%s[%s]", name, print1(n.Index, level))

	case *Range:
		left, right := "(", ")"
		if n.Flags.LeftInclusive {
			left = "["
		}
		if n.Flags.RightInclusive {
			right = "]"
		}
		return fmt.Sprintf("%s%s; %s%s", left, print1(n.L, level), print1(n.R, level), right)
	}

	return fmt.Sprintf("<unprintable %T>", node)
}

func nodeKindOf(n Node) string {
	if n == nil {
		return ""
	}
	return n.NodeKind().String()
}

func printUnOp(n *UnOp, level int) string {
	switch n.Oper.Keyword.String() {
	case "ret":
		if n.Operand == nil {
			return "ret"
		}
		return "ret " + print1(n.Operand, level)
	case "_asm":
		body := ""
		if s, ok := n.Operand.(*StrLeaf); ok {
			body = s.Tok.Data
		}
		return fmt.Sprintf("_asm { %s }", body)
	}

	var buf bytes.Buffer
	errorutil.AssertOk(opTemplates["unop"].Execute(&buf, map[string]string{
		"op": n.Oper.Data,
		"c1": print1(n.Operand, level),
	}))
	return buf.String()
}

func printVarDecl(v *Var, level int) string {
	var buf bytes.Buffer
	if v.Mut {
		buf.WriteString("mut ")
	}
	buf.WriteString(v.VarType.String())
	if v.IsArr {
		buf.WriteString(print1(v.Arr, level))
	}
	if len(v.TypeParams) > 0 {
		parts := make([]string, len(v.TypeParams))
		for i, tp := range v.TypeParams {
			parts[i] = fmt.Sprintf("%s %s", tp.Keyword, tp.Name)
		}
		fmt.Fprintf(&buf, "<%s>", strings.Join(parts, ", "))
	}
	buf.WriteString(" ")
	buf.WriteString(shortName(v.Name))
	if v.Initial != nil {
		buf.WriteString(" = ")
		buf.WriteString(print1(v.Initial, level))
	}
	return buf.String()
}

func printLambda(l *Lambda, level int) string {
	parts := make([]string, len(l.Params))
	for i, p := range l.Params {
		parts[i] = printVarDecl(p, level)
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "(%s) -> %s", strings.Join(parts, ", "), l.RetType)
	if l.Def != nil {
		buf.WriteString(" {\n")
		buf.WriteString(print1(l.Def, level+1))
		buf.WriteString(indent(level))
		buf.WriteString("}")
	}
	return buf.String()
}

func shortName(qualified string) string {
	if idx := strings.LastIndex(qualified, "."); idx != -1 {
		return qualified[idx+1:]
	}
	return qualified
}
