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
	"fmt"

	"github.com/krotik/common/errorutil"
	"github.com/yat-lang/yat/token"
)

/*
ToJSONObject returns node and all its children as a plain
map[string]interface{}, suitable for json.Marshal or for comparing two
trees without depending on Go struct identity. The nested shape mirrors
the node's own fields rather than a single generic {name, children}
envelope, since each variant here has a fixed field set instead of the
teacher's free-form Children slice.
*/
func ToJSONObject(n Node) map[string]interface{} {
	if n == nil {
		return nil
	}

	obj := map[string]interface{}{"kind": n.NodeKind().String()}

	switch v := n.(type) {
	case *Namespace:
		obj["name"] = v.Name
		obj["uses"] = v.Uses
		obj["block"] = ToJSONObject(v.Block)

	case *StatementBlock:
		children := make([]map[string]interface{}, len(v.Children))
		for i, c := range v.Children {
			children[i] = ToJSONObject(c)
		}
		obj["children"] = children
		obj["bytes"] = v.Bytes
		obj["isFn"] = v.IsFn

	case *Var:
		obj["name"] = v.Name
		obj["varType"] = v.VarType.String()
		obj["mut"] = v.Mut
		obj["isArr"] = v.IsArr
		if v.Arr != nil {
			obj["arr"] = ToJSONObject(v.Arr)
		}
		if v.Initial != nil {
			obj["initial"] = ToJSONObject(v.Initial)
		}
		if len(v.TypeParams) > 0 {
			tps := make([]map[string]interface{}, len(v.TypeParams))
			for i, tp := range v.TypeParams {
				tps[i] = map[string]interface{}{"keyword": tp.Keyword.String(), "name": tp.Name}
			}
			obj["typeParams"] = tps
		}

	case *Lambda:
		params := make([]map[string]interface{}, len(v.Params))
		for i, p := range v.Params {
			params[i] = ToJSONObject(p)
		}
		obj["params"] = params
		obj["retType"] = v.RetType.String()
		if v.Def != nil {
			obj["def"] = ToJSONObject(v.Def)
		}

	case *IfStatement:
		obj["condition"] = ToJSONObject(v.Condition)
		obj["thenB"] = ToJSONObject(v.ThenB)
		if v.ElseB != nil {
			obj["elseB"] = ToJSONObject(v.ElseB)
		}

	case *WhileLoop:
		obj["condition"] = ToJSONObject(v.Condition)
		obj["body"] = ToJSONObject(v.Body)

	case *UnOp:
		obj["oper"] = tokenToJSON(v.Oper)
		if v.Operand != nil {
			obj["operand"] = ToJSONObject(v.Operand)
		}

	case *BinOp:
		obj["oper"] = tokenToJSON(v.Oper)
		obj["l"] = ToJSONObject(v.L)
		obj["r"] = ToJSONObject(v.R)

	case *FnCall:
		obj["fnName"] = tokenToJSON(v.FnName)
		if v.Func != nil {
			obj["func"] = v.Func.Name
		}
		params := make([]map[string]interface{}, len(v.Params))
		for i, p := range v.Params {
			params[i] = ToJSONObject(p)
		}
		obj["params"] = params

	case *ConstLeaf:
		obj["token"] = tokenToJSON(v.Tok)

	case *StrLeaf:
		obj["token"] = tokenToJSON(v.Tok)

	case *VarLeaf:
		if v.Var != nil {
			obj["var"] = v.Var.Name
		}

	case *ArrayLeaf:
		if v.Var != nil {
			obj["var"] = v.Var.Name
		}
		obj["index"] = ToJSONObject(v.Index)

	case *Range:
		obj["l"] = ToJSONObject(v.L)
		obj["r"] = ToJSONObject(v.R)
		obj["leftInclusive"] = v.Flags.LeftInclusive
		obj["rightInclusive"] = v.Flags.RightInclusive

	default:
		errorutil.AssertTrue(false, fmt.Sprintf("ToJSONObject: unhandled node type %T", n))
	}

	return obj
}

func tokenToJSON(t token.Token) map[string]interface{} {
	return map[string]interface{}{
		"kind":    t.Kind.String(),
		"data":    t.Data,
		"keyword": t.Keyword.String(),
		"line":    t.Line,
	}
}
