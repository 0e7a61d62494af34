package scope

import (
	"testing"

	"github.com/yat-lang/yat/ast"
	"github.com/yat-lang/yat/token"
)

func TestPushAddLookupPop(t *testing.T) {
	tab := NewTable()
	tab.PushScope()

	x := &ast.Var{Name: "N.x", VarType: token.KwI32}
	if err := tab.Add(x, tab.Top()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := tab.Lookup("N.x")
	if !ok || got != x {
		t.Fatalf("expected to find N.x, got %v ok=%v", got, ok)
	}

	tab.PopScope()
	if _, ok := tab.Lookup("N.x"); ok {
		t.Fatal("expected N.x to no longer be visible after pop")
	}
}

func TestAddDuplicateAcrossFrames(t *testing.T) {
	tab := NewTable()
	tab.PushScope()
	if err := tab.Add(&ast.Var{Name: "N.x", VarType: token.KwI32}, tab.Top()); err != nil {
		t.Fatal(err)
	}

	tab.PushScope()
	if err := tab.Add(&ast.Var{Name: "N.x", VarType: token.KwI32}, tab.Top()); err == nil {
		t.Fatal("expected a duplicate-name error across live frames")
	}
}

func TestLookupSeesInnerAndOuterFrames(t *testing.T) {
	tab := NewTable()
	tab.PushScope()
	outer := &ast.Var{Name: "N.x", VarType: token.KwI32}
	tab.Add(outer, tab.Top())

	tab.PushScope()
	inner := &ast.Var{Name: "N.y", VarType: token.KwI32}
	tab.Add(inner, tab.Top())

	got, ok := tab.Lookup("N.y")
	if !ok || got != inner {
		t.Fatalf("expected inner Var, got %v ok=%v", got, ok)
	}
	got, ok = tab.Lookup("N.x")
	if !ok || got != outer {
		t.Fatalf("expected outer Var still visible, got %v ok=%v", got, ok)
	}
}

func TestFrameReturnsDeclarationOrder(t *testing.T) {
	tab := NewTable()
	tab.PushScope()
	a := &ast.Var{Name: "N.a", VarType: token.KwI32}
	b := &ast.Var{Name: "N.b", VarType: token.KwI64}
	tab.Add(a, tab.Top())
	tab.Add(b, tab.Top())

	frame := tab.Frame(tab.Top())
	if len(frame) != 2 || frame[0] != a || frame[1] != b {
		t.Fatalf("unexpected frame contents: %v", frame)
	}
}

func TestLookupMissing(t *testing.T) {
	tab := NewTable()
	tab.PushScope()
	if _, ok := tab.Lookup("N.nope"); ok {
		t.Fatal("expected lookup of an undeclared name to fail")
	}
}
