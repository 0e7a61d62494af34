package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	if kw := LookupKeyword("nspace"); kw != KwNspace {
		t.Errorf("expected KwNspace, got %v", kw)
	}
	if kw := LookupKeyword("notakeyword"); kw != Last {
		t.Errorf("expected Last, got %v", kw)
	}
}

func TestKeywordString(t *testing.T) {
	if KwFn.String() != "fn" {
		t.Errorf("expected 'fn', got %q", KwFn.String())
	}
	if Last.String() != "<none>" {
		t.Errorf("expected '<none>', got %q", Last.String())
	}
}

func TestPrecedenceUnaryVsBinaryMinus(t *testing.T) {
	if p := Precedence(OperMin, true); p != 29 {
		t.Errorf("unary minus: expected 29, got %d", p)
	}
	if p := Precedence(OperMin, false); p != 26 {
		t.Errorf("binary minus: expected 26, got %d", p)
	}
}

func TestPrecedenceOrdering(t *testing.T) {
	// x + y * z should bind the * tighter than the +
	if Precedence(OperMul, false) <= Precedence(OperPlus, false) {
		t.Error("expected * to bind tighter than +")
	}
	if Precedence(Dot, false) <= Precedence(OperPow, false) {
		t.Error("expected . to bind tighter than **")
	}
}

func TestAssignmentIsRightAssociativeCandidate(t *testing.T) {
	for _, k := range []Kind{Assign, AssignPlus, AssignXor} {
		if !IsAssignment(k) {
			t.Errorf("expected %v to be an assignment operator", k)
		}
		if Precedence(k, false) != 10 {
			t.Errorf("expected assignment precedence 10, got %d", Precedence(k, false))
		}
	}
}

func TestNegateLogical(t *testing.T) {
	cases := map[Kind]Kind{
		OperLess:    OperGEqual,
		OperGreater: OperLEqual,
		OperEqual:   OperNEqual,
		OperNEqual:  OperEqual,
		OperLEqual:  OperGreater,
		OperGEqual:  OperLess,
	}
	for in, want := range cases {
		if got := NegateLogical(in); got != want {
			t.Errorf("NegateLogical(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestSignConversions(t *testing.T) {
	if MakeSigned(KwU32) != KwI32 {
		t.Error("expected u32 -> i32")
	}
	if MakeUnsigned(KwI64) != KwU64 {
		t.Error("expected i64 -> u64")
	}
	if RevertSign(KwI8) != KwU8 {
		t.Error("expected i8 -> u8")
	}
	if RevertSign(KwU8) != KwI8 {
		t.Error("expected u8 -> i8")
	}
	if !IsSigned(KwF64) {
		t.Error("expected f64 to be signed")
	}
	if IsSigned(KwU8) {
		t.Error("expected u8 to not be signed")
	}
}

func TestSizeOfType(t *testing.T) {
	cases := map[Keyword]int{
		KwBool: 1, KwI8: 1, KwU8: 1,
		KwI16: 2, KwU16: 2, KwCh16: 2,
		KwI32: 4, KwU32: 4, KwF32: 4,
		KwI64: 8, KwU64: 8, KwF64: 8, KwFn: 8, KwStr16: 8,
		KwRng: 17,
	}
	for kw, want := range cases {
		if got := SizeOfType(kw); got != want {
			t.Errorf("SizeOfType(%v) = %d, want %d", kw, got, want)
		}
	}
}
