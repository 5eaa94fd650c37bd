package syntax

import "testing"

func TestGreenNodeText(t *testing.T) {
	b := NewBuilder()
	b.StartNode(KindBinaryExpr)
	b.Token(KindIntLiteral, "1")
	b.Token(KindWhitespace, " ")
	b.Token(KindPlus, "+")
	b.Token(KindWhitespace, " ")
	b.Token(KindIntLiteral, "2")
	b.FinishNode()
	root := b.Finish()

	if got := root.Text(); got != "1 + 2" {
		t.Errorf("Text() = %q, want %q", got, "1 + 2")
	}
	if got := root.TextLen(); got != 5 {
		t.Errorf("TextLen() = %d, want 5", got)
	}
	if got := root.NumChildren(); got != 5 {
		t.Errorf("NumChildren() = %d, want 5", got)
	}
}

func TestBuilderInternsTokens(t *testing.T) {
	b := NewBuilder()
	b.StartNode(KindBlock)
	b.Token(KindIdent, "x")
	b.Token(KindWhitespace, " ")
	b.Token(KindIdent, "x")
	b.FinishNode()
	root := b.Finish()

	if root.Child(0) != root.Child(2) {
		t.Error("identical tokens should share one allocation")
	}
}

func TestBuilderInternsSmallNodes(t *testing.T) {
	b := NewBuilder()
	b.StartNode(KindBlock)
	for i := 0; i < 2; i++ {
		b.StartNode(KindNameRef)
		b.Token(KindIdent, "x")
		b.FinishNode()
	}
	b.FinishNode()
	root := b.Finish()

	if root.Child(0) != root.Child(1) {
		t.Error("identical small nodes should share one allocation")
	}
}

func TestBuilderCheckpointWrapsSuffix(t *testing.T) {
	b := NewBuilder()
	b.StartNode(KindExprStmt)
	cp := b.Checkpoint()
	b.Token(KindIntLiteral, "1")
	b.Token(KindPlus, "+")
	b.Token(KindIntLiteral, "2")
	b.StartNodeAt(cp, KindBinaryExpr)
	b.FinishNode()
	b.FinishNode()
	root := b.Finish()

	if root.Kind() != KindExprStmt {
		t.Fatalf("root kind = %v, want ExprStmt", root.Kind())
	}
	if root.NumChildren() != 1 {
		t.Fatalf("NumChildren() = %d, want 1", root.NumChildren())
	}
	inner, ok := root.Child(0).(*GreenNode)
	if !ok || inner.Kind() != KindBinaryExpr {
		t.Fatalf("child = %v, want a BinaryExpr node", root.Child(0))
	}
	if inner.Text() != "1+2" {
		t.Errorf("inner text = %q, want %q", inner.Text(), "1+2")
	}
}

func TestStartNodeAtAcrossOpenNodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when a checkpoint crosses an open node")
		}
	}()
	b := NewBuilder()
	b.StartNode(KindBlock)
	cp := b.Checkpoint()
	b.StartNode(KindExprStmt)
	b.Token(KindIdent, "x")
	b.StartNodeAt(cp, KindBinaryExpr)
}

func TestReplaceChildSharesSiblings(t *testing.T) {
	b := NewBuilder()
	b.StartNode(KindBlock)
	b.Token(KindLBrace, "{")
	b.StartNode(KindExprStmt)
	b.Token(KindIdent, "x")
	b.FinishNode()
	b.Token(KindRBrace, "}")
	b.FinishNode()
	root := b.Finish()

	repl := NewGreenToken(KindIdent, "yy")
	next := root.ReplaceChild(1, repl)

	if next.Text() != "{yy}" {
		t.Errorf("Text() = %q, want %q", next.Text(), "{yy}")
	}
	if next.Child(0) != root.Child(0) || next.Child(2) != root.Child(2) {
		t.Error("untouched children should keep their allocations")
	}
	if root.Text() != "{x}" {
		t.Error("original tree must be unchanged")
	}
}

func TestStructurallyEqual(t *testing.T) {
	build := func() *GreenNode {
		b := NewBuilder()
		b.StartNode(KindBlock)
		b.Token(KindLBrace, "{")
		b.Token(KindIdent, "x")
		b.Token(KindRBrace, "}")
		b.FinishNode()
		return b.Finish()
	}
	a, c := build(), build()
	if !StructurallyEqual(a, c) {
		t.Error("identical trees from separate builders should compare equal")
	}
	d := a.ReplaceChild(1, NewGreenToken(KindIdent, "y"))
	if StructurallyEqual(a, d) {
		t.Error("trees with different token text should not compare equal")
	}
}
