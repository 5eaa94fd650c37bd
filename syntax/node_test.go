package syntax

import "testing"

// buildStmtTree constructs { foo; } by hand:
// Block( "{" ExprStmt( NameRef("foo") ";" ) "}" )
func buildStmtTree() *SyntaxNode {
	b := NewBuilder()
	b.StartNode(KindBlock)
	b.Token(KindLBrace, "{")
	b.StartNode(KindExprStmt)
	b.StartNode(KindNameRef)
	b.Token(KindIdent, "foo")
	b.FinishNode()
	b.Token(KindSemicolon, ";")
	b.FinishNode()
	b.Token(KindRBrace, "}")
	b.FinishNode()
	return NewSyntaxNode(b.Finish())
}

func TestNodeOffsetsAndRanges(t *testing.T) {
	root := buildStmtTree()

	if got := root.Range(); got != (TextRange{Start: 0, End: 6}) {
		t.Errorf("root range = %v, want 0..6", got)
	}
	stmt := root.FirstChildOfKind(KindExprStmt)
	if stmt == nil {
		t.Fatal("no ExprStmt child")
	}
	if got := stmt.Range(); got != (TextRange{Start: 1, End: 5}) {
		t.Errorf("stmt range = %v, want 1..5", got)
	}
	ref := stmt.FirstChildOfKind(KindNameRef)
	if got := ref.Range(); got != (TextRange{Start: 1, End: 4}) {
		t.Errorf("ref range = %v, want 1..4", got)
	}
	if got := ref.Text(); got != "foo" {
		t.Errorf("ref text = %q, want %q", got, "foo")
	}
}

func TestTokenAtOffset(t *testing.T) {
	root := buildStmtTree()
	tests := []struct {
		offset int
		kind   SyntaxKind
		text   string
	}{
		{0, KindLBrace, "{"},
		{1, KindIdent, "foo"},
		{2, KindIdent, "foo"},
		{3, KindIdent, "foo"},
		{4, KindSemicolon, ";"},
		{5, KindRBrace, "}"},
	}
	for _, tt := range tests {
		tok := root.TokenAtOffset(tt.offset)
		if tok == nil {
			t.Fatalf("TokenAtOffset(%d) = nil", tt.offset)
		}
		if tok.Kind() != tt.kind || tok.Text() != tt.text {
			t.Errorf("TokenAtOffset(%d) = %v %q, want %v %q",
				tt.offset, tok.Kind(), tok.Text(), tt.kind, tt.text)
		}
	}
	if tok := root.TokenAtOffset(6); tok != nil {
		t.Errorf("TokenAtOffset(6) = %v, want nil at end of text", tok)
	}
}

func TestCoveringNode(t *testing.T) {
	root := buildStmtTree()
	// The range of "oo" inside foo is covered by the NameRef.
	n := root.CoveringNode(TextRange{Start: 2, End: 4})
	if n == nil || n.Kind() != KindNameRef {
		t.Fatalf("CoveringNode(2..4) = %v, want NameRef", n)
	}
	// A range spanning the statement and the closing brace is only
	// covered by the block.
	n = root.CoveringNode(TextRange{Start: 3, End: 6})
	if n == nil || n.Kind() != KindBlock {
		t.Fatalf("CoveringNode(3..6) = %v, want Block", n)
	}
}

func TestAncestors(t *testing.T) {
	root := buildStmtTree()
	tok := root.TokenAtOffset(2)
	chain := tok.Parent().Ancestors()
	want := []SyntaxKind{KindNameRef, KindExprStmt, KindBlock}
	if len(chain) != len(want) {
		t.Fatalf("len(ancestors) = %d, want %d", len(chain), len(want))
	}
	for i, kind := range want {
		if chain[i].Kind() != kind {
			t.Errorf("ancestors[%d] = %v, want %v", i, chain[i].Kind(), kind)
		}
	}
}

func TestFirstAndLastToken(t *testing.T) {
	root := buildStmtTree()
	if tok := root.FirstToken(); tok == nil || tok.Kind() != KindLBrace {
		t.Errorf("FirstToken() = %v, want {", tok)
	}
	if tok := root.LastToken(); tok == nil || tok.Kind() != KindRBrace {
		t.Errorf("LastToken() = %v, want }", tok)
	}
}

func TestDescendantsPruning(t *testing.T) {
	root := buildStmtTree()
	var visited []SyntaxKind
	root.Descendants(func(n *SyntaxNode) bool {
		visited = append(visited, n.Kind())
		return n.Kind() != KindExprStmt
	})
	want := []SyntaxKind{KindBlock, KindExprStmt}
	if len(visited) != len(want) {
		t.Fatalf("visited = %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("visited[%d] = %v, want %v", i, visited[i], want[i])
		}
	}
}

func TestTextEditApply(t *testing.T) {
	tests := []struct {
		name string
		text string
		edit TextEdit
		want string
	}{
		{"insert", "ab", TextEdit{Range: TextRange{Start: 1, End: 1}, NewText: "x"}, "axb"},
		{"delete", "abc", TextEdit{Range: TextRange{Start: 0, End: 2}, NewText: ""}, "c"},
		{"replace", "abc", TextEdit{Range: TextRange{Start: 1, End: 2}, NewText: "yz"}, "ayzc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.edit.Apply(tt.text); got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.text, got, tt.want)
			}
			wantDelta := len(tt.edit.NewText) - tt.edit.Range.Len()
			if got := tt.edit.Delta(); got != wantDelta {
				t.Errorf("Delta() = %d, want %d", got, wantDelta)
			}
		})
	}
}
