package parser

import (
	"testing"

	"github.com/dhamidi/glint/syntax"
)

// checkReparse applies the edit both incrementally and via a full
// parse and requires identical trees and diagnostics.
func checkReparse(t *testing.T, text string, edit syntax.TextEdit) Parse {
	t.Helper()
	old := ParseFile(text)
	incremental := Reparse(old, edit)
	full := ParseFile(edit.Apply(text))

	if got, want := incremental.Text(), edit.Apply(text); got != want {
		t.Fatalf("incremental text = %q, want %q", got, want)
	}
	if got, want := incremental.Syntax().Dump(), full.Syntax().Dump(); got != want {
		t.Errorf("tree mismatch after edit %v\nincremental:\n%s\nfull:\n%s", edit, got, want)
	}
	if len(incremental.Errors) != len(full.Errors) {
		t.Fatalf("error count = %d, want %d\nincremental: %v\nfull: %v",
			len(incremental.Errors), len(full.Errors), incremental.Errors, full.Errors)
	}
	for i := range full.Errors {
		if incremental.Errors[i] != full.Errors[i] {
			t.Errorf("error[%d] = %v, want %v", i, incremental.Errors[i], full.Errors[i])
		}
	}
	return incremental
}

func insertAt(offset int, text string) syntax.TextEdit {
	return syntax.TextEdit{Range: syntax.TextRange{Start: offset, End: offset}, NewText: text}
}

func replaceRange(start, end int, text string) syntax.TextEdit {
	return syntax.TextEdit{Range: syntax.TextRange{Start: start, End: end}, NewText: text}
}

func TestReparseEquivalence(t *testing.T) {
	base := "fn first() { let x = 1; }\n\nfn second(a: i64) -> i64 { return a + x; }\n"
	tests := []struct {
		name string
		edit syntax.TextEdit
	}{
		{"extend identifier", insertAt(18, "y")},                  // x -> xy
		{"rename function", insertAt(8, "_item")},                 // first -> first_item
		{"change literal", replaceRange(21, 22, "42")},            // 1 -> 42
		{"insert statement", insertAt(23, " let y = 2;")},         // into first body
		{"delete statement", replaceRange(13, 23, "")},            // remove let
		{"break the body", insertAt(13, "let = ;")},               // malformed stmt
		{"insert keyword prefix", insertAt(13, "ret")},            // ident that is a keyword prefix
		{"keywordize identifier", replaceRange(17, 18, "let")},    // x -> let
		{"unbalance braces", insertAt(13, "{")},                   // forces full reparse
		{"close extra brace", insertAt(23, "}")},                  // text after closer
		{"edit whitespace", replaceRange(12, 13, "\n\t")},         // inside trivia
		{"touch second fn", replaceRange(65, 66, "b")},            // x -> b in return a + x
		{"empty edit", replaceRange(13, 13, "")},                  // no-op
		{"replace everything", replaceRange(0, len(base), "fn z() {}")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkReparse(t, base, tt.edit)
		})
	}
}

func TestReparseIdentifierGrowsAtCursor(t *testing.T) {
	// Typing at the end of an identifier extends that identifier, as a
	// left-biased splice into the existing token.
	text := "fn foo() {}"
	p := checkReparse(t, text, insertAt(6, "bar")) // foo -> foobar
	fn := p.Syntax().FirstChildOfKind(syntax.KindFnItem)
	if fn == nil {
		t.Fatal("no FnItem after reparse")
	}
	name := fn.FirstChildOfKind(syntax.KindName)
	if name == nil || name.Text() != "foobar" {
		t.Fatalf("function name = %v, want foobar", name)
	}
}

func TestReparseTokenSpliceRespectsLeftNeighbor(t *testing.T) {
	// "1x" is a literal followed by an identifier. Replacing the x with
	// "e5" must yield the single float literal a fresh lex produces,
	// not an identifier spliced in after the 1.
	text := "fn f() { 1x }"
	p := checkReparse(t, text, replaceRange(10, 11, "e5"))
	lit := findNode(p.Syntax(), syntax.KindLiteral)
	if lit == nil || lit.Text() != "1e5" {
		t.Fatalf("literal = %v, want 1e5", lit)
	}
}

func TestReparseSharesUntouchedSiblings(t *testing.T) {
	text := "fn first() { let x = 1; }\n\nfn second() { let y = 2; }\n"
	old := ParseFile(text)
	// Edit strictly inside the second function's body.
	edit := replaceRange(49, 50, "3") // 2 -> 3
	if edit.Apply(text) != "fn first() { let x = 1; }\n\nfn second() { let y = 3; }\n" {
		t.Fatal("test edit is misplaced")
	}
	newParse := Reparse(old, edit)

	oldFirst := firstGreenOfKind(old.Root, syntax.KindFnItem)
	newFirst := firstGreenOfKind(newParse.Root, syntax.KindFnItem)
	if oldFirst == nil || newFirst == nil {
		t.Fatal("missing FnItem")
	}
	if oldFirst != newFirst {
		t.Error("untouched first function should share its green node")
	}
}

func TestReparseTokenSpliceSharesSiblings(t *testing.T) {
	text := "fn first() {}\n\nfn second() { x }\n"
	old := ParseFile(text)
	edit := insertAt(30, "y") // x -> xy
	newParse := Reparse(old, edit)

	if got, want := newParse.Syntax().Dump(), ParseFile(edit.Apply(text)).Syntax().Dump(); got != want {
		t.Fatalf("tree mismatch\nincremental:\n%s\nfull:\n%s", got, want)
	}
	oldFirst := firstGreenOfKind(old.Root, syntax.KindFnItem)
	newFirst := firstGreenOfKind(newParse.Root, syntax.KindFnItem)
	if oldFirst != newFirst {
		t.Error("token splice should not rebuild the untouched sibling")
	}
}

func TestReparseErrorPositionsShift(t *testing.T) {
	// A pre-existing error after the edit point must move by the delta.
	text := "fn first() { x }\n\nfn second() { 1 + }\n"
	old := ParseFile(text)
	if len(old.Errors) != 1 {
		t.Fatalf("setup: errors = %v, want one", old.Errors)
	}
	checkReparse(t, text, insertAt(14, "yz")) // x -> xyz, error in second fn shifts
}

func TestReparseOutOfBoundsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-bounds edit")
		}
	}()
	old := ParseFile("fn f() {}")
	Reparse(old, replaceRange(0, 100, ""))
}

func firstGreenOfKind(root *syntax.GreenNode, kind syntax.SyntaxKind) *syntax.GreenNode {
	for i := 0; i < root.NumChildren(); i++ {
		if node, ok := root.Child(i).(*syntax.GreenNode); ok && node.Kind() == kind {
			return node
		}
	}
	return nil
}
