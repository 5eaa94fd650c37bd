package ide

import "github.com/dhamidi/glint/syntax"

var statementKeywords = []string{
	"let", "if", "else", "while", "loop", "return", "break", "continue", "true", "false",
}

// completionsAt lists what a name typed at offset could resolve to:
// locals declared earlier in enclosing blocks, parameters of the
// enclosing function, top-level items, and statement keywords. Inner
// declarations shadow outer ones with the same label.
func completionsAt(root *syntax.SyntaxNode, offset int) []CompletionItem {
	var out []CompletionItem
	seen := make(map[string]bool)
	add := func(label string, kind CompletionKind) {
		if label == "" || seen[label] {
			return
		}
		seen[label] = true
		out = append(out, CompletionItem{Label: label, Kind: kind})
	}

	anchor := nodeAt(root, offset)
	for _, scope := range anchor.Ancestors() {
		switch scope.Kind() {
		case syntax.KindBlock:
			for _, stmt := range scope.ChildrenOfKind(syntax.KindLetStmt) {
				if stmt.Range().End > offset {
					break
				}
				add(declaredName(stmt), CompletionVariable)
			}
		case syntax.KindFnItem:
			if params := scope.FirstChildOfKind(syntax.KindParamList); params != nil {
				for _, param := range params.ChildrenOfKind(syntax.KindParam) {
					add(declaredName(param), CompletionParam)
				}
			}
		case syntax.KindSourceFile:
			for _, item := range scope.Children() {
				switch item.Kind() {
				case syntax.KindFnItem:
					add(declaredName(item), CompletionFunction)
				case syntax.KindStructItem:
					add(declaredName(item), CompletionStruct)
				}
			}
		}
	}
	for _, kw := range statementKeywords {
		add(kw, CompletionKeyword)
	}
	return out
}

// nodeAt returns the innermost node around offset, biased to the left
// so that a cursor right after an identifier still sees its scope.
func nodeAt(root *syntax.SyntaxNode, offset int) *syntax.SyntaxNode {
	tok := root.TokenAtOffset(offset)
	if tok == nil && offset > 0 {
		tok = root.TokenAtOffset(offset - 1)
	}
	if tok == nil {
		return root
	}
	return tok.Parent()
}

// declaredName extracts the identifier text of a declaration's Name
// child, or "" when recovery left the name missing.
func declaredName(decl *syntax.SyntaxNode) string {
	name := decl.FirstChildOfKind(syntax.KindName)
	if name == nil {
		return ""
	}
	ident := name.FirstTokenOfKind(syntax.KindIdent)
	if ident == nil {
		return ""
	}
	return ident.Text()
}
