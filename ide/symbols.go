package ide

import "github.com/dhamidi/glint/syntax"

// collectSymbols lists the named top-level declarations of a file in
// source order. Declarations whose name was recovered as missing are
// skipped; they have nothing to show in an outline.
func collectSymbols(file FileID, root *syntax.SyntaxNode) []Symbol {
	var out []Symbol
	for _, item := range root.Children() {
		var kind SymbolKind
		switch item.Kind() {
		case syntax.KindFnItem:
			kind = SymbolFunction
		case syntax.KindStructItem:
			kind = SymbolStruct
		default:
			continue
		}
		name := item.FirstChildOfKind(syntax.KindName)
		if name == nil {
			continue
		}
		ident := name.FirstTokenOfKind(syntax.KindIdent)
		if ident == nil {
			continue
		}
		out = append(out, Symbol{
			File:           file,
			Name:           ident.Text(),
			Kind:           kind,
			Range:          item.Range(),
			SelectionRange: ident.Range(),
		})
	}
	return out
}
