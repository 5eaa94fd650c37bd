package ide

import (
	"github.com/dhamidi/glint/db"
	"github.com/dhamidi/glint/syntax"
)

// definitionAt resolves the identifier under pos. Scopes are searched
// inside out: enclosing blocks and parameters first, then the file's
// own items, then items anywhere in the workspace. A nil result with
// a nil error means the name did not resolve.
func (h *Host) definitionAt(ctx *db.Ctx, pos FilePosition, root *syntax.SyntaxNode) (*FileRange, error) {
	ident := identAt(root, pos.Offset)
	if ident == nil {
		return nil, nil
	}
	name := ident.Text()

	if r := lookupLocal(ident, name, pos.File); r != nil {
		return r, nil
	}

	syms, err := h.symbols.Get(ctx, pos.File)
	if err != nil {
		return nil, err
	}
	if r := lookupSymbols(syms, name); r != nil {
		return r, nil
	}

	all, err := h.workspace.Get(ctx, struct{}{})
	if err != nil {
		return nil, err
	}
	return lookupSymbols(all, name), nil
}

// identAt returns the identifier token under offset, trying the token
// ending exactly at the cursor first.
func identAt(root *syntax.SyntaxNode, offset int) *syntax.SyntaxToken {
	if offset > 0 {
		if tok := root.TokenAtOffset(offset - 1); tok != nil && tok.Kind() == syntax.KindIdent {
			return tok
		}
	}
	if tok := root.TokenAtOffset(offset); tok != nil && tok.Kind() == syntax.KindIdent {
		return tok
	}
	return nil
}

// lookupLocal searches let bindings declared before the reference in
// enclosing blocks, then the parameters of the enclosing function.
func lookupLocal(ident *syntax.SyntaxToken, name string, file FileID) *FileRange {
	offset := ident.Offset()
	for _, scope := range ident.Parent().Ancestors() {
		switch scope.Kind() {
		case syntax.KindBlock:
			var found *FileRange
			for _, stmt := range scope.ChildrenOfKind(syntax.KindLetStmt) {
				if stmt.Range().Start >= offset {
					break
				}
				if nameTok := declNameToken(stmt); nameTok != nil && nameTok.Text() == name {
					r := FileRange{File: file, Range: nameTok.Range()}
					found = &r
				}
			}
			// The latest binding before the reference wins.
			if found != nil {
				return found
			}
		case syntax.KindFnItem:
			if params := scope.FirstChildOfKind(syntax.KindParamList); params != nil {
				for _, param := range params.ChildrenOfKind(syntax.KindParam) {
					if nameTok := declNameToken(param); nameTok != nil && nameTok.Text() == name {
						return &FileRange{File: file, Range: nameTok.Range()}
					}
				}
			}
		}
	}
	return nil
}

func lookupSymbols(syms []Symbol, name string) *FileRange {
	for _, sym := range syms {
		if sym.Name == name {
			return &FileRange{File: sym.File, Range: sym.SelectionRange}
		}
	}
	return nil
}

func declNameToken(decl *syntax.SyntaxNode) *syntax.SyntaxToken {
	nameNode := decl.FirstChildOfKind(syntax.KindName)
	if nameNode == nil {
		return nil
	}
	return nameNode.FirstTokenOfKind(syntax.KindIdent)
}
