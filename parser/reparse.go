package parser

import "github.com/dhamidi/glint/syntax"

// Reparse applies an edit to a previously parsed tree, reusing as much
// of the old tree as possible. Three strategies, cheapest first:
//
//  1. Splice the edit into a single token when it stays inside that
//     token's text and does not change its kind.
//  2. Reparse the smallest enclosing block and substitute the new
//     subtree, sharing every sibling and every unrelated subtree.
//  3. Reparse the whole file.
//
// The result is always structurally identical to a full reparse of
// the edited text; incrementality is purely a performance matter.
// The edit range must lie within the old text.
func Reparse(old Parse, edit syntax.TextEdit) Parse {
	oldText := old.Root.Text()
	if edit.Range.Start < 0 || edit.Range.End > len(oldText) {
		panic("parser: edit out of bounds")
	}
	if p, ok := reparseToken(old, edit); ok {
		return p
	}
	if p, ok := reparseBlock(old, edit); ok {
		return p
	}
	return ParseFile(edit.Apply(oldText))
}

// pathStep records one level of a root-to-leaf descent: which child
// of which node was entered, and at what absolute offset.
type pathStep struct {
	node   *syntax.GreenNode
	index  int
	offset int
}

// rebuildPath substitutes repl for the element the path leads to,
// copying only the spine; all other children keep their allocations.
func rebuildPath(path []pathStep, repl syntax.Green) *syntax.GreenNode {
	cur := repl
	for i := len(path) - 1; i >= 0; i-- {
		cur = path[i].node.ReplaceChild(path[i].index, cur)
	}
	return cur.(*syntax.GreenNode)
}

// spliceableKind lists token kinds whose text can grow or shrink
// without affecting neighbors, making them safe single-token reparse
// targets.
func spliceableKind(k syntax.SyntaxKind) bool {
	switch k {
	case syntax.KindIdent, syntax.KindIntLiteral, syntax.KindFloatLiteral,
		syntax.KindStringLiteral, syntax.KindCharLiteral,
		syntax.KindWhitespace, syntax.KindLineComment, syntax.KindBlockComment:
		return true
	}
	return false
}

// tokenPathAt descends to the leaf token containing offset. With
// preferEnd set, an offset on a token boundary selects the token
// ending there instead of the one starting there, so that typing at
// the end of an identifier extends the identifier.
func tokenPathAt(root *syntax.GreenNode, offset int, preferEnd bool) ([]pathStep, *syntax.GreenToken, int, bool) {
	var path []pathStep
	cur := root
	curOffset := 0
outer:
	for {
		childOffset := curOffset
		for i, c := range cur.Children() {
			if c.TextLen() == 0 {
				continue
			}
			end := childOffset + c.TextLen()
			var hit bool
			if preferEnd {
				hit = childOffset < offset && offset <= end
			} else {
				hit = childOffset <= offset && offset < end
			}
			if hit {
				switch c := c.(type) {
				case *syntax.GreenToken:
					path = append(path, pathStep{node: cur, index: i, offset: childOffset})
					return path, c, childOffset, true
				case *syntax.GreenNode:
					path = append(path, pathStep{node: cur, index: i, offset: childOffset})
					cur = c
					curOffset = childOffset
					continue outer
				}
			}
			childOffset = end
		}
		return nil, nil, 0, false
	}
}

// leafTextAt returns the text of the token starting at offset, if any.
func leafTextAt(root *syntax.GreenNode, offset int) (string, bool) {
	if offset >= root.TextLen() {
		return "", false
	}
	_, tok, start, ok := tokenPathAt(root, offset, false)
	if !ok || start != offset {
		return "", false
	}
	return tok.Text(), true
}

// leafEndingAt returns the token ending exactly at offset, if any.
func leafEndingAt(root *syntax.GreenNode, offset int) (*syntax.GreenToken, bool) {
	if offset <= 0 || offset > root.TextLen() {
		return nil, false
	}
	_, tok, start, ok := tokenPathAt(root, offset, true)
	if !ok || start+tok.TextLen() != offset {
		return nil, false
	}
	return tok, true
}

func reparseToken(old Parse, edit syntax.TextEdit) (Parse, bool) {
	for _, preferEnd := range []bool{true, false} {
		path, tok, tokStart, ok := tokenPathAt(old.Root, edit.Range.Start, preferEnd)
		if !ok {
			continue
		}
		tokRange := syntax.TextRange{Start: tokStart, End: tokStart + tok.TextLen()}
		if !tokRange.ContainsRange(edit.Range) || !spliceableKind(tok.Kind()) {
			continue
		}

		rel := syntax.TextEdit{Range: edit.Range.Shift(-tokStart), NewText: edit.NewText}
		newText := rel.Apply(tok.Text())
		if len(newText) == 0 {
			continue
		}
		relexed := Tokenize(newText)
		if len(relexed) != 1 || relexed[0].Kind != tok.Kind() {
			continue
		}
		// The new text must not lex together with the following token;
		// otherwise the tree would disagree with a from-scratch parse.
		if next, ok := leafTextAt(old.Root, tokRange.End); ok {
			merged := Tokenize(newText + next)
			if len(merged) < 2 || merged[0].Len != len(newText) || merged[0].Kind != tok.Kind() {
				continue
			}
		}
		// The boundary on the left must survive too: "1" followed by a
		// spliced "e5" lexes as one float literal from scratch.
		if prev, ok := leafEndingAt(old.Root, tokStart); ok {
			merged := Tokenize(prev.Text() + newText)
			if len(merged) < 2 || merged[0].Len != prev.TextLen() || merged[0].Kind != prev.Kind() {
				continue
			}
		}

		// The last path step points at the token itself; rebuild from
		// its parent upward.
		root := rebuildPath(path, syntax.NewGreenToken(tok.Kind(), newText))
		return Parse{Root: root, Errors: shiftErrorsAfter(old.Errors, edit)}, true
	}
	return Parse{}, false
}

// shiftErrorsAfter moves diagnostics behind the edit by the length
// delta; diagnostics before or overlapping the edit keep their ranges.
func shiftErrorsAfter(errors []Diagnostic, edit syntax.TextEdit) []Diagnostic {
	delta := edit.Delta()
	if len(errors) == 0 {
		return nil
	}
	out := make([]Diagnostic, 0, len(errors))
	for _, e := range errors {
		if e.Range.Start >= edit.Range.End {
			e.Range = e.Range.Shift(delta)
		}
		out = append(out, e)
	}
	return out
}

// reparseBlock finds the innermost block wholly containing the edit,
// reparses only its text, and splices the result into the old tree.
func reparseBlock(old Parse, edit syntax.TextEdit) (Parse, bool) {
	path, block, blockStart, ok := coveringBlock(old.Root, edit.Range)
	if !ok {
		return Parse{}, false
	}
	blockRange := syntax.TextRange{Start: blockStart, End: blockStart + block.TextLen()}

	rel := syntax.TextEdit{Range: edit.Range.Shift(-blockStart), NewText: edit.NewText}
	newText := rel.Apply(block.Text())
	if !balancedBlock(newText) {
		return Parse{}, false
	}

	sub := parseBlockFragment(newText)
	if sub.Root.Kind() != syntax.KindBlock {
		return Parse{}, false
	}
	root := rebuildPath(path, sub.Root)

	delta := edit.Delta()
	var errors []Diagnostic
	for _, e := range old.Errors {
		if e.Range.End <= blockRange.Start {
			errors = append(errors, e)
		}
	}
	for _, e := range sub.Errors {
		e.Range = e.Range.Shift(blockStart)
		errors = append(errors, e)
	}
	for _, e := range old.Errors {
		if e.Range.Start >= blockRange.End {
			e.Range = e.Range.Shift(delta)
			errors = append(errors, e)
		}
	}
	return Parse{Root: root, Errors: errors}, true
}

// coveringBlock returns the deepest Block node whose range fully
// contains r, along with the descent path from the root to it.
func coveringBlock(root *syntax.GreenNode, r syntax.TextRange) ([]pathStep, *syntax.GreenNode, int, bool) {
	var path []pathStep
	var bestPath []pathStep
	var best *syntax.GreenNode
	bestStart := 0

	cur := root
	curOffset := 0
outer:
	for {
		childOffset := curOffset
		for i, c := range cur.Children() {
			node, isNode := c.(*syntax.GreenNode)
			end := childOffset + c.TextLen()
			if isNode && c.TextLen() > 0 {
				childRange := syntax.TextRange{Start: childOffset, End: end}
				if childRange.ContainsRange(r) {
					path = append(path, pathStep{node: cur, index: i, offset: childOffset})
					if node.Kind() == syntax.KindBlock {
						bestPath = append([]pathStep(nil), path...)
						best = node
						bestStart = childOffset
					}
					cur = node
					curOffset = childOffset
					continue outer
				}
			}
			childOffset = end
		}
		break
	}
	if best == nil {
		return nil, nil, 0, false
	}
	return bestPath, best, bestStart, true
}

// balancedBlock checks that text lexes to a single brace-balanced
// block: it opens with {, every } matches an {, and the closing brace
// of the outermost pair is the very last token. Anything else means
// the edit changed nesting and the block cannot be reparsed in
// isolation.
func balancedBlock(text string) bool {
	tokens := Tokenize(text)
	depth := 0
	closedAt := -1
	for i, tok := range tokens {
		if tok.Kind.IsTrivia() {
			continue
		}
		if depth == 0 && closedAt == -1 && tok.Kind != syntax.KindLBrace {
			return false
		}
		switch tok.Kind {
		case syntax.KindLBrace:
			if closedAt != -1 {
				return false
			}
			depth++
		case syntax.KindRBrace:
			depth--
			if depth < 0 {
				return false
			}
			if depth == 0 {
				closedAt = i
			}
		default:
			if closedAt != -1 {
				return false
			}
		}
	}
	return closedAt == len(tokens)-1
}
