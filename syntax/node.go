package syntax

import (
	"fmt"
	"strings"
)

// SyntaxNode is the red layer: a transient, position-aware view over a
// green node. It is computed on demand while walking from the root and
// is never part of persistent state; two SyntaxNodes over the same
// green node at the same offset are interchangeable.
type SyntaxNode struct {
	green  *GreenNode
	parent *SyntaxNode
	offset int
}

// SyntaxToken is the red view of a leaf token.
type SyntaxToken struct {
	green  *GreenToken
	parent *SyntaxNode
	offset int
}

// NewSyntaxNode wraps a green root at offset zero.
func NewSyntaxNode(root *GreenNode) *SyntaxNode {
	return &SyntaxNode{green: root}
}

func (n *SyntaxNode) Kind() SyntaxKind   { return n.green.kind }
func (n *SyntaxNode) Green() *GreenNode  { return n.green }
func (n *SyntaxNode) Parent() *SyntaxNode { return n.parent }
func (n *SyntaxNode) Offset() int        { return n.offset }

func (n *SyntaxNode) Range() TextRange {
	return TextRange{Start: n.offset, End: n.offset + n.green.textLen}
}

func (n *SyntaxNode) Text() string { return n.green.Text() }

// Children returns the direct child nodes, skipping tokens.
func (n *SyntaxNode) Children() []*SyntaxNode {
	var result []*SyntaxNode
	offset := n.offset
	for _, c := range n.green.children {
		if g, ok := c.(*GreenNode); ok {
			result = append(result, &SyntaxNode{green: g, parent: n, offset: offset})
		}
		offset += c.TextLen()
	}
	return result
}

// Tokens returns the direct child tokens, skipping nodes.
func (n *SyntaxNode) Tokens() []*SyntaxToken {
	var result []*SyntaxToken
	offset := n.offset
	for _, c := range n.green.children {
		if g, ok := c.(*GreenToken); ok {
			result = append(result, &SyntaxToken{green: g, parent: n, offset: offset})
		}
		offset += c.TextLen()
	}
	return result
}

func (n *SyntaxNode) FirstChildOfKind(kind SyntaxKind) *SyntaxNode {
	for _, child := range n.Children() {
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

func (n *SyntaxNode) ChildrenOfKind(kind SyntaxKind) []*SyntaxNode {
	var result []*SyntaxNode
	for _, child := range n.Children() {
		if child.Kind() == kind {
			result = append(result, child)
		}
	}
	return result
}

func (n *SyntaxNode) FirstTokenOfKind(kind SyntaxKind) *SyntaxToken {
	for _, tok := range n.Tokens() {
		if tok.Kind() == kind {
			return tok
		}
	}
	return nil
}

// FirstToken returns the leftmost leaf under n, or nil for an empty
// (missing) node.
func (n *SyntaxNode) FirstToken() *SyntaxToken {
	offset := n.offset
	for _, c := range n.green.children {
		switch c := c.(type) {
		case *GreenToken:
			return &SyntaxToken{green: c, parent: n, offset: offset}
		case *GreenNode:
			child := &SyntaxNode{green: c, parent: n, offset: offset}
			if tok := child.FirstToken(); tok != nil {
				return tok
			}
		}
		offset += c.TextLen()
	}
	return nil
}

// LastToken returns the rightmost leaf under n, or nil for an empty node.
func (n *SyntaxNode) LastToken() *SyntaxToken {
	offset := n.Range().End
	for i := len(n.green.children) - 1; i >= 0; i-- {
		c := n.green.children[i]
		offset -= c.TextLen()
		switch c := c.(type) {
		case *GreenToken:
			return &SyntaxToken{green: c, parent: n, offset: offset}
		case *GreenNode:
			child := &SyntaxNode{green: c, parent: n, offset: offset}
			if tok := child.LastToken(); tok != nil {
				return tok
			}
		}
	}
	return nil
}

// TokenAtOffset returns the leaf token whose range contains the
// offset, descending one level at a time so the cost is proportional
// to tree depth, not tree size. Returns nil when the offset is outside
// the node.
func (n *SyntaxNode) TokenAtOffset(offset int) *SyntaxToken {
	if !n.Range().Contains(offset) {
		return nil
	}
	cur := n
outer:
	for {
		childOffset := cur.offset
		for _, c := range cur.green.children {
			end := childOffset + c.TextLen()
			if offset < end && offset >= childOffset {
				switch c := c.(type) {
				case *GreenToken:
					return &SyntaxToken{green: c, parent: cur, offset: childOffset}
				case *GreenNode:
					cur = &SyntaxNode{green: c, parent: cur, offset: childOffset}
					continue outer
				}
			}
			childOffset = end
		}
		return nil
	}
}

// CoveringNode returns the smallest descendant node (possibly n
// itself) whose range fully contains r.
func (n *SyntaxNode) CoveringNode(r TextRange) *SyntaxNode {
	if !n.Range().ContainsRange(r) {
		return nil
	}
	cur := n
outer:
	for {
		childOffset := cur.offset
		for _, c := range cur.green.children {
			end := childOffset + c.TextLen()
			if g, ok := c.(*GreenNode); ok {
				childRange := TextRange{Start: childOffset, End: end}
				if childRange.ContainsRange(r) && !childRange.IsEmpty() {
					cur = &SyntaxNode{green: g, parent: cur, offset: childOffset}
					continue outer
				}
			}
			childOffset = end
		}
		return cur
	}
}

// Ancestors returns the chain from n up to the root, n first.
func (n *SyntaxNode) Ancestors() []*SyntaxNode {
	var result []*SyntaxNode
	for cur := n; cur != nil; cur = cur.parent {
		result = append(result, cur)
	}
	return result
}

// Descendants calls visit for every node in the subtree in source
// order, n included. Returning false stops the descent below that node.
func (n *SyntaxNode) Descendants(visit func(*SyntaxNode) bool) {
	if !visit(n) {
		return
	}
	for _, child := range n.Children() {
		child.Descendants(visit)
	}
}

func (n *SyntaxNode) String() string {
	return fmt.Sprintf("%s@%s", n.Kind(), n.Range())
}

// Dump renders the subtree with kinds and ranges, one element per
// line, for debugging and structural comparison in tests.
func (n *SyntaxNode) Dump() string {
	var sb strings.Builder
	n.dumpIndent(&sb, 0)
	return sb.String()
}

func (n *SyntaxNode) dumpIndent(sb *strings.Builder, indent int) {
	for i := 0; i < indent; i++ {
		sb.WriteString("  ")
	}
	fmt.Fprintf(sb, "%s@%s\n", n.Kind(), n.Range())
	offset := n.offset
	for _, c := range n.green.children {
		switch c := c.(type) {
		case *GreenToken:
			for i := 0; i < indent+1; i++ {
				sb.WriteString("  ")
			}
			fmt.Fprintf(sb, "%s@%s %q\n", c.Kind(), TextRange{Start: offset, End: offset + c.TextLen()}, c.Text())
		case *GreenNode:
			child := &SyntaxNode{green: c, parent: n, offset: offset}
			child.dumpIndent(sb, indent+1)
		}
		offset += c.TextLen()
	}
}

func (t *SyntaxToken) Kind() SyntaxKind    { return t.green.kind }
func (t *SyntaxToken) Green() *GreenToken  { return t.green }
func (t *SyntaxToken) Parent() *SyntaxNode { return t.parent }
func (t *SyntaxToken) Text() string        { return t.green.text }
func (t *SyntaxToken) Offset() int         { return t.offset }

func (t *SyntaxToken) Range() TextRange {
	return TextRange{Start: t.offset, End: t.offset + len(t.green.text)}
}

func (t *SyntaxToken) String() string {
	return fmt.Sprintf("%s@%s %q", t.Kind(), t.Range(), t.Text())
}
