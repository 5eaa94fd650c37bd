package syntax

import "strings"

// Green is a child of a green node: either a *GreenNode or a
// *GreenToken. Green values are immutable after construction and may
// be shared by any number of trees; they carry no position and no
// parent, which is what makes sharing across edits possible.
type Green interface {
	Kind() SyntaxKind
	// TextLen is the total byte length of the text this element covers.
	TextLen() int
	green()
}

// GreenToken is a leaf: a kind plus its exact source text, trivia
// included.
type GreenToken struct {
	kind SyntaxKind
	text string
}

func NewGreenToken(kind SyntaxKind, text string) *GreenToken {
	return &GreenToken{kind: kind, text: text}
}

func (t *GreenToken) Kind() SyntaxKind { return t.kind }
func (t *GreenToken) TextLen() int     { return len(t.text) }
func (t *GreenToken) Text() string     { return t.text }
func (t *GreenToken) green()           {}

// GreenNode is an interior node: a kind plus an ordered child list.
// The total text length is precomputed so that red-layer offset
// arithmetic never rescans subtrees.
type GreenNode struct {
	kind     SyntaxKind
	children []Green
	textLen  int
}

// NewGreenNode builds a node over the given children. The child slice
// is owned by the node afterwards and must not be mutated.
func NewGreenNode(kind SyntaxKind, children []Green) *GreenNode {
	textLen := 0
	for _, c := range children {
		textLen += c.TextLen()
	}
	return &GreenNode{kind: kind, children: children, textLen: textLen}
}

func (n *GreenNode) Kind() SyntaxKind { return n.kind }
func (n *GreenNode) TextLen() int     { return n.textLen }
func (n *GreenNode) green()           {}

func (n *GreenNode) NumChildren() int { return len(n.children) }

func (n *GreenNode) Child(i int) Green {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns the child list. Callers must treat it as read-only.
func (n *GreenNode) Children() []Green { return n.children }

// Text reconstructs the exact source text covered by this node by
// concatenating its leaf tokens in order.
func (n *GreenNode) Text() string {
	var sb strings.Builder
	sb.Grow(n.textLen)
	n.writeText(&sb)
	return sb.String()
}

func (n *GreenNode) writeText(sb *strings.Builder) {
	for _, c := range n.children {
		switch c := c.(type) {
		case *GreenToken:
			sb.WriteString(c.text)
		case *GreenNode:
			c.writeText(sb)
		}
	}
}

// ReplaceChild returns a copy of n with child i swapped for repl. All
// other children are shared with the original node.
func (n *GreenNode) ReplaceChild(i int, repl Green) *GreenNode {
	children := make([]Green, len(n.children))
	copy(children, n.children)
	children[i] = repl
	return NewGreenNode(n.kind, children)
}

// StructurallyEqual reports whether two green elements have the same
// shape: same kinds, same child structure, same token texts. Pointer
// equality short-circuits, so shared subtrees compare in O(1).
func StructurallyEqual(a, b Green) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind() != b.Kind() || a.TextLen() != b.TextLen() {
		return false
	}
	switch a := a.(type) {
	case *GreenToken:
		b, ok := b.(*GreenToken)
		return ok && a.text == b.text
	case *GreenNode:
		b, ok := b.(*GreenNode)
		if !ok || len(a.children) != len(b.children) {
			return false
		}
		for i := range a.children {
			if !StructurallyEqual(a.children[i], b.children[i]) {
				return false
			}
		}
		return true
	}
	return false
}
