package syntax

import "fmt"

// Builder assembles a green tree bottom-up. Nodes are opened with
// StartNode (or retroactively with StartNodeAt) and closed with
// FinishNode; tokens are appended with Token. Identical tokens and
// small identical nodes are interned so that repeated structure shares
// a single allocation.
type Builder struct {
	parents  []parentFrame
	children []Green

	tokenCache map[tokenCacheKey]*GreenToken
	nodeCache  map[nodeCacheKey]*GreenNode
}

type parentFrame struct {
	kind       SyntaxKind
	firstChild int
}

type tokenCacheKey struct {
	kind SyntaxKind
	text string
}

// nodeCacheKey interns nodes with up to three children, keyed by the
// identity of the (already interned) children.
type nodeCacheKey struct {
	kind SyntaxKind
	c0   Green
	c1   Green
	c2   Green
}

// Checkpoint marks a position in the child stream; a node started at a
// checkpoint adopts everything produced since as its children.
type Checkpoint int

func NewBuilder() *Builder {
	return &Builder{
		tokenCache: make(map[tokenCacheKey]*GreenToken),
		nodeCache:  make(map[nodeCacheKey]*GreenNode),
	}
}

func (b *Builder) StartNode(kind SyntaxKind) {
	b.parents = append(b.parents, parentFrame{kind: kind, firstChild: len(b.children)})
}

func (b *Builder) Checkpoint() Checkpoint {
	return Checkpoint(len(b.children))
}

// StartNodeAt opens a node that wraps every child produced since the
// checkpoint was taken. Used to build left-leaning expression trees
// without backtracking.
func (b *Builder) StartNodeAt(cp Checkpoint, kind SyntaxKind) {
	first := int(cp)
	if first > len(b.children) {
		panic("syntax: checkpoint out of range")
	}
	if n := len(b.parents); n > 0 && first < b.parents[n-1].firstChild {
		panic("syntax: checkpoint crosses an open node")
	}
	b.parents = append(b.parents, parentFrame{kind: kind, firstChild: first})
}

func (b *Builder) Token(kind SyntaxKind, text string) {
	key := tokenCacheKey{kind: kind, text: text}
	tok, ok := b.tokenCache[key]
	if !ok {
		tok = NewGreenToken(kind, text)
		b.tokenCache[key] = tok
	}
	b.children = append(b.children, tok)
}

func (b *Builder) FinishNode() {
	n := len(b.parents)
	if n == 0 {
		panic("syntax: FinishNode without StartNode")
	}
	frame := b.parents[n-1]
	b.parents = b.parents[:n-1]

	children := make([]Green, len(b.children)-frame.firstChild)
	copy(children, b.children[frame.firstChild:])
	b.children = b.children[:frame.firstChild]

	b.children = append(b.children, b.internNode(frame.kind, children))
}

func (b *Builder) internNode(kind SyntaxKind, children []Green) *GreenNode {
	if len(children) > 3 {
		return NewGreenNode(kind, children)
	}
	key := nodeCacheKey{kind: kind}
	if len(children) > 0 {
		key.c0 = children[0]
	}
	if len(children) > 1 {
		key.c1 = children[1]
	}
	if len(children) > 2 {
		key.c2 = children[2]
	}
	if node, ok := b.nodeCache[key]; ok {
		return node
	}
	node := NewGreenNode(kind, children)
	b.nodeCache[key] = node
	return node
}

// Finish returns the completed tree. Exactly one root node must
// remain on the stack.
func (b *Builder) Finish() *GreenNode {
	if len(b.parents) != 0 {
		panic(fmt.Sprintf("syntax: Finish with %d unfinished nodes", len(b.parents)))
	}
	if len(b.children) != 1 {
		panic(fmt.Sprintf("syntax: Finish expects a single root, have %d elements", len(b.children)))
	}
	root, ok := b.children[0].(*GreenNode)
	if !ok {
		panic("syntax: root element is a token, not a node")
	}
	return root
}
