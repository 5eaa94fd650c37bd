package parser

import (
	"fmt"

	"github.com/dhamidi/glint/syntax"
)

// Diagnostic is a parse-level problem anchored to a byte range of the
// source text. Diagnostics never abort a parse; the tree is always
// produced in full.
type Diagnostic struct {
	Range   syntax.TextRange
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Range, d.Message)
}

// Parse is the result of parsing: a green tree covering every input
// byte, plus the diagnostics collected along the way.
type Parse struct {
	Root   *syntax.GreenNode
	Errors []Diagnostic
}

// Text reconstructs the source text from the tree. Parsing is
// lossless, so this is exactly the text that was parsed.
func (p Parse) Text() string {
	return p.Root.Text()
}

// Syntax returns a fresh red view of the tree root.
func (p Parse) Syntax() *syntax.SyntaxNode {
	return syntax.NewSyntaxNode(p.Root)
}

// maxNestingDepth bounds parser recursion so adversarial input
// produces a diagnostic instead of a stack overflow.
const maxNestingDepth = 256

// ParseFile parses a whole compilation unit. It never fails: every
// token ends up in the tree, malformed regions become error nodes.
func ParseFile(text string) Parse {
	return runParser(text, (*parser).parseSourceFile)
}

// parseBlockFragment parses text that is known to span exactly one
// block, producing a Block root. Used by the incremental reparser.
func parseBlockFragment(text string) Parse {
	return runParser(text, func(p *parser) {
		p.parseBlock()
		p.flushRemaining()
	})
}

func runParser(text string, entry func(*parser)) Parse {
	tokens := Tokenize(text)
	starts := make([]int, len(tokens)+1)
	for i, tok := range tokens {
		starts[i+1] = starts[i] + tok.Len
	}
	p := &parser{
		text:    text,
		tokens:  tokens,
		starts:  starts,
		builder: syntax.NewBuilder(),
	}
	p.pos = p.nextSignificant(0)
	entry(p)
	return Parse{Root: p.builder.Finish(), Errors: p.errors}
}

type parser struct {
	text    string
	tokens  []Token
	starts  []int // starts[i] is the byte offset of token i; starts[len] == len(text)
	builder *syntax.Builder
	errors  []Diagnostic

	// raw is the next unflushed token index; tokens[raw..pos) are
	// trivia that will be attached on the next bump. pos always sits
	// on a significant token (or one past the end).
	raw   int
	pos   int
	depth int
}

func (p *parser) nextSignificant(i int) int {
	for i < len(p.tokens) && p.tokens[i].Kind.IsTrivia() {
		i++
	}
	return i
}

// current returns the kind of the token at the parse position, or
// KindEOF past the end.
func (p *parser) current() syntax.SyntaxKind {
	if p.pos >= len(p.tokens) {
		return syntax.KindEOF
	}
	return p.tokens[p.pos].Kind
}

// nth peeks n significant tokens ahead of the parse position.
func (p *parser) nth(n int) syntax.SyntaxKind {
	i := p.pos
	for ; n > 0 && i < len(p.tokens); n-- {
		i = p.nextSignificant(i + 1)
	}
	if i >= len(p.tokens) {
		return syntax.KindEOF
	}
	return p.tokens[i].Kind
}

func (p *parser) at(kind syntax.SyntaxKind) bool {
	return p.current() == kind
}

func (p *parser) atAny(kinds ...syntax.SyntaxKind) bool {
	cur := p.current()
	for _, kind := range kinds {
		if cur == kind {
			return true
		}
	}
	return false
}

func (p *parser) tokenText(i int) string {
	return p.text[p.starts[i]:p.starts[i+1]]
}

func (p *parser) tokenRange(i int) syntax.TextRange {
	return syntax.TextRange{Start: p.starts[i], End: p.starts[i+1]}
}

// currentRange is the byte range of the token at the parse position,
// or an empty range at end of input.
func (p *parser) currentRange() syntax.TextRange {
	if p.pos >= len(p.tokens) {
		return syntax.TextRange{Start: len(p.text), End: len(p.text)}
	}
	return p.tokenRange(p.pos)
}

// bump consumes the current token into the open node, attaching any
// trivia collected since the previous bump in front of it.
func (p *parser) bump() {
	if p.pos >= len(p.tokens) {
		return
	}
	for i := p.raw; i <= p.pos; i++ {
		p.builder.Token(p.tokens[i].Kind, p.tokenText(i))
	}
	p.raw = p.pos + 1
	p.pos = p.nextSignificant(p.raw)
}

// flushTrivia attaches the trivia collected since the previous bump to
// the innermost open node now, instead of waiting for the next bump.
// Used before checkpoints and error wraps so those start at the next
// significant token.
func (p *parser) flushTrivia() {
	for i := p.raw; i < p.pos; i++ {
		p.builder.Token(p.tokens[i].Kind, p.tokenText(i))
	}
	p.raw = p.pos
}

// checkpoint marks a wrap position at the next significant token.
func (p *parser) checkpoint() syntax.Checkpoint {
	p.flushTrivia()
	return p.builder.Checkpoint()
}

// flushRemaining attaches any trailing trivia to the innermost open
// node. Called once before finishing the root.
func (p *parser) flushRemaining() {
	for i := p.raw; i < len(p.tokens); i++ {
		p.builder.Token(p.tokens[i].Kind, p.tokenText(i))
	}
	p.raw = len(p.tokens)
	p.pos = len(p.tokens)
}

func (p *parser) errorAt(r syntax.TextRange, format string, args ...any) {
	d := Diagnostic{Range: r, Message: fmt.Sprintf(format, args...)}
	// Recovery can revisit the same token; keep one diagnostic per spot.
	if n := len(p.errors); n > 0 && p.errors[n-1] == d {
		return
	}
	p.errors = append(p.errors, d)
}

// expect consumes a token of the given kind, or records a diagnostic
// and consumes nothing.
func (p *parser) expect(kind syntax.SyntaxKind) bool {
	if p.at(kind) {
		p.bump()
		return true
	}
	p.errorAt(p.currentRange(), "expected %s, found %s", kind, p.current())
	return false
}

// missing emits a zero-width placeholder node for a required construct
// that is absent. The only zero-width element the tree may contain.
func (p *parser) missing() {
	p.builder.StartNode(syntax.KindMissing)
	p.builder.FinishNode()
}

// errorRecover wraps the tokens up to the next recovery point in an
// error node. If the parser is already at a recovery point, only the
// diagnostic is recorded.
func (p *parser) errorRecover(message string, recovery ...syntax.SyntaxKind) {
	p.errorAt(p.currentRange(), "%s", message)
	if p.at(syntax.KindEOF) || p.atAny(recovery...) {
		return
	}
	p.flushTrivia()
	p.builder.StartNode(syntax.KindError)
	for !p.at(syntax.KindEOF) && !p.atAny(recovery...) {
		p.bump()
	}
	p.builder.FinishNode()
}

// enter guards recursion depth. It returns false when the input nests
// too deeply, after recording a diagnostic; callers must not recurse
// further in that case.
func (p *parser) enter() bool {
	p.depth++
	if p.depth > maxNestingDepth {
		p.errorAt(p.currentRange(), "too deeply nested")
		return false
	}
	return true
}

func (p *parser) leave() {
	p.depth--
}
