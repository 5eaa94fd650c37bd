package parser

import (
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/glint/syntax"
)

// Token is a lexed unit: a kind and a byte length. Token text is not
// stored; it is a slice of the input addressed by running offset.
type Token struct {
	Kind syntax.SyntaxKind
	Len  int
}

// Tokenize splits text into tokens. It never fails: byte runs that
// match no pattern become error tokens. The token lengths always sum
// to len(text).
func Tokenize(text string) []Token {
	l := &lexer{input: text}
	var tokens []Token
	for l.pos < len(l.input) {
		tokens = append(tokens, l.next())
	}
	return tokens
}

type lexer struct {
	input string
	pos   int
}

func (l *lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *lexer) advance() {
	if l.pos < len(l.input) {
		l.pos++
	}
}

func (l *lexer) advanceN(n int) {
	l.pos += n
	if l.pos > len(l.input) {
		l.pos = len(l.input)
	}
}

func (l *lexer) next() Token {
	start := l.pos
	ch := l.peek()

	switch {
	case ch == '/' && l.peekN(1) == '/':
		return l.scanLineComment(start)
	case ch == '/' && l.peekN(1) == '*':
		return l.scanBlockComment(start)
	case isWhitespace(ch):
		return l.scanWhitespace(start)
	case isIdentStart(ch) || (ch >= utf8.RuneSelf && l.runeIsLetter()):
		return l.scanIdentOrKeyword(start)
	case isDigit(ch):
		return l.scanNumber(start)
	case ch == '"':
		return l.scanString(start)
	case ch == '\'':
		return l.scanChar(start)
	}
	return l.scanOperator(start)
}

func (l *lexer) runeIsLetter() bool {
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return unicode.IsLetter(r)
}

func (l *lexer) token(kind syntax.SyntaxKind, start int) Token {
	return Token{Kind: kind, Len: l.pos - start}
}

func (l *lexer) scanWhitespace(start int) Token {
	for isWhitespace(l.peek()) && l.pos < len(l.input) {
		l.advance()
	}
	return l.token(syntax.KindWhitespace, start)
}

func (l *lexer) scanLineComment(start int) Token {
	l.advanceN(2)
	for l.pos < len(l.input) && l.peek() != '\n' {
		l.advance()
	}
	return l.token(syntax.KindLineComment, start)
}

func (l *lexer) scanBlockComment(start int) Token {
	l.advanceN(2)
	for l.pos < len(l.input) {
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			break
		}
		l.advance()
	}
	return l.token(syntax.KindBlockComment, start)
}

func (l *lexer) scanIdentOrKeyword(start int) Token {
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch < utf8.RuneSelf {
			if !isIdentContinue(ch) {
				break
			}
			l.advance()
			continue
		}
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.advanceN(size)
	}
	kind := syntax.LookupKeyword(l.input[start:l.pos])
	return l.token(kind, start)
}

func (l *lexer) scanNumber(start int) Token {
	isFloat := false
	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		next := l.peekN(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekN(2))) {
			isFloat = true
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
			for isDigit(l.peek()) {
				l.advance()
			}
		}
	}
	kind := syntax.KindIntLiteral
	if isFloat {
		kind = syntax.KindFloatLiteral
	}
	return l.token(kind, start)
}

// scanString consumes a double-quoted string with backslash escapes.
// An unterminated string runs to the end of the line.
func (l *lexer) scanString(start int) Token {
	l.advance()
	for l.pos < len(l.input) && l.peek() != '"' && l.peek() != '\n' {
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	if l.peek() == '"' {
		l.advance()
	}
	return l.token(syntax.KindStringLiteral, start)
}

func (l *lexer) scanChar(start int) Token {
	l.advance()
	for l.pos < len(l.input) && l.peek() != '\'' && l.peek() != '\n' {
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	if l.peek() == '\'' {
		l.advance()
	}
	return l.token(syntax.KindCharLiteral, start)
}

func (l *lexer) scanOperator(start int) Token {
	ch := l.peek()

	switch ch {
	case '(':
		l.advance()
		return l.token(syntax.KindLParen, start)
	case ')':
		l.advance()
		return l.token(syntax.KindRParen, start)
	case '{':
		l.advance()
		return l.token(syntax.KindLBrace, start)
	case '}':
		l.advance()
		return l.token(syntax.KindRBrace, start)
	case '[':
		l.advance()
		return l.token(syntax.KindLBracket, start)
	case ']':
		l.advance()
		return l.token(syntax.KindRBracket, start)
	case ',':
		l.advance()
		return l.token(syntax.KindComma, start)
	case ';':
		l.advance()
		return l.token(syntax.KindSemicolon, start)
	case '.':
		l.advance()
		return l.token(syntax.KindDot, start)

	case ':':
		if l.peekN(1) == ':' {
			l.advanceN(2)
			return l.token(syntax.KindColonColon, start)
		}
		l.advance()
		return l.token(syntax.KindColon, start)

	case '=':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(syntax.KindEQ, start)
		}
		l.advance()
		return l.token(syntax.KindAssign, start)

	case '!':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(syntax.KindNE, start)
		}
		l.advance()
		return l.token(syntax.KindNot, start)

	case '<':
		if l.peekN(1) == '<' {
			l.advanceN(2)
			return l.token(syntax.KindShl, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(syntax.KindLE, start)
		}
		l.advance()
		return l.token(syntax.KindLT, start)

	case '>':
		if l.peekN(1) == '>' {
			l.advanceN(2)
			return l.token(syntax.KindShr, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(syntax.KindGE, start)
		}
		l.advance()
		return l.token(syntax.KindGT, start)

	case '&':
		if l.peekN(1) == '&' {
			l.advanceN(2)
			return l.token(syntax.KindAnd, start)
		}
		l.advance()
		return l.token(syntax.KindBitAnd, start)

	case '|':
		if l.peekN(1) == '|' {
			l.advanceN(2)
			return l.token(syntax.KindOr, start)
		}
		l.advance()
		return l.token(syntax.KindBitOr, start)

	case '^':
		l.advance()
		return l.token(syntax.KindBitXor, start)

	case '-':
		if l.peekN(1) == '>' {
			l.advanceN(2)
			return l.token(syntax.KindArrow, start)
		}
		l.advance()
		return l.token(syntax.KindMinus, start)

	case '+':
		l.advance()
		return l.token(syntax.KindPlus, start)
	case '*':
		l.advance()
		return l.token(syntax.KindStar, start)
	case '/':
		l.advance()
		return l.token(syntax.KindSlash, start)
	case '%':
		l.advance()
		return l.token(syntax.KindPercent, start)
	}

	// Unknown bytes form a single maximal-run error token.
	for l.pos < len(l.input) && l.atUnknown() {
		if l.peek() < utf8.RuneSelf {
			l.advance()
		} else {
			_, size := utf8.DecodeRuneInString(l.input[l.pos:])
			l.advanceN(size)
		}
	}
	if l.pos == start {
		l.advance()
	}
	return l.token(syntax.KindError, start)
}

func (l *lexer) atUnknown() bool {
	ch := l.peek()
	if ch >= utf8.RuneSelf {
		return !l.runeIsLetter()
	}
	return isUnknown(ch)
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

// isUnknown reports whether an ASCII byte belongs to no known token
// pattern, so consecutive unknown bytes coalesce into one error token.
func isUnknown(ch byte) bool {
	if isWhitespace(ch) || isIdentStart(ch) || isDigit(ch) || ch == '"' || ch == '\'' {
		return false
	}
	switch ch {
	case '(', ')', '{', '}', '[', ']', ',', ';', '.', ':', '=', '!', '<', '>',
		'&', '|', '^', '-', '+', '*', '/', '%':
		return false
	}
	return true
}
