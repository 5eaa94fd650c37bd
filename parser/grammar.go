package parser

import "github.com/dhamidi/glint/syntax"

// Recovery sets: tokens at which error recovery stops consuming and
// hands control back, so one malformed region cannot swallow the rest
// of the file.
var itemRecovery = []syntax.SyntaxKind{
	syntax.KindFnKw, syntax.KindStructKw, syntax.KindUseKw,
}

var stmtRecovery = []syntax.SyntaxKind{
	syntax.KindRBrace, syntax.KindSemicolon,
	syntax.KindLetKw, syntax.KindIfKw, syntax.KindWhileKw, syntax.KindLoopKw,
	syntax.KindReturnKw, syntax.KindBreakKw, syntax.KindContinueKw,
	syntax.KindFnKw, syntax.KindStructKw, syntax.KindUseKw,
}

func (p *parser) parseSourceFile() {
	p.builder.StartNode(syntax.KindSourceFile)
	for !p.at(syntax.KindEOF) {
		before := p.pos
		p.parseItem()
		if p.pos == before {
			p.flushTrivia()
			p.builder.StartNode(syntax.KindError)
			p.bump()
			p.builder.FinishNode()
		}
	}
	p.flushRemaining()
	p.builder.FinishNode()
}

func (p *parser) parseItem() {
	switch p.current() {
	case syntax.KindFnKw:
		p.parseFnItem()
	case syntax.KindStructKw:
		p.parseStructItem()
	case syntax.KindUseKw:
		p.parseUseItem()
	default:
		p.errorRecover("expected an item", itemRecovery...)
	}
}

func (p *parser) parseFnItem() {
	p.builder.StartNode(syntax.KindFnItem)
	p.bump() // fn
	p.parseName()
	if p.at(syntax.KindLParen) {
		p.parseParamList()
	} else {
		p.errorAt(p.currentRange(), "expected parameter list")
		p.missing()
	}
	if p.at(syntax.KindArrow) {
		p.parseRetType()
	}
	if p.at(syntax.KindLBrace) {
		p.parseBlock()
	} else {
		p.errorAt(p.currentRange(), "expected function body")
		p.missing()
	}
	p.builder.FinishNode()
}

func (p *parser) parseName() {
	if p.at(syntax.KindIdent) {
		p.builder.StartNode(syntax.KindName)
		p.bump()
		p.builder.FinishNode()
		return
	}
	p.errorAt(p.currentRange(), "expected a name, found %s", p.current())
	p.missing()
}

func (p *parser) parseParamList() {
	p.builder.StartNode(syntax.KindParamList)
	p.bump() // (
	for !p.at(syntax.KindRParen) && !p.at(syntax.KindEOF) {
		before := p.pos
		if p.at(syntax.KindIdent) {
			p.parseParam()
		} else {
			p.errorRecover("expected a parameter",
				syntax.KindRParen, syntax.KindComma, syntax.KindLBrace, syntax.KindFnKw)
		}
		if p.at(syntax.KindComma) {
			p.bump()
		} else if !p.at(syntax.KindRParen) && !p.at(syntax.KindEOF) {
			p.errorAt(p.currentRange(), "expected , or )")
		}
		if p.pos == before {
			break
		}
	}
	p.expect(syntax.KindRParen)
	p.builder.FinishNode()
}

func (p *parser) parseParam() {
	p.builder.StartNode(syntax.KindParam)
	p.parseName()
	if p.at(syntax.KindColon) {
		p.bump()
		p.parseTypeRef()
	} else {
		p.errorAt(p.currentRange(), "expected : and a type")
	}
	p.builder.FinishNode()
}

func (p *parser) parseTypeRef() {
	if !p.at(syntax.KindIdent) {
		p.errorAt(p.currentRange(), "expected a type")
		p.missing()
		return
	}
	p.builder.StartNode(syntax.KindTypeRef)
	p.bump()
	for p.at(syntax.KindColonColon) && p.nth(1) == syntax.KindIdent {
		p.bump()
		p.bump()
	}
	p.builder.FinishNode()
}

func (p *parser) parseRetType() {
	p.builder.StartNode(syntax.KindRetType)
	p.bump() // ->
	p.parseTypeRef()
	p.builder.FinishNode()
}

func (p *parser) parseStructItem() {
	p.builder.StartNode(syntax.KindStructItem)
	p.bump() // struct
	p.parseName()
	switch p.current() {
	case syntax.KindSemicolon:
		p.bump()
	case syntax.KindLBrace:
		p.parseStructFieldList()
	default:
		p.errorAt(p.currentRange(), "expected ; or a field list")
	}
	p.builder.FinishNode()
}

func (p *parser) parseStructFieldList() {
	p.builder.StartNode(syntax.KindStructFieldList)
	p.bump() // {
	for !p.at(syntax.KindRBrace) && !p.at(syntax.KindEOF) {
		before := p.pos
		if p.at(syntax.KindIdent) {
			p.parseStructField()
		} else {
			p.errorRecover("expected a field",
				syntax.KindRBrace, syntax.KindComma, syntax.KindFnKw, syntax.KindStructKw)
		}
		if p.at(syntax.KindComma) {
			p.bump()
		} else if !p.at(syntax.KindRBrace) && !p.at(syntax.KindEOF) {
			p.errorAt(p.currentRange(), "expected , or }")
		}
		if p.pos == before {
			break
		}
	}
	p.expect(syntax.KindRBrace)
	p.builder.FinishNode()
}

func (p *parser) parseStructField() {
	p.builder.StartNode(syntax.KindStructField)
	p.parseName()
	if p.at(syntax.KindColon) {
		p.bump()
		p.parseTypeRef()
	} else {
		p.errorAt(p.currentRange(), "expected : and a type")
	}
	p.builder.FinishNode()
}

func (p *parser) parseUseItem() {
	p.builder.StartNode(syntax.KindUseItem)
	p.bump() // use
	if p.at(syntax.KindIdent) {
		p.bump()
		for p.at(syntax.KindColonColon) {
			p.bump()
			if !p.expect(syntax.KindIdent) {
				break
			}
		}
	} else {
		p.errorAt(p.currentRange(), "expected a path")
	}
	if p.at(syntax.KindSemicolon) {
		p.bump()
	} else {
		p.errorAt(p.currentRange(), "expected ;")
	}
	p.builder.FinishNode()
}

func (p *parser) parseBlock() {
	if !p.enter() {
		p.leave()
		p.flushTrivia()
		p.builder.StartNode(syntax.KindError)
		p.bump() // {
		p.builder.FinishNode()
		return
	}
	defer p.leave()

	p.builder.StartNode(syntax.KindBlock)
	p.bump() // {
	for !p.at(syntax.KindRBrace) && !p.at(syntax.KindEOF) {
		before := p.pos
		p.parseStmt()
		if p.pos == before {
			// No rule consumed the token; drop it to guarantee progress.
			p.flushTrivia()
			p.builder.StartNode(syntax.KindError)
			p.bump()
			p.builder.FinishNode()
		}
	}
	p.expect(syntax.KindRBrace)
	p.builder.FinishNode()
}

func (p *parser) parseStmt() {
	switch p.current() {
	case syntax.KindLetKw:
		p.parseLetStmt()
	case syntax.KindReturnKw:
		p.parseReturnStmt()
	case syntax.KindBreakKw:
		p.builder.StartNode(syntax.KindBreakStmt)
		p.bump()
		p.finishStmt()
		p.builder.FinishNode()
	case syntax.KindContinueKw:
		p.builder.StartNode(syntax.KindContinueStmt)
		p.bump()
		p.finishStmt()
		p.builder.FinishNode()
	case syntax.KindSemicolon:
		p.builder.StartNode(syntax.KindEmptyStmt)
		p.bump()
		p.builder.FinishNode()
	default:
		if atExprStart(p.current()) {
			p.parseExprStmt()
		} else {
			p.errorRecover("expected a statement", stmtRecovery...)
		}
	}
}

func (p *parser) parseLetStmt() {
	p.builder.StartNode(syntax.KindLetStmt)
	p.bump() // let
	p.parseName()
	if p.at(syntax.KindColon) {
		p.bump()
		p.parseTypeRef()
	}
	if p.at(syntax.KindAssign) {
		p.bump()
		if atExprStart(p.current()) {
			p.parseExpr()
		} else {
			p.errorAt(p.currentRange(), "expected expression")
			p.missing()
		}
	}
	p.finishStmt()
	p.builder.FinishNode()
}

func (p *parser) parseReturnStmt() {
	p.builder.StartNode(syntax.KindReturnStmt)
	p.bump() // return
	if atExprStart(p.current()) {
		p.parseExpr()
	}
	p.finishStmt()
	p.builder.FinishNode()
}

func (p *parser) parseExprStmt() {
	p.builder.StartNode(syntax.KindExprStmt)
	p.parseExpr()
	if p.at(syntax.KindSemicolon) {
		p.bump()
	}
	p.builder.FinishNode()
}

// finishStmt consumes a trailing semicolon; at the end of a block the
// semicolon may be omitted (tail position).
func (p *parser) finishStmt() {
	if p.at(syntax.KindSemicolon) {
		p.bump()
	} else if !p.at(syntax.KindRBrace) && !p.at(syntax.KindEOF) {
		p.errorAt(p.currentRange(), "expected ;")
	}
}

func atExprStart(k syntax.SyntaxKind) bool {
	if k.IsLiteral() {
		return true
	}
	switch k {
	case syntax.KindIdent, syntax.KindLParen, syntax.KindLBrace,
		syntax.KindMinus, syntax.KindNot,
		syntax.KindIfKw, syntax.KindWhileKw, syntax.KindLoopKw:
		return true
	}
	return false
}

func (p *parser) parseExpr() {
	p.parseBinary(1)
}

// binaryPrec returns the binding power of an infix operator, or zero
// for non-operators. Assignment is the only right-associative level.
func binaryPrec(k syntax.SyntaxKind) (prec int, rightAssoc bool) {
	switch k {
	case syntax.KindAssign:
		return 1, true
	case syntax.KindOr:
		return 2, false
	case syntax.KindAnd:
		return 3, false
	case syntax.KindEQ, syntax.KindNE:
		return 4, false
	case syntax.KindLT, syntax.KindLE, syntax.KindGT, syntax.KindGE:
		return 5, false
	case syntax.KindBitOr:
		return 6, false
	case syntax.KindBitXor:
		return 7, false
	case syntax.KindBitAnd:
		return 8, false
	case syntax.KindShl, syntax.KindShr:
		return 9, false
	case syntax.KindPlus, syntax.KindMinus:
		return 10, false
	case syntax.KindStar, syntax.KindSlash, syntax.KindPercent:
		return 11, false
	}
	return 0, false
}

// parseBinary implements precedence climbing. Operators with a missing
// right operand are wrapped in an error node so the tokens stay in the
// tree without fabricating a half-formed binary expression.
func (p *parser) parseBinary(minPrec int) {
	if !p.enter() {
		p.leave()
		p.missing()
		return
	}
	defer p.leave()

	cp := p.checkpoint()
	p.parseUnary()
	for {
		prec, rightAssoc := binaryPrec(p.current())
		if prec == 0 || prec < minPrec {
			return
		}
		if !atExprStart(p.nth(1)) {
			opRange := p.currentRange()
			p.flushTrivia()
			p.builder.StartNode(syntax.KindError)
			p.bump()
			p.builder.FinishNode()
			p.errorAt(opRange, "expected expression")
			continue
		}
		p.builder.StartNodeAt(cp, syntax.KindBinaryExpr)
		p.bump() // operator
		next := prec + 1
		if rightAssoc {
			next = prec
		}
		p.parseBinary(next)
		p.builder.FinishNode()
	}
}

func (p *parser) parseUnary() {
	if p.atAny(syntax.KindMinus, syntax.KindNot) {
		if !p.enter() {
			p.leave()
			p.missing()
			return
		}
		defer p.leave()
		p.builder.StartNode(syntax.KindPrefixExpr)
		p.bump()
		p.parseUnary()
		p.builder.FinishNode()
		return
	}
	p.parsePostfix()
}

func (p *parser) parsePostfix() {
	cp := p.checkpoint()
	p.parsePrimary()
	for {
		switch p.current() {
		case syntax.KindLParen:
			p.builder.StartNodeAt(cp, syntax.KindCallExpr)
			p.parseArgList()
			p.builder.FinishNode()
		case syntax.KindDot:
			p.builder.StartNodeAt(cp, syntax.KindFieldExpr)
			p.bump()
			if p.at(syntax.KindIdent) {
				p.parseNameRef()
			} else {
				p.errorAt(p.currentRange(), "expected a field name")
				p.missing()
			}
			p.builder.FinishNode()
		case syntax.KindLBracket:
			p.builder.StartNodeAt(cp, syntax.KindIndexExpr)
			p.bump()
			if atExprStart(p.current()) {
				p.parseExpr()
			} else {
				p.errorAt(p.currentRange(), "expected expression")
				p.missing()
			}
			p.expect(syntax.KindRBracket)
			p.builder.FinishNode()
		default:
			return
		}
	}
}

func (p *parser) parseArgList() {
	p.builder.StartNode(syntax.KindArgList)
	p.bump() // (
	for !p.at(syntax.KindRParen) && !p.at(syntax.KindEOF) {
		before := p.pos
		if atExprStart(p.current()) {
			p.parseExpr()
		} else {
			p.errorRecover("expected an argument",
				syntax.KindRParen, syntax.KindComma, syntax.KindSemicolon, syntax.KindRBrace)
		}
		if p.at(syntax.KindComma) {
			p.bump()
		} else if !p.at(syntax.KindRParen) && !p.at(syntax.KindEOF) {
			p.errorAt(p.currentRange(), "expected , or )")
		}
		if p.pos == before {
			break
		}
	}
	p.expect(syntax.KindRParen)
	p.builder.FinishNode()
}

func (p *parser) parsePrimary() {
	k := p.current()
	switch {
	case k.IsLiteral():
		p.builder.StartNode(syntax.KindLiteral)
		p.bump()
		p.builder.FinishNode()
	case k == syntax.KindIdent:
		p.parseNameRef()
	case k == syntax.KindLParen:
		p.builder.StartNode(syntax.KindParenExpr)
		p.bump()
		if atExprStart(p.current()) {
			p.parseExpr()
		} else {
			p.errorAt(p.currentRange(), "expected expression")
			p.missing()
		}
		p.expect(syntax.KindRParen)
		p.builder.FinishNode()
	case k == syntax.KindLBrace:
		p.parseBlock()
	case k == syntax.KindIfKw:
		p.parseIfExpr()
	case k == syntax.KindWhileKw:
		p.parseWhileExpr()
	case k == syntax.KindLoopKw:
		p.builder.StartNode(syntax.KindLoopExpr)
		p.bump()
		if p.at(syntax.KindLBrace) {
			p.parseBlock()
		} else {
			p.errorAt(p.currentRange(), "expected a block")
			p.missing()
		}
		p.builder.FinishNode()
	default:
		p.errorAt(p.currentRange(), "expected expression")
		p.missing()
	}
}

func (p *parser) parseNameRef() {
	p.builder.StartNode(syntax.KindNameRef)
	p.bump()
	for p.at(syntax.KindColonColon) && p.nth(1) == syntax.KindIdent {
		p.bump()
		p.bump()
	}
	p.builder.FinishNode()
}

func (p *parser) parseIfExpr() {
	if !p.enter() {
		p.leave()
		p.missing()
		return
	}
	defer p.leave()

	p.builder.StartNode(syntax.KindIfExpr)
	p.bump() // if
	if atExprStart(p.current()) && !p.at(syntax.KindLBrace) {
		p.parseExpr()
	} else {
		p.errorAt(p.currentRange(), "expected a condition")
		p.missing()
	}
	if p.at(syntax.KindLBrace) {
		p.parseBlock()
	} else {
		p.errorAt(p.currentRange(), "expected a block")
		p.missing()
	}
	if p.at(syntax.KindElseKw) {
		p.bump()
		switch p.current() {
		case syntax.KindIfKw:
			p.parseIfExpr()
		case syntax.KindLBrace:
			p.parseBlock()
		default:
			p.errorAt(p.currentRange(), "expected a block or if")
			p.missing()
		}
	}
	p.builder.FinishNode()
}

func (p *parser) parseWhileExpr() {
	if !p.enter() {
		p.leave()
		p.missing()
		return
	}
	defer p.leave()

	p.builder.StartNode(syntax.KindWhileExpr)
	p.bump() // while
	if atExprStart(p.current()) && !p.at(syntax.KindLBrace) {
		p.parseExpr()
	} else {
		p.errorAt(p.currentRange(), "expected a condition")
		p.missing()
	}
	if p.at(syntax.KindLBrace) {
		p.parseBlock()
	} else {
		p.errorAt(p.currentRange(), "expected a block")
		p.missing()
	}
	p.builder.FinishNode()
}
