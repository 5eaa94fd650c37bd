package syntax

// SyntaxKind is the closed set of lexical and structural categories.
// Every green token and green node carries exactly one kind. Token
// kinds come first, node kinds after KindSourceFile.
type SyntaxKind int

const (
	// KindError marks both unrecognized byte runs produced by the
	// lexer and regions the parser could not interpret.
	KindError SyntaxKind = iota
	// KindEOF is a sentinel used by the parser; it never appears in a tree.
	KindEOF

	// Trivia
	KindWhitespace
	KindLineComment
	KindBlockComment

	// Literals and identifiers
	KindIdent
	KindIntLiteral
	KindFloatLiteral
	KindStringLiteral
	KindCharLiteral

	// Keywords
	KindFnKw
	KindLetKw
	KindStructKw
	KindUseKw
	KindIfKw
	KindElseKw
	KindWhileKw
	KindLoopKw
	KindReturnKw
	KindBreakKw
	KindContinueKw
	KindTrueKw
	KindFalseKw

	// Punctuation and operators
	KindLParen
	KindRParen
	KindLBrace
	KindRBrace
	KindLBracket
	KindRBracket
	KindComma
	KindSemicolon
	KindColon
	KindColonColon
	KindDot
	KindArrow
	KindAssign
	KindEQ
	KindNE
	KindLT
	KindLE
	KindGT
	KindGE
	KindNot
	KindAnd
	KindOr
	KindBitAnd
	KindBitOr
	KindBitXor
	KindShl
	KindShr
	KindPlus
	KindMinus
	KindStar
	KindSlash
	KindPercent

	// Nodes
	KindSourceFile
	KindFnItem
	KindStructItem
	KindUseItem
	KindParamList
	KindParam
	KindStructFieldList
	KindStructField
	KindRetType
	KindTypeRef
	KindName
	KindNameRef
	KindBlock
	KindLetStmt
	KindExprStmt
	KindEmptyStmt
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt
	KindIfExpr
	KindWhileExpr
	KindLoopExpr
	KindBinaryExpr
	KindPrefixExpr
	KindCallExpr
	KindArgList
	KindFieldExpr
	KindIndexExpr
	KindParenExpr
	KindLiteral
	// KindMissing is a zero-width placeholder inserted where the
	// grammar required a construct that is absent. It is the only
	// node kind allowed to have no children.
	KindMissing
)

var kindNames = map[SyntaxKind]string{
	KindError:           "Error",
	KindEOF:             "EOF",
	KindWhitespace:      "Whitespace",
	KindLineComment:     "LineComment",
	KindBlockComment:    "BlockComment",
	KindIdent:           "Ident",
	KindIntLiteral:      "IntLiteral",
	KindFloatLiteral:    "FloatLiteral",
	KindStringLiteral:   "StringLiteral",
	KindCharLiteral:     "CharLiteral",
	KindFnKw:            "fn",
	KindLetKw:           "let",
	KindStructKw:        "struct",
	KindUseKw:           "use",
	KindIfKw:            "if",
	KindElseKw:          "else",
	KindWhileKw:         "while",
	KindLoopKw:          "loop",
	KindReturnKw:        "return",
	KindBreakKw:         "break",
	KindContinueKw:      "continue",
	KindTrueKw:          "true",
	KindFalseKw:         "false",
	KindLParen:          "(",
	KindRParen:          ")",
	KindLBrace:          "{",
	KindRBrace:          "}",
	KindLBracket:        "[",
	KindRBracket:        "]",
	KindComma:           ",",
	KindSemicolon:       ";",
	KindColon:           ":",
	KindColonColon:      "::",
	KindDot:             ".",
	KindArrow:           "->",
	KindAssign:          "=",
	KindEQ:              "==",
	KindNE:              "!=",
	KindLT:              "<",
	KindLE:              "<=",
	KindGT:              ">",
	KindGE:              ">=",
	KindNot:             "!",
	KindAnd:             "&&",
	KindOr:              "||",
	KindBitAnd:          "&",
	KindBitOr:           "|",
	KindBitXor:          "^",
	KindShl:             "<<",
	KindShr:             ">>",
	KindPlus:            "+",
	KindMinus:           "-",
	KindStar:            "*",
	KindSlash:           "/",
	KindPercent:         "%",
	KindSourceFile:      "SourceFile",
	KindFnItem:          "FnItem",
	KindStructItem:      "StructItem",
	KindUseItem:         "UseItem",
	KindParamList:       "ParamList",
	KindParam:           "Param",
	KindStructFieldList: "StructFieldList",
	KindStructField:     "StructField",
	KindRetType:         "RetType",
	KindTypeRef:         "TypeRef",
	KindName:            "Name",
	KindNameRef:         "NameRef",
	KindBlock:           "Block",
	KindLetStmt:         "LetStmt",
	KindExprStmt:        "ExprStmt",
	KindEmptyStmt:       "EmptyStmt",
	KindReturnStmt:      "ReturnStmt",
	KindBreakStmt:       "BreakStmt",
	KindContinueStmt:    "ContinueStmt",
	KindIfExpr:          "IfExpr",
	KindWhileExpr:       "WhileExpr",
	KindLoopExpr:        "LoopExpr",
	KindBinaryExpr:      "BinaryExpr",
	KindPrefixExpr:      "PrefixExpr",
	KindCallExpr:        "CallExpr",
	KindArgList:         "ArgList",
	KindFieldExpr:       "FieldExpr",
	KindIndexExpr:       "IndexExpr",
	KindParenExpr:       "ParenExpr",
	KindLiteral:         "Literal",
	KindMissing:         "Missing",
}

func (k SyntaxKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsTrivia reports whether tokens of this kind carry no structural
// meaning and are preserved only for losslessness.
func (k SyntaxKind) IsTrivia() bool {
	switch k {
	case KindWhitespace, KindLineComment, KindBlockComment:
		return true
	}
	return false
}

// IsKeyword reports whether the kind is a reserved word.
func (k SyntaxKind) IsKeyword() bool {
	return k >= KindFnKw && k <= KindFalseKw
}

// IsLiteral reports whether the kind is a literal token.
func (k SyntaxKind) IsLiteral() bool {
	switch k {
	case KindIntLiteral, KindFloatLiteral, KindStringLiteral, KindCharLiteral, KindTrueKw, KindFalseKw:
		return true
	}
	return false
}

var keywords = map[string]SyntaxKind{
	"fn":       KindFnKw,
	"let":      KindLetKw,
	"struct":   KindStructKw,
	"use":      KindUseKw,
	"if":       KindIfKw,
	"else":     KindElseKw,
	"while":    KindWhileKw,
	"loop":     KindLoopKw,
	"return":   KindReturnKw,
	"break":    KindBreakKw,
	"continue": KindContinueKw,
	"true":     KindTrueKw,
	"false":    KindFalseKw,
}

// LookupKeyword resolves an identifier to its keyword kind, or
// KindIdent if the text is not reserved.
func LookupKeyword(ident string) SyntaxKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return KindIdent
}
