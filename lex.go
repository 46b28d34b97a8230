package formula

import (
	"math/big"
	"strconv"
)

// lexToken is a formula token as seen by the parser.
type lexToken struct {
	text string
	kind tokenKind
	num  *big.Float
	// pos is the 1-based index of the token in the formula.
	pos int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the formula.
	tokenEOF
	// tokenNum is a number.
	tokenNum
	// tokenVar is a variable. Its text is the variable id.
	tokenVar
	// tokenText is uninterpreted text.
	tokenText
	// tokenOp is an arithmetic operator.
	tokenOp
	// tokenOpen is an open parenthesis.
	tokenOpen
	// tokenClose is a close parenthesis.
	tokenClose
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=tokenKind -trimprefix=token

type lexer struct {
	src []Token
	i   int
	p   lexToken
}

func lex(src []Token) *lexer {
	return &lexer{src: src}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("formula: double push")
	}
	l.p = tok
}

// must scans the pushed token. Panics if there is no pushed token.
func (l *lexer) must() lexToken {
	tok := l.p
	if tok.kind == tokenNone {
		panic("formula: no pushed token")
	}
	l.p = lexToken{}
	return tok
}

// next scans the next token from the formula. Once the formula is exhausted,
// every call returns an EOF token positioned just past the end.
func (l *lexer) next() lexToken {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok
	}
	if l.i >= len(l.src) {
		return lexToken{kind: tokenEOF, pos: len(l.src) + 1}
	}
	t := l.src[l.i]
	l.i++
	tok := lexToken{pos: l.i}
	switch t.kind {
	case Number:
		tok.kind = tokenNum
		tok.text = t.text
		tok.num = t.num
	case Variable:
		tok.kind = tokenVar
		tok.text = t.id
		tok.num = t.num
	case Operator:
		tok.text = t.text
		switch t.text {
		case "(":
			tok.kind = tokenOpen
		case ")":
			tok.kind = tokenClose
		default:
			tok.kind = tokenOp
		}
	case Text:
		tok.kind = tokenText
		tok.text = t.text
	default:
		panic("formula: invalid token kind " + t.kind.String())
	}
	return tok
}
