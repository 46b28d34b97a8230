package formula

import (
	"math/big"
	"strconv"
)

// Kind is the classification of a formula token.
type Kind int8

const (
	// Variable is a named quantity chosen from a suggestion provider.
	Variable Kind = iota
	// Operator is one of the symbols in Operators.
	Operator
	// Number is a finite decimal literal.
	Number
	// Text is any other committed input. Text is preserved in the formula,
	// but a formula containing Text cannot be evaluated.
	Text
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=Kind

// Token is a single classified unit of a formula. Tokens are immutable once
// created; editing a formula replaces tokens wholesale.
type Token struct {
	kind Kind
	// text is the literal for operators and text, the canonical decimal
	// spelling for numbers, and empty for variables.
	text string
	// num is the value of a number or the placeholder value of a variable.
	num *big.Float
	// id and name are set only for variables.
	id, name string
}

// NumberToken creates a Number token holding a copy of x. Panics if x is
// infinite, because numbers in a formula are always finite.
func NumberToken(x *big.Float) Token {
	if x.IsInf() {
		panic("formula: infinite number token")
	}
	v := new(big.Float).Copy(x)
	return Token{kind: Number, text: v.Text('g', -1), num: v}
}

// OperatorToken creates an Operator token. Panics if op is not one of the
// recognized operator symbols.
func OperatorToken(op string) Token {
	if !IsOperator(op) {
		panic("formula: invalid operator " + strconv.Quote(op))
	}
	return Token{kind: Operator, text: op}
}

// TextToken creates a Text token holding s verbatim.
func TextToken(s string) Token {
	return Token{kind: Text, text: s}
}

// VariableToken creates a Variable token for a suggestion. Its value is a
// placeholder zero; evaluation contexts may bind a real value by id.
func VariableToken(id, name string) Token {
	return Token{kind: Variable, num: new(big.Float), id: id, name: name}
}

// Kind returns the token's classification.
func (t Token) Kind() Kind {
	return t.kind
}

// Text returns the token's literal text. For variables, it is the name.
func (t Token) Text() string {
	if t.kind == Variable {
		return t.name
	}
	return t.text
}

// Value returns a copy of the numeric value of a Number token or the
// placeholder value of a Variable token. For other kinds, the result is nil.
func (t Token) Value() *big.Float {
	if t.num == nil {
		return nil
	}
	return new(big.Float).Copy(t.num)
}

// ID returns the provider identifier of a Variable token, or the empty string.
func (t Token) ID() string {
	return t.id
}

// Name returns the human-readable label of a Variable token, or the empty
// string.
func (t Token) Name() string {
	return t.name
}

// Equal reports whether two tokens have the same kind and contents.
func (t Token) Equal(u Token) bool {
	if t.kind != u.kind || t.text != u.text || t.id != u.id || t.name != u.name {
		return false
	}
	if t.num == nil || u.num == nil {
		return t.num == u.num
	}
	return t.num.Cmp(u.num) == 0
}

func (t Token) String() string {
	switch t.kind {
	case Variable:
		return t.kind.String() + ":" + t.name + "#" + t.id
	default:
		return t.kind.String() + ":" + t.text
	}
}
