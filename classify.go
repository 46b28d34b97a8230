package formula

import (
	"math/big"
	"strings"
)

// Operators contains the symbols which are classified as operator tokens.
// Each symbol is a single byte.
const Operators = "+-*/^()"

// NumberPrec is the precision in bits with which number tokens are parsed.
// Evaluation rounds them to the precision of its context.
const NumberPrec = 256

// IsOperator returns whether s is exactly one recognized operator symbol.
func IsOperator(s string) bool {
	return len(s) == 1 && strings.IndexByte(Operators, s[0]) >= 0
}

// Classify converts committed input into a token. Surrounding whitespace is
// ignored. If the text is a finite decimal number, the result is a Number;
// if it is an operator symbol, the result is an Operator; otherwise, the
// result is Text holding the trimmed input. Classification never fails.
func Classify(text string) Token {
	s := strings.TrimSpace(text)
	if x, ok := ParseNumber(s); ok {
		return NumberToken(x)
	}
	if IsOperator(s) {
		return OperatorToken(s)
	}
	return TextToken(s)
}

// ClassifyOperand converts input that is being flushed by an operator
// keystroke. It is like Classify, except that the result is never an
// Operator.
func ClassifyOperand(text string) Token {
	s := strings.TrimSpace(text)
	if x, ok := ParseNumber(s); ok {
		return NumberToken(x)
	}
	return TextToken(s)
}

// ParseNumber parses s as a decimal number: an optional sign, digits with an
// optional fraction, and an optional exponent. The entire string must match.
// Infinite results, e.g. from exponent overflow, are rejected.
func ParseNumber(s string) (*big.Float, bool) {
	if !scanNum(s) {
		return nil, false
	}
	x, _, err := new(big.Float).SetPrec(NumberPrec).Parse(s, 10)
	if err != nil || x.IsInf() {
		return nil, false
	}
	return x, true
}

// scanNum checks the syntax of a decimal number.
func scanNum(s string) bool {
	var dig, dot, e, le, ed bool
	for i := 0; i < len(s); i++ {
		r := s[i]
		switch r {
		case '+', '-':
			// A sign is allowed at the start or immediately following an
			// exponent marker.
			if i != 0 && !le {
				return false
			}
			le = false
		case '.':
			if dot || e {
				return false
			}
			dot = true
			le = false
		case 'e', 'E':
			if !dig || e {
				return false
			}
			e = true
			le = true
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			if e {
				ed = true
			} else {
				dig = true
			}
			le = false
		default:
			return false
		}
	}
	return dig && (!e || ed)
}
