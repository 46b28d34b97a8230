package formula

import (
	"errors"
	"math/big"
	"strconv"
)

// ErrUnevaluable is the outcome of evaluating a formula that does not form a
// valid arithmetic expression. Every error returned from parsing or evaluating
// a formula matches it with errors.Is.
var ErrUnevaluable = errors.New("formula cannot be evaluated")

// OperatorError is an error indicating an operator in a position where it
// cannot apply, e.g. "*" at the start of an expression. It implements
// InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the operator symbol.
	Operator string
	// Unary is whether the parser expected a unary operator at the time.
	Unary bool
}

func (err *OperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.Col, "invalid "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

func (err *OperatorError) Is(target error) bool {
	return target == ErrUnevaluable
}

// BracketError is an error indicating mismatched parentheses in the formula.
// It implements InputError.
type BracketError struct {
	// Col is the position of the token at which the mismatch was detected.
	Col int
	// Left is the opening bracket, or empty if there was none.
	Left string
	// Right is the closing bracket, or empty if there was none.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Right == "" {
		return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.Col, "mismatched bracket: "+err.Left+"expr"+err.Right)
}

func (err *BracketError) Pos() int {
	return err.Col
}

func (err *BracketError) Is(target error) bool {
	return target == ErrUnevaluable
}

// OperandError is an error indicating two operands with no operator between
// them. It implements InputError.
type OperandError struct {
	// Col is the position of the second operand.
	Col int
	// Text is the second operand's text.
	Text string
}

func (err *OperandError) Error() string {
	return errpos(err.Col, "missing operator before "+strconv.Quote(err.Text))
}

func (err *OperandError) Pos() int {
	return err.Col
}

func (err *OperandError) Is(target error) bool {
	return target == ErrUnevaluable
}

// TextError is an error indicating a text token, which has no numeric value.
// It implements InputError.
type TextError struct {
	// Col is the position of the text token.
	Col int
	// Text is the token's text.
	Text string
}

func (err *TextError) Error() string {
	return errpos(err.Col, "text "+strconv.Quote(err.Text)+" is not a number")
}

func (err *TextError) Pos() int {
	return err.Col
}

func (err *TextError) Is(target error) bool {
	return target == ErrUnevaluable
}

// EmptyExpressionError is an error indicating an empty formula or
// subexpression. It implements InputError.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

func (err *EmptyExpressionError) Is(target error) bool {
	return target == ErrUnevaluable
}

// DomainError is an error returned when an operator is applied to arguments
// outside its domain, e.g. division by zero. It implements InputError.
type DomainError struct {
	// Col is the position of the operator.
	Col int
	// X is the out-of-domain argument.
	X *big.Float
	// Func is the operator symbol.
	Func string
}

func (err *DomainError) Error() string {
	r := "outside domain"
	if err.X != nil {
		r = err.X.String() + " " + r
	}
	if err.Func != "" {
		r += " of " + err.Func
	}
	return errpos(err.Col, r)
}

func (err *DomainError) Pos() int {
	return err.Col
}

func (err *DomainError) Is(target error) bool {
	return target == ErrUnevaluable
}

// BoundsError is an error indicating an index outside a formula.
type BoundsError struct {
	Index int
	Len   int
}

func (err *BoundsError) Error() string {
	return "index " + strconv.Itoa(err.Index) + " out of range for formula of " + strconv.Itoa(err.Len) + " tokens"
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// an unevaluable formula implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based index of the token that caused the error. For
	// errors at the end of the formula, it is one more than the formula's
	// length.
	Pos() int
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*OperandError)(nil)
	_ InputError = (*TextError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*DomainError)(nil)
)
