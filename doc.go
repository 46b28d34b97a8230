// Package formula implements an incrementally built arithmetic formula with
// live arbitrary-precision evaluation.
//
// A formula is a sequence of typed tokens: numbers, operators, free text, and
// variables chosen from a suggestion provider. An Editor turns keystrokes into
// mutations of a Store, classifying pending input as it is committed. Pressing
// an operator key flushes the pending input, so typing "3+4" produces three
// tokens. Evaluation parses the token sequence directly with ordinary
// precedence: "-2^2^n" is the same as "-(2^(2^n))", where "a^b" is
// exponentiation. A formula that is not a valid expression, including any
// formula containing text, evaluates to an error matching ErrUnevaluable.
//
// Variables evaluate to zero unless a Context binds a value to their id.
package formula
