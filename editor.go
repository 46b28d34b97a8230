package formula

import (
	"errors"
	"math/big"
	"strings"

	"github.com/zephyrtronium/formula/suggest"
)

// Key is a keystroke or command that may mutate a formula.
type Key int8

const (
	KeyNone Key = iota
	// KeyEnter commits the highlighted suggestion or the pending input.
	KeyEnter
	// KeyOperator is an operator symbol typed directly.
	KeyOperator
	// KeyBackspace removes the last token when there is no pending input.
	KeyBackspace
	// KeyUp and KeyDown move the suggestion highlight.
	KeyUp
	KeyDown
	// KeyEscape closes the suggestion list.
	KeyEscape
	// KeyClear empties the formula.
	KeyClear
)

// Event is a keystroke delivered to an Editor.
type Event struct {
	Key Key
	// Op is the symbol for KeyOperator.
	Op string
}

// OperatorKey creates an event for typing an operator symbol.
func OperatorKey(op string) Event {
	return Event{Key: KeyOperator, Op: op}
}

// Editor applies input events to a formula. It decides how pending input is
// classified and committed, and it tracks the suggestion list shown for the
// pending input. Pending input itself belongs to the caller, which passes it
// to each call. An Editor is not safe for concurrent use.
type Editor struct {
	store *Store
	ctx   *Context

	open      bool
	list      []suggest.Suggestion
	highlight int
	lookups   suggest.Tracker
}

// NewEditor creates an editor which mutates store. Formulas are evaluated with
// a clone of ctx; if ctx is nil, a default context is used.
func NewEditor(store *Store, ctx *Context) *Editor {
	if ctx == nil {
		ctx = NewContext()
	}
	return &Editor{store: store, ctx: ctx.Clone()}
}

// Input records a change of the pending input. The suggestion list is open
// exactly when the trimmed input is non-empty. If the list is open, the result
// is a ticket for looking up the trimmed input, to be passed back to
// Suggestions when the lookup completes. Until then the list is empty.
func (e *Editor) Input(pending string) (suggest.Ticket, bool) {
	q := strings.TrimSpace(pending)
	if q == "" {
		e.close()
		return suggest.Ticket{}, false
	}
	e.open = true
	e.list = nil
	e.highlight = 0
	return e.lookups.Begin(q), true
}

// Suggestions delivers the result of a lookup. Results for any ticket other
// than the most recent one are ignored, as are results arriving after the
// list was closed. The result reports whether the list was accepted.
func (e *Editor) Suggestions(tk suggest.Ticket, list []suggest.Suggestion) bool {
	if !e.open || !e.lookups.Current(tk) {
		return false
	}
	e.list = list
	// The ticket is spent; the list stays until the next Input.
	e.lookups.Cancel()
	if e.highlight >= len(list) {
		e.highlight = 0
	}
	return true
}

// Key applies an event given the current pending input. It returns the new
// pending input and whether the event was consumed. Events that are not
// consumed, such as backspace with pending input, are ordinary text editing
// for the caller to perform.
func (e *Editor) Key(ev Event, pending string) (string, bool) {
	switch ev.Key {
	case KeyEnter:
		if e.open && len(e.list) > 0 {
			e.commit(e.list[e.highlight])
			return "", true
		}
		if strings.TrimSpace(pending) == "" {
			return pending, false
		}
		e.store.Append(Classify(pending))
		e.close()
		return "", true
	case KeyOperator:
		if !IsOperator(ev.Op) {
			return pending, false
		}
		if strings.TrimSpace(pending) != "" {
			e.store.Append(ClassifyOperand(pending))
		}
		e.store.Append(OperatorToken(ev.Op))
		e.close()
		return "", true
	case KeyBackspace:
		if pending != "" || e.store.Len() == 0 {
			return pending, false
		}
		e.store.RemoveAt(e.store.Len() - 1)
		return "", true
	case KeyUp:
		if !e.open {
			return pending, false
		}
		if n := len(e.list); n > 0 {
			e.highlight = (e.highlight + n - 1) % n
		}
		return pending, true
	case KeyDown:
		if !e.open {
			return pending, false
		}
		if n := len(e.list); n > 0 {
			e.highlight = (e.highlight + 1) % n
		}
		return pending, true
	case KeyEscape:
		e.close()
		return pending, true
	case KeyClear:
		e.store.Clear()
		return pending, true
	default:
		return pending, false
	}
}

// Select commits suggestion i of the open list, as when it is clicked. The
// result reports whether i named a suggestion.
func (e *Editor) Select(i int) bool {
	if !e.open || i < 0 || i >= len(e.list) {
		return false
	}
	e.commit(e.list[i])
	return true
}

// Blur closes the suggestion list because focus moved elsewhere.
func (e *Editor) Blur() {
	e.close()
}

// Type replays text as keystrokes, starting from and returning pending input.
// Operator symbols are operator keystrokes and whitespace commits the pending
// input as though Enter were pressed. No suggestions are committed by Type
// unless they were already delivered.
func (e *Editor) Type(pending, text string) string {
	for _, r := range text {
		switch {
		case r < 0x80 && strings.IndexByte(Operators, byte(r)) >= 0:
			pending, _ = e.Key(OperatorKey(string(r)), pending)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if strings.TrimSpace(pending) != "" {
				pending, _ = e.Key(Event{Key: KeyEnter}, pending)
			}
		default:
			pending += string(r)
			e.Input(pending)
		}
	}
	return pending
}

// ErrNoReplacement is returned by Replace when there is neither a highlighted
// suggestion nor pending input to replace a token with.
var ErrNoReplacement = errors.New("formula: nothing to replace with")

// Replace overwrites token i with the highlighted suggestion if the list is
// open and non-empty, or else with the pending input classified as on Enter.
// It returns the new pending input.
func (e *Editor) Replace(i int, pending string) (string, error) {
	var tok Token
	switch {
	case e.open && len(e.list) > 0:
		s := e.list[e.highlight]
		tok = VariableToken(s.ID, s.Name)
	case strings.TrimSpace(pending) != "":
		tok = Classify(pending)
	default:
		return pending, ErrNoReplacement
	}
	if err := e.store.ReplaceAt(i, tok); err != nil {
		return pending, err
	}
	e.close()
	return "", nil
}

// Remove deletes token i. The result reports whether i named a token.
func (e *Editor) Remove(i int) bool {
	return e.store.RemoveAt(i)
}

func (e *Editor) commit(s suggest.Suggestion) {
	e.store.Append(VariableToken(s.ID, s.Name))
	e.close()
}

func (e *Editor) close() {
	e.open = false
	e.list = nil
	e.highlight = 0
	e.lookups.Cancel()
}

// Open reports whether the suggestion list is open.
func (e *Editor) Open() bool {
	return e.open
}

// Loading reports whether the open suggestion list is waiting for a lookup.
func (e *Editor) Loading() bool {
	_, waiting := e.lookups.Pending()
	return e.open && waiting
}

// SuggestionList returns the suggestions in the open list. The caller must
// not modify the returned slice.
func (e *Editor) SuggestionList() []suggest.Suggestion {
	return e.list
}

// Highlighted returns the index of the highlighted suggestion.
func (e *Editor) Highlighted() int {
	return e.highlight
}

// Formula returns the current token sequence.
func (e *Editor) Formula() []Token {
	return e.store.Snapshot()
}

// Store returns the store the editor mutates.
func (e *Editor) Store() *Store {
	return e.store
}

// Context returns the editor's evaluation context, which may be used to bind
// variable values.
func (e *Editor) Context() *Context {
	return e.ctx
}

// Result evaluates the current formula.
func (e *Editor) Result() Result {
	a, err := Parse(e.store.Snapshot())
	if err != nil {
		return Result{Err: err}
	}
	v := e.ctx.Eval(a)
	if v == nil {
		return Result{Err: e.ctx.Err()}
	}
	return Result{Value: new(big.Float).Copy(v)}
}

// Result is the outcome of evaluating a formula: a value, or an error which
// matches ErrUnevaluable.
type Result struct {
	Value *big.Float
	Err   error
}

// Evaluable reports whether the result holds a value.
func (r Result) Evaluable() bool {
	return r.Err == nil && r.Value != nil
}

// String formats the value in the shortest form that identifies it at its
// precision, or "Error" if the formula could not be evaluated.
func (r Result) String() string {
	if !r.Evaluable() {
		return "Error"
	}
	return r.Value.Text('g', -1)
}
