package formula

// Store is the ordered, mutable token sequence of a formula being built. The
// zero value is an empty formula. It is not safe to use a Store concurrently.
//
// Every mutation replaces the backing slice, so a slice returned by Snapshot
// is never changed by later mutations.
type Store struct {
	toks []Token
}

// NewStore creates a store holding a copy of toks.
func NewStore(toks ...Token) *Store {
	return &Store{toks: append([]Token(nil), toks...)}
}

// Append adds tok to the end of the formula.
func (s *Store) Append(tok Token) {
	n := make([]Token, len(s.toks), len(s.toks)+1)
	copy(n, s.toks)
	s.toks = append(n, tok)
}

// ReplaceAt overwrites the token at index i. If i is out of range, the
// formula is unchanged and the result is a *BoundsError.
func (s *Store) ReplaceAt(i int, tok Token) error {
	if i < 0 || i >= len(s.toks) {
		return &BoundsError{Index: i, Len: len(s.toks)}
	}
	n := append([]Token(nil), s.toks...)
	n[i] = tok
	s.toks = n
	return nil
}

// RemoveAt deletes the token at index i, shifting later tokens left. It
// returns false without changing anything if i is out of range.
func (s *Store) RemoveAt(i int) bool {
	if i < 0 || i >= len(s.toks) {
		return false
	}
	n := make([]Token, 0, len(s.toks)-1)
	n = append(n, s.toks[:i]...)
	s.toks = append(n, s.toks[i+1:]...)
	return true
}

// Clear empties the formula.
func (s *Store) Clear() {
	s.toks = nil
}

// Len returns the number of tokens in the formula.
func (s *Store) Len() int {
	return len(s.toks)
}

// Snapshot returns the current token sequence. The caller must not modify
// the returned slice.
func (s *Store) Snapshot() []Token {
	return s.toks[:len(s.toks):len(s.toks)]
}
