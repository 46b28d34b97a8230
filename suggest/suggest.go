// Package suggest resolves partially typed formula input to candidate
// variables.
package suggest

import (
	"context"
	"log/slog"
	"strings"
)

// Suggestion is a candidate variable.
type Suggestion struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Provider looks up suggestions for query text. Implementations return
// suggestions whose names contain the query case-insensitively, in the
// provider's order.
type Provider interface {
	Lookup(ctx context.Context, query string) ([]Suggestion, error)
}

// ProviderFunc adapts a function to a Provider.
type ProviderFunc func(ctx context.Context, query string) ([]Suggestion, error)

// Lookup calls f.
func (f ProviderFunc) Lookup(ctx context.Context, query string) ([]Suggestion, error) {
	return f(ctx, query)
}

// Filter returns the suggestions whose names contain query, ignoring case.
// The result is a new slice in the original order.
func Filter(list []Suggestion, query string) []Suggestion {
	q := strings.ToLower(query)
	r := make([]Suggestion, 0, len(list))
	for _, s := range list {
		if strings.Contains(strings.ToLower(s.Name), q) {
			r = append(r, s)
		}
	}
	return r
}

// Fetch looks up query with p. Lookup failures never reach the caller: they
// are logged and produce an empty list. A nil logger discards diagnostics.
func Fetch(ctx context.Context, p Provider, query string, log *slog.Logger) []Suggestion {
	if p == nil {
		return nil
	}
	r, err := p.Lookup(ctx, query)
	if err != nil {
		if log != nil {
			log.WarnContext(ctx, "suggestion lookup failed", "query", query, "err", err)
		}
		return nil
	}
	return r
}
