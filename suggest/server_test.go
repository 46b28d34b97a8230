package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerAutocomplete(t *testing.T) {
	s := NewServer(Catalog(testVars), nil)

	req := httptest.NewRequest(http.MethodGet, "/autocomplete?query=rev", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var got []Suggestion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, Filter(testVars, "rev"), got)
}

func TestServerAutocompleteEmpty(t *testing.T) {
	s := NewServer(Catalog(nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/autocomplete?query=zzz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestServerAutocompleteError(t *testing.T) {
	fail := ProviderFunc(func(ctx context.Context, query string) ([]Suggestion, error) {
		return nil, errors.New("database is locked")
	})
	s := NewServer(fail, nil)

	req := httptest.NewRequest(http.MethodGet, "/autocomplete?query=rev", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"lookup failed"}`, rec.Body.String())
}

func TestServerHealth(t *testing.T) {
	s := NewServer(Catalog(nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServerMethodNotAllowed(t *testing.T) {
	s := NewServer(Catalog(nil), nil)

	req := httptest.NewRequest(http.MethodPost, "/autocomplete", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// TestServerRoundTrip serves a catalog and queries it with HTTPProvider.
func TestServerRoundTrip(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewServer(Catalog(testVars), nil)
	done := make(chan error, 1)
	go func() { done <- s.Serve(l) }()

	p, err := NewHTTPProvider("http://"+l.Addr().String()+"/autocomplete", 5*time.Second)
	require.NoError(t, err)
	got, err := p.Lookup(context.Background(), "cost")
	require.NoError(t, err)
	assert.Equal(t, []Suggestion{{ID: "2", Name: "Cost"}}, got)

	require.NoError(t, s.Stop())
	assert.ErrorIs(t, <-done, http.ErrServerClosed)
}
