package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTPProvider looks up suggestions from a remote autocomplete endpoint. It
// sends GET requests with the query text in the "query" parameter and expects
// a JSON array of objects with "id" and "name" fields. Responses are filtered
// locally, so the endpoint may return more than the matching entries.
type HTTPProvider struct {
	endpoint *url.URL
	client   *http.Client
}

// NewHTTPProvider creates a provider for the given endpoint. A non-positive
// timeout means no timeout beyond the lookup's context.
func NewHTTPProvider(endpoint string, timeout time.Duration) (*HTTPProvider, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid suggestion endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid suggestion endpoint %q: scheme must be http or https", endpoint)
	}
	c := &http.Client{}
	if timeout > 0 {
		c.Timeout = timeout
	}
	return &HTTPProvider{endpoint: u, client: c}, nil
}

// Lookup fetches suggestions for query.
func (p *HTTPProvider) Lookup(ctx context.Context, query string) ([]Suggestion, error) {
	u := *p.endpoint
	q := u.Query()
	q.Set("query", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("suggestion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("suggestion endpoint returned %s: %s", resp.Status, body)
	}

	var list []Suggestion
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode suggestions: %w", err)
	}
	return Filter(list, query), nil
}
