package suggest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCatalog(t *testing.T) *SQLiteCatalog {
	t.Helper()
	c, err := OpenSQLiteCatalog(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSQLiteCatalogLookup(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()
	require.NoError(t, c.Add(ctx, testVars...))

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"lower", "rev", []string{"1", "3", "4"}},
		{"upper", "REVENUE", []string{"1", "3"}},
		{"one", "cost", []string{"2"}},
		{"none", "xyz", nil},
		{"all", "", []string{"1", "2", "3", "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Lookup(ctx, tt.query)
			require.NoError(t, err)
			var ids []string
			for _, s := range got {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSQLiteCatalogUnicode(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()
	require.NoError(t, c.Add(ctx,
		Suggestion{ID: "u1", Name: "Ärger"},
		Suggestion{ID: "u2", Name: "Umsatz"},
	))
	got, err := c.Lookup(ctx, "äR")
	require.NoError(t, err)
	assert.Equal(t, []Suggestion{{ID: "u1", Name: "Ärger"}}, got)
}

func TestSQLiteCatalogUpsert(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()
	require.NoError(t, c.Add(ctx, Suggestion{ID: "1", Name: "Revenue"}, Suggestion{ID: "2", Name: "Cost"}))
	require.NoError(t, c.Add(ctx, Suggestion{ID: "1", Name: "Gross revenue"}))

	got, err := c.Lookup(ctx, "")
	require.NoError(t, err)
	// Renaming keeps the original position.
	assert.Equal(t, []Suggestion{{ID: "1", Name: "Gross revenue"}, {ID: "2", Name: "Cost"}}, got)
}

func TestSQLiteCatalogPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.db")
	ctx := context.Background()

	c, err := OpenSQLiteCatalog(path)
	require.NoError(t, err)
	require.NoError(t, c.Add(ctx, testVars...))
	require.NoError(t, c.Close())

	c, err = OpenSQLiteCatalog(path)
	require.NoError(t, err)
	defer c.Close()
	got, err := c.Lookup(ctx, "net")
	require.NoError(t, err)
	assert.Equal(t, []Suggestion{{ID: "3", Name: "Net revenue"}}, got)
}

func TestSQLiteCatalogCanceled(t *testing.T) {
	c := openTestCatalog(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Lookup(ctx, "rev")
	assert.Error(t, err)
	assert.Error(t, c.Add(ctx, testVars...))
}
