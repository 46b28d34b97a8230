package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/formula/suggest"
)

// execute runs the root command with args and returns its standard output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	// Flags keep their values between executions of the same command.
	endpoint, catalog, prec, logLevel = "", "", 0, ""
	evalIn, evalVerb, evalGiven, evalEcho, evalResolve = "", "%g", nil, false, false
	for _, fs := range []*pflag.FlagSet{rootCmd.PersistentFlags(), evalCmd.Flags()} {
		fs.VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}
	var out, errs bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errs)
	rootCmd.SetIn(strings.NewReader(stdin))
	cfg := filepath.Join(t.TempDir(), "config.json")
	rootCmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEvalArgs(t *testing.T) {
	out, err := execute(t, "", "eval", "2+3*4", "1/0", "(1+2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "14", lines[0])
	assert.Equal(t, "2: 0 outside domain of /", lines[1])
	assert.Contains(t, lines[2], "(")
}

func TestEvalStdin(t *testing.T) {
	out, err := execute(t, "1 + 1\n\n2 ^ 10\n", "eval")
	require.NoError(t, err)
	assert.Equal(t, "2\n1024\n", out)
}

func TestEvalFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(name, []byte("7*6\n"), 0o644))
	out, err := execute(t, "", "eval", "--in", name)
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)
}

func TestEvalEchoFormat(t *testing.T) {
	out, err := execute(t, "", "eval", "--echo", "--fmt", "%.2f", "2+3*4")
	require.NoError(t, err)
	assert.Equal(t, "([2] + [(3) * (4)]) : 14.00\n", out)
}

func TestEvalGiven(t *testing.T) {
	_, err := execute(t, "", "eval", "--given", "x", "1")
	assert.Error(t, err)
	_, err = execute(t, "", "eval", "--given", "x=*", "1")
	assert.Error(t, err)
}

func TestEvalResolve(t *testing.T) {
	dir := t.TempDir()
	vars := filepath.Join(dir, "vars.json")
	require.NoError(t, os.WriteFile(vars, []byte(`[{"id":"1","name":"Revenue"},{"id":"2","name":"Cost"}]`), 0o644))
	catalog := filepath.Join(dir, "catalog.db")

	list, err := readSuggestions(vars)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// Unresolved words are text, which cannot be evaluated.
	out, err := execute(t, "", "--catalog", catalog, "eval", "--given", "1=10", "--given", "2=4", "revenue-cost")
	require.NoError(t, err)
	assert.Contains(t, out, "is not a number")

	cat, err := suggest.OpenSQLiteCatalog(catalog)
	require.NoError(t, err)
	require.NoError(t, cat.Add(t.Context(), list...))
	require.NoError(t, cat.Close())

	out, err = execute(t, "", "--catalog", catalog, "eval", "--resolve", "--given", "1=10", "--given", "2=4", "revenue-cost")
	require.NoError(t, err)
	assert.Equal(t, "6\n", out)
}

func TestEvalSignedExponent(t *testing.T) {
	out, err := execute(t, "", "eval", "1e5", "1e-5")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "100000", lines[0])
	assert.Contains(t, lines[1], "is not a number")
}

func TestServedCatalog(t *testing.T) {
	dir := t.TempDir()
	vars := filepath.Join(dir, "vars.json")
	require.NoError(t, os.WriteFile(vars, []byte(`[{"id":"1","name":"Revenue"},{"id":"2","name":"Cost"}]`), 0o644))

	p, closer, err := servedCatalog(t.Context(), "", vars)
	require.NoError(t, err)
	require.IsType(t, suggest.Catalog{}, p)
	got, err := p.Lookup(t.Context(), "rev")
	require.NoError(t, err)
	assert.Equal(t, []suggest.Suggestion{{ID: "1", Name: "Revenue"}}, got)
	require.NoError(t, closer.Close())

	p, closer, err = servedCatalog(t.Context(), "", "")
	require.NoError(t, err)
	got, err = p.Lookup(t.Context(), "rev")
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, closer.Close())

	db := filepath.Join(dir, "catalog.db")
	p, closer, err = servedCatalog(t.Context(), db, vars)
	require.NoError(t, err)
	require.IsType(t, &suggest.SQLiteCatalog{}, p)
	got, err = p.Lookup(t.Context(), "co")
	require.NoError(t, err)
	assert.Equal(t, []suggest.Suggestion{{ID: "2", Name: "Cost"}}, got)
	require.NoError(t, closer.Close())

	_, _, err = servedCatalog(t.Context(), "", filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestLoadConfigPrecision(t *testing.T) {
	_, err := execute(t, "", "eval", "--prec", "0", "1")
	assert.Error(t, err)
}
