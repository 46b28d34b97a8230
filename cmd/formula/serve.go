package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/formula/internal/logger"
	"github.com/zephyrtronium/formula/suggest"
)

var (
	listenAddr string
	importFile string
)

// serveCmd serves a variable catalog in the format the editor consumes.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve an autocomplete endpoint from a variable catalog",
	Long: `Serve answers GET /autocomplete?query=... with the variables of a SQLite
catalog whose names contain the query. Without --catalog only the variables
given with --import are served, from memory.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVar(&importFile, "import", "", "JSON file of variables to add to the catalog first")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("listen") {
		cfg.Listen = listenAddr
	}
	log := logger.NewWriter(logger.ParseLevel(cfg.LogLevel), cmd.ErrOrStderr())

	p, closer, err := servedCatalog(cmd.Context(), cfg.CatalogPath, importFile)
	if err != nil {
		return err
	}
	defer closer.Close()
	if importFile != "" {
		log.Info("imported variables", "file", importFile)
	}

	l, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return err
	}
	srv := suggest.NewServer(p, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		if err := srv.Stop(); err != nil {
			log.Error("stopping server", "err", err)
		}
	}()

	if err := srv.Serve(l); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// servedCatalog opens the provider to serve: the SQLite catalog at path, or
// else an in-memory catalog. Variables read from the JSON file imports are
// added to it first.
func servedCatalog(ctx context.Context, path, imports string) (suggest.Provider, io.Closer, error) {
	var list []suggest.Suggestion
	if imports != "" {
		var err error
		list, err = readSuggestions(imports)
		if err != nil {
			return nil, nil, err
		}
	}
	if path == "" {
		return suggest.Catalog(list), io.NopCloser(nil), nil
	}
	cat, err := suggest.OpenSQLiteCatalog(path)
	if err != nil {
		return nil, nil, err
	}
	if err := cat.Add(ctx, list...); err != nil {
		cat.Close()
		return nil, nil, fmt.Errorf("importing %s: %w", imports, err)
	}
	return cat, cat, nil
}

// readSuggestions reads a JSON array of variables.
func readSuggestions(name string) ([]suggest.Suggestion, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	var list []suggest.Suggestion
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return list, nil
}
