// Package cli implements the recall command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/haasp-labs/recall/internal/adapters/driven/embedding/local"
	"github.com/haasp-labs/recall/internal/adapters/driven/embedding/ollama"
	"github.com/haasp-labs/recall/internal/adapters/driven/embedding/openai"
	"github.com/haasp-labs/recall/internal/adapters/driven/index/flat"
	"github.com/haasp-labs/recall/internal/adapters/driven/storage/sqlite"
	"github.com/haasp-labs/recall/internal/chunker"
	"github.com/haasp-labs/recall/internal/config"
	"github.com/haasp-labs/recall/internal/core/domain"
	"github.com/haasp-labs/recall/internal/core/ports/driven"
	"github.com/haasp-labs/recall/internal/core/ports/driving"
	"github.com/haasp-labs/recall/internal/core/services"
	"github.com/haasp-labs/recall/internal/logger"
)

// indexFileName is the vector index file inside the data directory.
const indexFileName = "vectors.idx"

var version = "0.1.0"

var (
	cfgFile     string
	dataDirFlag string
	verbose     bool
)

var (
	cfg           *config.Config
	ingestService driving.IngestService
	searchService driving.SearchService
	adminService  driving.AdminService

	closers []io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Local semantic search over your documents",
	Long: `recall chunks documents, embeds each chunk and indexes the vectors
so you can search your notes and files by meaning instead of keywords.

All state lives under ~/.recall by default; nothing leaves your machine
unless you configure a remote embedding provider.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default ~/.recall/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "",
		"data directory (default ~/.recall/data)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose logging")

	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	}
}

// ensureServices builds the engine and its adapters on first use. It is
// idempotent so commands can call it without coordination.
func ensureServices(ctx context.Context) error {
	if ingestService != nil {
		return nil
	}

	var err error
	cfg, err = loadConfig()
	if err != nil {
		return err
	}

	dataDir := cfg.Storage.DataDir
	if dataDirFlag != "" {
		dataDir = dataDirFlag
	}
	if dataDir == "" {
		dataDir, err = config.DefaultDataDir()
		if err != nil {
			return err
		}
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening chunk store: %w", err)
	}
	closers = append(closers, store)

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	closers = append(closers, embedder)

	index, err := flat.New(filepath.Join(dataDir, indexFileName), embedder.Dimensions())
	if err != nil {
		return fmt.Errorf("opening vector index: %w", err)
	}
	closers = append(closers, index)

	c := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.Size),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)

	engine := services.NewEngine(c, embedder, index, store)

	// Repair any half-committed ingest from a previous crash before
	// serving requests.
	if err := engine.Reconcile(ctx); err != nil {
		if errors.Is(err, domain.ErrStoreCorrupted) {
			return fmt.Errorf("%w\n\nthe chunk store references vectors the index does not have; "+
				"run 'recall reset' to start over", err)
		}
		return fmt.Errorf("reconciling stores: %w", err)
	}

	ingestService = engine
	searchService = engine
	adminService = engine
	return nil
}

// loadConfig reads the config file named by --config, falling back to
// the default path.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

// newEmbedder selects the embedding provider from the config.
func newEmbedder(cfg *config.Config) (driven.EmbeddingService, error) {
	switch cfg.Embedding.Provider {
	case "", config.ProviderLocal:
		return local.NewEmbeddingService(cfg.Embedding.Dimensions), nil

	case config.ProviderOllama:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		}), nil

	case config.ProviderOpenAI:
		return openai.NewEmbeddingService(openai.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})

	default:
		return nil, fmt.Errorf("unknown embedding provider %q (want local, ollama or openai)",
			cfg.Embedding.Provider)
	}
}

// closeServices releases the adapters in reverse construction order.
func closeServices() {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			logger.Warn("closing resources: %v", err)
		}
	}
	closers = nil
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	defer closeServices()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
