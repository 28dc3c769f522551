package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pricescout/pricescout/internal/config"
	"github.com/pricescout/pricescout/internal/notify"
	"github.com/pricescout/pricescout/internal/resilience"
	"github.com/pricescout/pricescout/internal/search"
	"github.com/pricescout/pricescout/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "pricescout",
	Short: "Compare product prices across Indian online stores",
	Long:  "Looks up a product by name, URL, or barcode and compares prices across major e-commerce platforms, with local search history and country-aware price display.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// initStore opens the local history/preferences database and runs migrations.
func initStore(cmd *cobra.Command) (*store.SQLiteStore, error) {
	st, err := store.NewSQLite(cfg.Store.Path, notify.NewBus())
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(cmd.Context()); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// initSearch builds the backend client from config.
func initSearch() *search.Service {
	return search.New(cfg.Backend.BaseURL,
		search.WithCacheTTL(cacheTTL(cfg)),
		search.WithCacheSize(cfg.Cache.MaxEntries),
		search.WithRetry(retryPolicy(cfg)),
	)
}

func cacheTTL(c *config.Config) time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

func retryPolicy(c *config.Config) resilience.RetryConfig {
	return resilience.FromRetryConfig(c.Retry.MaxAttempts, c.Retry.InitialBackoffMs, c.Retry.RetryOnEmpty)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
