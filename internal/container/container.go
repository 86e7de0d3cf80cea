// Package container wires the application's dependencies from configuration.
package container

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"kakeibo/internal/categorizer"
	"kakeibo/internal/config"
	"kakeibo/internal/importer"
	"kakeibo/internal/ledger"
	"kakeibo/internal/logging"
	"kakeibo/internal/metrics"
	"kakeibo/internal/store"
	"kakeibo/internal/store/postgres"
	"kakeibo/internal/textencoding"
)

// Options selects the storage backend.
type Options struct {
	// DryRun keeps transactions in memory and reads categories from a YAML
	// file instead of connecting to PostgreSQL.
	DryRun bool
	// CategoriesFile overrides categories.file for dry runs.
	CategoriesFile string
	// Logger overrides the logger built from configuration.
	Logger logging.Logger
}

// Container holds all application dependencies. It is immutable after
// creation; fields are reached through getters.
type Container struct {
	logger   logging.Logger
	config   *config.Config
	pool     *pgxpool.Pool
	store    store.Store
	importer *importer.Service
	ledger   *ledger.Service
	metrics  *metrics.Metrics
}

// NewContainer creates and wires all application dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, opts Options) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	logger := opts.Logger
	if logger == nil {
		logger = config.NewLogger(cfg)
	}

	var (
		pool *pgxpool.Pool
		st   store.Store
	)
	if opts.DryRun {
		file := opts.CategoriesFile
		if file == "" {
			file = cfg.Categories.File
		}
		st = store.Compose(store.NewMemoryStore(), store.NewYAMLCategoryStore(file, logger))
		logger.Info("Using in-memory store", logging.F(logging.FieldFile, file))
	} else {
		var err error
		pool, err = postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		st = postgres.New(pool)
	}

	m := metrics.New()
	imp := importer.New(st,
		textencoding.NewNormalizer(cfg.Encoding.MinConfidence, logger),
		categorizer.NewKeywordClassifier(logger),
		logger).WithRecorder(m)

	logger.Debug("Container initialized", logging.F("dry_run", opts.DryRun))

	return &Container{
		logger:   logger,
		config:   cfg,
		pool:     pool,
		store:    st,
		importer: imp,
		ledger:   ledger.New(st, logger),
		metrics:  m,
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the persistence collaborator.
func (c *Container) GetStore() store.Store {
	return c.store
}

// GetPool returns the database pool, or nil in dry-run mode.
func (c *Container) GetPool() *pgxpool.Pool {
	return c.pool
}

// GetImporter returns the import pipeline.
func (c *Container) GetImporter() *importer.Service {
	return c.importer
}

// GetLedger returns the category and transaction service.
func (c *Container) GetLedger() *ledger.Service {
	return c.ledger
}

// GetMetrics returns the Prometheus metrics.
func (c *Container) GetMetrics() *metrics.Metrics {
	return c.metrics
}

// Close releases the database pool.
func (c *Container) Close() error {
	if c.pool != nil {
		c.pool.Close()
	}
	c.logger.Debug("Container closed")
	return nil
}
