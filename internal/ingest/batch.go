package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fyrsmithlabs/kbflow/internal/document"
)

// BatchConfig holds directory-ingestion configuration.
type BatchConfig struct {
	// Extension selects which files are ingested (default ".pdf").
	Extension string `koanf:"extension"`
	// Language is the language hint applied to every document.
	Language string `koanf:"language"`
	// Concurrency caps parallel upserts; 0 means one task per file.
	Concurrency int `koanf:"concurrency"`
	// Options are processing hints applied to every document.
	Options document.ProcessingOptions `koanf:"-"`
}

// Batch ingests every matching file in a directory through the Coordinator.
type Batch struct {
	coordinator *Coordinator
	cfg         BatchConfig
	logger      *zap.Logger
}

// NewBatch creates a batch ingestor.
func NewBatch(coordinator *Coordinator, cfg BatchConfig, logger *zap.Logger) (*Batch, error) {
	if coordinator == nil {
		return nil, fmt.Errorf("coordinator is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.Extension == "" {
		cfg.Extension = ".pdf"
	}
	if !strings.HasPrefix(cfg.Extension, ".") {
		cfg.Extension = "." + cfg.Extension
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	return &Batch{
		coordinator: coordinator,
		cfg:         cfg,
		logger:      logger.Named("batch"),
	}, nil
}

// IngestDirectory upserts every file in dir whose extension matches the
// configured one (non-recursive) and returns per-file outcomes keyed by
// file name.
//
// The batch is fail-fast: files are upserted concurrently and the first
// failure fails the whole call with no partial result map, even for files
// that already completed. A directory with no matching files returns an
// empty map and no error.
func (b *Batch) IngestDirectory(ctx context.Context, dir string, wait bool) (map[string]Outcome, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDataDirNotFound, dir)
		}
		return nil, fmt.Errorf("stat data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDataDirNotFound, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing data directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), b.cfg.Extension) {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		b.logger.Info("no matching files", zap.String("dir", dir), zap.String("extension", b.cfg.Extension))
		return map[string]Outcome{}, nil
	}

	b.logger.Info("ingesting directory",
		zap.String("dir", dir),
		zap.Int("files", len(names)),
		zap.Bool("wait", wait))

	results := make(map[string]Outcome, len(names))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	if b.cfg.Concurrency > 0 {
		g.SetLimit(b.cfg.Concurrency)
	}

	for _, name := range names {
		g.Go(func() error {
			doc, err := document.New(dir, name, b.cfg.Language, b.cfg.Options)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			outcome, err := b.coordinator.Upsert(gctx, doc, wait)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			mu.Lock()
			results[name] = outcome
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
