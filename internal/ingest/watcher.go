package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/kbflow/internal/document"
)

// Watcher re-ingests files in the data directory as they appear or change.
//
// Events for non-matching extensions are ignored. Upsert failures are
// logged and counted; the watcher keeps running.
type Watcher struct {
	coordinator *Coordinator
	dir         string
	extension   string
	language    string
	options     document.ProcessingOptions
	watcher     *fsnotify.Watcher
	logger      *zap.Logger
	stop        chan struct{}
	done        chan struct{}
}

// NewWatcher creates a data-directory watcher reusing the batch settings.
func NewWatcher(coordinator *Coordinator, dir string, cfg BatchConfig, logger *zap.Logger) (*Watcher, error) {
	if coordinator == nil {
		return nil, fmt.Errorf("coordinator is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating filesystem watcher: %w", err)
	}

	extension := cfg.Extension
	if extension == "" {
		extension = ".pdf"
	}
	language := cfg.Language
	if language == "" {
		language = "en"
	}

	return &Watcher{
		coordinator: coordinator,
		dir:         dir,
		extension:   extension,
		language:    language,
		options:     cfg.Options,
		watcher:     fsWatcher,
		logger:      logger.Named("watcher"),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}, nil
}

// Start begins watching the data directory in a background goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	w.logger.Info("watching data directory",
		zap.String("dir", w.dir),
		zap.String("extension", w.extension))

	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	select {
	case <-w.stop:
		return
	default:
		close(w.stop)
		_ = w.watcher.Close()
		<-w.done
	}
}

// processEvents handles filesystem events until stopped.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.handleFileChange(ctx, event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

// handleFileChange re-ingests one changed file.
func (w *Watcher) handleFileChange(ctx context.Context, path string) {
	if !strings.EqualFold(filepath.Ext(path), w.extension) {
		return
	}

	doc, err := document.New(w.dir, filepath.Base(path), w.language, w.options)
	if err != nil {
		// Partially written or already-removed files show up here.
		w.logger.Debug("skipping changed file", zap.String("path", path), zap.Error(err))
		return
	}

	outcome, err := w.coordinator.Upsert(ctx, doc, false)
	if err != nil {
		watcherEventsTotal.WithLabelValues("error").Inc()
		w.logger.Warn("re-ingestion failed", zap.String("file", doc.DisplayName), zap.Error(err))
		return
	}

	watcherEventsTotal.WithLabelValues("ok").Inc()
	w.logger.Info("re-ingested changed file",
		zap.String("file", doc.DisplayName),
		zap.String("rid", outcome.ResourceID),
		zap.Bool("uploaded", outcome.Uploaded))
}
