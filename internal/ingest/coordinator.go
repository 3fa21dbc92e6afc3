package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/kbflow/internal/document"
	"github.com/fyrsmithlabs/kbflow/internal/kb"
)

// Coordinator performs idempotent single-document upserts.
//
// It never owns remote resource state; it only reads and writes it through
// the gateway. The fingerprint stored in the resource's extra metadata is
// what lets the next run short-circuit.
type Coordinator struct {
	gateway kb.Gateway
	poller  *Poller
	logger  *zap.Logger
}

// NewCoordinator creates an upsert coordinator. The poller is only needed
// when callers request synchronous waits.
func NewCoordinator(gateway kb.Gateway, poller *Poller, logger *zap.Logger) (*Coordinator, error) {
	if gateway == nil {
		return nil, fmt.Errorf("gateway is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Coordinator{
		gateway: gateway,
		poller:  poller,
		logger:  logger.Named("ingest"),
	}, nil
}

// Upsert uploads doc to the knowledge base unless its fingerprint already
// matches the remote copy.
//
// Lookup misses create the resource first; any other lookup failure is
// fatal to this document and propagates unchanged. When wait is true the
// call blocks until the resource reaches PROCESSED (or the poll deadline
// elapses) after a real upload; fingerprint-matched skips return
// immediately.
func (c *Coordinator) Upsert(ctx context.Context, doc *document.Document, wait bool) (Outcome, error) {
	slug := doc.Slug()
	outcome := Outcome{}

	res, err := c.gateway.GetBySlug(ctx, slug, kb.ShowBasic, kb.ShowExtra)
	switch {
	case err == nil:
		outcome.ResourceID = res.ID
		if res.Fingerprint() == doc.Fingerprint {
			c.logger.Debug("fingerprint unchanged, skipping upload",
				zap.String("file", doc.DisplayName),
				zap.String("rid", res.ID))
			upsertsTotal.WithLabelValues("skipped").Inc()
			return outcome, nil
		}

	case kb.IsNotFound(err):
		created, createErr := c.gateway.Create(ctx, doc.DisplayName, slug)
		if createErr != nil {
			return Outcome{}, fmt.Errorf("creating resource for %s: %w", doc.DisplayName, createErr)
		}
		outcome.ResourceID = created.ID
		outcome.Created = true

	default:
		return Outcome{}, fmt.Errorf("looking up slug %s: %w", slug, err)
	}

	uploadReq := kb.UploadRequest{
		Path:              doc.Path,
		Filename:          doc.DisplayName,
		MimeType:          mimeOverride(doc.Path),
		Language:          doc.Language,
		InterpretTables:   doc.Options.InterpretTables,
		BlanklineSplitter: doc.Options.BlanklineSplitter,
		ExtractStrategy:   doc.Options.ExtractStrategy,
		SplitStrategy:     doc.Options.SplitStrategy,
	}
	if err := c.gateway.Upload(ctx, outcome.ResourceID, uploadReq); err != nil {
		return Outcome{}, fmt.Errorf("uploading %s: %w", doc.DisplayName, err)
	}

	// Persist the fingerprint so the next run can short-circuit.
	if err := c.gateway.UpdateExtra(ctx, outcome.ResourceID, map[string]string{
		kb.FingerprintKey: doc.Fingerprint,
	}); err != nil {
		return Outcome{}, fmt.Errorf("storing fingerprint for %s: %w", doc.DisplayName, err)
	}
	outcome.Uploaded = true

	if outcome.Created {
		upsertsTotal.WithLabelValues("created").Inc()
	} else {
		upsertsTotal.WithLabelValues("updated").Inc()
	}
	c.logger.Info("ingested document",
		zap.String("file", doc.DisplayName),
		zap.String("rid", outcome.ResourceID),
		zap.Bool("created", outcome.Created))

	if wait {
		if c.poller == nil {
			return outcome, fmt.Errorf("wait requested but no poller configured")
		}
		if _, err := c.poller.WaitUntilReady(ctx, outcome.ResourceID); err != nil {
			return outcome, err
		}
	}

	return outcome, nil
}

// mimeOverride forces the content type for extensions the remote service
// would otherwise misdetect from raw bytes.
func mimeOverride(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return "application/pdf"
	}
	return ""
}
