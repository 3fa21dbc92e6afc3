package ingest

import "errors"

// Outcome reports what one upsert did. Created and Uploaded are separate
// on purpose: a changed file is uploaded without being created, and an
// unchanged file is neither.
type Outcome struct {
	// ResourceID is the remote resource id the document resolved to.
	ResourceID string `json:"resource_id"`
	// Created is true only when the resource record was freshly created.
	Created bool `json:"created"`
	// Uploaded is true when content was actually pushed; false means the
	// fingerprint matched and the upload was skipped.
	Uploaded bool `json:"uploaded"`
}

var (
	// ErrPollTimeout is returned when a resource does not reach PROCESSED
	// before the polling deadline. The remote processing itself is not
	// cancelled.
	ErrPollTimeout = errors.New("timed out waiting for resource processing")

	// ErrDataDirNotFound is returned when the ingestion directory does not
	// exist or is not a directory.
	ErrDataDirNotFound = errors.New("data directory not found")
)
