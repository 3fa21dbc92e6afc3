package document

import (
	"path/filepath"
)

// ProcessingOptions are per-document hints forwarded to the remote service.
type ProcessingOptions struct {
	// InterpretTables enables server-side table interpretation.
	InterpretTables bool
	// BlanklineSplitter splits extracted text on blank lines.
	BlanklineSplitter bool
	// ExtractStrategy names a server-side extraction strategy ("" = default).
	ExtractStrategy string
	// SplitStrategy names a server-side split strategy ("" = default).
	SplitStrategy string
}

// Document is a local file staged for ingestion. It is immutable for the
// duration of one ingestion run; the fingerprint captures the file state at
// the moment it was built.
type Document struct {
	// Path is the validated absolute path of the file.
	Path string
	// DisplayName is the file's base name, used as the resource title.
	DisplayName string
	// Fingerprint is the change-detection token, also used as the slug.
	Fingerprint string
	// Language is the document language hint (e.g. "en").
	Language string
	// Options are processing hints for the remote service.
	Options ProcessingOptions
}

// New builds a Document from a file inside root. The path must resolve
// inside root and point at a regular file; validation happens before any
// network traffic.
func New(root, path, language string, opts ProcessingOptions) (*Document, error) {
	resolved, err := ResolveWithin(root, path)
	if err != nil {
		return nil, err
	}

	fingerprint, err := Fingerprint(resolved)
	if err != nil {
		return nil, err
	}

	return &Document{
		Path:        resolved,
		DisplayName: filepath.Base(resolved),
		Fingerprint: fingerprint,
		Language:    language,
		Options:     opts,
	}, nil
}

// Slug returns the remote lookup key for this document. Slug and
// fingerprint are deliberately the same value: an unchanged file always
// resolves to the same remote resource.
func (d *Document) Slug() string {
	return d.Fingerprint
}
