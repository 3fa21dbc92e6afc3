package kb

import "context"

// Gateway is the knowledge-base service contract consumed by the ingest
// and search layers. The HTTP Client is the production implementation;
// tests substitute fakes.
type Gateway interface {
	// GetBySlug looks up a resource by slug. Returns ErrNotFound when no
	// resource has that slug.
	GetBySlug(ctx context.Context, slug string, show ...ShowField) (*Resource, error)

	// Get fetches a resource by id. Returns ErrNotFound for unknown ids.
	Get(ctx context.Context, rid string, show ...ShowField) (*Resource, error)

	// Create registers a new empty resource and returns it with its
	// service-assigned id.
	Create(ctx context.Context, title, slug string) (*Resource, error)

	// Upload pushes file content to an existing resource. The service
	// re-processes the resource asynchronously afterwards.
	Upload(ctx context.Context, rid string, req UploadRequest) error

	// UpdateExtra merges the given keys into the resource's extra metadata.
	UpdateExtra(ctx context.Context, rid string, metadata map[string]string) error

	// Search executes a multi-feature /search query returning sentence
	// and fulltext hits separately.
	Search(ctx context.Context, req SearchRequest) (*SearchResults, error)

	// Find executes a server-side fused /find query returning paragraphs
	// grouped by resource and field.
	Find(ctx context.Context, req FindRequest) (*FindResults, error)
}
