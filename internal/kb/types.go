package kb

// ProcessingStatus is the remote service's lifecycle state for a resource.
type ProcessingStatus string

const (
	// StatusPending indicates the resource is queued or being processed.
	StatusPending ProcessingStatus = "PENDING"
	// StatusProcessed indicates extraction and indexing completed.
	StatusProcessed ProcessingStatus = "PROCESSED"
	// StatusError indicates remote processing failed.
	StatusError ProcessingStatus = "ERROR"
)

// ShowField selects which resource sections a lookup returns.
type ShowField string

const (
	// ShowBasic returns id, slug, title and processing metadata.
	ShowBasic ShowField = "basic"
	// ShowExtra additionally returns caller-owned extra metadata.
	ShowExtra ShowField = "extra"
)

// Feature selects a retrieval signal for /search and /find requests.
type Feature string

const (
	// FeatureSemantic retrieves by vector similarity.
	FeatureSemantic Feature = "semantic"
	// FeatureFulltext retrieves by BM25 lexical scoring.
	FeatureFulltext Feature = "fulltext"
	// FeatureKeyword retrieves by keyword ranking (used by /find).
	FeatureKeyword Feature = "keyword"
	// FeatureBM25 is the per-feature min-score key for lexical scoring.
	FeatureBM25 Feature = "bm25"
)

// Resource is the remote service's unit of stored, processed content.
//
// The ID is assigned by the service and immutable once created. The Slug is
// the deterministic lookup key derived from the document fingerprint.
type Resource struct {
	ID       string           `json:"id"`
	Slug     string           `json:"slug"`
	Title    string           `json:"title"`
	Metadata ResourceMetadata `json:"metadata"`
	Extra    *Extra           `json:"extra,omitempty"`
}

// ResourceMetadata holds service-owned resource state.
type ResourceMetadata struct {
	Status ProcessingStatus `json:"status"`
}

// Extra holds caller-owned metadata persisted with a resource.
type Extra struct {
	Metadata map[string]string `json:"metadata"`
}

// Fingerprint returns the ingest fingerprint stored in extra metadata,
// or "" when none was persisted.
func (r *Resource) Fingerprint() string {
	if r.Extra == nil {
		return ""
	}
	return r.Extra.Metadata[FingerprintKey]
}

// FingerprintKey is the extra-metadata key under which the ingest
// fingerprint is persisted after a successful upload.
const FingerprintKey = "ingest_fingerprint"

// UploadRequest describes a content upload to an existing resource.
type UploadRequest struct {
	// Path is the local file to upload.
	Path string
	// Filename is the name reported to the service. Defaults to the base
	// name of Path.
	Filename string
	// MimeType overrides content-type detection when non-empty.
	MimeType string
	// Language is the document language hint (e.g. "en").
	Language string
	// InterpretTables asks the service to run table interpretation.
	InterpretTables bool
	// BlanklineSplitter splits extracted text on blank lines.
	BlanklineSplitter bool
	// ExtractStrategy names a server-side extraction strategy. Omitted
	// when empty.
	ExtractStrategy string
	// SplitStrategy names a server-side split strategy. Omitted when empty.
	SplitStrategy string
}

// SearchRequest is a /search request combining one or more features.
//
// MinScore applies a single scalar floor across all features. For
// per-feature floors (hybrid queries) use MinScoreByFeature instead; when
// both are set, MinScoreByFeature wins.
type SearchRequest struct {
	Query             string
	TopK              int
	Features          []Feature
	MinScore          *float64
	MinScoreByFeature map[Feature]float64
}

// RawHit is one sentence- or fulltext-level match from /search.
type RawHit struct {
	RID   string  `json:"rid"`
	Field string  `json:"field"`
	Index int     `json:"index"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// ResultList wraps one feature's hits in a /search response.
type ResultList struct {
	Results []RawHit `json:"results"`
}

// SearchResults is the /search response body.
type SearchResults struct {
	Sentences ResultList `json:"sentences"`
	Fulltext  ResultList `json:"fulltext"`
}

// FindRequest is a /find request; the service fuses the requested features
// into a single ranking.
type FindRequest struct {
	Query    string
	TopK     int
	Features []Feature
	MinScore *float64
}

// FindParagraph is one paragraph-level match from /find. Order is the
// paragraph's position in the server's fused ranking.
type FindParagraph struct {
	Score float64 `json:"score"`
	Text  string  `json:"text"`
	Order int     `json:"order"`
}

// FindField groups paragraphs of one document field.
type FindField struct {
	Paragraphs map[string]FindParagraph `json:"paragraphs"`
}

// FindResource groups fields of one matched resource.
type FindResource struct {
	Fields map[string]FindField `json:"fields"`
}

// FindResults is the /find response body.
type FindResults struct {
	Resources map[string]FindResource `json:"resources"`
}
