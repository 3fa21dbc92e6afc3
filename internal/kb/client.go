package kb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultRateLimit = 10 // requests per second
	defaultBurst     = 20

	// maxErrorBodyBytes caps how much of an error response we keep.
	maxErrorBodyBytes = 512
)

// ClientConfig holds knowledge-base client configuration.
type ClientConfig struct {
	// URL is the base URL of the knowledge box, including its path.
	URL string `koanf:"url"`
	// APIKey authenticates requests. Sent as a bearer token.
	APIKey string `koanf:"api_key"`
	// Timeout bounds each HTTP request.
	Timeout time.Duration `koanf:"timeout"`
	// RateLimit caps requests per second (0 = default).
	RateLimit float64 `koanf:"rate_limit"`
	// RateBurst is the limiter burst size (0 = default).
	RateBurst int `koanf:"rate_burst"`
}

// Client is the HTTP implementation of Gateway.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

var _ Gateway = (*Client)(nil)

// NewClient creates a knowledge-base client.
func NewClient(cfg ClientConfig, logger *zap.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("kb url is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = defaultBurst
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(limit), burst),
		logger:  logger.Named("kb"),
	}, nil
}

// GetBySlug implements Gateway.
func (c *Client) GetBySlug(ctx context.Context, slug string, show ...ShowField) (*Resource, error) {
	path := "/slug/" + url.PathEscape(slug) + showQuery(show)
	var res Resource
	if err := c.doJSON(ctx, http.MethodGet, "get_by_slug", path, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Get implements Gateway.
func (c *Client) Get(ctx context.Context, rid string, show ...ShowField) (*Resource, error) {
	path := "/resource/" + url.PathEscape(rid) + showQuery(show)
	var res Resource
	if err := c.doJSON(ctx, http.MethodGet, "get", path, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Create implements Gateway.
func (c *Client) Create(ctx context.Context, title, slug string) (*Resource, error) {
	body := map[string]string{"title": title, "slug": slug}
	var res Resource
	if err := c.doJSON(ctx, http.MethodPost, "create", "/resources", body, &res); err != nil {
		return nil, err
	}
	if res.ID == "" {
		return nil, &RemoteError{Op: "create", Message: "response missing resource id"}
	}
	c.logger.Debug("created resource", zap.String("rid", res.ID), zap.String("slug", slug))
	return &res, nil
}

// Upload implements Gateway.
func (c *Client) Upload(ctx context.Context, rid string, req UploadRequest) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	content, err := os.ReadFile(req.Path)
	if err != nil {
		return fmt.Errorf("reading upload file: %w", err)
	}

	filename := req.Filename
	if filename == "" {
		filename = filepath.Base(req.Path)
	}
	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	uploadURL := c.baseURL + "/resource/" + url.PathEscape(rid) + "/file/file/upload"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("building upload request: %w", err)
	}
	c.setAuth(httpReq)
	httpReq.Header.Set("Content-Type", mimeType)
	httpReq.Header.Set("X-Filename", filename)
	httpReq.Header.Set("X-Language", req.Language)
	httpReq.Header.Set("X-Interpret-Tables", strconv.FormatBool(req.InterpretTables))
	httpReq.Header.Set("X-Blankline-Splitter", strconv.FormatBool(req.BlanklineSplitter))
	if req.ExtractStrategy != "" {
		httpReq.Header.Set("X-Extract-Strategy", req.ExtractStrategy)
	}
	if req.SplitStrategy != "" {
		httpReq.Header.Set("X-Split-Strategy", req.SplitStrategy)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &RemoteError{Op: "upload", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return remoteErrorFromResponse("upload", resp)
	}

	c.logger.Debug("uploaded content",
		zap.String("rid", rid),
		zap.String("filename", filename),
		zap.Int("bytes", len(content)))
	return nil
}

// UpdateExtra implements Gateway.
func (c *Client) UpdateExtra(ctx context.Context, rid string, metadata map[string]string) error {
	body := map[string]any{
		"extra": map[string]any{"metadata": metadata},
	}
	path := "/resource/" + url.PathEscape(rid)
	return c.doJSON(ctx, http.MethodPatch, "update_extra", path, body, nil)
}

// searchBody is the wire form shared by /search and /find. MinScore is a
// scalar for single floors and an object for per-feature floors.
type searchBody struct {
	Query    string    `json:"query"`
	TopK     int       `json:"top_k"`
	Features []Feature `json:"features"`
	MinScore any       `json:"min_score,omitempty"`
}

// Search implements Gateway.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResults, error) {
	body := searchBody{
		Query:    req.Query,
		TopK:     req.TopK,
		Features: req.Features,
	}
	if len(req.MinScoreByFeature) > 0 {
		body.MinScore = req.MinScoreByFeature
	} else if req.MinScore != nil {
		body.MinScore = *req.MinScore
	}

	var results SearchResults
	if err := c.doJSON(ctx, http.MethodPost, "search", "/search", body, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// Find implements Gateway.
func (c *Client) Find(ctx context.Context, req FindRequest) (*FindResults, error) {
	body := searchBody{
		Query:    req.Query,
		TopK:     req.TopK,
		Features: req.Features,
	}
	if req.MinScore != nil {
		body.MinScore = *req.MinScore
	}

	var results FindResults
	if err := c.doJSON(ctx, http.MethodPost, "find", "/find", body, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// doJSON performs one JSON request/response round trip.
func (c *Client) doJSON(ctx context.Context, method, op, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building %s request: %w", op, err)
	}
	c.setAuth(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RemoteError{Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return remoteErrorFromResponse(op, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RemoteError{Op: op, StatusCode: resp.StatusCode, Message: "decoding response: " + err.Error()}
	}
	return nil
}

func (c *Client) setAuth(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func showQuery(show []ShowField) string {
	if len(show) == 0 {
		return ""
	}
	values := url.Values{}
	for _, s := range show {
		values.Add("show", string(s))
	}
	return "?" + values.Encode()
}

func remoteErrorFromResponse(op string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	return &RemoteError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(snippet)),
	}
}
