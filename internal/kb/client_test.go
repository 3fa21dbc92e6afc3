package kb

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{
		URL:    server.URL,
		APIKey: "test-key",
	}, zap.NewNop())
	require.NoError(t, err)
	return client, server
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := NewClient(ClientConfig{}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url is required")
}

func TestNewClient_RequiresLogger(t *testing.T) {
	_, err := NewClient(ClientConfig{URL: "http://localhost"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logger is required")
}

func TestGetBySlug(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/slug/report-1700000000", r.URL.Path)
		assert.Equal(t, []string{"basic", "extra"}, r.URL.Query()["show"])
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(Resource{
			ID:       "rid-1",
			Slug:     "report-1700000000",
			Metadata: ResourceMetadata{Status: StatusProcessed},
			Extra:    &Extra{Metadata: map[string]string{FingerprintKey: "report-1700000000"}},
		})
	}))

	res, err := client.GetBySlug(context.Background(), "report-1700000000", ShowBasic, ShowExtra)
	require.NoError(t, err)
	assert.Equal(t, "rid-1", res.ID)
	assert.Equal(t, StatusProcessed, res.Metadata.Status)
	assert.Equal(t, "report-1700000000", res.Fingerprint())
}

func TestGetBySlug_NotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Resource does not exist", http.StatusNotFound)
	}))

	_, err := client.GetBySlug(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestGetBySlug_RemoteError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend unavailable", http.StatusBadGateway)
	}))

	_, err := client.GetBySlug(context.Background(), "any")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusBadGateway, remoteErr.StatusCode)
	assert.Equal(t, "backend unavailable", remoteErr.Message)
}

func TestCreate(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/resources", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "report.pdf", body["title"])
		assert.Equal(t, "report-1700000000", body["slug"])

		_ = json.NewEncoder(w).Encode(Resource{ID: "rid-new", Slug: body["slug"]})
	}))

	res, err := client.Create(context.Background(), "report.pdf", "report-1700000000")
	require.NoError(t, err)
	assert.Equal(t, "rid-new", res.ID)
}

func TestCreate_MissingID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))

	_, err := client.Create(context.Background(), "t", "s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing resource id")
}

func TestUpload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7 content"), 0o600))

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/resource/rid-1/file/file/upload", r.URL.Path)
		assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
		assert.Equal(t, "report.pdf", r.Header.Get("X-Filename"))
		assert.Equal(t, "en", r.Header.Get("X-Language"))
		assert.Equal(t, "true", r.Header.Get("X-Interpret-Tables"))
		assert.Equal(t, "false", r.Header.Get("X-Blankline-Splitter"))
		assert.Equal(t, "PARAGRAPH", r.Header.Get("X-Split-Strategy"))
		assert.Empty(t, r.Header.Get("X-Extract-Strategy"))

		content, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.7 content", string(content))

		w.WriteHeader(http.StatusOK)
	}))

	err := client.Upload(context.Background(), "rid-1", UploadRequest{
		Path:            path,
		MimeType:        "application/pdf",
		Language:        "en",
		InterpretTables: true,
		SplitStrategy:   "PARAGRAPH",
	})
	require.NoError(t, err)
}

func TestUpload_MissingFile(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for missing file")
	}))

	err := client.Upload(context.Background(), "rid-1", UploadRequest{
		Path: filepath.Join(t.TempDir(), "absent.pdf"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading upload file")
}

func TestUpdateExtra(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/resource/rid-1", r.URL.Path)

		var body map[string]map[string]map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "report-1700000000", body["extra"]["metadata"][FingerprintKey])

		w.WriteHeader(http.StatusOK)
	}))

	err := client.UpdateExtra(context.Background(), "rid-1", map[string]string{
		FingerprintKey: "report-1700000000",
	})
	require.NoError(t, err)
}

func TestSearch_ScalarMinScore(t *testing.T) {
	minScore := 0.7
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "activity object", body["query"])
		assert.Equal(t, float64(5), body["top_k"])
		assert.Equal(t, []any{"semantic"}, body["features"])
		assert.Equal(t, 0.7, body["min_score"])

		_ = json.NewEncoder(w).Encode(SearchResults{
			Sentences: ResultList{Results: []RawHit{
				{RID: "r1", Field: "f1", Index: 0, Text: "hit", Score: 0.9},
			}},
		})
	}))

	results, err := client.Search(context.Background(), SearchRequest{
		Query:    "activity object",
		TopK:     5,
		Features: []Feature{FeatureSemantic},
		MinScore: &minScore,
	})
	require.NoError(t, err)
	require.Len(t, results.Sentences.Results, 1)
	assert.Equal(t, 0.9, results.Sentences.Results[0].Score)
}

func TestSearch_PerFeatureMinScore(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"semantic": 0.5, "bm25": 0.2}, body["min_score"])
		_ = json.NewEncoder(w).Encode(SearchResults{})
	}))

	_, err := client.Search(context.Background(), SearchRequest{
		Query:    "q",
		TopK:     10,
		Features: []Feature{FeatureSemantic, FeatureFulltext},
		MinScoreByFeature: map[Feature]float64{
			FeatureSemantic: 0.5,
			"bm25":          0.2,
		},
	})
	require.NoError(t, err)
}

func TestSearch_OmitsMinScoreWhenUnset(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, present := body["min_score"]
		assert.False(t, present)
		_ = json.NewEncoder(w).Encode(SearchResults{})
	}))

	_, err := client.Search(context.Background(), SearchRequest{
		Query:    "q",
		TopK:     5,
		Features: []Feature{FeatureSemantic},
	})
	require.NoError(t, err)
}

func TestFind(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/find", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []any{"semantic", "keyword"}, body["features"])

		_ = json.NewEncoder(w).Encode(FindResults{
			Resources: map[string]FindResource{
				"r1": {Fields: map[string]FindField{
					"f/field-a": {Paragraphs: map[string]FindParagraph{
						"p0": {Score: 0.8, Text: "paragraph", Order: 0},
					}},
				}},
			},
		})
	}))

	results, err := client.Find(context.Background(), FindRequest{
		Query:    "q",
		TopK:     5,
		Features: []Feature{FeatureSemantic, FeatureKeyword},
	})
	require.NoError(t, err)
	require.Contains(t, results.Resources, "r1")
}
