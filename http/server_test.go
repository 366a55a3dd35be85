package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/awitkowski/articlemd"
	articlehttp "github.com/awitkowski/articlemd/http"
	"github.com/awitkowski/articlemd/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	server := articlehttp.NewServer(&mock.Parser{}, nil, newTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_Parse(t *testing.T) {
	t.Parallel()

	t.Run("returns parse result as JSON", func(t *testing.T) {
		t.Parallel()

		parser := &mock.Parser{
			ParseFn: func(ctx context.Context, req articlemd.ParseRequest) (*articlemd.ParseResult, error) {
				assert.Equal(t, articlemd.ModeYAML, req.Mode)
				return &articlemd.ParseResult{
					ID:       "res-1",
					Status:   "success",
					Markdown: "# T\n\n",
					Metadata: articlemd.Metadata{Title: "T"},
				}, nil
			},
		}
		server := articlehttp.NewServer(parser, nil, newTestLogger())

		rec := postJSON(t, server, "/api/v1/parse", articlemd.ParseRequest{
			HTML: "<html><head><title>T</title></head></html>",
			Mode: articlemd.ModeYAML,
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var result articlemd.ParseResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, "res-1", result.ID)
		assert.Equal(t, "T", result.Metadata.Title)
	})

	t.Run("maps EINVALID to 400", func(t *testing.T) {
		t.Parallel()

		parser := &mock.Parser{
			ParseFn: func(ctx context.Context, req articlemd.ParseRequest) (*articlemd.ParseResult, error) {
				return nil, articlemd.Errorf(articlemd.EINVALID, "html content required")
			},
		}
		server := articlehttp.NewServer(parser, nil, newTestLogger())

		rec := postJSON(t, server, "/api/v1/parse", articlemd.ParseRequest{})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"code":"invalid","error":"html content required"}`, rec.Body.String())
	})

	t.Run("maps ENOCONTENT to 422", func(t *testing.T) {
		t.Parallel()

		parser := &mock.Parser{
			ParseFn: func(ctx context.Context, req articlemd.ParseRequest) (*articlemd.ParseResult, error) {
				return nil, articlemd.Errorf(articlemd.ENOCONTENT, "no content found")
			},
		}
		server := articlehttp.NewServer(parser, nil, newTestLogger())

		rec := postJSON(t, server, "/api/v1/parse", articlemd.ParseRequest{HTML: "<p>x</p>"})

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("hides internal error details", func(t *testing.T) {
		t.Parallel()

		parser := &mock.Parser{
			ParseFn: func(ctx context.Context, req articlemd.ParseRequest) (*articlemd.ParseResult, error) {
				return nil, assert.AnError
			},
		}
		server := articlehttp.NewServer(parser, nil, newTestLogger())

		rec := postJSON(t, server, "/api/v1/parse", articlemd.ParseRequest{HTML: "<p>x</p>"})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		server := articlehttp.NewServer(&mock.Parser{}, nil, newTestLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects oversized body", func(t *testing.T) {
		t.Parallel()

		server := articlehttp.NewServer(&mock.Parser{}, nil, newTestLogger(),
			articlehttp.WithMaxRequestBytes(64))

		rec := postJSON(t, server, "/api/v1/parse", articlemd.ParseRequest{
			HTML: "<html>" + string(bytes.Repeat([]byte("x"), 256)) + "</html>",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_ParseURL(t *testing.T) {
	t.Parallel()

	t.Run("fetches then parses", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				assert.Equal(t, "https://example.org/a", url)
				return "<html>fetched</html>", nil
			},
		}
		parser := &mock.Parser{
			ParseFn: func(ctx context.Context, req articlemd.ParseRequest) (*articlemd.ParseResult, error) {
				assert.Equal(t, "<html>fetched</html>", req.HTML)
				assert.Equal(t, "https://example.org/a", req.SourceURL)
				assert.Equal(t, "rec-1", req.RecordID)
				return &articlemd.ParseResult{Status: "success"}, nil
			},
		}
		server := articlehttp.NewServer(parser, fetcher, newTestLogger())

		rec := postJSON(t, server, "/api/v1/parse-url", map[string]string{
			"url":       "https://example.org/a",
			"record_id": "rec-1",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("requires url", func(t *testing.T) {
		t.Parallel()

		server := articlehttp.NewServer(&mock.Parser{}, &mock.Fetcher{}, newTestLogger())

		rec := postJSON(t, server, "/api/v1/parse-url", map[string]string{})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps fetch timeout to 504", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", articlemd.Errorf(articlemd.ETIMEOUT, "fetch timed out for %s", url)
			},
		}
		server := articlehttp.NewServer(&mock.Parser{}, fetcher, newTestLogger())

		rec := postJSON(t, server, "/api/v1/parse-url", map[string]string{"url": "https://example.org/a"})

		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	})

	t.Run("maps fetch failure to 502", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", articlemd.Errorf(articlemd.EUNAVAILABLE, "HTTP 503 for %s", url)
			},
		}
		server := articlehttp.NewServer(&mock.Parser{}, fetcher, newTestLogger())

		rec := postJSON(t, server, "/api/v1/parse-url", map[string]string{"url": "https://example.org/a"})

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("reports 503 without a fetcher", func(t *testing.T) {
		t.Parallel()

		server := articlehttp.NewServer(&mock.Parser{}, nil, newTestLogger())

		rec := postJSON(t, server, "/api/v1/parse-url", map[string]string{"url": "https://example.org/a"})

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
