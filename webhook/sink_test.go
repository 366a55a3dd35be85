package webhook_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/awitkowski/articlemd"
	"github.com/awitkowski/articlemd/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult() *articlemd.ParseResult {
	return &articlemd.ParseResult{
		ID:       "res-1",
		Status:   "success",
		Markdown: "# T\n\nBody.\n\n",
		Metadata: articlemd.Metadata{Title: "T"},
		RecordID: "rec-9",
	}
}

func TestSink_Deliver(t *testing.T) {
	t.Parallel()

	t.Run("posts signed JSON payload", func(t *testing.T) {
		t.Parallel()

		var gotBody []byte
		var gotSignature, gotContentType string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotBody, _ = io.ReadAll(r.Body)
			gotSignature = r.Header.Get("X-Signature")
			gotContentType = r.Header.Get("Content-Type")
		}))
		defer server.Close()

		sink := webhook.NewSink(server.URL, "shh")
		err := sink.Deliver(context.Background(), testResult())

		require.NoError(t, err)
		assert.Equal(t, "application/json", gotContentType)
		assert.Equal(t, webhook.Sign([]byte("shh"), gotBody), gotSignature)

		var payload articlemd.ParseResult
		require.NoError(t, json.Unmarshal(gotBody, &payload))
		assert.Equal(t, "res-1", payload.ID)
		assert.Equal(t, "rec-9", payload.RecordID)
	})

	t.Run("omits signature without secret", func(t *testing.T) {
		t.Parallel()

		var gotSignature string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotSignature = r.Header.Get("X-Signature")
		}))
		defer server.Close()

		sink := webhook.NewSink(server.URL, "")
		require.NoError(t, sink.Deliver(context.Background(), testResult()))
		assert.Empty(t, gotSignature)
	})

	t.Run("retries until success", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
			}
		}))
		defer server.Close()

		sink := webhook.NewSink(server.URL, "shh", webhook.WithRetryDelay(time.Millisecond))
		err := sink.Deliver(context.Background(), testResult())

		require.NoError(t, err)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		sink := webhook.NewSink(server.URL, "shh",
			webhook.WithRetryDelay(time.Millisecond),
			webhook.WithMaxAttempts(2))
		err := sink.Deliver(context.Background(), testResult())

		require.Error(t, err)
		assert.Equal(t, articlemd.EUNAVAILABLE, articlemd.ErrorCode(err))
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("stops retrying on cancelled context", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		sink := webhook.NewSink(server.URL, "shh", webhook.WithRetryDelay(time.Hour))
		err := sink.Deliver(ctx, testResult())

		require.Error(t, err)
	})
}
