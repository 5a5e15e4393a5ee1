package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("q") {
		case "Delhi":
			w.Write([]byte(`[{"lat":"28.6139","lon":"77.2090","display_name":"Delhi, India"}]`))
		case "Broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.Write([]byte(`[]`))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-agent", time.Second)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		point, err := client.Lookup(ctx, "Delhi")
		require.NoError(t, err)
		assert.Equal(t, Point{Lat: 28.6139, Lng: 77.2090}, point)
	})

	t.Run("Cached By Normalized Name", func(t *testing.T) {
		before := atomic.LoadInt32(&calls)
		_, err := client.Lookup(ctx, "  DELHI")
		require.NoError(t, err)
		assert.Equal(t, before, atomic.LoadInt32(&calls))
	})

	t.Run("Miss Is Cached", func(t *testing.T) {
		_, err := client.Lookup(ctx, "Atlantis")
		assert.ErrorIs(t, err, ErrNotFound)

		before := atomic.LoadInt32(&calls)
		_, err = client.Lookup(ctx, "atlantis")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, before, atomic.LoadInt32(&calls))
	})

	t.Run("Upstream Failure Is Not Cached", func(t *testing.T) {
		_, err := client.Lookup(ctx, "Broken")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)

		before := atomic.LoadInt32(&calls)
		_, _ = client.Lookup(ctx, "Broken")
		assert.Equal(t, before+1, atomic.LoadInt32(&calls))
	})

	t.Run("Empty Name", func(t *testing.T) {
		_, err := client.Lookup(ctx, "   ")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
