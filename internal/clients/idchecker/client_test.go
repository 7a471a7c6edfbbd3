package idchecker_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/linemk/topup-store/internal/clients/idchecker"
	"github.com/linemk/topup-store/internal/clients/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_URL(t *testing.T) {
	c := idchecker.NewClient("https://example.test/", "", "key", time.Second)

	assert.Equal(t, "https://example.test/mobile-legends/555/2001", c.URL("mobile-legends", "555", "2001"))
	assert.Equal(t, "https://example.test/my%20game/a%2Fb/1%3F2", c.URL("my game", "a/b", "1?2"))
}

func TestClient_Lookup(t *testing.T) {
	var gotPath, gotKey, gotHost string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotKey = r.Header.Get("x-rapidapi-key")
		gotHost = r.Header.Get("x-rapidapi-host")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"id":"555"}}`))
	}))
	defer srv.Close()

	c := idchecker.NewClient(srv.URL, "checker.example", "secret", time.Second)
	body, err := c.Lookup(context.Background(), "mobile-legends", "555", "2001")
	require.NoError(t, err)

	assert.JSONEq(t, `{"data":{"id":"555"}}`, string(body))
	assert.Equal(t, "/mobile-legends/555/2001", gotPath)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "checker.example", gotHost)
}

func TestClient_LookupUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("player not found"))
	}))
	defer srv.Close()

	c := idchecker.NewClient(srv.URL, "", "secret", time.Second)
	_, err := c.Lookup(context.Background(), "mobile-legends", "1", "1")

	var statusErr *upstream.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Equal(t, "player not found", statusErr.Body)
}

func TestClient_Configured(t *testing.T) {
	assert.False(t, idchecker.NewClient("", "", "", time.Second).Configured())
	assert.True(t, idchecker.NewClient("", "", "k", time.Second).Configured())
}
