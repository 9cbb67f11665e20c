package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<p>" + r.Header.Get("User-Agent") + "</p>"))
	})
	mux.HandleFunc("/dir/style.css", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/css")
		_, _ = w.Write([]byte("p { color: red }"))
	})
	mux.HandleFunc("/image.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
	})
	mux.HandleFunc("/big", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 100)))
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	srv := newServer(t)
	f := NewHTTPFetcher(Options{UserAgent: "test-agent"})

	body, contentType, err := f.Fetch(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	assert.Equal(t, "<p>test-agent</p>", string(body))
	assert.Equal(t, "text/html; charset=utf-8", contentType)
}

func TestHTTPFetcher_DefaultUserAgent(t *testing.T) {
	srv := newServer(t)
	body, _, err := NewHTTPFetcher(Options{}).Fetch(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	assert.Contains(t, string(body), DefaultUserAgent)
}

func TestHTTPFetcher_Non2xx(t *testing.T) {
	srv := newServer(t)
	_, _, err := NewHTTPFetcher(Options{}).Fetch(context.Background(), srv.URL+"/missing")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr), "got %v", err)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
}

func TestHTTPFetcher_RejectsNonNetworkURLs(t *testing.T) {
	f := NewHTTPFetcher(Options{})
	for _, u := range []string{"ftp://example.com/x", "/etc/passwd", "file:///tmp/x"} {
		_, _, err := f.Fetch(context.Background(), u)
		assert.Error(t, err, u)
	}
}

func TestHTTPFetcher_ResolvesAgainstBase(t *testing.T) {
	srv := newServer(t)
	f := NewHTTPFetcher(Options{BaseURL: srv.URL + "/dir/page.html"})
	body, _, err := f.Fetch(context.Background(), "style.css")
	require.NoError(t, err)
	assert.Equal(t, "p { color: red }", string(body))
}

func TestHTTPFetcher_Timeout(t *testing.T) {
	srv := newServer(t)
	f := NewHTTPFetcher(Options{Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, _, err := f.Fetch(context.Background(), srv.URL+"/slow")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestHTTPFetcher_ContextCancel(t *testing.T) {
	srv := newServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewHTTPFetcher(Options{}).Fetch(ctx, srv.URL+"/page")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPFetcher_MaxBytes(t *testing.T) {
	srv := newServer(t)
	_, _, err := NewHTTPFetcher(Options{MaxBytes: 10}).Fetch(context.Background(), srv.URL+"/big")
	assert.Error(t, err)

	body, _, err := NewHTTPFetcher(Options{MaxBytes: 100}).Fetch(context.Background(), srv.URL+"/big")
	require.NoError(t, err)
	assert.Len(t, body, 100)
}

func TestFetchCSS(t *testing.T) {
	srv := newServer(t)
	f := NewHTTPFetcher(Options{})

	text, err := FetchCSS(context.Background(), f, srv.URL+"/dir/style.css")
	require.NoError(t, err)
	assert.Equal(t, "p { color: red }", text)

	_, err = FetchCSS(context.Background(), f, srv.URL+"/image.png")
	assert.ErrorContains(t, err, "unexpected content type")
}

func TestReadSource(t *testing.T) {
	srv := newServer(t)
	f := NewHTTPFetcher(Options{})

	path := filepath.Join(t.TempDir(), "doc.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>local</p>"), 0o644))

	body, contentType, err := ReadSource(context.Background(), f, path)
	require.NoError(t, err)
	assert.Equal(t, "<p>local</p>", string(body))
	assert.Empty(t, contentType)

	body, _, err = ReadSource(context.Background(), f, "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, "<p>local</p>", string(body))

	body, contentType, err = ReadSource(context.Background(), f, srv.URL+"/page")
	require.NoError(t, err)
	assert.Contains(t, string(body), "<p>")
	assert.NotEmpty(t, contentType)

	_, _, err = ReadSource(context.Background(), f, filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base, ref, want string
	}{
		{"http://example.com/a/b.html", "c.css", "http://example.com/a/c.css"},
		{"http://example.com/a/b.html", "/root.css", "http://example.com/root.css"},
		{"http://example.com/a/", "https://other.org/x", "https://other.org/x"},
		{"http://example.com/a/b.html", "../up.css", "http://example.com/up.css"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveURL(tt.base, tt.ref))
	}
	assert.True(t, IsNetworkURL("HTTPS://EXAMPLE.COM"))
	assert.False(t, IsNetworkURL("example.com"))
}
