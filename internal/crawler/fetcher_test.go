package crawler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/onethinglab/nomixedcontent/internal/model"
)

func TestFetcher(t *testing.T) {
	t.Parallel()

	t.Run("returns page on 200", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html><body>ok</body></html>"))
		}))
		defer server.Close()

		fetcher := NewFetcher(server.Client())
		page, err := fetcher.Fetch(context.Background(), server.URL+"/index.html")
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}

		if page.StatusCode != http.StatusOK {
			t.Errorf("expected status 200, got %d", page.StatusCode)
		}
		if !page.IsHTML() {
			t.Errorf("expected HTML content type, got %q", page.ContentType)
		}
		if !strings.Contains(string(page.Body), "ok") {
			t.Errorf("unexpected body %q", page.Body)
		}
		if page.URL != server.URL+"/index.html" {
			t.Errorf("unexpected request URL %q", page.URL)
		}
	})

	t.Run("sends identifying user agent", func(t *testing.T) {
		t.Parallel()

		var gotUA string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
		}))
		defer server.Close()

		fetcher := NewFetcher(server.Client())
		if _, err := fetcher.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}

		if gotUA != DefaultUserAgent {
			t.Errorf("expected user agent %q, got %q", DefaultUserAgent, gotUA)
		}
	})

	t.Run("applies extra headers", func(t *testing.T) {
		t.Parallel()

		var gotToken string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotToken = r.Header.Get("X-Scan-Token")
		}))
		defer server.Close()

		fetcher := NewFetcher(server.Client(), WithHeaders(map[string]string{"X-Scan-Token": "abc"}))
		if _, err := fetcher.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}

		if gotToken != "abc" {
			t.Errorf("expected header to be sent, got %q", gotToken)
		}
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer server.Close()

		fetcher := NewFetcher(server.Client())
		if _, err := fetcher.Fetch(context.Background(), server.URL+"/missing"); err == nil {
			t.Error("expected error for 404 response")
		}
	})

	t.Run("records final URL after redirect", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/new", http.StatusFound)
		})
		mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		fetcher := NewFetcher(server.Client())
		page, err := fetcher.Fetch(context.Background(), server.URL+"/old")
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}

		if page.URL != server.URL+"/old" {
			t.Errorf("expected request URL preserved, got %q", page.URL)
		}
		if page.FinalURL != server.URL+"/new" {
			t.Errorf("expected final URL %q, got %q", server.URL+"/new", page.FinalURL)
		}
	})

	t.Run("caps body at the configured limit", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 1024)))
		}))
		defer server.Close()

		fetcher := NewFetcher(server.Client(), WithMaxBodySize(64))
		page, err := fetcher.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}

		if len(page.Body) != 64 {
			t.Errorf("expected body capped at 64 bytes, got %d", len(page.Body))
		}
	})

	t.Run("limit above the default is honored", func(t *testing.T) {
		t.Parallel()

		size := model.MaxBodySize + 100
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(bytes.Repeat([]byte("x"), size))
		}))
		defer server.Close()

		fetcher := NewFetcher(server.Client(), WithMaxBodySize(int64(size)))
		page, err := fetcher.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}

		if len(page.Body) != size {
			t.Errorf("expected full %d byte body, got %d", size, len(page.Body))
		}
	})

	t.Run("network error surfaces as failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		fetcher := NewFetcher(&http.Client{})
		if _, err := fetcher.Fetch(context.Background(), url); err == nil {
			t.Error("expected error for refused connection")
		}
	})
}
