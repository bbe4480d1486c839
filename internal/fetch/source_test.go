package fetch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spec.json")
	content := []byte(`{"openapi": "3.0.3"}`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	f := NewFetcher(time.Second)
	rc, size, err := f.Open(context.Background(), Source{Path: path})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	if size != int64(len(content)) {
		t.Errorf("size = %d, want %d", size, len(content))
	}
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: %q", got)
	}
}

func TestOpenFileMissing(t *testing.T) {
	f := NewFetcher(time.Second)
	if _, _, err := f.Open(context.Background(), Source{Path: "/does/not/exist.json"}); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestOpenRaw(t *testing.T) {
	f := NewFetcher(time.Second)
	rc, size, err := f.Open(context.Background(), Source{Raw: []byte("hello")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	if size != 5 {
		t.Errorf("size = %d, want 5", size)
	}
}

func TestOpenURL(t *testing.T) {
	body := `{"openapi": "3.0.3"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") == "" {
			t.Error("request missing Accept header")
		}
		w.Write([]byte(body))
	}))
	defer srv.Close()

	f := NewFetcher(time.Second)
	rc, size, err := f.Open(context.Background(), Source{URL: srv.URL})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	if size != int64(len(body)) {
		t.Errorf("size = %d, want Content-Length %d", size, len(body))
	}
	got, _ := io.ReadAll(rc)
	if string(got) != body {
		t.Errorf("body = %q", got)
	}
}

func TestOpenURLHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher(time.Second)
	if _, _, err := f.Open(context.Background(), Source{URL: srv.URL}); err == nil {
		t.Fatal("expected an error for 404")
	}
}

func TestOpenEmptySource(t *testing.T) {
	f := NewFetcher(time.Second)
	if _, _, err := f.Open(context.Background(), Source{}); err == nil {
		t.Fatal("expected an error for an empty source")
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		src  Source
		want string
	}{
		{Source{Name: "Petstore", Path: "/tmp/x.json"}, "Petstore"},
		{Source{Path: "/tmp/x.json"}, "/tmp/x.json"},
		{Source{URL: "https://example.com/spec.yaml"}, "https://example.com/spec.yaml"},
		{Source{Raw: []byte("{}")}, "(inline document)"},
	}
	for _, tc := range cases {
		if got := tc.src.DisplayName(); got != tc.want {
			t.Errorf("DisplayName(%+v) = %q, want %q", tc.src, got, tc.want)
		}
	}
}

func TestIsCompressed(t *testing.T) {
	if !IsCompressed(Source{Path: "spec.json.gz"}) {
		t.Error("gz file should be detected")
	}
	if !IsCompressed(Source{URL: "https://example.com/spec.yaml.gz"}) {
		t.Error("gz URL should be detected")
	}
	if IsCompressed(Source{Path: "spec.json"}) {
		t.Error("plain json flagged as compressed")
	}
}
