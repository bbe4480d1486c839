package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/config"
)

func TestResolveSource(t *testing.T) {
	cases := []struct {
		arg     string
		wantURL bool
	}{
		{"petstore.json", false},
		{"/tmp/spec.yaml", false},
		{"http://example.com/openapi.json", true},
		{"https://example.com/openapi.yaml", true},
	}
	for _, c := range cases {
		src := resolveSource(c.arg)
		if c.wantURL && src.URL != c.arg {
			t.Errorf("resolveSource(%q).URL = %q, want %q", c.arg, src.URL, c.arg)
		}
		if !c.wantURL && src.Path != c.arg {
			t.Errorf("resolveSource(%q).Path = %q, want %q", c.arg, src.Path, c.arg)
		}
	}
}

func TestLoadResultParsesFile(t *testing.T) {
	doc := `{
  "openapi": "3.0.0",
  "info": {"title": "Ping", "version": "1.0"},
  "paths": {
    "/ping": {"get": {"summary": "Ping", "responses": {"200": {"description": "OK"}}}}
  }
}`
	path := filepath.Join(t.TempDir(), "ping.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := loadResult(context.Background(), path, config.DefaultConfig())
	if err != nil {
		t.Fatalf("loadResult: %v", err)
	}
	if res.Metadata.EndpointCount != 1 {
		t.Errorf("endpoints = %d, want 1", res.Metadata.EndpointCount)
	}
	if res.Metadata.Title != "Ping" {
		t.Errorf("title = %q, want Ping", res.Metadata.Title)
	}
}

func TestLoadResultMissingFile(t *testing.T) {
	_, err := loadResult(context.Background(), filepath.Join(t.TempDir(), "nope.json"), config.DefaultConfig())
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
