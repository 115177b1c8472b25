package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	parserout "leaflog/internal/modules/parser/adapter/out"
)

func TestFileManifestStoreMissingFile(t *testing.T) {
	t.Parallel()
	store := parserout.NewFileManifestStore(t.TempDir())
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected empty manifest list, got %d", len(manifests))
	}
}

func TestFileManifestStoreResolvesRelativeBinary(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "plugins"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	payload := `[{"name":"epub","version":"1.0.0","binary":"plugins/bin/epub-parser","sha256":"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa","enabled":true,"formats":["epub"]}]`
	if err := os.WriteFile(filepath.Join(base, "plugins", "parsers.json"), []byte(payload), 0o644); err != nil {
		t.Fatalf("write manifests: %v", err)
	}

	store := parserout.NewFileManifestStore(base)
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(manifests) != 1 {
		t.Fatalf("expected 1 manifest, got %d", len(manifests))
	}
	want := filepath.Join(base, "plugins", "bin", "epub-parser")
	if manifests[0].Binary != want {
		t.Fatalf("binary = %q, want %q", manifests[0].Binary, want)
	}
}

func TestFileManifestStoreRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "plugins"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	payload := `[{"name":"epub","surprise":true}]`
	if err := os.WriteFile(filepath.Join(base, "plugins", "parsers.json"), []byte(payload), 0o644); err != nil {
		t.Fatalf("write manifests: %v", err)
	}

	store := parserout.NewFileManifestStore(base)
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatal("expected decode error for unknown fields")
	}
}
