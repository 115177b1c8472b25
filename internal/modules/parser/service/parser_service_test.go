package service_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"leaflog/internal/modules/parser/domain"
	parserout "leaflog/internal/modules/parser/port/out"
	"leaflog/internal/modules/parser/service"
)

type fakeSource struct {
	chapters []domain.Chapter
	calls    int
}

func (f *fakeSource) Chapters(_ context.Context, _ string) ([]domain.Chapter, error) {
	f.calls++
	return f.chapters, nil
}

type fakeManifestStore struct {
	manifests []domain.Manifest
	err       error
}

func (f *fakeManifestStore) Load(_ context.Context) ([]domain.Manifest, error) {
	return f.manifests, f.err
}

type fakeHost struct {
	chapters []domain.Chapter
	parsed   []string
	err      error
}

func (f *fakeHost) CheckLifecycle(_ context.Context, _ domain.Manifest) error { return nil }

func (f *fakeHost) GetInfo(_ context.Context, m domain.Manifest) (domain.PluginInfo, error) {
	return domain.PluginInfo{Name: m.Name, Version: m.Version, Formats: m.Formats}, nil
}

func (f *fakeHost) ParseChapters(_ context.Context, m domain.Manifest, filePath, _ string) ([]domain.Chapter, error) {
	f.parsed = append(f.parsed, m.Name+":"+filePath)
	return f.chapters, f.err
}

func writeBinary(t *testing.T, name string) (path, sha string) {
	t.Helper()
	path = filepath.Join(t.TempDir(), name)
	payload := []byte("#!/bin/true\n")
	if err := os.WriteFile(path, payload, 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
	hash := sha256.Sum256(payload)
	return path, hex.EncodeToString(hash[:])
}

func TestChaptersForFilePrefersBuiltin(t *testing.T) {
	t.Parallel()
	source := &fakeSource{chapters: []domain.Chapter{{Index: 0, Title: "Page 1"}}}
	host := &fakeHost{}
	svc := service.NewService(
		map[string]parserout.ChapterSource{"pdf": source},
		&fakeManifestStore{},
		host,
		nil,
	)

	chapters, err := svc.ChaptersForFile(context.Background(), "/books/a.pdf", "pdf")
	if err != nil {
		t.Fatalf("chapters: %v", err)
	}
	if len(chapters) != 1 || source.calls != 1 {
		t.Fatalf("expected builtin source to serve, got chapters=%d calls=%d", len(chapters), source.calls)
	}
	if len(host.parsed) != 0 {
		t.Fatal("plugin host must not be consulted for builtin formats")
	}
}

func TestChaptersForFileFallsBackToPlugin(t *testing.T) {
	t.Parallel()
	binary, sha := writeBinary(t, "epub-parser")
	store := &fakeManifestStore{manifests: []domain.Manifest{
		{Name: "epub", Version: "1", Binary: binary, SHA256: sha, Enabled: true, Formats: []string{"epub"}},
	}}
	host := &fakeHost{chapters: []domain.Chapter{{Index: 0, Title: "Ch 1"}}}
	svc := service.NewService(nil, store, host, nil)

	chapters, err := svc.ChaptersForFile(context.Background(), "/books/a.epub", "epub")
	if err != nil {
		t.Fatalf("chapters: %v", err)
	}
	if len(chapters) != 1 {
		t.Fatalf("expected plugin chapters, got %d", len(chapters))
	}
	if len(host.parsed) != 1 || host.parsed[0] != "epub:/books/a.epub" {
		t.Fatalf("unexpected host calls: %v", host.parsed)
	}
}

func TestChaptersForFileSkipsDisabledPlugins(t *testing.T) {
	t.Parallel()
	binary, sha := writeBinary(t, "epub-parser")
	store := &fakeManifestStore{manifests: []domain.Manifest{
		{Name: "epub", Version: "1", Binary: binary, SHA256: sha, Enabled: false, Formats: []string{"epub"}},
	}}
	svc := service.NewService(nil, store, &fakeHost{}, nil)

	_, err := svc.ChaptersForFile(context.Background(), "/books/a.epub", "epub")
	if !errors.Is(err, domain.ErrFormatUnsupported) {
		t.Fatalf("expected ErrFormatUnsupported, got %v", err)
	}
}

func TestChaptersForFileChecksumMismatch(t *testing.T) {
	t.Parallel()
	binary, _ := writeBinary(t, "epub-parser")
	store := &fakeManifestStore{manifests: []domain.Manifest{
		{Name: "epub", Version: "1", Binary: binary, SHA256: "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", Enabled: true, Formats: []string{"epub"}},
	}}
	svc := service.NewService(nil, store, &fakeHost{}, nil)

	_, err := svc.ChaptersForFile(context.Background(), "/books/a.epub", "epub")
	if !errors.Is(err, domain.ErrChecksumMismatch) {
		t.Fatalf("expected ErrChecksumMismatch, got %v", err)
	}
}

func TestPluginsRejectsDuplicateNames(t *testing.T) {
	t.Parallel()
	binary, sha := writeBinary(t, "p")
	manifest := domain.Manifest{Name: "p", Version: "1", Binary: binary, SHA256: sha, Enabled: true, Formats: []string{"epub"}}
	store := &fakeManifestStore{manifests: []domain.Manifest{manifest, manifest}}
	svc := service.NewService(nil, store, &fakeHost{}, nil)

	if _, err := svc.Plugins(context.Background()); err == nil {
		t.Fatal("expected duplicate name error")
	}
}

func TestDoctorReportsMissingBinary(t *testing.T) {
	t.Parallel()
	store := &fakeManifestStore{manifests: []domain.Manifest{
		{Name: "ghost", Version: "1", Binary: "/nonexistent/ghost", SHA256: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", Enabled: true, Formats: []string{"epub"}},
	}}
	svc := service.NewService(nil, store, &fakeHost{}, nil)

	results, err := svc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].BinaryReachable || results[0].Error == "" {
		t.Fatalf("expected unreachable binary report, got %+v", results[0])
	}
}
