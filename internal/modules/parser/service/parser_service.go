package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"leaflog/internal/modules/parser/domain"
	"leaflog/internal/modules/parser/dto"
	parserout "leaflog/internal/modules/parser/port/out"
)

// Service routes a document to a chapter source. Built-in sources are
// keyed by format and win over plugins; plugins are consulted in manifest
// order for formats no built-in source handles.
type Service struct {
	builtin map[string]parserout.ChapterSource
	store   parserout.ManifestStore
	host    parserout.PluginHost
	log     hclog.Logger
}

func NewService(builtin map[string]parserout.ChapterSource, store parserout.ManifestStore, host parserout.PluginHost, log hclog.Logger) *Service {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Service{builtin: builtin, store: store, host: host, log: log}
}

func (s *Service) ChaptersForFile(ctx context.Context, filePath, format string) ([]domain.Chapter, error) {
	if source, ok := s.builtin[format]; ok {
		return source.Chapters(ctx, filePath)
	}
	manifest, err := s.pluginForFormat(ctx, format)
	if err != nil {
		return nil, err
	}
	chapters, err := s.host.ParseChapters(ctx, manifest, filePath, format)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", domain.ErrParserTimeout, manifest.Name)
		}
		return nil, fmt.Errorf("plugin %s: %w", manifest.Name, err)
	}
	for _, chapter := range chapters {
		if err := chapter.Validate(); err != nil {
			return nil, fmt.Errorf("plugin %s: %w", manifest.Name, err)
		}
	}
	return chapters, nil
}

func (s *Service) Plugins(ctx context.Context) ([]dto.PluginOutput, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PluginOutput, 0, len(manifests))
	for _, m := range manifests {
		out = append(out, dto.PluginOutput{
			Name:    m.Name,
			Version: m.Version,
			Enabled: m.Enabled,
			Binary:  m.Binary,
			Formats: m.Formats,
		})
	}
	return out, nil
}

func (s *Service) Doctor(ctx context.Context) ([]dto.DoctorOutput, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorOutput, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorOutput{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *Service) pluginForFormat(ctx context.Context, format string) (domain.Manifest, error) {
	if s.store == nil || s.host == nil {
		return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrFormatUnsupported, format)
	}
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return domain.Manifest{}, err
	}
	for _, manifest := range manifests {
		if !manifest.HandlesFormat(format) {
			continue
		}
		if !manifest.Enabled {
			s.log.Debug("skipping disabled parser plugin", "plugin", manifest.Name)
			continue
		}
		if err := checksumMatches(manifest.Binary, manifest.SHA256); err != nil {
			return domain.Manifest{}, err
		}
		return manifest, nil
	}
	return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrFormatUnsupported, format)
}

func (s *Service) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate plugin name: %s", manifest.Name)
		}
		seen[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func checksumMatches(path, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read plugin binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	if hex.EncodeToString(hash[:]) != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
