package domain

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrPluginDisabled    = errors.New("parser plugin is disabled")
	ErrChecksumMismatch  = errors.New("parser plugin checksum mismatch")
	ErrFormatUnsupported = errors.New("no parser for format")
	ErrParserTimeout     = errors.New("parser timeout")
)

// Chapter is one parsed unit of a document. Content is an HTML fragment;
// plain-text sources wrap their text in paragraph tags.
type Chapter struct {
	Index   int
	Title   string
	Content string
}

func (c Chapter) Validate() error {
	if c.Index < 0 {
		return fmt.Errorf("chapter index must not be negative")
	}
	return nil
}

type PluginInfo struct {
	Name    string
	Version string
	Formats []string
}

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Manifest describes one external parser plugin binary and the document
// formats it claims to handle.
type Manifest struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Binary  string   `json:"binary"`
	SHA256  string   `json:"sha256"`
	Enabled bool     `json:"enabled"`
	Formats []string `json:"formats"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("plugin binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("plugin sha256 must be lowercase 64-char hex")
	}
	if len(m.Formats) == 0 {
		return fmt.Errorf("plugin formats are required")
	}
	seen := map[string]struct{}{}
	for _, format := range m.Formats {
		if format == "" {
			return fmt.Errorf("empty plugin format")
		}
		if _, ok := seen[format]; ok {
			return fmt.Errorf("duplicate plugin format: %s", format)
		}
		seen[format] = struct{}{}
	}
	return nil
}

func (m Manifest) HandlesFormat(format string) bool {
	for _, f := range m.Formats {
		if f == format {
			return true
		}
	}
	return false
}
