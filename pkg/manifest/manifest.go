// Package manifest defines the push-manifest format: a YAML document that
// maps local file globs to object keys for bulk uploads.
package manifest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Version is the only supported manifest version.
const Version = "1.0"

// Validation errors.
var (
	// ErrUnsupportedVersion indicates the manifest version is not "1.0".
	ErrUnsupportedVersion = errors.New("unsupported manifest version")

	// ErrNoEntries indicates the manifest declares nothing to upload.
	ErrNoEntries = errors.New("manifest has no entries")

	// ErrInvalidPattern indicates a source glob cannot be compiled.
	ErrInvalidPattern = errors.New("invalid glob pattern")
)

// EntryError wraps a validation failure with the index of the offending entry.
type EntryError struct {
	Index int
	Err   error
}

// Error implements the error interface.
func (e *EntryError) Error() string {
	return fmt.Sprintf("entry[%d]: %v", e.Index, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *EntryError) Unwrap() error {
	return e.Err
}

// Manifest is a validated push manifest.
type Manifest struct {
	// Version is the manifest format version. Must be "1.0".
	Version string `yaml:"version"`

	// Defaults apply to entries that leave the matching field empty.
	Defaults Defaults `yaml:"defaults,omitempty"`

	// Entries declare what to upload and where.
	Entries []Entry `yaml:"entries"`
}

// Defaults hold entry-level fallbacks.
type Defaults struct {
	// ContentType is used when an entry sets none. Empty means detect
	// from the file extension at expansion time.
	ContentType string `yaml:"content_type,omitempty"`

	// CacheControl is used when an entry sets none. Empty means the
	// uploader's default applies.
	CacheControl string `yaml:"cache_control,omitempty"`
}

// Entry maps a local glob pattern to a key prefix in the bucket.
type Entry struct {
	// Source is a doublestar glob over local paths, relative to the
	// manifest's base directory. Example: "assets/**/*.css".
	Source string `yaml:"source"`

	// KeyPrefix is prepended to the path of each matched file, relative
	// to the glob's static prefix. Example: "static/".
	KeyPrefix string `yaml:"key_prefix,omitempty"`

	// ContentType overrides the default for this entry.
	ContentType string `yaml:"content_type,omitempty"`

	// CacheControl overrides the default for this entry.
	CacheControl string `yaml:"cache_control,omitempty"`
}

// Validate checks the manifest structure. It does not touch the filesystem;
// glob expansion happens in Expand.
func (m *Manifest) Validate() error {
	if m.Version != Version {
		return fmt.Errorf("%w: %q (want %q)", ErrUnsupportedVersion, m.Version, Version)
	}
	if len(m.Entries) == 0 {
		return ErrNoEntries
	}
	for i, e := range m.Entries {
		if strings.TrimSpace(e.Source) == "" {
			return &EntryError{Index: i, Err: errors.New("source is required")}
		}
		if !doublestar.ValidatePattern(e.Source) {
			return &EntryError{Index: i, Err: fmt.Errorf("%w: %q", ErrInvalidPattern, e.Source)}
		}
	}
	return nil
}

// contentTypeFor resolves the effective content type for an entry.
func (m *Manifest) contentTypeFor(e Entry) string {
	if e.ContentType != "" {
		return e.ContentType
	}
	return m.Defaults.ContentType
}

// cacheControlFor resolves the effective cache control for an entry.
func (m *Manifest) cacheControlFor(e Entry) string {
	if e.CacheControl != "" {
		return e.CacheControl
	}
	return m.Defaults.CacheControl
}
