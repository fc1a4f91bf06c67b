package manifest

import (
	"fmt"
	"mime"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// fallbackContentType is used when no content type is configured and the
// file extension is unrecognized.
const fallbackContentType = "application/octet-stream"

// Upload is one resolved file-to-key mapping produced by Expand.
type Upload struct {
	// LocalPath is the absolute or baseDir-relative path of the file.
	LocalPath string

	// Key is the destination object key.
	Key string

	// ContentType is the resolved MIME type.
	ContentType string

	// CacheControl is the resolved cache directive; empty means the
	// uploader's default applies.
	CacheControl string
}

// Expand resolves every entry's glob against baseDir and returns the
// uploads in deterministic key order. Entries that match nothing
// contribute nothing; that is not an error.
func (m *Manifest) Expand(baseDir string) ([]Upload, error) {
	var uploads []Upload

	for i, e := range m.Entries {
		matches, err := doublestar.FilepathGlob(filepath.Join(baseDir, e.Source), doublestar.WithFilesOnly())
		if err != nil {
			return nil, &EntryError{Index: i, Err: fmt.Errorf("%w: %q", ErrInvalidPattern, e.Source)}
		}

		// Keys are formed relative to the glob's static prefix, so
		// "assets/**/*.css" maps assets/site/main.css to
		// <key_prefix>site/main.css.
		staticBase := filepath.Join(baseDir, staticPrefix(e.Source))

		for _, match := range matches {
			rel, err := filepath.Rel(staticBase, match)
			if err != nil {
				rel = filepath.Base(match)
			}

			uploads = append(uploads, Upload{
				LocalPath:    match,
				Key:          e.KeyPrefix + filepath.ToSlash(rel),
				ContentType:  resolveContentType(m.contentTypeFor(e), match),
				CacheControl: m.cacheControlFor(e),
			})
		}
	}

	sort.Slice(uploads, func(i, j int) bool { return uploads[i].Key < uploads[j].Key })
	return uploads, nil
}

// resolveContentType picks the configured type, falling back to the file
// extension and then to application/octet-stream.
func resolveContentType(configured, path string) string {
	if configured != "" {
		return configured
	}
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return fallbackContentType
}

// staticPrefix returns the portion of a glob pattern before the first
// metacharacter, truncated to the last complete path segment.
//
//	"assets/**/*.css" → "assets/"
//	"*.json"          → ""
//	"docs/readme.md"  → "docs/"
func staticPrefix(pattern string) string {
	meta := strings.IndexAny(pattern, "*?[{")
	if meta == -1 {
		// Exact path: the key is the bare file name.
		pattern = filepath.ToSlash(pattern)
		if slash := strings.LastIndex(pattern, "/"); slash >= 0 {
			return pattern[:slash+1]
		}
		return ""
	}

	prefix := pattern[:meta]
	if slash := strings.LastIndex(prefix, "/"); slash >= 0 {
		return prefix[:slash+1]
	}
	return ""
}
