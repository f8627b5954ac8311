package source

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// SourceKind enumerates where a payload lives.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindURL  SourceKind = "url"
)

// Source identifies a payload location.
type Source interface {
	Kind() SourceKind
	Location() string
}

type fileSource struct {
	path string
}

func (s fileSource) Location() string {
	return s.path
}

func (s fileSource) Kind() SourceKind {
	return SourceKindFile
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string {
	return s.raw
}

func (s urlSource) Kind() SourceKind {
	return SourceKindURL
}

// SourceFromURL parses the supplied URL string and returns a Source. It panics
// if the URL is invalid to surface configuration mistakes early. Use Parse for
// values read from documents.
func SourceFromURL(raw string) Source {
	src, err := parseURL(raw)
	if err != nil {
		panic(err.Error())
	}
	return src
}

// Parse turns a data source string into a Source. http and https URLs become
// URL sources, file:// URLs and everything else a file path. Relative paths
// are joined to baseDir when it is set.
func Parse(raw, baseDir string) (Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("source: location is required")
	}

	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return parseURL(raw)
	case strings.HasPrefix(lower, "file://"):
		parsed, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("source: invalid file url %q: %w", raw, err)
		}
		return SourceFromFile(parsed.Path), nil
	}

	if baseDir != "" && !filepath.IsAbs(raw) {
		raw = filepath.Join(baseDir, raw)
	}
	return SourceFromFile(raw), nil
}

func parseURL(raw string) (Source, error) {
	if raw == "" {
		return nil, errors.New("source: empty URL source")
	}
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return nil, fmt.Errorf("source: invalid URL %q: %w", raw, err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("source: invalid URL %q: missing host", raw)
	}
	return urlSource{raw: raw}, nil
}
