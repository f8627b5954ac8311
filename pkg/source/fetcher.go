package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-formflow/pkg/jsonvalue"
)

// Origin records where a payload was read from.
type Origin string

const (
	OriginRemote Origin = "remote"
	OriginCache  Origin = "cache"
	OriginFile   Origin = "file"
	OriginDemo   Origin = "demo"
)

// ErrNoSource is returned when a request names no source and has no fallback.
var ErrNoSource = errors.New("source: no source configured")

// Request describes a single payload fetch.
type Request struct {
	Source  Source
	Method  string
	Headers map[string]string
	// Timeout overrides the fetcher default for this request.
	Timeout time.Duration
	// Fallback is demo JSON used when the source cannot be read or decoded.
	Fallback []byte
}

// Payload is a decoded external payload.
type Payload struct {
	Value  any
	Raw    []byte
	Origin Origin
	// Cause is the failure that triggered a demo fallback.
	Cause error
}

// Fetcher reads and decodes payloads.
type Fetcher struct {
	client   *http.Client
	timeout  time.Duration
	cache    Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// Option customises a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient injects the HTTP client used for URL sources.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithTimeout caps remote fetch durations.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = timeout
	}
}

// WithCache enables caching of remote bodies for ttl.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(f *Fetcher) {
		f.cache = cache
		f.cacheTTL = ttl
	}
}

// WithLogger sets the logger used for cache and fallback diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// DefaultTimeout applies when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// NewFetcher constructs a Fetcher.
func NewFetcher(options ...Option) *Fetcher {
	f := &Fetcher{
		client:  http.DefaultClient,
		timeout: DefaultTimeout,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Fetch reads the request's source and decodes it. When the source fails and
// a fallback is configured, the fallback is decoded instead and the failure is
// kept in Payload.Cause. Context cancellation is never masked by a fallback.
func (f *Fetcher) Fetch(ctx context.Context, req Request) (Payload, error) {
	payload, err := f.fetchSource(ctx, req)
	if err == nil {
		return payload, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Payload{}, ctxErr
	}
	if len(req.Fallback) == 0 {
		return Payload{}, err
	}

	value, decodeErr := jsonvalue.Decode(req.Fallback)
	if decodeErr != nil {
		return Payload{}, fmt.Errorf("source: decode fallback: %w", errors.Join(err, decodeErr))
	}
	f.logger.WarnContext(ctx, "using demo payload", slog.String("reason", err.Error()))
	return Payload{Value: value, Raw: req.Fallback, Origin: OriginDemo, Cause: err}, nil
}

// Read returns the raw bytes behind src without decoding or caching them.
func (f *Fetcher) Read(ctx context.Context, src Source) ([]byte, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	switch src.Kind() {
	case SourceKindFile:
		data, err := loadFile(ctx, src.Location())
		if err != nil {
			return nil, fmt.Errorf("source: read %s: %w", src.Location(), err)
		}
		return data, nil
	case SourceKindURL:
		data, err := loadHTTP(ctx, f.client, Request{Source: src}, f.timeout)
		if err != nil {
			return nil, fmt.Errorf("source: fetch %s: %w", src.Location(), err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("source: unsupported source kind %q", src.Kind())
	}
}

func (f *Fetcher) fetchSource(ctx context.Context, req Request) (Payload, error) {
	if req.Source == nil {
		return Payload{}, ErrNoSource
	}

	if req.Source.Kind() == SourceKindURL {
		return f.fetchURL(ctx, req)
	}
	data, err := f.Read(ctx, req.Source)
	if err != nil {
		return Payload{}, err
	}
	return decodePayload(data, OriginFile, req.Source)
}

func (f *Fetcher) fetchURL(ctx context.Context, req Request) (Payload, error) {
	key := cacheKey(req)
	if f.cache != nil {
		data, ok, err := f.cache.Get(ctx, key)
		switch {
		case err != nil:
			f.logger.WarnContext(ctx, "payload cache read failed", slog.String("error", err.Error()))
		case ok:
			if payload, err := decodePayload(data, OriginCache, req.Source); err == nil {
				return payload, nil
			}
		}
	}

	timeout := f.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	data, err := loadHTTP(ctx, f.client, req, timeout)
	if err != nil {
		return Payload{}, fmt.Errorf("source: fetch %s: %w", req.Source.Location(), err)
	}
	payload, err := decodePayload(data, OriginRemote, req.Source)
	if err != nil {
		return Payload{}, err
	}

	if f.cache != nil {
		if err := f.cache.Set(ctx, key, data, f.cacheTTL); err != nil {
			f.logger.WarnContext(ctx, "payload cache write failed", slog.String("error", err.Error()))
		}
	}
	return payload, nil
}

func decodePayload(data []byte, origin Origin, src Source) (Payload, error) {
	value, err := jsonvalue.Decode(data)
	if err != nil {
		return Payload{}, fmt.Errorf("source: decode %s: %w", src.Location(), err)
	}
	return Payload{Value: value, Raw: data, Origin: origin}, nil
}

func loadFile(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("file path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return os.ReadFile(path)
}

// cacheKey hashes method, location and headers so credentials never end up
// in cache keys verbatim.
func cacheKey(req Request) string {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}

	names := make([]string, 0, len(req.Headers))
	for name := range req.Headers {
		names = append(names, name)
	}
	sort.Strings(names)

	h := sha256.New()
	fmt.Fprintf(h, "%s %s\n", method, req.Source.Location())
	for _, name := range names {
		fmt.Fprintf(h, "%s: %s\n", strings.ToLower(name), req.Headers[name])
	}
	return hex.EncodeToString(h.Sum(nil))
}
