// Package source loads external data payloads for flow steps from files or
// HTTP endpoints, with optional caching and demo-data fallback.
package source
