// Package source loads hierarchy payloads from where they live: local files,
// standard input or an HTTP endpoint.
//
// A [Source] returns a decoded and validated [hierarchy.Payload]. Malformed
// documents surface as INVALID_PAYLOAD errors from [hierarchy.Decode]; a
// missing file or a 404 surfaces as SOURCE_NOT_FOUND; transport failures as
// NETWORK_ERROR after retrying.
//
// [Open] picks an implementation from a reference string:
//
//	src, err := source.Open("https://hr.example.com/org.json", source.Options{Cache: c})
//	payload, err := src.Load(ctx)
package source

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/hierarchy"
)

// Source produces a validated hierarchy payload.
type Source interface {
	// Load reads and decodes the payload.
	Load(ctx context.Context) (*hierarchy.Payload, error)

	// Ref returns the reference the source was opened from.
	Ref() string
}

// Options configures [Open].
type Options struct {
	// Format overrides format detection. Empty means infer from the path,
	// the Content-Type, or the document itself.
	Format hierarchy.Format

	// Cache stores fetched HTTP payloads. Nil disables caching.
	Cache cache.Cache

	// Keyer derives cache keys. Nil means [cache.DefaultKeyer].
	Keyer cache.Keyer

	// TTL for cached HTTP payloads. Zero means [cache.TTLHTTP].
	TTL time.Duration

	// Refresh bypasses the cache on read; the result is still stored.
	Refresh bool

	// Client performs HTTP requests. Nil means a client with a 10s timeout.
	Client *http.Client

	// Headers are sent with every HTTP request.
	Headers map[string]string

	// Stdin is read for the "-" reference. Nil means os.Stdin.
	Stdin io.Reader
}

// Open returns the source for ref:
//
//	"-"                  standard input
//	http://, https://    [HTTP]
//	file://path, path    [File]
func Open(ref string, opts Options) (Source, error) {
	switch {
	case ref == "-":
		in := opts.Stdin
		if in == nil {
			in = os.Stdin
		}
		return &Reader{Name: "stdin", R: in, Format: opts.Format}, nil
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return NewHTTP(ref, opts)
	default:
		return NewFile(strings.TrimPrefix(ref, "file://"), opts.Format)
	}
}
