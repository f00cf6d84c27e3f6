package source

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/hierarchy"
	"github.com/matzehuels/orgchart/pkg/observability"
)

const (
	httpTimeout = 10 * time.Second
	maxBodySize = 16 << 20
)

// HTTP fetches a payload with GET. Transient failures (transport errors and
// 5xx responses) are retried with exponential backoff; successful payloads
// are cached in normalized JSON form.
type HTTP struct {
	URL     string
	Format  hierarchy.Format
	Client  *http.Client
	Headers map[string]string
	Cache   cache.Cache
	Keyer   cache.Keyer
	TTL     time.Duration
	Refresh bool
	Backoff cache.Backoff
}

// NewHTTP validates url and fills unset options with defaults.
func NewHTTP(url string, opts Options) (*HTTP, error) {
	if err := errors.ValidateURL(url); err != nil {
		return nil, err
	}
	h := &HTTP{
		URL:     url,
		Format:  opts.Format,
		Client:  opts.Client,
		Headers: opts.Headers,
		Cache:   opts.Cache,
		Keyer:   opts.Keyer,
		TTL:     opts.TTL,
		Refresh: opts.Refresh,
		Backoff: cache.DefaultBackoff,
	}
	if h.Client == nil {
		h.Client = &http.Client{Timeout: httpTimeout}
	}
	if h.Cache == nil {
		h.Cache = cache.NewNullCache()
	}
	if h.Keyer == nil {
		h.Keyer = cache.NewDefaultKeyer()
	}
	if h.TTL == 0 {
		h.TTL = cache.TTLHTTP
	}
	return h, nil
}

func (h *HTTP) Ref() string { return h.URL }

func (h *HTTP) Load(ctx context.Context) (*hierarchy.Payload, error) {
	key := h.Keyer.HTTPKey("source", h.URL)
	if !h.Refresh {
		if data, hit, err := h.Cache.Get(ctx, key); err == nil && hit {
			if p, err := hierarchy.Decode(data, hierarchy.FormatJSON); err == nil {
				observability.Cache().OnCacheHit(ctx, "http")
				return p, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "http")
	}

	var body []byte
	var contentType string
	err := h.Backoff.Retry(ctx, func() error {
		var err error
		body, contentType, err = h.fetch(ctx)
		return err
	})
	switch {
	case stderrors.Is(err, cache.ErrNotFound):
		return nil, errors.New(errors.ErrCodeSourceNotFound, "no hierarchy at %s", h.URL)
	case stderrors.Is(err, cache.ErrNetwork):
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", h.URL)
	case err != nil:
		return nil, err
	}

	format := h.Format
	if format == hierarchy.FormatAuto {
		format = hierarchy.FormatFromContentType(contentType)
	}
	if format == hierarchy.FormatAuto {
		format = hierarchy.FormatFromPath(h.URL)
	}
	p, err := hierarchy.Decode(body, format)
	if err != nil {
		return nil, err
	}

	if normalized, err := hierarchy.Encode(p, hierarchy.FormatJSON); err == nil {
		if err := h.Cache.Set(ctx, key, normalized, h.TTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "http", len(normalized))
		}
	}
	return p, nil
}

func (h *HTTP) fetch(ctx context.Context) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.1")
	for k, v := range h.Headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := h.Client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		return nil, "", cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, "", err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, "", cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return cache.ErrNotFound
	case code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", cache.ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", cache.ErrNetwork, code)
	}
}

var _ Source = (*HTTP)(nil)
