package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/resinhook/internal/dataset"
	"github.com/rshade/resinhook/internal/engine/cache"
	"github.com/rshade/resinhook/internal/engine/export"
	"github.com/rshade/resinhook/internal/logging"
)

// maxBodyBytes bounds a remote payload.
const maxBodyBytes = 512 << 20

// DefaultTimeout bounds a remote fetch when the client has none.
const DefaultTimeout = 2 * time.Minute

// Remote fetches JSON rows over HTTP, optionally through a response cache.
type Remote struct {
	Client *http.Client
	Cache  *cache.FileStore
}

// URL returns a producer that GETs url and decodes the JSON body. A live
// cache entry short-circuits the request.
func (r Remote) URL(url string) export.Producer {
	return func(ctx context.Context) ([]*dataset.Row, error) {
		log := logging.ComponentLogger(logging.FromContext(ctx), "source").
			With().Str("url", url).Logger()

		key := cache.Key(http.MethodGet, url)
		if body, ok := r.cached(key, log); ok {
			return dataset.DecodeJSON(bytes.NewReader(body))
		}

		body, err := r.fetch(ctx, url)
		if err != nil {
			return nil, err
		}

		rows, err := dataset.DecodeJSON(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", url, err)
		}

		if r.Cache != nil && r.Cache.Enabled() {
			if cerr := r.Cache.Put(key, url, body); cerr != nil {
				log.Warn().Err(cerr).Msg("caching response")
			}
		}
		log.Debug().Int("rows", len(rows)).Int("bytes", len(body)).Msg("fetched rows")
		return rows, nil
	}
}

func (r Remote) cached(key string, log zerolog.Logger) ([]byte, bool) {
	if r.Cache == nil || !r.Cache.Enabled() {
		return nil, false
	}
	entry, err := r.Cache.Get(key)
	switch {
	case err == nil:
		log.Debug().Msg("cache hit")
		return entry.Data, true
	case errors.Is(err, cache.ErrNotFound), errors.Is(err, cache.ErrExpired):
		return nil, false
	default:
		log.Warn().Err(err).Msg("reading cache")
		return nil, false
	}
}

func (r Remote) fetch(ctx context.Context, url string) ([]byte, error) {
	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return body, nil
}
