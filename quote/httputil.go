package quote

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/etnz/allocation/date"
	"github.com/rs/zerolog"
)

// diskCache is an http.RoundTripper keeping successful responses on disk for the day.
type diskCache struct {
	base    http.RoundTripper
	dir     string
	refresh bool // skip reads, still write
	log     zerolog.Logger
}

func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	// one key per day, so the cache expires every day.
	key := fmt.Sprintf("%s %s %s", date.Today().String(), req.Method, req.URL.String())
	key = fmt.Sprintf("quote-%x", sha1.Sum([]byte(key)))

	if !c.refresh {
		if cached, err := c.get(key, req); err == nil {
			c.log.Debug().Str("url", req.URL.String()).Msg("disk cache hit")
			return cached, nil
		}
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("method", req.Method).Str("host", req.URL.Host).Str("path", req.URL.Path).Int("status", resp.StatusCode).Msg("fetched")
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		c.log.Warn().Err(err).Msg("cache write failed (ignored)")
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0644)
}

// getJSON performs an HTTP GET request and unmarshals the JSON response into data.
// A 404 is reported as ErrNotFound.
func getJSON(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}
