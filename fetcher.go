// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viewer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/sassoftware/viya-doc-viewer/logger"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// Fetcher retrieves a manifest document by URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches JSON manifests over HTTP. Successful responses are
// cached per URL, concurrent requests for one URL share a single round
// trip, and the number of requests in flight is bounded.
type HTTPFetcher struct {
	client *http.Client
	sem    *semaphore.Weighted
	group  singleflight.Group

	mu    sync.Mutex
	cache map[string][]byte
}

// NewHTTPFetcher returns a fetcher using client, or http.DefaultClient when
// client is nil.
func NewHTTPFetcher(client *http.Client, maxConcurrent int) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &HTTPFetcher{
		client: client,
		sem:    semaphore.NewWeighted(int64(maxConcurrent)),
		cache:  make(map[string][]byte),
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	data, ok := f.cache[url]
	f.mu.Unlock()
	if ok {
		logger.Debug(fmt.Sprintf("Manifest cache hit: url=%s", url), true)
		return data, nil
	}

	v, err, shared := f.group.Do(url, func() (interface{}, error) {
		if err := f.sem.Acquire(ctx, 1); err != nil {
			return nil, &FetchError{URL: url, Err: fmt.Errorf("acquire slot: %w", err)}
		}
		defer f.sem.Release(1)

		data, err := f.get(ctx, url)
		if err != nil {
			return nil, err
		}
		f.mu.Lock()
		f.cache[url] = data
		f.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debug(fmt.Sprintf("Manifest fetched: url=%s shared=%v", url, shared), true)
	return v.([]byte), nil
}

func (f *HTTPFetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "zstd, gzip")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, StatusText: http.StatusText(resp.StatusCode)}
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, StatusText: "decode error", Err: err}
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, StatusText: "read error", Err: err}
	}
	return data, nil
}

// decodeBody undoes the Content-Encoding we asked for. Setting
// Accept-Encoding by hand turns off the transport's own gzip handling.
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "zstd":
		zr, err := zstd.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "", "identity":
		return io.NopCloser(resp.Body), nil
	}
	return nil, fmt.Errorf("unsupported content encoding %q", resp.Header.Get("Content-Encoding"))
}
