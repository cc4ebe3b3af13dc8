// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the REST adapters.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// throttled responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// maxRetryAfter caps a server-supplied Retry-After value.
const maxRetryAfter = 60 * time.Second

const defaultMaxRetries = 5

// retryable reports whether a status code asks the client to back off.
func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable
}

// DoWithRetry executes an HTTP request and retries on HTTP 429 and 503
// with exponential backoff starting at RetryBaseDelay. A Retry-After
// header given in seconds replaces the computed delay.
//
// When maxRetries is 0 the default (5) is used. The request body, if any,
// must be replayable through req.GetBody (true for bytes/strings readers).
// If the context is cancelled during a wait the function returns
// ctx.Err(). After exhausting retries the last response is returned so
// the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if client == nil {
		client = http.DefaultClient
	}

	for attempt := 0; ; attempt++ {
		r := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			r.Body = body
		}

		resp, err := client.Do(r)
		if err != nil {
			return nil, err
		}

		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		if d, ok := retryAfter(resp.Header.Get("Retry-After")); ok {
			backoff = d
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// retryAfter parses a Retry-After header expressed in whole seconds.
func retryAfter(v string) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		d = maxRetryAfter
	}
	return d, true
}
