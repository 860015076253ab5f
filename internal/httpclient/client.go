// Package httpclient holds the one tuned HTTP client the API engine
// talks through, plus a read helper that never leaks response bodies.
package httpclient

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const (
	// DefaultTimeout bounds a whole request. Ten minutes leaves room
	// for uploading a long recording and waiting out the transcription
	// without permitting an indefinite hang.
	DefaultTimeout = 10 * time.Minute

	// MaxResponseBytes caps how much of a response body is read. A
	// transcript is text; anything bigger than this is not a transcript.
	MaxResponseBytes = 8 * 1024 * 1024
)

var (
	defaultClient  *http.Client
	defaultOnce    sync.Once
	overrideClient *http.Client
)

// NewClient builds a client with the given timeout on a transport tuned
// for a small number of long-lived connections to one API host.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   20,
			IdleConnTimeout:       120 * time.Second,
			TLSHandshakeTimeout:   30 * time.Second,
			ExpectContinueTimeout: 2 * time.Second,
		},
	}
}

// GetDefaultClient returns the shared client, building it on first use.
func GetDefaultClient() *http.Client {
	if overrideClient != nil {
		return overrideClient
	}
	defaultOnce.Do(func() {
		defaultClient = NewClient(DefaultTimeout)
	})
	return defaultClient
}

// SetDefaultClientForTesting swaps the shared client and returns a
// restore function.
func SetDefaultClientForTesting(client *http.Client) func() {
	prev := overrideClient
	overrideClient = client
	return func() {
		overrideClient = prev
	}
}

// DoAndRead performs the request and returns the full body with the
// response. The body is always closed, and reads past MaxResponseBytes
// fail instead of ballooning memory.
func DoAndRead(client *http.Client, req *http.Request) ([]byte, *http.Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.ContentLength > MaxResponseBytes {
		return nil, resp, fmt.Errorf("response body too large (limit %d bytes)", MaxResponseBytes)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return nil, resp, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > MaxResponseBytes {
		return nil, resp, fmt.Errorf("response body too large (limit %d bytes)", MaxResponseBytes)
	}
	return body, resp, nil
}
