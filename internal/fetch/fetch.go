// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads remote PDF files for extraction.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

const (
	defaultMaxRetries = 5
	defaultUserAgent  = "highlight-extractor/1.0"
)

// pdfMagic is the signature every PDF file starts with.
var pdfMagic = []byte("%PDF-")

// Fetcher downloads PDFs over HTTP.
type Fetcher struct {
	// Client is the HTTP client. Nil uses http.DefaultClient.
	Client *http.Client

	// UserAgent overrides the default request User-Agent.
	UserAgent string

	// MaxRetries bounds 429 retries. Zero uses the default (5).
	MaxRetries int
}

// Fetch downloads url to destPath. The body is written to a temporary
// file in the destination directory and renamed into place on success,
// so a failed download never leaves a partial file behind. Responses
// that do not start with the PDF signature are rejected.
func (f *Fetcher) Fetch(ctx context.Context, url, destPath string, w io.Writer) error {
	if dir := filepath.Dir(destPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating destination directory: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent())
	req.Header.Set("Accept", "application/pdf")

	resp, err := f.doWithRetry(ctx, req, w)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	return writeTemp(resp.Body, destPath)
}

// doWithRetry executes the request, retrying on HTTP 429 with exponential
// backoff. After exhausting retries the last 429 response is returned so
// the caller can report it.
func (f *Fetcher) doWithRetry(ctx context.Context, req *http.Request, w io.Writer) (*http.Response, error) {
	maxRetries := f.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := f.client().Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		fmt.Fprintf(w, "rate limited, retrying in %v (attempt %d/%d)\n", backoff, attempt+1, maxRetries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// writeTemp copies body to a temporary file next to destPath, verifies
// the PDF signature, and renames into place.
func writeTemp(body io.Reader, destPath string) error {
	head := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(body, head); err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if !bytes.Equal(head, pdfMagic) {
		return fmt.Errorf("response is not a PDF file")
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, io.MultiReader(bytes.NewReader(head), body))
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}

func (f *Fetcher) userAgent() string {
	if f.UserAgent != "" {
		return f.UserAgent
	}
	return defaultUserAgent
}
