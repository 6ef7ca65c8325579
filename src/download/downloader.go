// Package download fetches distribution packages from feed download URIs and
// unpacks them into distribution folders.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"

	"pyls-manager/src/feed"
	"pyls-manager/src/internal/common"
)

const maxDownloadRetries = 3

// Downloader fetches package archives over HTTP. Feed clients never retry;
// download is the one operation that does, with exponential backoff.
type Downloader struct {
	client         feed.HTTPDoer
	backoffInitial time.Duration
}

// NewDownloader creates a downloader on top of the given HTTP client. The
// client carries the proxy and timeout configuration.
func NewDownloader(client feed.HTTPDoer) *Downloader {
	return &Downloader{
		client:         client,
		backoffInitial: 500 * time.Millisecond,
	}
}

// Download fetches uri into destPath. Transient failures are retried; HTTP 4xx
// responses are not. The file appears at destPath only once fully written.
func (d *Downloader) Download(ctx context.Context, uri, destPath string) error {
	common.CLILogger.Info("Downloading %s", uri)

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = d.backoffInitial

	operation := func() error {
		return d.fetch(ctx, uri, destPath)
	}

	retries := backoff.WithMaxRetries(backoff.WithContext(policy, ctx), maxDownloadRetries)
	if err := backoff.Retry(operation, retries); err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	common.CLILogger.Info("Download completed: %s", destPath)
	return nil
}

func (d *Downloader) fetch(ctx context.Context, uri, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		statusErr := fmt.Errorf("unexpected status %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(statusErr)
		}
		return statusErr
	}

	// Write through a temp file so a failed transfer never leaves a truncated
	// archive at destPath.
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".download-*")
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to create temp file: %w", err))
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), destPath)
}
