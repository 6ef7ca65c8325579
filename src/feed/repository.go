// Package feed queries remote package feeds for available language-server
// distributions. Two feed formats are supported: NuGet OData XML listings and
// Azure Blob Storage container listings.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"pyls-manager/src/internal/distver"
	"pyls-manager/src/internal/registry"
)

// PackageInfo describes one candidate distribution available on a remote feed.
// Constructed fresh per query, never persisted.
type PackageInfo struct {
	PackageName string
	Version     *distver.Version
	DownloadURI string
}

// Repository lists the packages a remote feed offers for a package name. Each
// call performs a full listing; no cursor state is kept between calls. Implementations
// do not retry internally.
type Repository interface {
	GetPackages(ctx context.Context, packageName string) ([]PackageInfo, error)
}

// HTTPDoer is the minimal HTTP client surface the feed clients need. It exists
// so tests can substitute a canned transport.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient builds the outbound HTTP client used for feed queries and
// downloads. The timeout is the implicit bound on every feed operation; proxy
// may be empty.
func NewHTTPClient(proxy string, timeout time.Duration) (*http.Client, error) {
	client := &http.Client{Timeout: timeout}

	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", proxy, err)
		}
		client.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}

	return client, nil
}

// NewRepository constructs the repository matching a registry feed definition
func NewRepository(info registry.FeedInfo, httpClient HTTPDoer) (Repository, error) {
	switch info.Kind {
	case registry.FeedAzureBlob:
		return NewAzureBlobRepository(info.URL, httpClient), nil
	case registry.FeedNuGet:
		return NewNuGetRepository(info.URL, httpClient), nil
	default:
		return nil, fmt.Errorf("unknown feed kind %q", info.Kind)
	}
}
