package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"pyls-manager/src/internal/common"
	"pyls-manager/src/internal/distver"
	"pyls-manager/src/internal/errors"
)

// NuGetRepository lists distributions from a NuGet OData (v2) feed. Package ids
// carry the platform suffix (<name>-<platform>); the version lives in the
// entry's properties.
type NuGetRepository struct {
	feedURL    string
	httpClient HTTPDoer
}

// NewNuGetRepository creates a repository over the given OData feed base URL
func NewNuGetRepository(feedURL string, httpClient HTTPDoer) *NuGetRepository {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &NuGetRepository{feedURL: feedURL, httpClient: httpClient}
}

// odataFeed mirrors the Atom feed returned by FindPackagesById
type odataFeed struct {
	XMLName xml.Name     `xml:"feed"`
	Entries []odataEntry `xml:"entry"`
}

type odataEntry struct {
	Title      string          `xml:"title"`
	Content    odataContent    `xml:"content"`
	Properties odataProperties `xml:"properties"`
}

type odataContent struct {
	Src string `xml:"src,attr"`
}

type odataProperties struct {
	Version string `xml:"Version"`
}

// GetPackages queries FindPackagesById for every platform variant of the
// package. Entries with ids outside the requested package or with unparsable
// versions are skipped.
func (r *NuGetRepository) GetPackages(ctx context.Context, packageName string) ([]PackageInfo, error) {
	queryURL := fmt.Sprintf("%s/FindPackagesById()?id=%s", r.feedURL, url.QueryEscape("'"+packageName+"'"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, errors.WrapRemoteFeedError(r.feedURL, err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, errors.WrapRemoteFeedError(r.feedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.WrapRemoteFeedError(r.feedURL, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapRemoteFeedError(r.feedURL, err)
	}

	var listing odataFeed
	if err := xml.Unmarshal(body, &listing); err != nil {
		return nil, errors.WrapRemoteFeedError(r.feedURL, fmt.Errorf("failed to parse feed: %w", err))
	}

	packages := make([]PackageInfo, 0, len(listing.Entries))
	for _, entry := range listing.Entries {
		if !strings.HasPrefix(entry.Title, packageName) {
			common.FeedLogger.Debug("skipping entry %s: not %s", entry.Title, packageName)
			continue
		}

		version, err := distver.Parse(entry.Properties.Version)
		if err != nil {
			common.FeedLogger.Debug("skipping entry %s: %v", entry.Title, err)
			continue
		}

		packages = append(packages, PackageInfo{
			PackageName: packageName,
			Version:     version,
			DownloadURI: entry.Content.Src,
		})
	}

	return packages, nil
}
