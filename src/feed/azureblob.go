package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"pyls-manager/src/internal/common"
	"pyls-manager/src/internal/distver"
	"pyls-manager/src/internal/errors"
)

// AzureBlobRepository lists distributions from an Azure Blob Storage container.
// Blob names follow the <name>-<platform>.<version>.nupkg convention.
type AzureBlobRepository struct {
	containerURL string
	httpClient   HTTPDoer
}

// NewAzureBlobRepository creates a repository over the given container URL
func NewAzureBlobRepository(containerURL string, httpClient HTTPDoer) *AzureBlobRepository {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &AzureBlobRepository{containerURL: containerURL, httpClient: httpClient}
}

// blobEnumeration mirrors the container listing XML
type blobEnumeration struct {
	XMLName xml.Name    `xml:"EnumerationResults"`
	Blobs   []blobEntry `xml:"Blobs>Blob"`
}

type blobEntry struct {
	Name string `xml:"Name"`
	URL  string `xml:"Url"`
}

// GetPackages performs a full container listing filtered by package name.
// Blobs whose names do not parse through the version codec are skipped.
func (r *AzureBlobRepository) GetPackages(ctx context.Context, packageName string) ([]PackageInfo, error) {
	listURL := fmt.Sprintf("%s?restype=container&comp=list&prefix=%s", r.containerURL, url.QueryEscape(packageName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, errors.WrapRemoteFeedError(r.containerURL, err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, errors.WrapRemoteFeedError(r.containerURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.WrapRemoteFeedError(r.containerURL, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapRemoteFeedError(r.containerURL, err)
	}

	var listing blobEnumeration
	if err := xml.Unmarshal(body, &listing); err != nil {
		return nil, errors.WrapRemoteFeedError(r.containerURL, fmt.Errorf("failed to parse container listing: %w", err))
	}

	packages := make([]PackageInfo, 0, len(listing.Blobs))
	for _, blob := range listing.Blobs {
		version, err := distver.ParsePackageFileName(blob.Name, packageName)
		if err != nil {
			common.FeedLogger.Debug("skipping blob %s: %v", blob.Name, err)
			continue
		}

		downloadURI := blob.URL
		if downloadURI == "" {
			downloadURI = r.containerURL + "/" + blob.Name
		}

		packages = append(packages, PackageInfo{
			PackageName: packageName,
			Version:     version,
			DownloadURI: downloadURI,
		})
	}

	return packages, nil
}
