package registry

import (
	"fmt"
	"time"
)

// Feed kinds understood by the remote repository clients.
const (
	FeedAzureBlob = "azureblob"
	FeedNuGet     = "nuget"
)

// FeedInfo identifies one remote package feed
type FeedInfo struct {
	Kind string // azureblob or nuget
	URL  string // container or feed base URL
}

// ProductInfo contains everything the resolver needs to know about one
// language-server product
type ProductInfo struct {
	Name              string   // Product name (python)
	FolderPrefix      string   // Prefix of local distribution folder names
	DefaultFolderName string   // Folder name used when nothing is installed
	PackageName       string   // Package name on the remote feeds
	ServerCommands    []string // Executable names inside a distribution

	// Per-channel feeds. The channel determines which feed is queried; beta and
	// daily packages are not filtered out of their own feeds post-hoc.
	Feeds map[string]FeedInfo

	InitializeTimeout time.Duration // Activation handshake timeout
}

// Global product registry containing all supported language-server products
var productRegistry = map[string]ProductInfo{
	"python": {
		Name:              "python",
		FolderPrefix:      "languageServer",
		DefaultFolderName: "languageServer",
		PackageName:       "Python-Language-Server",
		ServerCommands:    []string{"Microsoft.Python.LanguageServer", "pylance-server"},
		Feeds: map[string]FeedInfo{
			"stable": {Kind: FeedAzureBlob, URL: "https://pvsc.blob.core.windows.net/python-language-server-stable"},
			"beta":   {Kind: FeedAzureBlob, URL: "https://pvsc.blob.core.windows.net/python-language-server-beta"},
			"daily":  {Kind: FeedAzureBlob, URL: "https://pvsc.blob.core.windows.net/python-language-server-daily"},
		},
		InitializeTimeout: 30 * time.Second,
	},
	"jedi": {
		Name:              "jedi",
		FolderPrefix:      "jediLanguageServer",
		DefaultFolderName: "jediLanguageServer",
		PackageName:       "Jedi-Language-Server",
		ServerCommands:    []string{"jedi-language-server"},
		Feeds: map[string]FeedInfo{
			"stable": {Kind: FeedNuGet, URL: "https://pvsc.azureedge.net/nuget/jedi-stable"},
			"beta":   {Kind: FeedNuGet, URL: "https://pvsc.azureedge.net/nuget/jedi-beta"},
			"daily":  {Kind: FeedNuGet, URL: "https://pvsc.azureedge.net/nuget/jedi-daily"},
		},
		InitializeTimeout: 30 * time.Second,
	},
}

// GetProducts returns all registered product information
func GetProducts() []ProductInfo {
	products := make([]ProductInfo, 0, len(productRegistry))
	for _, product := range productRegistry {
		products = append(products, product)
	}
	return products
}

// GetProductByName returns product information by name
func GetProductByName(name string) (*ProductInfo, bool) {
	product, exists := productRegistry[name]
	if !exists {
		return nil, false
	}
	return &product, true
}

// GetProductNames returns the list of registered product names
func GetProductNames() []string {
	names := make([]string, 0, len(productRegistry))
	for name := range productRegistry {
		names = append(names, name)
	}
	return names
}

// IsProductSupported checks if a product is registered
func IsProductSupported(name string) bool {
	_, exists := productRegistry[name]
	return exists
}

// ValidateProduct validates that the product is registered and returns an error if not
func ValidateProduct(name string) error {
	if !IsProductSupported(name) {
		return fmt.Errorf("unsupported product: %s (supported: %v)", name, GetProductNames())
	}
	return nil
}

// GetFeed returns the feed queried for this product on the given channel
func (p *ProductInfo) GetFeed(channel string) (FeedInfo, error) {
	feed, exists := p.Feeds[channel]
	if !exists {
		return FeedInfo{}, fmt.Errorf("product %s has no feed for channel %s", p.Name, channel)
	}
	return feed, nil
}

// GetServerCommands returns a copy of the executable names for this product
func (p *ProductInfo) GetServerCommands() []string {
	out := make([]string, len(p.ServerCommands))
	copy(out, p.ServerCommands)
	return out
}
