package resolver

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"pyls-manager/src/feed"
	"pyls-manager/src/internal/common"
	"pyls-manager/src/internal/distver"
	"pyls-manager/src/internal/events"
	"pyls-manager/src/internal/registry"
)

// EventUpdateAvailable is published when resolution finds a remote version
// strictly newer than the installed one.
const EventUpdateAvailable = "update-available"

// Resolution is the outcome of one resolution request. FolderName is always
// set; DownloadURI is non-empty only when a newer remote version was selected,
// in which case FolderName is the name to download into.
type Resolution struct {
	FolderName  string
	Path        string
	Version     *distver.Version
	DownloadURI string
}

// FolderService picks which on-disk language-server distribution to use,
// combining the local scan, the channel rule and the remote feed.
type FolderService struct {
	product    *registry.ProductInfo
	channel    Channel
	autoUpdate bool
	scanner    *Scanner
	rule       Rule
	repository feed.Repository
	emitter    *events.Emitter
	dir        string
}

// NewFolderService wires a folder service for one product. The emitter may be
// nil when no one listens for update events.
func NewFolderService(product *registry.ProductInfo, dir string, channel Channel, autoUpdate bool, rule Rule, repository feed.Repository, emitter *events.Emitter) *FolderService {
	return &FolderService{
		product:    product,
		channel:    channel,
		autoUpdate: autoUpdate,
		scanner:    NewScanner(dir, product.FolderPrefix),
		rule:       rule,
		repository: repository,
		emitter:    emitter,
		dir:        dir,
	}
}

// GetCurrentDistribution scans the parent directory and returns the installed
// distribution with the greatest version, or nil when none is installed.
func (s *FolderService) GetCurrentDistribution() (*FolderVersion, error) {
	found, err := s.scanner.Scan()
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}

	newest := lo.MaxBy(found, func(a, b FolderVersion) bool {
		return a.Version.GreaterThan(b.Version)
	})
	return &newest, nil
}

// Resolve runs one resolution request. Remote feed failures are never fatal:
// the result falls back to the installed distribution (or the default folder
// name when nothing is installed).
func (s *FolderService) Resolve(ctx context.Context) (*Resolution, error) {
	rid := uuid.NewString()[:8]

	current, err := s.GetCurrentDistribution()
	if err != nil {
		return nil, err
	}

	if !s.autoUpdate {
		common.ResolverLogger.Debug("[%s] auto-update disabled, using local state only", rid)
		return s.localResolution(current), nil
	}

	if !s.rule.ShouldLookForNewRelease(current) {
		common.ResolverLogger.Debug("[%s] %s channel rule declined remote check", rid, s.channel)
		return s.localResolution(current), nil
	}

	// The check counts as consumed once the rule grants it, even when the
	// remote query below fails.
	if err := s.rule.MarkChecked(); err != nil {
		common.ResolverLogger.Warn("[%s] failed to persist channel state: %v", rid, err)
	}

	remote, err := s.latestRemoteRelease(ctx)
	if err != nil {
		common.ResolverLogger.Warn("[%s] remote check failed, keeping local distribution: %v", rid, err)
		return s.localResolution(current), nil
	}
	if remote == nil {
		common.ResolverLogger.Info("[%s] feed offers no release packages for %s", rid, s.product.PackageName)
		return s.localResolution(current), nil
	}

	if current != nil && !remote.Version.GreaterThan(current.Version) {
		common.ResolverLogger.Debug("[%s] local %s is current (remote %s)", rid, current.Version, remote.Version)
		return s.localResolution(current), nil
	}

	folderName := distver.FolderName(s.product.FolderPrefix, remote.Version)
	common.ResolverLogger.Info("[%s] newer distribution available: %s", rid, folderName)

	if s.emitter != nil {
		s.emitter.Emit(events.Event{Name: EventUpdateAvailable, Data: folderName})
	}

	return &Resolution{
		FolderName:  folderName,
		Path:        filepath.Join(s.dir, folderName),
		Version:     remote.Version,
		DownloadURI: remote.DownloadURI,
	}, nil
}

// localResolution builds the fallback result from the installed state
func (s *FolderService) localResolution(current *FolderVersion) *Resolution {
	if current == nil {
		return &Resolution{
			FolderName: s.product.DefaultFolderName,
			Path:       filepath.Join(s.dir, s.product.DefaultFolderName),
		}
	}
	return &Resolution{
		FolderName: filepath.Base(current.Path),
		Path:       current.Path,
		Version:    current.Version,
	}
}

// latestRemoteRelease queries the channel's feed and selects the greatest
// release version. Returns nil when the feed lists no release packages.
func (s *FolderService) latestRemoteRelease(ctx context.Context) (*feed.PackageInfo, error) {
	packages, err := s.repository.GetPackages(ctx, s.product.PackageName)
	if err != nil {
		return nil, err
	}

	releases := lo.Filter(packages, func(p feed.PackageInfo, _ int) bool {
		return p.Version.IsRelease()
	})
	if len(releases) == 0 {
		return nil, nil
	}

	newest := lo.MaxBy(releases, func(a, b feed.PackageInfo) bool {
		return a.Version.GreaterThan(b.Version)
	})
	return &newest, nil
}
