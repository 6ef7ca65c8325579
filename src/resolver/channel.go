package resolver

import (
	"fmt"
	"time"

	"pyls-manager/src/internal/distver"
	"pyls-manager/src/internal/state"
)

// Channel is a named update cadence governing how often the resolver consults
// a remote feed.
type Channel string

const (
	ChannelStable Channel = "stable"
	ChannelBeta   Channel = "beta"
	ChannelDaily  Channel = "daily"
)

// FolderVersion pairs a local distribution folder with its parsed version
type FolderVersion struct {
	Path    string
	Version *distver.Version
}

// Rule decides whether a resolution attempt should consult the remote feed.
// ShouldLookForNewRelease is a pure read; the orchestrator calls MarkChecked
// once a rule grants a check, whether or not the remote query then succeeds.
type Rule interface {
	ShouldLookForNewRelease(current *FolderVersion) bool
	MarkChecked() error
}

// DailyRule re-checks the remote feed on every resolution attempt
type DailyRule struct {
	store *state.Store
	key   string
}

func NewDailyRule(store *state.Store, key string) *DailyRule {
	return &DailyRule{store: store, key: key}
}

func (r *DailyRule) ShouldLookForNewRelease(current *FolderVersion) bool {
	return true
}

func (r *DailyRule) MarkChecked() error {
	if r.store == nil {
		return nil
	}
	return r.store.MarkChecked(r.key, time.Now())
}

// StableRule only checks when no distribution is installed yet; updates beyond
// that are explicit.
type StableRule struct{}

func NewStableRule() *StableRule {
	return &StableRule{}
}

func (r *StableRule) ShouldLookForNewRelease(current *FolderVersion) bool {
	return current == nil
}

func (r *StableRule) MarkChecked() error {
	return nil
}

// BetaRule checks once per install, tracked by persisted state, and whenever no
// local distribution exists.
type BetaRule struct {
	store *state.Store
	key   string
}

func NewBetaRule(store *state.Store, key string) *BetaRule {
	return &BetaRule{store: store, key: key}
}

func (r *BetaRule) ShouldLookForNewRelease(current *FolderVersion) bool {
	if current == nil {
		return true
	}
	return !r.store.HasCheckedOnce(r.key)
}

func (r *BetaRule) MarkChecked() error {
	return r.store.MarkChecked(r.key, time.Now())
}

// RuleForChannel builds the rule governing the given channel. The key
// identifies the product/channel pair in the persisted store.
func RuleForChannel(channel Channel, store *state.Store, key string) (Rule, error) {
	switch channel {
	case ChannelDaily:
		return NewDailyRule(store, key), nil
	case ChannelStable:
		return NewStableRule(), nil
	case ChannelBeta:
		return NewBetaRule(store, key), nil
	default:
		return nil, fmt.Errorf("unknown download channel %q", channel)
	}
}
