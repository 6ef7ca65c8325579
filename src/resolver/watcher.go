package resolver

import (
	"github.com/fsnotify/fsnotify"

	"pyls-manager/src/internal/common"
	"pyls-manager/src/internal/events"
)

// EventDistributionsChanged is published when something outside this process
// adds, removes or renames an entry under the distributions directory.
const EventDistributionsChanged = "distributions-changed"

// Watcher publishes distribution directory changes through an emitter. The
// resolver itself never deletes distributions, so any change is external.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	emitter   *events.Emitter
	done      chan struct{}
}

// NewWatcher starts watching dir and forwarding changes to emitter
func NewWatcher(dir string, emitter *events.Emitter) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		emitter:   emitter,
		done:      make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				common.ResolverLogger.Debug("distributions changed: %s %s", ev.Op, ev.Name)
				w.emitter.Emit(events.Event{Name: EventDistributionsChanged, Data: ev.Name})
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			common.ResolverLogger.Warn("watch error: %v", err)
		}
	}
}

// Close stops the watcher and waits for its loop to exit
func (w *Watcher) Close() error {
	err := w.fsWatcher.Close()
	<-w.done
	return err
}
