// Package watch reports when the open folder changes on disk so the browser can rescan.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"lightcull/internal/domain"
	"lightcull/internal/logging"
)

const defaultDebounce = 300 * time.Millisecond

// Watcher follows one folder at a time. Bursts of events, such as the two renames of a
// pair move, collapse into a single notification once the folder has been quiet for the
// debounce interval.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   logging.Logger
	debounce time.Duration

	mu     sync.Mutex
	folder string

	notify chan string
	done   chan struct{}
	once   sync.Once
}

// NewWatcher starts the event loop. A non-positive debounce uses 300ms.
func NewWatcher(debounce time.Duration, logger logging.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	fw := &Watcher{
		watcher:  w,
		logger:   logger,
		debounce: debounce,
		notify:   make(chan string, 1),
		done:     make(chan struct{}),
	}
	go fw.run()
	return fw, nil
}

// Watch switches to folder, dropping the previous one.
func (fw *Watcher) Watch(folder string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.folder == folder {
		return nil
	}
	if fw.folder != "" {
		if err := fw.watcher.Remove(fw.folder); err != nil {
			fw.logger.Verbosef("Error unwatching %s: %v", fw.folder, err)
		}
	}
	if err := fw.watcher.Add(folder); err != nil {
		fw.folder = ""
		return err
	}
	fw.folder = folder
	fw.logger.Verbosef("Watching %s", folder)
	return nil
}

// Changes delivers the folder path after each settled burst of changes.
func (fw *Watcher) Changes() <-chan string {
	return fw.notify
}

func (fw *Watcher) Close() error {
	var err error
	fw.once.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
	})
	return err
}

func (fw *Watcher) run() {
	timer := time.NewTimer(fw.debounce)
	timer.Stop()
	pending := ""

	for {
		select {
		case <-fw.done:
			timer.Stop()
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !fw.relevant(event) {
				continue
			}
			fw.mu.Lock()
			pending = fw.folder
			fw.mu.Unlock()
			timer.Reset(fw.debounce)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warnf("Folder watch error: %v", err)

		case <-timer.C:
			if pending == "" {
				continue
			}
			select {
			case fw.notify <- pending:
			default:
				// A notification is already waiting; one rescan covers both.
			}
			pending = ""
		}
	}
}

// relevant keeps Chmod events: Linux reports tag attribute writes as Chmod.
func (fw *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Chmod) {
		return false
	}
	name := filepath.Base(event.Name)
	return !domain.IsHidden(name) && !domain.IsDestinationFolder(name)
}
