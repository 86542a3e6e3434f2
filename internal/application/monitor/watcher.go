package monitor

import (
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/go-dose-monitor/internal/core/model"
	"github.com/penwyp/go-dose-monitor/internal/util"
)

// FileWatcher forwards fsnotify events for the files accepted by its filter
type FileWatcher struct {
	watcher *fsnotify.Watcher
	paths   []string
	filter  func(path string) bool
	events  chan model.FileEvent
	done    chan struct{}
	once    sync.Once
}

// NewFileWatcher watches the given directories. Directories that do not exist yet are skipped.
func NewFileWatcher(paths []string, filter func(path string) bool) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		paths:   paths,
		filter:  filter,
		events:  make(chan model.FileEvent, 100),
		done:    make(chan struct{}),
	}

	for _, path := range paths {
		if err := fw.addPath(path); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	go fw.processEvents()

	return fw, nil
}

func (fw *FileWatcher) addPath(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			util.LogDebugf("Watch path does not exist yet: %s", path)
			return nil
		}
		return err
	}
	return fw.watcher.Add(path)
}

func (fw *FileWatcher) processEvents() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			// New subdirectories may hold entry files
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fw.watcher.Add(event.Name); err != nil {
						util.LogWarnf("Failed to watch new directory %s: %v", event.Name, err)
					}
					continue
				}
			}

			if fw.filter != nil && !fw.filter(event.Name) {
				continue
			}

			select {
			case fw.events <- model.FileEvent{Path: event.Name, Operation: event.Op.String()}:
			case <-fw.done:
				return
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			// Log error but continue running
			util.LogError("File monitoring error: " + err.Error())

		case <-fw.done:
			return
		}
	}
}

func (fw *FileWatcher) Events() <-chan model.FileEvent {
	return fw.events
}

func (fw *FileWatcher) Close() error {
	var err error
	fw.once.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
	})
	return err
}
