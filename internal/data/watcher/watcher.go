package watcher

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-log-pager/internal/util"
)

// ChangeKind classifies a change to the watched file as it affects stored
// page offsets.
type ChangeKind int

const (
	// Grown: data was appended; existing offsets remain valid.
	Grown ChangeKind = iota
	// Truncated: the file shrank; offsets past the new end are invalid.
	Truncated
	// Replaced: a different file now lives at the path.
	Replaced
	// Removed: the path no longer exists.
	Removed
)

func (k ChangeKind) String() string {
	switch k {
	case Grown:
		return "grown"
	case Truncated:
		return "truncated"
	case Replaced:
		return "replaced"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// FileEvent represents a change to the watched file.
type FileEvent struct {
	Path      string
	Kind      ChangeKind
	Operation string
	Size      int64
}

// FileWatcher reports changes to a single file. It watches the parent
// directory so that rotation (rename and recreate) is seen as well.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	size    int64
	inode   uint64
	events  chan FileEvent
}

func NewFileWatcher(path string) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := util.GetFileInfo(abs)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		path:    abs,
		size:    info.Size,
		inode:   info.Inode,
		events:  make(chan FileEvent, 100),
	}

	go fw.processEvents()

	return fw, nil
}

func (fw *FileWatcher) processEvents() {
	defer close(fw.events)

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if fe, changed := fw.classify(event); changed {
				select {
				case fw.events <- fe:
				default:
					util.LogDebugf("Dropping %s event for %s: consumer is behind", fe.Kind, fe.Path)
				}
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			// Log error but continue running
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

// classify compares the file with the last observed size and inode.
func (fw *FileWatcher) classify(event fsnotify.Event) (FileEvent, bool) {
	fe := FileEvent{Path: fw.path, Operation: event.Op.String()}

	info, err := util.GetFileInfo(fw.path)
	if err != nil {
		if os.IsNotExist(err) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
			fe.Kind = Removed
			fw.size, fw.inode = 0, 0
			return fe, true
		}
		util.LogDebugf("Ignoring %s on %s: %v", event.Op, fw.path, err)
		return fe, false
	}

	fe.Size = info.Size
	switch {
	case info.Replaced(fw.inode):
		fe.Kind = Replaced
	case info.Shrunk(fw.size):
		fe.Kind = Truncated
	case info.Size > fw.size:
		fe.Kind = Grown
	default:
		return fe, false
	}

	fw.size, fw.inode = info.Size, info.Inode
	return fe, true
}

// Events is closed once the watcher is closed.
func (fw *FileWatcher) Events() <-chan FileEvent {
	return fw.events
}

func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
