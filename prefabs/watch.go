package prefabs

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

var watchedExts = map[string]bool{".yaml": true, ".yml": true, ".tengo": true}

// Watcher reports changed prefab, level and script files on Events. The
// game drains it once per frame. Directories are watched recursively and
// new subdirectories are picked up as they appear.
type Watcher struct {
	fsw    *fsnotify.Watcher
	Events chan string
	Errors chan error

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := addTree(fsw, dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fsw:    fsw,
		Events: make(chan string, 16),
		Errors: make(chan error, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return fsw.Add(path)
	})
}

// Close stops the watcher. Events and Errors are closed once it returns.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fsw.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer func() {
		close(w.Events)
		close(w.Errors)
		close(w.done)
	}()

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(w.fsw, event.Name); err != nil {
						w.report(err)
					}
					continue
				}
			}
			if !w.relevant(event, last) {
				continue
			}
			select {
			case w.Events <- event.Name:
			case <-w.stop:
				return
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.report(err)
		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event, last map[string]time.Time) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	if !watchedExts[strings.ToLower(filepath.Ext(event.Name))] {
		return false
	}
	now := time.Now()
	if t, ok := last[event.Name]; ok && now.Sub(t) < watchDebounce {
		return false
	}
	last[event.Name] = now
	return true
}

// report drops errors while the previous one is still unread.
func (w *Watcher) report(err error) {
	select {
	case w.Errors <- err:
	default:
	}
}
