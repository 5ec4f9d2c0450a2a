// Package watch reports debounced changes to audio files below a directory
// tree using fsnotify.
package watch

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Logger is the logging needed by a Watcher.
type Logger interface {
	Warn(string, ...interface{})
}

// Watcher calls onChange once per burst of file-system activity on files
// with an allowed extension. New subdirectories are watched as they appear.
type Watcher struct {
	root     string
	exclude  string
	allowed  map[string]struct{}
	watcher  *fsnotify.Watcher
	log      Logger
	onChange func()

	timerMu  sync.Mutex
	timer    *time.Timer
	debounce time.Duration

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// New starts watching root recursively, skipping the exclude directory
// (may be empty). onChange runs on its own goroutine after debounce has
// passed without further events.
func New(root, exclude string, exts []string, debounce time.Duration, onChange func(), log Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		root:     root,
		allowed:  make(map[string]struct{}, len(exts)),
		watcher:  fw,
		log:      log,
		onChange: onChange,
		debounce: debounce,
		done:     make(chan struct{}),
	}
	if exclude != "" {
		w.exclude = filepath.Clean(exclude)
	}
	for _, ext := range exts {
		w.allowed[strings.ToLower(ext)] = struct{}{}
	}

	w.addRecursive(root)

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Close stops the watcher and any pending callback. A callback already
// running is not interrupted.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)

		w.timerMu.Lock()
		if w.timer != nil {
			w.timer.Stop()
			w.timer = nil
		}
		w.timerMu.Unlock()

		w.closeErr = w.watcher.Close()
		w.wg.Wait()
	})
	return w.closeErr
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("Watcher error: %v", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if w.excluded(event.Name) {
		return
	}
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addRecursive(event.Name)
			// Files moved in together with their directory produce no events.
			w.schedule()
			return
		}
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 && w.isAllowed(event.Name) {
		w.schedule()
	}
}

func (w *Watcher) schedule() {
	select {
	case <-w.done:
		return
	default:
	}

	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(w.debounce, func() {
		w.onChange()

		w.timerMu.Lock()
		if w.timer == timer {
			w.timer = nil
		}
		w.timerMu.Unlock()
	})
	w.timer = timer
}

func (w *Watcher) addRecursive(path string) {
	filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			w.log.Warn("Cannot watch %s: %v", p, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.excluded(p) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(p); err != nil {
			w.log.Warn("Cannot watch %s: %v", p, err)
		}
		return nil
	})
}

// excluded reports whether path is the excluded directory or inside it.
func (w *Watcher) excluded(path string) bool {
	if w.exclude == "" {
		return false
	}
	rel, err := filepath.Rel(w.exclude, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (w *Watcher) isAllowed(path string) bool {
	_, ok := w.allowed[strings.ToLower(filepath.Ext(path))]
	return ok
}
