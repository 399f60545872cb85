package rules

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher hot-reloads a rule file into a Set whenever the file changes.
// A reload that fails to parse keeps the previous rules in place.
type Watcher struct {
	path    string
	set     *Set
	watcher *fsnotify.Watcher
	done    chan struct{}
	log     *logrus.Entry
}

// NewWatcher creates a watcher for the given rule file.
func NewWatcher(path string, set *Set) *Watcher {
	return &Watcher{
		path: path,
		set:  set,
		done: make(chan struct{}),
		log:  logrus.WithField("component", "rules_watcher"),
	}
}

// Start loads the file once, then watches its directory for changes. Editors
// often replace files instead of writing in place, so the directory is
// watched rather than the file itself. Call Stop() to clean up.
func (w *Watcher) Start() error {
	w.reload()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		_ = fw.Close()
		return err
	}
	w.watcher = fw

	go w.loop()
	w.log.WithField("path", w.path).Info("watching rule file for changes")
	return nil
}

// Stop shuts down the watcher. Safe to call when Start failed or was never
// called; the loop only runs once a watcher was installed.
func (w *Watcher) Stop() {
	if w.watcher == nil {
		return
	}
	_ = w.watcher.Close()
	<-w.done
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(evt.Name) != filepath.Clean(w.path) {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("rule watcher error")
		}
	}
}

func (w *Watcher) reload() {
	rules, err := LoadFile(w.path)
	if err != nil {
		w.log.WithError(err).Warn("rule reload failed, keeping current rules")
		return
	}
	w.set.Replace(rules)
	w.log.WithField("rules", len(rules)).Info("alert rules loaded")
}
