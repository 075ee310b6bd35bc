package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/craftops/plugsync/internal/config"
)

// Trigger is invoked for every relevant change. Invocations are serialized
// through a single consumer goroutine, so a slow upload queues later
// changes instead of running alongside them.
type Trigger interface {
	Run(ctx context.Context)
}

// Watcher subscribes to recursive change notifications under the plugin
// directory and fires the trigger once per relevant modification.
type Watcher struct {
	cfg     *config.Config
	trigger Trigger
}

func New(cfg *config.Config, trigger Trigger) *Watcher {
	return &Watcher{cfg: cfg, trigger: trigger}
}

// Run blocks until ctx is cancelled. It returns only after the subscription
// is closed and the in-flight upload cycle, if any, has finished.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	if err := addRecursive(fsw, w.cfg.PluginDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.cfg.PluginDir, err)
	}
	log.Infof("Watching %s for changes", w.cfg.PluginDir)

	changes := make(chan string, 64)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case name := <-changes:
				log.Infof("Change detected: %s, repackaging and uploading...", name)
				w.trigger.Run(ctx)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				wg.Wait()
				return nil
			}
			w.handle(fsw, event, changes)
		case err, ok := <-fsw.Errors:
			if !ok {
				wg.Wait()
				return nil
			}
			log.Errorf("Watcher error: %v", err)
		}
	}
}

func (w *Watcher) handle(fsw *fsnotify.Watcher, event fsnotify.Event, changes chan<- string) {
	// New directories join the subscription so nested changes keep arriving.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := fsw.Add(event.Name); err != nil {
				log.Warnf("Failed to watch new directory %s: %v", event.Name, err)
			}
			return
		}
	}

	if event.Op&fsnotify.Write == 0 {
		return
	}
	if !w.relevant(event.Name) {
		return
	}

	select {
	case changes <- event.Name:
	default:
		log.Warnf("Change queue full, dropping event for %s", event.Name)
	}
}

// relevant reports whether a change to name should trigger an upload:
// files only, and only those ending in a configured watch suffix.
func (w *Watcher) relevant(name string) bool {
	if info, err := os.Stat(name); err == nil && info.IsDir() {
		return false
	}
	for _, suffix := range w.cfg.WatchSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
}
