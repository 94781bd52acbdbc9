package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/registry"
)

// Invalidator drops cached content for one file.
type Invalidator interface {
	Invalidate(ctx context.Context, src registry.Source, relPath string) error
}

// Watcher watches the local-override directory and invalidates the cache
// entry of every changed file, so local edits show up on the next request.
type Watcher struct {
	Dir     string
	Sources []registry.Source
	Cache   Invalidator
	Logger  *slog.Logger
}

// Run blocks until ctx is done, processing filesystem events.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := w.addDirsRecursive(watcher, w.Dir); err != nil {
		return err
	}
	w.logger().Info("Watching local docs for changes", logfields.Path(w.Dir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, watcher, ev)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger().Warn("watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, watcher *fsnotify.Watcher, ev fsnotify.Event) {
	if strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addDirsRecursive(watcher, ev.Name)
			return
		}
	}
	for _, m := range w.Match(ev.Name) {
		if err := w.Cache.Invalidate(ctx, m.Source, m.RelPath); err != nil {
			w.logger().Warn("cache invalidation failed", logfields.Source(m.Source.ID), logfields.Path(m.RelPath), logfields.Error(err))
			continue
		}
		w.logger().Debug("Local change invalidated cache", logfields.Source(m.Source.ID), logfields.Path(m.RelPath), slog.String("op", ev.Op.String()))
	}
}

// Match is a source-relative file affected by a filesystem change.
type Match struct {
	Source  registry.Source
	RelPath string
}

// Match maps an absolute or Dir-relative file path back to the sources whose
// {repo}/{docsPath} contains it.
func (w *Watcher) Match(name string) []Match {
	rel, err := filepath.Rel(w.Dir, name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil
	}
	rel = filepath.ToSlash(rel)

	var out []Match
	for _, src := range w.Sources {
		prefix := joinClean(src.Repo, src.DocsPath) + "/"
		if strings.HasPrefix(rel, prefix) {
			out = append(out, Match{Source: src, RelPath: strings.TrimPrefix(rel, prefix)})
		}
	}
	return out
}

func (w *Watcher) addDirsRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("watch %s: %w", root, err)
			}
			return nil
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				w.logger().Warn("watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

func (w *Watcher) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.Default()
	}
	return w.Logger
}
