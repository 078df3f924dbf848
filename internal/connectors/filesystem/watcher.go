// Package filesystem feeds local text files into the retrieval engine,
// either as a one-shot scan or by watching a directory for changes.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/haasp-labs/recall/internal/core/ports/driving"
	"github.com/haasp-labs/recall/internal/logger"
)

// textExtensions are the file types the watcher will ingest.
var textExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".rst":      true,
}

// Watcher ingests text files from a directory tree.
type Watcher struct {
	rootPath string
	ingest   driving.IngestService
}

// New creates a watcher rooted at rootPath.
func New(rootPath string, ingest driving.IngestService) *Watcher {
	return &Watcher{
		rootPath: rootPath,
		ingest:   ingest,
	}
}

// RootPath returns the directory the watcher is rooted at.
func (w *Watcher) RootPath() string {
	return w.rootPath
}

// Scan walks the root directory and ingests every text file found.
// It returns the number of files ingested.
func (w *Watcher) Scan(ctx context.Context) (int, error) {
	ingested := 0

	err := filepath.WalkDir(w.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			// Skip hidden directories like .git.
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !isTextFile(path) {
			return nil
		}
		if err := w.processFile(ctx, path); err != nil {
			logger.Warn("skipping %s: %v", path, err)
			return nil
		}
		ingested++
		return nil
	})
	if err != nil {
		return ingested, fmt.Errorf("scanning %s: %w", w.rootPath, err)
	}

	return ingested, nil
}

// Watch scans the tree once, then ingests files as they are created or
// modified, until the context is cancelled.
func (w *Watcher) Watch(ctx context.Context) error {
	if _, err := w.Scan(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// fsnotify does not watch recursively, so register each directory.
	err = filepath.WalkDir(w.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && !strings.HasPrefix(d.Name(), ".") {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("registering watch paths: %w", err)
	}

	logger.Info("watching %s", w.rootPath)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if err := w.handleEvent(ctx, watcher, event); err != nil {
				logger.Warn("handling %s: %v", event.Name, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// handleEvent reacts to a single filesystem event.
func (w *Watcher) handleEvent(ctx context.Context, watcher *fsnotify.Watcher, event fsnotify.Event) error {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return nil
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return err
	}

	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			return watcher.Add(event.Name)
		}
		return nil
	}

	if !isTextFile(event.Name) {
		return nil
	}
	return w.processFile(ctx, event.Name)
}

// processFile reads a file and hands it to the ingest service. The
// document id is the path relative to the watch root.
func (w *Watcher) processFile(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	docID, err := filepath.Rel(w.rootPath, path)
	if err != nil {
		docID = path
	}
	docID = filepath.ToSlash(docID)

	added, err := w.ingest.AddDocument(ctx, docID, string(content))
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", docID, err)
	}

	logger.Debug("ingested %s (%d chunks)", docID, added)
	return nil
}

// isTextFile reports whether the path has a supported text extension.
func isTextFile(path string) bool {
	return textExtensions[strings.ToLower(filepath.Ext(path))]
}
