package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/syncbuild/syncbuild/pkg/logger"
)

// fileChangeDebounceDelay batches bursts of filesystem events (editors tend
// to fire several per save) into a single rebuild.
const fileChangeDebounceDelay = 200 * time.Millisecond

// Watch recompiles scripts as they change on disk. A manifest change
// re-normalizes the descriptors and rebuilds everything; a script change
// rebuilds that script; a script removal deletes its compiled artifact.
// Blocks until ctx is canceled.
func (s *Service) Watch(ctx context.Context) error {
	log := logger.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Close the watcher when the context is canceled to unblock the event
	// channel reads.
	go func() {
		<-ctx.Done()
		_ = watcher.Close()
	}()

	if err := watcher.Add(s.cfg.ScriptsDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.cfg.ScriptsDir, err)
	}
	log.Info("Watching for changes", "dir", s.cfg.ScriptsDir)

	rebuildChan := make(chan bool, 1)
	var debounceTimer *time.Timer
	var debounceMutex sync.Mutex

	scheduleRebuild := func() {
		debounceMutex.Lock()
		defer debounceMutex.Unlock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		debounceTimer = time.AfterFunc(fileChangeDebounceDelay, func() {
			select {
			case rebuildChan <- true:
			default:
				// rebuild already pending
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping file watcher")
			debounceMutex.Lock()
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceMutex.Unlock()
			return ctx.Err()
		case <-rebuildChan:
			if err := s.reload(ctx); err != nil {
				log.Error("Manifest reload failed", "error", err)
				continue
			}
			if err := s.GenerateDeclarations(ctx); err != nil {
				log.Error("Failed to regenerate declarations", "error", err)
			}
			s.CompileAll(ctx)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			s.handleEvent(ctx, event, scheduleRebuild)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("Watcher error", "error", err)
		}
	}
}

func (s *Service) handleEvent(ctx context.Context, event fsnotify.Event, scheduleRebuild func()) {
	log := logger.FromContext(ctx)
	switch {
	case filepath.Base(event.Name) == filepath.Base(s.cfg.ManifestPath):
		if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
			log.Debug("Manifest changed, debouncing rebuild", "file", event.Name)
			scheduleRebuild()
		}
	case isScriptFile(event.Name):
		switch {
		case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
			log.Debug("Script changed", "file", event.Name)
			s.compileFile(ctx, event.Name, s.loadCompilerOptions(ctx), false)
		case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
			out := s.outPath(event.Name)
			if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
				log.Warn("Failed to remove compiled artifact", "file", out, "error", err)
			} else {
				log.Info("Removed compiled artifact", "file", out)
			}
		}
	}
}

// isScriptFile reports whether the path is a compilable script. The
// generated declarations file is excluded to avoid rebuild loops.
func isScriptFile(path string) bool {
	return filepath.Ext(path) == ".ts" && filepath.Base(path) != GeneratedModelsFile
}
