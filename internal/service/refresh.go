package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RefreshCatalog reloads the dataset on a cron schedule until ctx is done.
func (s *CatalogService) RefreshCatalog(ctx context.Context, spec string) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(spec, func() {
		s.logger.Info("cron triggered: reloading dataset")
		if err := s.Load(ctx); err != nil {
			s.logger.Warn("scheduled dataset reload failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}

	c.Start()
	s.logger.Info("dataset refresh scheduled", zap.String("spec", spec))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("dataset refresh stopped")
	return nil
}

// WatchFile reloads the dataset whenever the file at path changes, until ctx
// is done. Bursts of events within debounce trigger a single reload.
func (s *CatalogService) WatchFile(ctx context.Context, path string, debounce time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer watcher.Close()

	path, err = filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	// Editors replace files on save, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	s.logger.Info("watching dataset file", zap.String("path", path))

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("dataset watcher error", zap.Error(err))

		case <-timer.C:
			s.logger.Info("dataset file changed, reloading", zap.String("path", path))
			if err := s.Load(ctx); err != nil {
				s.logger.Warn("dataset reload failed", zap.Error(err))
			}
		}
	}
}
