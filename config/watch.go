package config

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the configuration file whenever it changes and calls fn
// with each successfully parsed result. Parse failures of intermediate
// states are skipped; the last good configuration stays in effect.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, fn func(*Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}
	defer w.Close()
	if err := w.Add(path); err != nil {
		return fmt.Errorf("config: watch %q: %w", path, err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			c, err := Load(path)
			if err != nil {
				continue
			}
			fn(c)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("config: watch: %w", err)
		}
	}
}
