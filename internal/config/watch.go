package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config file whenever it changes on disk and delivers
// each successfully parsed result to onChange. Editors that replace the
// file (rename-over) are handled by watching the parent directory. The
// watcher runs until ctx is cancelled; parse failures leave the previous
// config in effect.
func Watch(ctx context.Context, onChange func(*Config)) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return err
	}

	go func() {
		defer w.Close()

		// Editors emit several events per save; debounce into one reload.
		var debounce *time.Timer
		reload := func() {
			if cfg, err := LoadUserConfig(); err == nil {
				onChange(cfg)
			}
		}

		for {
			select {
			case <-ctx.Done():
				if debounce != nil {
					debounce.Stop()
				}
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Name != path {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(100*time.Millisecond, reload)
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return nil
}
