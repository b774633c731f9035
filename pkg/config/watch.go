package config

import (
	"path/filepath"

	"github.com/Sonicaii/lerche/pkg/logger"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads config.yaml inside dir on filesystem changes and
// passes the fresh copy to onChange. It returns a stop function.
// The watch is set on the directory since editors tend to replace
// files instead of writing them in place.
func Watch(dir string, log *logger.Logger, onChange func(ViewerConfig)) (func(), error) {
	file := filepath.Join(dir, File)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != file {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				var conf ViewerConfig
				if err := LoadConfig(&conf, dir); err != nil {
					log.Error().Err(err).Msg("config reload failed")
					continue
				}
				log.Debug().Msgf("config reloaded from %v", file)
				onChange(conf)
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case <-done:
				return
			}
		}
	}()

	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return func() { close(done); _ = watcher.Close() }, nil
}
