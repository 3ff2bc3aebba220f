package choiceserver

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/chen-qa/dynamic-choice/pkg/config"
	"github.com/chen-qa/dynamic-choice/pkg/param"
)

// installParametersAutoReload watches the directory of the parameters file,
// since editors often replace the file instead of writing it in place.
func installParametersAutoReload(cfg *config.Config, reg *param.Registry, reload func() error, log *zerolog.Logger) (io.Closer, error) {
	if cfg == nil || reg == nil || reload == nil {
		return nil, nil
	}
	if !cfg.Parameters.AutoReload.Enabled {
		return nil, nil
	}
	file := strings.TrimSpace(cfg.Parameters.File)
	if file == "" {
		return nil, nil
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}
	debounce := time.Duration(cfg.Parameters.AutoReload.DebounceMs) * time.Millisecond

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})

	go func() {
		defer close(doneCh)
		var (
			timer  *time.Timer
			timerC <-chan time.Time
		)
		resetTimer := func() {
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
				return
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
			timerC = timer.C
		}

		for {
			select {
			case <-stopCh:
				if timer != nil {
					timer.Stop()
				}
				return
			case <-timerC:
				timerC = nil
				if err := reload(); err != nil {
					log.Error().Err(err).Msg("reload failed (parameters auto)")
					continue
				}
				log.Info().Str("parameters_file", file).Int("parameters", reg.Len()).Msg("reload ok (parameters auto)")
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("parameters auto-reload watcher error")
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if shouldTriggerParametersReload(evt, abs) {
					resetTimer()
				}
			}
		}
	}()

	log.Info().Str("file", file).Int("debounce_ms", cfg.Parameters.AutoReload.DebounceMs).Msg("parameters auto-reload enabled")
	return closerFunc(func() error {
		close(stopCh)
		_ = watcher.Close()
		<-doneCh
		return nil
	}), nil
}

func shouldTriggerParametersReload(evt fsnotify.Event, target string) bool {
	if strings.TrimSpace(evt.Name) == "" {
		return false
	}
	if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name, err := filepath.Abs(evt.Name)
	if err != nil {
		return false
	}
	return name == target
}
