package choiceserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/chen-qa/dynamic-choice/internal/logx"
	"github.com/chen-qa/dynamic-choice/pkg/config"
	"github.com/chen-qa/dynamic-choice/pkg/fetch"
	"github.com/chen-qa/dynamic-choice/pkg/param"
	"github.com/chen-qa/dynamic-choice/pkg/resolver"
)

// Serve runs the HTTP surface for cfg until ctx is done.
func Serve(ctx context.Context, cfg *config.Config, log *zerolog.Logger) error {
	accessLogger, accessClose, accessColor, err := openAccessLogger(cfg, log)
	if err != nil {
		return fmt.Errorf("init access log: %w", err)
	}
	if accessClose != nil {
		defer func() { _ = accessClose.Close() }()
	}

	pidCleanup, err := writePIDFile(cfg)
	if err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	if pidCleanup != nil {
		defer func() { _ = pidCleanup.Close() }()
	}

	reg, err := param.LoadRegistry(cfg.Parameters.File)
	if err != nil {
		return fmt.Errorf("load parameters file %q: %w", cfg.Parameters.File, err)
	}
	log.Info().Str("file", cfg.Parameters.File).Int("parameters", reg.Len()).Msg("parameters loaded")

	res := resolver.New(NewFetcher(cfg.Fetch), nil)

	reloadMu := &sync.Mutex{}
	reload := func() error {
		reloadMu.Lock()
		defer reloadMu.Unlock()
		return reg.Reload()
	}
	stopSignal := installReloadSignalHandler(cfg, reg, reload, log)
	defer stopSignal()
	autoReloadClose, err := installParametersAutoReload(cfg, reg, reload, log)
	if err != nil {
		return fmt.Errorf("init parameters auto reload: %w", err)
	}
	if autoReloadClose != nil {
		defer func() { _ = autoReloadClose.Close() }()
	}

	accessFormat, err := logx.ResolveAccessLogFormat(cfg.Logging.AccessLogFormat, cfg.Logging.AccessLogFormatPreset)
	if err != nil {
		return fmt.Errorf("resolve access log format: %w", err)
	}
	accessFormatter, err := logx.CompileAccessLogFormat(accessFormat)
	if err != nil {
		return fmt.Errorf("compile access_log_format: %w", err)
	}
	engine := NewRouter(cfg, Options{
		Registry:        reg,
		Resolver:        res,
		Log:             log,
		AccessLog:       accessLogger,
		AccessColor:     accessColor,
		AccessFormatter: accessFormatter,
		Reload:          reload,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           engine,
		ReadHeaderTimeout: time.Duration(cfg.Server.ReadTimeoutMs) * time.Millisecond,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutMs) * time.Millisecond,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutMs) * time.Millisecond,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("listen", cfg.Server.Listen).Msg("dynchoice listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("run: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info().Msg("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// NewFetcher builds the fetcher described by cfg.
func NewFetcher(cfg config.FetchConfig) *fetch.Fetcher {
	f := fetch.New(cfg.ConnectTimeout(), cfg.ReadTimeout())
	if ua := strings.TrimSpace(cfg.UserAgent); ua != "" {
		f.UserAgent = ua
	}
	f.MaxBodyBytes = cfg.MaxBodyBytes
	return f
}

// openAccessLogger returns the process logger unless access_log_path names a
// file, in which case access lines are appended there as JSON.
func openAccessLogger(cfg *config.Config, log *zerolog.Logger) (*zerolog.Logger, io.Closer, bool, error) {
	if cfg == nil || !cfg.Logging.AccessLog {
		return nil, nil, false, nil
	}
	path := strings.TrimSpace(cfg.Logging.AccessLogPath)
	if path == "" {
		color := logx.ColorEnabled() && !strings.EqualFold(cfg.Logging.Format, "json")
		return log, nil, color, nil
	}
	dir := filepath.Dir(path)
	if strings.TrimSpace(dir) != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, false, err
		}
	}
	// #nosec G304 -- access_log_path comes from trusted config/env.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, false, err
	}
	l := zerolog.New(f).With().Timestamp().Logger()
	return &l, f, false, nil
}

type closerFunc func() error

func (c closerFunc) Close() error { return c() }

func writePIDFile(cfg *config.Config) (io.Closer, error) {
	if cfg == nil {
		return nil, nil
	}
	path := strings.TrimSpace(cfg.Server.PidFile)
	if path == "" {
		return nil, nil
	}
	dir := filepath.Dir(path)
	if strings.TrimSpace(dir) != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}
	}

	tmp := path + ".tmp"
	pid := strconv.Itoa(os.Getpid()) + "\n"
	// #nosec G304 -- pid_file comes from trusted config/env.
	if err := os.WriteFile(tmp, []byte(pid), 0o600); err != nil {
		return nil, err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return nil, err
	}
	return closerFunc(func() error { return os.Remove(path) }), nil
}

// installReloadSignalHandler reloads the parameters file on SIGHUP. The
// returned func stops listening.
func installReloadSignalHandler(cfg *config.Config, reg *param.Registry, reload func() error, log *zerolog.Logger) func() {
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGHUP)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ch:
				if err := reload(); err != nil {
					log.Error().Err(err).Msg("reload failed (signal)")
					continue
				}
				log.Info().
					Str("parameters_file", cfg.Parameters.File).
					Int("parameters", reg.Len()).
					Msg("reload ok (signal)")
			}
		}
	}()
	return func() {
		signal.Stop(ch)
		close(done)
	}
}
