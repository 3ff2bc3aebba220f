package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultListen           = ":3310"
	defaultConnectTimeoutMs = 10000
	defaultReadTimeoutMs    = 30000
	defaultUserAgent        = "Jenkins-DynamicChoiceUrlParameter/1.2.0"
)

type LoggingConfig struct {
	Level                 string `yaml:"level"`
	Format                string `yaml:"format"`
	AccessLog             bool   `yaml:"access_log"`
	AccessLogPath         string `yaml:"access_log_path"`
	AccessLogFormat       string `yaml:"access_log_format"`
	AccessLogFormatPreset string `yaml:"access_log_format_preset"`

	accessLogSet bool `yaml:"-"`
}

// UnmarshalYAML records whether access_log was written explicitly so an
// explicit false survives applyDefaults.
func (c *LoggingConfig) UnmarshalYAML(value *yaml.Node) error {
	type rawLogging struct {
		Level                 string `yaml:"level"`
		Format                string `yaml:"format"`
		AccessLog             bool   `yaml:"access_log"`
		AccessLogPath         string `yaml:"access_log_path"`
		AccessLogFormat       string `yaml:"access_log_format"`
		AccessLogFormatPreset string `yaml:"access_log_format_preset"`
	}
	var raw rawLogging
	if err := value.Decode(&raw); err != nil {
		return err
	}
	c.Level = raw.Level
	c.Format = raw.Format
	c.AccessLog = raw.AccessLog
	c.AccessLogPath = raw.AccessLogPath
	c.AccessLogFormat = raw.AccessLogFormat
	c.AccessLogFormatPreset = raw.AccessLogFormatPreset
	c.accessLogSet = false
	if value.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		if strings.TrimSpace(value.Content[i].Value) == "access_log" {
			c.accessLogSet = true
		}
	}
	return nil
}

type FetchConfig struct {
	ConnectTimeoutMs int    `yaml:"connect_timeout_ms"`
	ReadTimeoutMs    int    `yaml:"read_timeout_ms"`
	UserAgent        string `yaml:"user_agent"`
	// MaxBodyBytes caps a fetched body; 0 means unlimited.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

func (c FetchConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutMs) * time.Millisecond
}

func (c FetchConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMs) * time.Millisecond
}

type Config struct {
	Server struct {
		Listen         string `yaml:"listen"`
		ReadTimeoutMs  int    `yaml:"read_timeout_ms"`
		WriteTimeoutMs int    `yaml:"write_timeout_ms"`
		PidFile        string `yaml:"pid_file"`
	} `yaml:"server"`

	Fetch FetchConfig `yaml:"fetch"`

	Parameters struct {
		File string `yaml:"file"`
		// AutoReload watches the parameters file and reloads definitions at runtime.
		AutoReload struct {
			Enabled    bool `yaml:"enabled"`
			DebounceMs int  `yaml:"debounce_ms"`
		} `yaml:"auto_reload"`
	} `yaml:"parameters"`

	Logging LoggingConfig `yaml:"logging"`
}

// Load reads path. A missing file is an error; use Default for a config
// built only from defaults and environment.
func Load(path string) (*Config, error) {
	// #nosec G304 -- path is provided by trusted config/flag.
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return finish(&cfg)
}

func Default() (*Config, error) {
	return finish(&Config{})
}

func finish(cfg *Config) (*Config, error) {
	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Server.Listen) == "" {
		cfg.Server.Listen = defaultListen
	}
	if cfg.Server.ReadTimeoutMs <= 0 {
		cfg.Server.ReadTimeoutMs = 60000
	}
	if cfg.Server.WriteTimeoutMs <= 0 {
		cfg.Server.WriteTimeoutMs = 60000
	}
	if cfg.Fetch.ConnectTimeoutMs <= 0 {
		cfg.Fetch.ConnectTimeoutMs = defaultConnectTimeoutMs
	}
	if cfg.Fetch.ReadTimeoutMs <= 0 {
		cfg.Fetch.ReadTimeoutMs = defaultReadTimeoutMs
	}
	if strings.TrimSpace(cfg.Fetch.UserAgent) == "" {
		cfg.Fetch.UserAgent = defaultUserAgent
	}
	if strings.TrimSpace(cfg.Parameters.File) == "" {
		cfg.Parameters.File = "./parameters.yaml"
	}
	if cfg.Parameters.AutoReload.DebounceMs <= 0 {
		cfg.Parameters.AutoReload.DebounceMs = 300
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if !cfg.Logging.accessLogSet {
		cfg.Logging.AccessLog = true
	}
}

func applyEnvOverrides(cfg *Config) {
	applyEnvServerOverrides(cfg)
	applyEnvFetchOverrides(cfg)
	applyEnvParameterOverrides(cfg)
	applyEnvLoggingOverrides(cfg)
}

func applyEnvServerOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("DYNCHOICE_LISTEN")); v != "" {
		cfg.Server.Listen = v
	}
	if n, ok := envInt("DYNCHOICE_READ_TIMEOUT_MS"); ok && n > 0 {
		cfg.Server.ReadTimeoutMs = n
	}
	if n, ok := envInt("DYNCHOICE_WRITE_TIMEOUT_MS"); ok && n > 0 {
		cfg.Server.WriteTimeoutMs = n
	}
	if v := strings.TrimSpace(os.Getenv("DYNCHOICE_PID_FILE")); v != "" {
		cfg.Server.PidFile = v
	}
}

func applyEnvFetchOverrides(cfg *Config) {
	if n, ok := envInt("DYNCHOICE_FETCH_CONNECT_TIMEOUT_MS"); ok && n > 0 {
		cfg.Fetch.ConnectTimeoutMs = n
	}
	if n, ok := envInt("DYNCHOICE_FETCH_READ_TIMEOUT_MS"); ok && n > 0 {
		cfg.Fetch.ReadTimeoutMs = n
	}
	if v := strings.TrimSpace(os.Getenv("DYNCHOICE_FETCH_USER_AGENT")); v != "" {
		cfg.Fetch.UserAgent = v
	}
	if n, ok := envInt("DYNCHOICE_FETCH_MAX_BODY_BYTES"); ok {
		cfg.Fetch.MaxBodyBytes = int64(n)
	}
}

func applyEnvParameterOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("DYNCHOICE_PARAMETERS_FILE")); v != "" {
		cfg.Parameters.File = v
	}
	cfg.Parameters.AutoReload.Enabled = envBool("DYNCHOICE_PARAMETERS_AUTO_RELOAD_ENABLED", cfg.Parameters.AutoReload.Enabled)
	if n, ok := envInt("DYNCHOICE_PARAMETERS_AUTO_RELOAD_DEBOUNCE_MS"); ok {
		cfg.Parameters.AutoReload.DebounceMs = n
	}
}

func applyEnvLoggingOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("DYNCHOICE_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("DYNCHOICE_LOG_FORMAT")); v != "" {
		cfg.Logging.Format = v
	}
	cfg.Logging.AccessLog = envBool("DYNCHOICE_ACCESS_LOG", cfg.Logging.AccessLog)
	if v := strings.TrimSpace(os.Getenv("DYNCHOICE_ACCESS_LOG_PATH")); v != "" {
		cfg.Logging.AccessLogPath = v
	}
	if v := os.Getenv("DYNCHOICE_ACCESS_LOG_FORMAT"); strings.TrimSpace(v) != "" {
		cfg.Logging.AccessLogFormat = v
	}
	if v := strings.TrimSpace(os.Getenv("DYNCHOICE_ACCESS_LOG_FORMAT_PRESET")); v != "" {
		cfg.Logging.AccessLogFormatPreset = v
	}
}

func envInt(name string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func validate(cfg *Config) error {
	if cfg.Parameters.AutoReload.Enabled && cfg.Parameters.AutoReload.DebounceMs <= 0 {
		return errors.New("parameters.auto_reload.debounce_ms must be > 0 when parameters.auto_reload.enabled=true")
	}
	if cfg.Fetch.MaxBodyBytes < 0 {
		return errors.New("fetch.max_body_bytes must be non-negative")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Format)) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", cfg.Logging.Format)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("logging.level %q is not a known level", cfg.Logging.Level)
	}
	return nil
}
