// Package config loads seekjob settings. Sources are layered, each
// overriding the previous one: built-in defaults, the TOML config file,
// a .env file, SEEKJOB_* environment variables, and finally command-line
// flags (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/llm"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/render"
)

// Config is the full application configuration.
type Config struct {
	API    APIConfig    `toml:"api"`
	UI     UIConfig     `toml:"ui"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
	LLM    LLMConfig    `toml:"llm"`
	Log    LogConfig    `toml:"log"`
}

// APIConfig configures the HTTP client.
type APIConfig struct {
	BaseURL string        `toml:"base_url"`
	Timeout time.Duration `toml:"timeout"`
	Retry   RetryConfig   `toml:"retry"`
}

// RetryConfig configures client retries.
type RetryConfig struct {
	Attempts    int           `toml:"attempts"`
	InitialWait time.Duration `toml:"initial_wait"`
	MaxWait     time.Duration `toml:"max_wait"`
}

// UIConfig configures the terminal client.
type UIConfig struct {
	// Theme is "light" or "dark".
	Theme string `toml:"theme"`
	// Topic is the default interview topic.
	Topic string `toml:"topic"`
}

// StoreConfig locates the SQLite database. Empty means the XDG default.
type StoreConfig struct {
	Path string `toml:"path"`
}

// ServerConfig configures `seekjob serve`.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
	MaxTurns       int      `toml:"max_turns"`
}

// LLMConfig selects and configures the model provider used by the server.
type LLMConfig struct {
	Provider   string         `toml:"provider"`
	Anthropic  ProviderConfig `toml:"anthropic"`
	OpenAI     ProviderConfig `toml:"openai"`
	Gemini     ProviderConfig `toml:"gemini"`
	OpenRouter ProviderConfig `toml:"openrouter"`
}

// ProviderConfig holds one provider's credentials and model.
type ProviderConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

// LogConfig configures the slog handler. Path is used by the TUI only.
type LogConfig struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	apiDefaults := api.DefaultConfig()
	return Config{
		API: APIConfig{
			BaseURL: apiDefaults.BaseURL,
			Timeout: apiDefaults.Timeout,
			Retry: RetryConfig{
				Attempts:    apiDefaults.Retry.MaxAttempts,
				InitialWait: apiDefaults.Retry.InitialWait,
				MaxWait:     apiDefaults.Retry.MaxWait,
			},
		},
		UI: UIConfig{
			Theme: "dark",
			Topic: "Full-Stack Engineer",
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8001",
			AllowedOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
			MaxTurns:       5,
		},
		LLM: LLMConfig{
			Provider: llm.ProviderMock,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Dir returns $XDG_CONFIG_HOME/seekjob, or ~/.config/seekjob.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "seekjob"), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadOptions controls where Load looks.
type LoadOptions struct {
	// Path is an explicit config file; it must exist. Empty means
	// DefaultPath, which may be absent.
	Path string
	// EnvFile is loaded into the environment without overriding variables
	// that are already set. Empty means ".env"; a missing file is fine.
	EnvFile string
}

// Load builds a Config from defaults, the TOML file, the .env file and the
// environment. It does not validate; call Validate after applying flags.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	path, explicit := opts.Path, opts.Path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	if err := LoadTOML(&cfg, path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no config file", "path", path)
		} else {
			return cfg, err
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("load %s: %w", envFile, err)
		}
		slog.Debug("no .env file", "path", envFile)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadTOML decodes the file at path over cfg. Unknown keys are an error.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overrides cfg with SEEKJOB_* environment variables.
func (c *Config) ApplyEnv() error {
	str := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	dur := func(dst *time.Duration, key string) {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	num := func(dst *int, key string) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}

	str(&c.API.BaseURL, "SEEKJOB_API_BASE_URL")
	dur(&c.API.Timeout, "SEEKJOB_API_TIMEOUT")
	num(&c.API.Retry.Attempts, "SEEKJOB_API_RETRY_ATTEMPTS")

	str(&c.UI.Theme, "SEEKJOB_THEME")
	str(&c.UI.Topic, "SEEKJOB_TOPIC")

	str(&c.Store.Path, "SEEKJOB_DB")

	str(&c.Server.Addr, "SEEKJOB_SERVER_ADDR")
	if v := os.Getenv("SEEKJOB_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	num(&c.Server.MaxTurns, "SEEKJOB_MAX_TURNS")

	str(&c.Log.Path, "SEEKJOB_LOG_FILE")
	str(&c.Log.Level, "SEEKJOB_LOG_LEVEL")

	// Provider settings share names with llm.ApplyEnv.
	lc := c.LLMConfig()
	llm.ApplyEnv(&lc)
	c.LLM.Provider = lc.Provider
	c.LLM.Anthropic = ProviderConfig{APIKey: lc.Anthropic.APIKey, Model: lc.Anthropic.Model, BaseURL: lc.Anthropic.BaseURL}
	c.LLM.OpenAI = ProviderConfig{APIKey: lc.OpenAI.APIKey, Model: lc.OpenAI.Model, BaseURL: lc.OpenAI.BaseURL}
	c.LLM.Gemini = ProviderConfig{APIKey: lc.Gemini.APIKey, Model: lc.Gemini.Model}
	c.LLM.OpenRouter = ProviderConfig{APIKey: lc.OpenRouter.APIKey, Model: lc.OpenRouter.Model, BaseURL: lc.OpenRouter.BaseURL}

	return errors.Join(errs...)
}

// ValidationError reports one invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the settings every command depends on. Server and LLM
// settings are checked by ValidateServer.
func (c Config) Validate() error {
	var errs []error
	if _, err := render.ParseTheme(c.UI.Theme); err != nil {
		errs = append(errs, ValidationError{"ui.theme", err.Error()})
	}
	if err := c.APIConfig().Validate(); err != nil {
		errs = append(errs, ValidationError{"api", err.Error()})
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, ValidationError{"log.level", err.Error()})
	}
	return errors.Join(errs...)
}

// ValidateServer checks the settings `seekjob serve` needs.
func (c Config) ValidateServer() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, ValidationError{"server.addr", "must not be empty"})
	}
	if c.Server.MaxTurns < 2 {
		errs = append(errs, ValidationError{"server.max_turns", fmt.Sprintf("must be at least 2, got %d", c.Server.MaxTurns)})
	}
	for _, o := range c.Server.AllowedOrigins {
		if o == "*" {
			continue
		}
		if u, err := url.Parse(o); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{"server.allowed_origins", fmt.Sprintf("invalid origin %q", o)})
		}
	}
	if err := c.LLMConfig().Validate(); err != nil {
		errs = append(errs, ValidationError{"llm", err.Error()})
	}
	return errors.Join(errs...)
}

// APIConfig converts to the client configuration.
func (c Config) APIConfig() api.Config {
	cfg := api.DefaultConfig()
	cfg.BaseURL = c.API.BaseURL
	cfg.Timeout = c.API.Timeout
	cfg.Retry.MaxAttempts = c.API.Retry.Attempts
	if c.API.Retry.InitialWait > 0 {
		cfg.Retry.InitialWait = c.API.Retry.InitialWait
	}
	if c.API.Retry.MaxWait > 0 {
		cfg.Retry.MaxWait = c.API.Retry.MaxWait
	}
	return cfg
}

// LLMConfig converts to the provider configuration. Empty fields keep the
// provider defaults.
func (c Config) LLMConfig() llm.Config {
	cfg := llm.DefaultConfig()
	if c.LLM.Provider != "" {
		cfg.Provider = c.LLM.Provider
	}
	merge := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	merge(&cfg.Anthropic.APIKey, c.LLM.Anthropic.APIKey)
	merge(&cfg.Anthropic.Model, c.LLM.Anthropic.Model)
	merge(&cfg.Anthropic.BaseURL, c.LLM.Anthropic.BaseURL)
	merge(&cfg.OpenAI.APIKey, c.LLM.OpenAI.APIKey)
	merge(&cfg.OpenAI.Model, c.LLM.OpenAI.Model)
	merge(&cfg.OpenAI.BaseURL, c.LLM.OpenAI.BaseURL)
	merge(&cfg.Gemini.APIKey, c.LLM.Gemini.APIKey)
	merge(&cfg.Gemini.Model, c.LLM.Gemini.Model)
	merge(&cfg.OpenRouter.APIKey, c.LLM.OpenRouter.APIKey)
	merge(&cfg.OpenRouter.Model, c.LLM.OpenRouter.Model)
	merge(&cfg.OpenRouter.BaseURL, c.LLM.OpenRouter.BaseURL)
	return cfg
}

// Theme returns the parsed UI theme, defaulting to dark.
func (c Config) Theme() render.Theme {
	t, err := render.ParseTheme(c.UI.Theme)
	if err != nil {
		return render.ThemeDark
	}
	return t
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown level %q", s)
	}
	return l, nil
}

// LogPath returns the TUI log file, defaulting to
// $XDG_STATE_HOME/seekjob/seekjob.log.
func (c Config) LogPath() (string, error) {
	if c.Log.Path != "" {
		return c.Log.Path, nil
	}
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, "seekjob", "seekjob.log"), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" && !slices.Contains(out, part) {
			out = append(out, part)
		}
	}
	return out
}
