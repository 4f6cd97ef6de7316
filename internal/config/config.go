package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`
	LogLevel   string        `mapstructure:"log_level"`

	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`

	GroupCapacity int `mapstructure:"group_capacity"`
	CodeLength    int `mapstructure:"code_length"`
	ChatMaxLength int `mapstructure:"chat_max_length"`

	RateLimit RateLimit `mapstructure:"rate_limit"`
}

type RateLimit struct {
	HTTP        float64 `mapstructure:"http"`
	HTTPBurst   int     `mapstructure:"http_burst"`
	Signal      float64 `mapstructure:"signal"`
	SignalBurst int     `mapstructure:"signal_burst"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PHONECALL")
	v.AutomaticEnv()

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("secret", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("sweep_interval", "5m")
	v.SetDefault("group_capacity", 4)
	v.SetDefault("code_length", 6)
	v.SetDefault("chat_max_length", 500)
	v.SetDefault("rate_limit.http", 10)
	v.SetDefault("rate_limit.http_burst", 20)
	v.SetDefault("rate_limit.signal", 5)
	v.SetDefault("rate_limit.signal_burst", 10)
	return v
}

// FileName is the config file for env, e.g. config/config.dev.yaml.
func FileName(env string) string {
	if env == "" {
		env = "dev"
	}
	return fmt.Sprintf("config/config.%s.yaml", env)
}

// Load reads .env, then config/config.<CONFIG_ENV>.yaml over the defaults.
// A missing file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("module", "config").Msg("could not read .env")
	}
	return LoadFile(FileName(os.Getenv("CONFIG_ENV")))
}

func LoadFile(fileName string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(fileName)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("static", cfg.StaticPath).Msg("config ready")
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Secret == "" {
		log.Warn().Str("module", "config").Msg("no session secret configured, using an insecure development key")
		cfg.Secret = "phonecall-dev-secret-change-me"
	}
	return &cfg, nil
}

// ParseLevel maps the configured level; "silent" and "off" disable logging.
func ParseLevel(s string) zerolog.Level {
	switch s {
	case "silent", "off":
		return zerolog.Disabled
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// WatchLogLevel re-reads fileName on change and applies its log_level.
// Other settings need a restart.
func WatchLogLevel(fileName string) {
	v := newViper()
	v.SetConfigFile(fileName)
	if err := v.ReadInConfig(); err != nil {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		lvl := ParseLevel(v.GetString("log_level"))
		zerolog.SetGlobalLevel(lvl)
		log.Info().Str("module", "config").Str("file", e.Name).Str("level", lvl.String()).Msg("log level reloaded")
	})
	v.WatchConfig()
}
