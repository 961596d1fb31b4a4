package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gookit/validate"
	"github.com/spf13/viper"
)

const (
	envPrefix  = "VIDTYCOON"
	envConfig  = "VIDTYCOON_CONFIG"
	appDirName = ".vidtycoon"
)

type APIConfig struct {
	Addr                string        `mapstructure:"api_addr" validate:"required"`
	DatabaseURL         string        `mapstructure:"database_url"`
	StoreBackend        string        `mapstructure:"store_backend" validate:"required|in:postgres,memory"`
	RedisURL            string        `mapstructure:"redis_url"`
	LeaderboardSize     int           `mapstructure:"leaderboard_size" validate:"required|min:1|max:100"`
	LeaderboardCacheMB  int           `mapstructure:"leaderboard_cache_mb"`
	LeaderboardCacheTTL time.Duration `mapstructure:"leaderboard_cache_ttl"`
	MetricsEnabled      bool          `mapstructure:"metrics_enabled"`
	LogLevel            string        `mapstructure:"log_level" validate:"required|in:debug,info,warn,error"`
}

type CLIConfig struct {
	APIBaseURL          string        `mapstructure:"api_base_url" validate:"required|fullUrl"`
	HomeDir             string        `mapstructure:"home_dir"`
	TickEvery           time.Duration `mapstructure:"tick_every"`
	ViralCheckEvery     time.Duration `mapstructure:"viral_check_every"`
	ViralCountdownEvery time.Duration `mapstructure:"viral_countdown_every"`
	ScorePushEvery      time.Duration `mapstructure:"score_push_every"`
	Seed                int64         `mapstructure:"seed"`
	LogLevel            string        `mapstructure:"log_level" validate:"required|in:debug,info,warn,error"`
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := strings.TrimSpace(os.Getenv(envConfig)); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return v, nil
}

func LoadAPI() (APIConfig, error) {
	v, err := newViper()
	if err != nil {
		return APIConfig{}, err
	}
	v.SetDefault("api_addr", ":8080")
	v.SetDefault("database_url", "")
	v.SetDefault("store_backend", "postgres")
	v.SetDefault("redis_url", "")
	v.SetDefault("leaderboard_size", 10)
	v.SetDefault("leaderboard_cache_mb", 1)
	v.SetDefault("leaderboard_cache_ttl", "5s")
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("log_level", "info")
	_ = v.BindEnv("database_url", envPrefix+"_DATABASE_URL", "DATABASE_URL")

	var cfg APIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode api config: %w", err)
	}
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Addr = port
	}
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := validateStruct(&cfg); err != nil {
		return cfg, err
	}
	if cfg.StoreBackend == "postgres" && cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required for the postgres store")
	}
	if cfg.LeaderboardCacheMB < 0 {
		return cfg, fmt.Errorf("leaderboard_cache_mb must not be negative")
	}
	return cfg, nil
}

func LoadCLI() (CLIConfig, error) {
	v, err := newViper()
	if err != nil {
		return CLIConfig{}, err
	}
	v.SetDefault("api_base_url", "http://localhost:8080")
	v.SetDefault("home_dir", "")
	v.SetDefault("tick_every", "100ms")
	v.SetDefault("viral_check_every", "10s")
	v.SetDefault("viral_countdown_every", "1s")
	v.SetDefault("score_push_every", "30s")
	v.SetDefault("seed", 0)
	v.SetDefault("log_level", "info")

	var cfg CLIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode cli config: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.HomeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("resolve home dir: %w", err)
		}
		cfg.HomeDir = filepath.Join(home, appDirName)
	}

	if err := validateStruct(&cfg); err != nil {
		return cfg, err
	}
	for name, d := range map[string]time.Duration{
		"tick_every":            cfg.TickEvery,
		"viral_check_every":     cfg.ViralCheckEvery,
		"viral_countdown_every": cfg.ViralCountdownEvery,
		"score_push_every":      cfg.ScorePushEvery,
	} {
		if d <= 0 {
			return cfg, fmt.Errorf("%s must be positive", name)
		}
	}
	return cfg, nil
}

func validateStruct(v any) error {
	vd := validate.Struct(v)
	if !vd.Validate() {
		return fmt.Errorf("invalid config: %s", vd.Errors.One())
	}
	return nil
}

// ParseLevel maps a config log level to slog. Unknown values mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
