package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log    Logger       `mapstructure:"logger"`
	DB     Database     `mapstructure:"database"`
	API    API          `mapstructure:"api"`
	Source SourceConfig `mapstructure:"source"`
	Sync   SyncConfig   `mapstructure:"sync"`
	Cache  Cache        `mapstructure:"cache"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

// SourceConfig describes the upstream company-summary endpoint.
type SourceConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	SummaryPath      string        `mapstructure:"summary_path"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxRequestPerMin int           `mapstructure:"max_request_per_min"`
}

// SyncConfig carries the defaults for the bulk sync pipeline. Every value
// can be overridden per run via CLI flags or the sync API.
type SyncConfig struct {
	UniverseFile   string        `mapstructure:"universe_file"`
	BatchSize      int           `mapstructure:"batch_size"`
	Concurrency    int           `mapstructure:"concurrency"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay"`
	RetryMaxDelay  time.Duration `mapstructure:"retry_max_delay"`
	ChunkDelay     time.Duration `mapstructure:"chunk_delay"`
	BatchDelay     time.Duration `mapstructure:"batch_delay"`
	Cron           string        `mapstructure:"cron"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

func Load() (*Config, error) {
	// .env is optional, real env vars still win through viper below.
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.log_level", "Warn")

	viper.SetDefault("api.port", 8080)

	viper.SetDefault("source.summary_path", "/co-phieu/%s.json")
	viper.SetDefault("source.timeout", 15*time.Second)
	viper.SetDefault("source.max_request_per_min", 120)

	viper.SetDefault("sync.universe_file", "tickers.json")
	viper.SetDefault("sync.batch_size", 0)
	viper.SetDefault("sync.concurrency", 5)
	viper.SetDefault("sync.max_retries", 3)
	viper.SetDefault("sync.retry_base_delay", 1*time.Second)
	viper.SetDefault("sync.retry_max_delay", 30*time.Second)
	viper.SetDefault("sync.chunk_delay", 2*time.Second)
	viper.SetDefault("sync.batch_delay", 10*time.Second)

	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)
}
