package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config carries every tunable the pipeline reads. Values come from
// app.env in the config directory, overridable through the environment.
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`

	NominatimURL string `mapstructure:"NOMINATIM_URL"`
	SiteBaseURL  string `mapstructure:"SITE_BASE_URL"`

	FetchDelay  time.Duration `mapstructure:"FETCH_DELAY"`
	HTTPTimeout time.Duration `mapstructure:"HTTP_TIMEOUT"`

	CacheTTL  time.Duration `mapstructure:"CACHE_TTL"`
	RedisAddr string        `mapstructure:"REDIS_ADDR"`

	RecencyDays int `mapstructure:"RECENCY_DAYS"`
}

// LoadConfig reads configuration from app.env under path, falling back to
// the defaults below when the file or a key is absent.
func LoadConfig(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search")
	viper.SetDefault("SITE_BASE_URL", "https://www.zillow.com")
	viper.SetDefault("FETCH_DELAY", "2s")
	viper.SetDefault("HTTP_TIMEOUT", "30s")
	viper.SetDefault("CACHE_TTL", "1h")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("RECENCY_DAYS", 365)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Defaults cover every key; only a malformed file is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
