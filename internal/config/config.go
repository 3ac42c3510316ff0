package config

import "github.com/caarlos0/env/v11"

type Config struct {
	Server      ServerConfig
	Store       StoreConfig
	RateLimit   RateLimitConfig
	RemoteWrite RemoteWriteConfig
	Pprof       PprofConfig
}

type ServerConfig struct {
	Host               string `env:"SERVER_HOST" envDefault:"localhost"`
	Port               int    `env:"SERVER_PORT" envDefault:"8080"`
	MaxConnections     int    `env:"SERVER_MAX_CONNECTIONS" envDefault:"0"`
	MaxRequestBodySize string `env:"SERVER_MAX_REQUEST_BODY_SIZE" envDefault:"64K"`
}

type StoreConfig struct {
	// SeriesWindowSeconds is the trailing interval the series endpoint
	// exports; SeriesCapacity bounds retained points per label key.
	SeriesWindowSeconds float64 `env:"SERIES_WINDOW_SECONDS" envDefault:"300"`
	SeriesCapacity      int     `env:"SERIES_CAPACITY" envDefault:"500"`
}

type RateLimitConfig struct {
	Enabled       bool    `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RPS           float64 `env:"RATE_LIMIT_RPS" envDefault:"200"`
	Burst         int     `env:"RATE_LIMIT_BURST" envDefault:"400"`
	ExpireMinutes int     `env:"RATE_LIMIT_EXPIRE_MINUTES" envDefault:"3"`
	BypassSecret  string  `env:"RATE_LIMIT_BYPASS_SECRET"`
}

type RemoteWriteConfig struct {
	URL             string `env:"REMOTE_WRITE_URL"`
	IntervalSeconds int    `env:"REMOTE_WRITE_INTERVAL_SECONDS" envDefault:"15"`
}

type PprofConfig struct {
	Enabled bool   `env:"PPROF_ENABLED" envDefault:"false"`
	Secret  string `env:"PPROF_SECRET"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
