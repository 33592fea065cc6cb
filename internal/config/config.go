package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server      ServerConfig
	Gemini      GeminiConfig
	Media       MediaConfig
	RedisConfig RedisConfig
	CacheEnable bool `env:"CACHE_ENABLE"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR" envDefault:"redis:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	TTL      time.Duration `env:"REDIS_TTL" envDefault:"10m"`
}

type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" envDefault:"8080"`
	Timeout         time.Duration `env:"SERVER_TIMEOUT" envDefault:"2m"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ThrottleLimit   int           `env:"SERVER_THROTTLE_LIMIT" envDefault:"50"`
}

// GeminiConfig configures the generation backend. APIKey is only a fallback
// for requests that do not carry their own key.
type GeminiConfig struct {
	APIKey   string        `env:"GEMINI_API_KEY"`
	Endpoint string        `env:"GEMINI_ENDPOINT" envDefault:"https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-pro:generateContent"`
	Timeout  time.Duration `env:"GEMINI_TIMEOUT" envDefault:"60s"`
}

type MediaConfig struct {
	MaxFileSize  int64         `env:"MEDIA_MAX_FILE_SIZE" envDefault:"157286400"`
	FrameTimeout time.Duration `env:"MEDIA_FRAME_TIMEOUT" envDefault:"15s"`
	VideoDecoder string        `env:"MEDIA_VIDEO_DECODER" envDefault:"mpeg"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
