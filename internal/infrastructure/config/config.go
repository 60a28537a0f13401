package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Store StoreConfig
	Redis RedisConfig
	Voice VoiceConfig
}

type StoreConfig struct {
	// Path of the embedded SQLite database backing the record store.
	Path string `env:"STORE_PATH, default=habitcoach.db"`
	// BlobBaseURL prefixes the reference URLs generated for uploaded
	// bloodwork documents.
	BlobBaseURL string `env:"BLOB_BASE_URL, default=https://storage.habitcoach.example/bloodwork"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type VoiceConfig struct {
	TranscribeURL string        `env:"VOICE_TRANSCRIBE_URL, default=https://toolkit.rork.com/stt/transcribe/"`
	ExtractURL    string        `env:"VOICE_EXTRACT_URL,    default=https://toolkit.rork.com/text/llm/"`
	Timeout       time.Duration `env:"VOICE_TIMEOUT,        default=15s"`
}

// Load reads configuration from environment variables using
// go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
