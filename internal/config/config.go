package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string `env:"ENV" env-default:"local"`
	DatabaseURL string `env:"DATABASE_URL" env-required:"true"`
	HTTP        HTTPConfig
	TokenTTL    time.Duration `env:"TOKEN_TTL" env-default:"24h"`
	Secret      string        `env:"SECRET" env-required:"true"`
	Minio       MinioConfig
	LLM         LLMConfig
	Recommend   RecommendConfig
}

type HTTPConfig struct {
	Port         int           `env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	// AllowedOrigins — источники для CORS, через запятую
	AllowedOrigins []string `env:"HTTP_ALLOWED_ORIGINS" env-default:"http://localhost:3000"`
}

type MinioConfig struct {
	Enabled           bool   `env:"MINIO_ENABLE" env-default:"false"`
	MinioEndpoint     string `env:"MINIO_ENDPOINT"`
	BucketName        string `env:"MINIO_BUCKET" env-default:"property-images"`
	MinioRootUser     string `env:"MINIO_USER"`
	MinioRootPassword string `env:"MINIO_PASSWORD"`
	MinioUseSSL       bool   `env:"MINIO_USE_SSL"`
}

// LLMConfig — конфигурация для LLM API (OpenRouter, OpenAI и др.).
type LLMConfig struct {
	Enabled bool          `env:"LLM_ENABLE" env-default:"false"`
	BaseURL string        `env:"LLM_BASE_URL" env-default:"https://openrouter.ai/api/v1"`
	APIKey  string        `env:"LLM_API_KEY"`
	Model   string        `env:"LLM_MODEL" env-default:"deepseek/deepseek-chat"`
	Timeout time.Duration `env:"LLM_TIMEOUT" env-default:"60s"`
	// Referer и Title уходят в заголовки HTTP-Referer / X-Title (требование OpenRouter)
	Referer string `env:"LLM_REFERER" env-default:"http://localhost:3000"`
	Title   string `env:"LLM_TITLE" env-default:"Property Rental Platform"`
}

// RecommendConfig — параметры подбора рекомендаций.
type RecommendConfig struct {
	// CandidateLimit — сколько доступных объектов передавать модели
	CandidateLimit int `env:"RECOMMEND_CANDIDATE_LIMIT" env-default:"20"`
	// MinScore — минимальная оценка соответствия для попадания в выдачу
	MinScore int `env:"RECOMMEND_MIN_SCORE" env-default:"60"`
	// MaxMatches — максимум объектов в выдаче
	MaxMatches int `env:"RECOMMEND_MAX_MATCHES" env-default:"10"`
	// Temperature и MaxTokens — параметры запроса к модели
	Temperature float64 `env:"RECOMMEND_TEMPERATURE" env-default:"0.7"`
	MaxTokens   int     `env:"RECOMMEND_MAX_TOKENS" env-default:"4000"`
}

func MustLoad() *Config {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("cannot read config from environment: " + err.Error())
	}
	return &cfg
}
