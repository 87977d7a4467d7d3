package config

import (
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret string        `env:"JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	// The admin credential bypasses the signup-domain restriction and the
	// stored-account lookup entirely.
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@swapify.com"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin123"`

	AllowedSignupDomain string `env:"ALLOWED_SIGNUP_DOMAIN" envDefault:"gmail.com"`

	PaymentStepDelay time.Duration `env:"PAYMENT_STEP_DELAY" envDefault:"600ms"`
	PaymentSteps     int           `env:"PAYMENT_STEPS" envDefault:"3"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
