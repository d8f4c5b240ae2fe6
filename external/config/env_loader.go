package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/talkstream/convosync/internal/config"
)

type envConfig struct {
	Env                string `env:"ENV" envDefault:"production"`
	HTTPPort           int    `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL        string `env:"DATABASE_URL,required"`
	PlatformAPIBaseURL string `env:"PLATFORM_API_BASE_URL,required"`
	LLMAPIURL          string `env:"LLM_API_URL,required"`
	LLMAPIKey          string `env:"LLM_API_KEY,required"`
	LLMModel           string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                raw.Env,
		HTTPPort:           raw.HTTPPort,
		DatabaseURL:        raw.DatabaseURL,
		PlatformAPIBaseURL: raw.PlatformAPIBaseURL,
		LLMAPIURL:          raw.LLMAPIURL,
		LLMAPIKey:          raw.LLMAPIKey,
		LLMModel:           raw.LLMModel,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
