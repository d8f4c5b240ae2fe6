package config

import "fmt"

type Config struct {
	Env                string
	HTTPPort           int
	DatabaseURL        string
	PlatformAPIBaseURL string
	LLMAPIURL          string
	LLMAPIKey          string
	LLMModel           string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT must be a valid port, got %d", c.HTTPPort)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "DATABASE_URL", value: c.DatabaseURL},
		{name: "PLATFORM_API_BASE_URL", value: c.PlatformAPIBaseURL},
		{name: "LLM_API_URL", value: c.LLMAPIURL},
		{name: "LLM_API_KEY", value: c.LLMAPIKey},
		{name: "LLM_MODEL", value: c.LLMModel},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
