package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, loaded from PFM_* environment
// variables. Environment values override whatever the profile file holds,
// so CI and one-off invocations can bypass the file entirely.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	API         struct {
		BaseURL string `env:"BASE_URL"`
		Tenant  string `env:"TENANT"`
		Token   string `env:"TOKEN"`
		Timeout int    `env:"TIMEOUT" envDefault:"30"` // seconds, regular calls only
	} `envPrefix:"API_"`
	Export struct {
		Timezone string `env:"TIMEZONE" envDefault:"America/Montreal"`
	} `envPrefix:"EXPORT_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "PFM_"}); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// Only surface the first error to keep the log readable.
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}

// ApplyProfile fills the API fields that the environment left empty.
func (c *Config) ApplyProfile(p Profile) {
	if c.API.BaseURL == "" {
		c.API.BaseURL = p.BaseURL
	}
	if c.API.Tenant == "" {
		c.API.Tenant = p.Tenant
	}
	if c.API.Token == "" {
		c.API.Token = p.Token
	}
}
