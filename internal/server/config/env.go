package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvConfig mirrors the Config fields that may be supplied through the
// environment. Unset variables leave the current values untouched.
type EnvConfig struct {
	EndpointAddr                *string  `env:"ADDRESS"`
	DatabaseDSN                 *string  `env:"DATABASE_DSN"`
	SecretKey                   *string  `env:"SECRET_KEY"`
	AccessTokenValidityDuration *string  `env:"ACCESS_TOKEN_VALIDITY"`
	BcryptCost                  *int     `env:"BCRYPT_COST"`
	RateLimitRPS                *float64 `env:"RATE_LIMIT_RPS"`
	RateLimitBurst              *int     `env:"RATE_LIMIT_BURST"`
}

// parseEnv overlays environment variables onto config. The token validity
// is accepted in time.ParseDuration form ("30m").
func parseEnv(config *Config) {
	c := &EnvConfig{}
	if err := env.Parse(c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != nil {
		config.EndpointAddr = *c.EndpointAddr
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.AccessTokenValidityDuration != nil {
		d, err := time.ParseDuration(*c.AccessTokenValidityDuration)
		if err != nil {
			panic(err)
		}
		config.AccessTokenValidityDuration = d
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.RateLimitRPS != nil {
		config.RateLimitRPS = *c.RateLimitRPS
	}
	if c.RateLimitBurst != nil {
		config.RateLimitBurst = *c.RateLimitBurst
	}
}
