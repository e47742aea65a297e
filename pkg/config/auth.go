package config

import "time"

// AuthConfig configures API token auth.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	Issuer    string
	Disabled  bool
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:  getEnvDuration("JWT_TOKEN_TTL", time.Hour),
		Issuer:    getEnv("JWT_ISSUER", "vigil"),
		Disabled:  getEnvBool("AUTH_DISABLED", false),
	}
}
