package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds the process settings read from the environment. Secrets never
// live in the JSON config file.
type Env struct {
	ConfigPath    string `env:"FIGHTCASTER_CONFIG" envDefault:"./fightcaster_config.json"`
	DBPath        string `env:"FIGHTCASTER_DB" envDefault:"./data/fightcaster.db"`
	StorageDriver string `env:"FIGHTCASTER_STORAGE" envDefault:"sqlite"`
	// ServerAddress overrides server.address from the config file when set.
	ServerAddress string `env:"FIGHTCASTER_ADDR"`

	SessionSecret       string `env:"SESSION_SECRET"`
	SessionSecureCookie bool   `env:"SESSION_SECURE_COOKIE" envDefault:"false"`
	// DevLogin enables logging in with a bare fid, without an identity
	// provider round trip.
	DevLogin bool `env:"FIGHTCASTER_DEV_LOGIN" envDefault:"true"`

	OAuth OAuthEnv

	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	LogLevel     string `env:"FIGHTCASTER_LOG_LEVEL" envDefault:"info"`
}

// OAuthEnv configures the optional OAuth2 identity provider.
type OAuthEnv struct {
	ClientID     string   `env:"OAUTH_CLIENT_ID"`
	ClientSecret string   `env:"OAUTH_CLIENT_SECRET"`
	AuthURL      string   `env:"OAUTH_AUTH_URL"`
	TokenURL     string   `env:"OAUTH_TOKEN_URL"`
	UserInfoURL  string   `env:"OAUTH_USERINFO_URL"`
	RedirectURL  string   `env:"OAUTH_REDIRECT_URL"`
	Scopes       []string `env:"OAUTH_SCOPES" envSeparator:"," envDefault:"openid,profile"`
}

// Configured reports whether enough is set to run the code exchange.
func (o OAuthEnv) Configured() bool {
	return o.ClientID != "" && o.ClientSecret != "" && o.TokenURL != "" && o.UserInfoURL != ""
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnv parses the process environment into Env.
func LoadEnv() (Env, error) {
	var e Env
	if err := ParseEnv(&e); err != nil {
		return Env{}, err
	}
	return e, nil
}
