package langfuse

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

// Environment variable names for Langfuse configuration.
const (
	envSecretKey = "LANGFUSE_SECRET_KEY"
	envPublicKey = "LANGFUSE_PUBLIC_KEY"
	envHost      = "LANGFUSE_HOST"
)

// Config holds the Langfuse connection settings. SecretKey, PublicKey and
// Host are all required.
type Config struct {
	SecretKey string
	PublicKey string
	Host      string
}

// NewConfigFromEnv builds a Config from the LANGFUSE_* environment variables.
func NewConfigFromEnv() *Config {
	return &Config{
		SecretKey: os.Getenv(envSecretKey),
		PublicKey: os.Getenv(envPublicKey),
		Host:      os.Getenv(envHost),
	}
}

// validate fails fast when required keys are absent: no tracing is possible
// without them.
func (c *Config) validate() error {
	if c.SecretKey == "" || c.PublicKey == "" || c.Host == "" {
		return fmt.Errorf("langfuse: secret key, public key and host must be provided")
	}
	return nil
}

// host returns the configured host without a trailing slash.
func (c *Config) host() string {
	return strings.TrimSuffix(c.Host, "/")
}

// encodeAuth encodes the public and secret keys for basic authentication.
func encodeAuth(pk, sk string) string {
	auth := pk + ":" + sk
	return base64.StdEncoding.EncodeToString([]byte(auth))
}
