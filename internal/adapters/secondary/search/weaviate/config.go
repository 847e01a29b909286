package weaviate

import (
	weaviate "github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/auth"
)

type Config struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost:8080"`
	APIKey string `envconfig:"API_KEY"`
}

// NewConnection builds the weaviate client.
func (c *Config) NewConnection() (*weaviate.Client, error) {
	cfg := weaviate.Config{
		Scheme: c.Scheme,
		Host:   c.Host,
	}
	if c.APIKey != "" {
		cfg.AuthConfig = auth.ApiKey{Value: c.APIKey}
	}
	return weaviate.NewClient(cfg)
}
