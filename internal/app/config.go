package app

import (
	server "github.com/bap-pick/bab-back/internal/adapters/primary/http"
	kafkaAdapter "github.com/bap-pick/bab-back/internal/adapters/secondary/kafka"
	llmAdapter "github.com/bap-pick/bab-back/internal/adapters/secondary/llm"
	weaviateAdapter "github.com/bap-pick/bab-back/internal/adapters/secondary/search/weaviate"
	"github.com/bap-pick/bab-back/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/bap-pick/bab-back/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/bap-pick/bab-back/internal/adapters/secondary/storage/s3"
	"github.com/bap-pick/bab-back/internal/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Postgres *pg.Config              `envconfig:"POSTGRES"`
	Redis    *redisAdapter.Config    `envconfig:"REDIS"`
	Log      *logger.Config          `envconfig:"LOG"`
	Server   *server.Config          `envconfig:"APISERVER"`
	Weaviate *weaviateAdapter.Config `envconfig:"WEAVIATE"`
	LLM      *llmAdapter.Config      `envconfig:"LLM"`
	Kafka    *kafkaAdapter.Config    `envconfig:"KAFKA"`
	S3       *s3Adapter.Config       `envconfig:"S3"`
}

func NewEnvConfig(envPrefix string) (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load("deployments/local/.env")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
