package llm

type Config struct {
	BaseURL        string  `envconfig:"BASE_URL" default:"https://generativelanguage.googleapis.com"`
	APIKey         string  `envconfig:"API_KEY"`
	Model          string  `envconfig:"MODEL" default:"gemma-3-4b-it"`
	TimeoutSeconds int     `envconfig:"TIMEOUT" default:"20"`
	Temperature    float64 `envconfig:"TEMPERATURE" default:"0.7"`
}
