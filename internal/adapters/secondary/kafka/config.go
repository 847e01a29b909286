package kafka

import "strings"

// Config holds the connection settings for one Kafka topic.
type Config struct {
	Brokers          string `envconfig:"BROKERS"` // "broker1:9092,broker2:9092"
	Topic            string `envconfig:"TOPIC" default:"restaurant-updates"`
	ConsumerGroup    string `envconfig:"CONSUMER_GROUP" default:"bab-back"`
	SecurityProtocol string `envconfig:"SECURITY_PROTOCOL"` // "SASL_SSL", "SASL_PLAINTEXT", "PLAINTEXT"
	SASLMechanism    string `envconfig:"SASL_MECHANISM"`    // "PLAIN", "SCRAM-SHA-256"
	SASLUsername     string `envconfig:"SASL_USERNAME"`
	SASLPassword     string `envconfig:"SASL_PASSWORD"`
}

// GetBrokers splits the broker list.
func (c *Config) GetBrokers() []string {
	if c.Brokers == "" {
		return []string{"localhost:9092"}
	}
	return strings.Split(c.Brokers, ",")
}
