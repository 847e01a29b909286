package kafka

import "context"

// MessageHandler handles one consumed Kafka message.
type MessageHandler interface {
	HandleMessage(ctx context.Context, key string, value []byte) error
}

// IProducer sends messages to a single topic.
type IProducer interface {
	Send(ctx context.Context, key string, value []byte) error
	Close() error
}
