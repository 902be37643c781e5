package interfaces

import "context"

// ConsumerHandler processes one event payload pulled off the marketplace topic.
type ConsumerHandler interface {
	HandleMessage(ctx context.Context, message []byte) error
}

// ProducerHandler publishes marketplace events. Implementations must tolerate
// a disabled broker so a missing Kafka never fails a request.
type ProducerHandler interface {
	PublishMessage(ctx context.Context, key, value []byte) error
}
