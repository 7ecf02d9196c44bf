package event

import (
	"context"
	"fmt"
	"time"

	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"github.com/realmfikri/pos-shoestore/internal/infrastructure/config"
	"github.com/realmfikri/pos-shoestore/internal/infrastructure/logger"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// MessageWriter is the subset of *kafka.Writer the forwarder needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaForwarder is a wildcard event handler that copies every domain event
// to a Kafka topic. Messages are keyed by aggregate id so all events of one
// variant, sale or order land on the same partition in order.
type KafkaForwarder struct {
	writer     MessageWriter
	serializer *Serializer
	logger     *zap.Logger
	timeout    time.Duration
}

// NewKafkaWriter builds an asynchronous writer for cfg. Delivery errors are
// reported to the logger through the writer's completion callback.
func NewKafkaWriter(cfg config.KafkaConfig, log *zap.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Error("Kafka delivery failed", zap.Int("messages", len(messages)), zap.Error(err))
			}
		},
	}
}

// NewKafkaForwarder wraps a writer
func NewKafkaForwarder(writer MessageWriter, serializer *Serializer, log *zap.Logger) *KafkaForwarder {
	if log == nil {
		log = zap.NewNop()
	}
	return &KafkaForwarder{
		writer:     writer,
		serializer: serializer,
		logger:     log,
		timeout:    5 * time.Second,
	}
}

// EventTypes returns nil: the forwarder receives every event
func (f *KafkaForwarder) EventTypes() []string {
	return nil
}

// Handle writes one event to Kafka
func (f *KafkaForwarder) Handle(ctx context.Context, ev shared.DomainEvent) error {
	payload, err := f.serializer.Serialize(ev)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(ev.AggregateID().String()),
		Value: payload,
		Time:  ev.OccurredAt(),
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(ev.EventID().String())},
			{Key: "event-type", Value: []byte(ev.EventType())},
			{Key: "aggregate-type", Value: []byte(ev.AggregateType())},
			{Key: "content-type", Value: []byte("application/json")},
		},
	}
	if id := logger.RequestID(ctx); id != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: "request-id", Value: []byte(id)})
	}
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		msg.Headers = append(msg.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
	defer cancel()
	if err := f.writer.WriteMessages(writeCtx, msg); err != nil {
		return fmt.Errorf("forward %s to kafka: %w", ev.EventType(), err)
	}
	f.logger.Debug("Event forwarded to Kafka",
		zap.String("event_type", ev.EventType()),
		zap.String("aggregate_id", ev.AggregateID().String()),
	)
	return nil
}

// Close flushes and closes the writer
func (f *KafkaForwarder) Close() error {
	return f.writer.Close()
}

var _ shared.EventHandler = (*KafkaForwarder)(nil)
