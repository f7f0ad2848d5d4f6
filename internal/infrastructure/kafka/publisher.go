package kafka

import (
	"context"
	"encoding/json"
	"time"

	snapshotv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/errors"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/logger"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/util"
	"github.com/oklog/ulid/v2"
	"github.com/segmentio/kafka-go"
)

// EventIDHeader carries the snapshot's event id, taken from the context or
// generated when absent.
const EventIDHeader = "event-id"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config holds the publisher settings.
type Config struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
}

// Publisher writes snapshots to a Kafka topic as JSON.
type Publisher struct {
	writer messageWriter
	topic  string
	logger logger.Interface
}

var _ snapshotv1.Sink = (*Publisher)(nil)

// NewPublisher creates a Kafka publisher for MBP-10 snapshots.
func NewPublisher(config Config, log logger.Interface) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    config.BatchSize,
		BatchTimeout: config.BatchTimeout,
		RequiredAcks: kafka.RequireOne,
	}
	return newPublisher(writer, config.Topic, log)
}

func newPublisher(writer messageWriter, topic string, log logger.Interface) *Publisher {
	return &Publisher{
		writer: writer,
		topic:  topic,
		logger: log,
	}
}

// Write publishes one snapshot keyed by instrument id.
func (p *Publisher) Write(ctx context.Context, snapshot *snapshotv1.Snapshot) error {
	value, err := json.Marshal(snapshot)
	if err != nil {
		return errors.NewErrorDetailsWithCause("failed to encode snapshot", errors.KafkaPublishError, "value", err)
	}

	eventID := util.GetEventID(ctx)
	if eventID == "" {
		eventID = ulid.Make().String()
	}

	msg := kafka.Message{
		Key:   []byte(snapshot.Metadata.InstrumentID),
		Value: value,
		Headers: []kafka.Header{
			{Key: EventIDHeader, Value: []byte(eventID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.NewField("topic", p.topic),
			logger.NewField("seq", snapshot.Seq),
		)
		return errors.NewErrorDetailsWithCause("failed to publish snapshot", errors.KafkaPublishError, p.topic, err)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return errors.NewErrorDetailsWithCause("failed to close kafka writer", errors.KafkaPublishError, p.topic, err)
	}
	return nil
}
