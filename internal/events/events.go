// Package events announces bet lifecycle changes to Kafka.
package events

import (
	"context"       // Context for broker writes
	"encoding/json" // JSON payloads
	"strconv"       // Message keys
	"time"          // Event timestamps

	"consciousbet/internal/metrics" // Delivery failure counter

	"github.com/google/uuid"        // Event IDs
	"github.com/segmentio/kafka-go" // Kafka client
	"github.com/shopspring/decimal" // Monetary amounts
	"github.com/sirupsen/logrus"    // Logging library
)

// Event types
const (
	BetPlaced        = "bet.placed"
	BetUpdated       = "bet.updated"
	BetStatusChanged = "bet.status_changed"
	BetDeleted       = "bet.deleted"
)

// BetEvent is the payload written for every bet mutation
type BetEvent struct {
	EventID  string          `json:"eventId"`            // Unique per event
	Type     string          `json:"type"`               // One of the event types above
	BetID    uint            `json:"betId"`              // Affected bet
	UserID   uint            `json:"userId"`             // Owner of the bet
	Amount   decimal.Decimal `json:"amount"`             // Amount after the change
	BetType  string          `json:"betType,omitempty"`  // SPORTS, CASINO, ...
	Status   string          `json:"status,omitempty"`   // Status after the change
	Previous string          `json:"previous,omitempty"` // Status before a status change
	TsUnixMs int64           `json:"tsUnixMs"`           // Publish time
}

// Publisher delivers bet events
type Publisher interface {
	Publish(ctx context.Context, e BetEvent) error
	Close() error
}

// messageWriter is the part of kafka.Writer used here
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON, keyed by user so one user's events stay ordered
type KafkaPublisher struct {
	writer messageWriter
	now    func() time.Time
}

// NewWriter builds a writer for topic on brokers
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		Async:                  true,      // Requests never wait on the broker
		Completion:             delivered, // Async failures surface here
	}
}

// delivered reports batches the async writer gave up on
func delivered(msgs []kafka.Message, err error) {
	if err == nil {
		return
	}
	metrics.EventPublishFailures.Add(float64(len(msgs)))
	logrus.WithFields(logrus.Fields{
		"messages": len(msgs),
		"error":    err.Error(),
	}).Error("Bet events not delivered")
}

// NewKafkaPublisher publishes through w
func NewKafkaPublisher(w *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: w, now: time.Now}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e BetEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	e.TsUnixMs = p.now().UnixMilli()
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(e.UserID), 10)),
		Value: b,
		Time:  p.now(),
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event; used when no brokers are configured
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, BetEvent) error { return nil }
func (NopPublisher) Close() error                            { return nil }
