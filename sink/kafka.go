package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"go-clipboard-converter/domain"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/segmentio/kafka-go"
)

// ConversionEvent the JSON message published for each result
type ConversionEvent struct {
	ID             string    `json:"id"`
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency"`
	Defaulted      bool      `json:"defaulted"`
	Rate           float64   `json:"rate"`
	ConvertedValue float64   `json:"converted_value"`
	Original       string    `json:"original"`
	Converted      string    `json:"converted"`
	ObservedAt     time.Time `json:"observed_at"`
}

// NewConversionEvent maps a result to its wire form
func NewConversionEvent(r domain.ConversionResult) ConversionEvent {
	return ConversionEvent{
		ID:             r.ID.String(),
		Amount:         r.Amount.Value,
		Currency:       string(r.Amount.Currency),
		Defaulted:      r.Amount.Defaulted,
		Rate:           float64(r.Rate),
		ConvertedValue: r.ConvertedValue,
		Original:       r.OriginalText,
		Converted:      r.ConvertedText,
		ObservedAt:     r.ObservedAt,
	}
}

// MessageWriter is satisfied by *kafka.Writer
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes every result to a topic, keyed by currency
type Kafka struct {
	writer  MessageWriter
	timeout time.Duration
	logger  log.Logger
}

// NewKafkaWriter returns a writer for topic on brokers
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
}

// NewKafka returns a Kafka sink. Publishing a single result gives up after timeout.
func NewKafka(w MessageWriter, timeout time.Duration, logger log.Logger) *Kafka {
	return &Kafka{
		writer:  w,
		timeout: timeout,
		logger:  logger,
	}
}

func (k *Kafka) Accept(r domain.ConversionResult) {
	if err := k.publish(r); err != nil {
		level.Error(k.logger).Log("msg", "publishing result failed", "id", r.ID, "err", err)
	}
}

func (k *Kafka) publish(r domain.ConversionResult) error {
	v, err := json.Marshal(NewConversionEvent(r))
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
	defer cancel()

	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(r.Amount.Currency),
		Value: v,
		Time:  r.ObservedAt,
	})
	if err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer
func (k *Kafka) Close() error {
	return k.writer.Close()
}
