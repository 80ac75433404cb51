package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"go-clipboard-converter/domain"
	"go-clipboard-converter/monitor"
	"strings"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result() domain.ConversionResult {
	return domain.ConversionResult{
		ID:             uuid.MustParse("6f1c1f2e-3b7a-4c7e-9a55-0c2f5d1b8e10"),
		Amount:         domain.ParsedAmount{Value: 12.5, Currency: domain.USD},
		Rate:           0.00075,
		ConvertedValue: 16666.666666666668,
		OriginalText:   "12.50 USD",
		ConvertedText:  "16,667원",
		ObservedAt:     time.Date(2024, 3, 19, 12, 0, 0, 0, time.UTC),
	}
}

func TestWriter_Accept(t *testing.T) {
	var buf bytes.Buffer

	NewWriter(&buf).Accept(result())

	assert.Equal(t, "[2024-03-19 12:00:00] 12.50 USD -> 16,667원\n", buf.String())
}

func TestMulti_Accept(t *testing.T) {
	var order []string
	m := Multi{
		monitor.SinkFunc(func(r domain.ConversionResult) { order = append(order, "a:"+r.OriginalText) }),
		monitor.SinkFunc(func(r domain.ConversionResult) { order = append(order, "b:"+r.OriginalText) }),
	}

	m.Accept(result())

	assert.Equal(t, []string{"a:12.50 USD", "b:12.50 USD"}, order)
}

type mockWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	_, ok := ctx.Deadline()
	if !ok {
		return errors.New("no deadline")
	}
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	m.closed = true
	return nil
}

func TestKafka_Accept(t *testing.T) {
	w := &mockWriter{}
	k := NewKafka(w, time.Second, log.NewNopLogger())

	k.Accept(result())

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "USD", string(w.msgs[0].Key))

	var event ConversionEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &event))
	assert.Equal(t, NewConversionEvent(result()), event)
	assert.Equal(t, "6f1c1f2e-3b7a-4c7e-9a55-0c2f5d1b8e10", event.ID)
	assert.Equal(t, "16,667원", event.Converted)

	require.NoError(t, k.Close())
	assert.True(t, w.closed)
}

func TestKafka_AcceptLogsFailure(t *testing.T) {
	var buf strings.Builder
	w := &mockWriter{err: errors.New("broker down")}
	k := NewKafka(w, time.Second, log.NewLogfmtLogger(&buf))

	assert.NotPanics(t, func() { k.Accept(result()) })
	assert.Contains(t, buf.String(), "publishing result failed")
	assert.Contains(t, buf.String(), "broker down")
}

func TestNewKafkaWriter(t *testing.T) {
	w := NewKafkaWriter([]string{"localhost:9092"}, "conversions")

	assert.Equal(t, "conversions", w.Topic)
	assert.Equal(t, "localhost:9092", w.Addr.String())
}
