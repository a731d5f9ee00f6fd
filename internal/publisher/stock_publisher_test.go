package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublishStockChange(t *testing.T) {
	w := &fakeWriter{}
	p := newStockPublisher(w)
	fixed := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	err := p.PublishStockChange(context.Background(), domain.Product{ID: 42, Title: "Lamp", Stock: 8})
	require.NoError(t, err)

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "42", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, "stock_updated", string(msg.Headers[0].Value))

	var event StockChangedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, int64(42), event.ProductID)
	assert.Equal(t, 8, event.Stock)
	assert.True(t, fixed.Equal(event.ChangedAt))
}

func TestPublishStockChange_WriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker unavailable")}
	p := newStockPublisher(w)

	err := p.PublishStockChange(context.Background(), domain.Product{ID: 7})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product 7")
	assert.Contains(t, err.Error(), "broker unavailable")
}

func TestClose(t *testing.T) {
	w := &fakeWriter{}
	p := newStockPublisher(w)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewStockPublisher_ConfiguresWriter(t *testing.T) {
	p := NewStockPublisher(DefaultStockTopic, "localhost:9092")

	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, DefaultStockTopic, w.Topic)
	assert.Equal(t, "localhost:9092", w.Addr.String())
}
