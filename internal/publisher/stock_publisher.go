package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/segmentio/kafka-go"
)

const (
	DefaultStockTopic   = "catalog-stock-updates"
	stockUpdatedEvent   = "stock_updated"
	eventTypeHeaderName = "event_type"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// StockChangedEvent is the payload written for every stock change made through the gateway.
type StockChangedEvent struct {
	ProductID int64     `json:"product_id"`
	Stock     int       `json:"stock"`
	ChangedAt time.Time `json:"changed_at"`
}

type StockPublisher struct {
	writer messageWriter
	now    func() time.Time
}

func NewStockPublisher(topic string, brokers ...string) *StockPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{}, // same product, same partition
		AllowAutoTopicCreation: true,
	}
	return newStockPublisher(w)
}

func newStockPublisher(w messageWriter) *StockPublisher {
	return &StockPublisher{writer: w, now: time.Now}
}

func (p *StockPublisher) PublishStockChange(ctx context.Context, product domain.Product) error {
	payload, err := json.Marshal(StockChangedEvent{
		ProductID: product.ID,
		Stock:     product.Stock,
		ChangedAt: p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal stock event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(product.ID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: eventTypeHeaderName, Value: []byte(stockUpdatedEvent)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish stock event for product %d: %w", product.ID, err)
	}
	return nil
}

func (p *StockPublisher) Close() error {
	return p.writer.Close()
}
