package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/ecomarket/marketplace-service/internal/pkg/broker"
	"github.com/ecomarket/marketplace-service/internal/pkg/cache"
	"github.com/ecomarket/marketplace-service/internal/pkg/logger"
	"github.com/ecomarket/marketplace-service/internal/stock"
)

// RestockListener consumes stock events published by the fulfillment side
// and tops product stock back up. It runs outside the request path;
// failures are logged and the event is skipped.
type RestockListener struct {
	consumer *broker.KafkaConsumer
	db       *sqlx.DB
	ledger   *stock.Ledger
	cache    *cache.RedisClient
	logger   logger.ZapLogger
}

func NewRestockListener(consumer *broker.KafkaConsumer, db *sqlx.DB, ledger *stock.Ledger, cache *cache.RedisClient, log logger.ZapLogger) *RestockListener {
	return &RestockListener{
		consumer: consumer,
		db:       db,
		ledger:   ledger,
		cache:    cache,
		logger:   log,
	}
}

type StockRestockedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

func (l *RestockListener) Start(ctx context.Context) {
	l.logger.Info("Starting restock listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping restock listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *RestockListener) processMessage(ctx context.Context, value []byte) {
	var event StockRestockedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal stock event", zap.Error(err))
		return
	}

	if event.EventType != "StockRestocked" {
		return
	}

	l.logger.Info("Processing StockRestocked event",
		zap.String("product_id", event.ProductID),
		zap.Int("quantity", event.Quantity),
	)

	if err := l.ledger.Restock(ctx, l.db, event.ProductID, event.Quantity); err != nil {
		l.logger.Error("Failed to restock product",
			zap.String("product_id", event.ProductID),
			zap.Error(err),
		)
		return
	}

	if l.cache != nil {
		keys, err := l.cache.Client.Keys(ctx, "products:list:*").Result()
		if err == nil && len(keys) > 0 {
			l.cache.Client.Del(ctx, keys...)
		}
	}
}
