// Package redisstream appends committed journal entries to a Redis stream.
package redisstream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
)

// Publisher writes one stream message per committed entry. Messages are never trimmed.
type Publisher struct {
	rdb *redis.Client
	key string
}

var _ portsrepo.EntryPublisher = (*Publisher)(nil)

// NewPublisher creates a publisher over an existing client.
func NewPublisher(rdb *redis.Client, key string) *Publisher {
	return &Publisher{rdb: rdb, key: key}
}

// Connect parses a redis:// URL, pings the server and returns a publisher.
func Connect(ctx context.Context, url, key string) (*Publisher, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewPublisher(rdb, key), nil
}

// Close closes the underlying client.
func (p *Publisher) Close() error { return p.rdb.Close() }

// PublishEntry appends the entry. The entry code doubles as the idempotency key for consumers.
func (p *Publisher) PublishEntry(ctx context.Context, entry domain.JournalEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode entry %s: %w", entry.Code, err)
	}
	err = p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: p.key,
		Values: map[string]any{
			"code":     entry.Code,
			"txn_date": entry.TxnDate.Format("2006-01-02"),
			"currency": entry.Currency,
			"channel":  entry.ChannelCode,
			"lines":    len(entry.Lines),
			"entry":    string(payload),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to append entry %s to stream %s: %w", entry.Code, p.key, err)
	}
	return nil
}
