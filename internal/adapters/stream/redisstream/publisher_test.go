package redisstream

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
)

func setupPublisher(t *testing.T) (*Publisher, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewPublisher(rdb, "ledger:entries"), rdb
}

func sampleEntry(code string) domain.JournalEntry {
	return domain.JournalEntry{
		ID:          domain.NewID("journal_entry", code),
		Code:        code,
		TxnDate:     time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Currency:    "EUR",
		ChannelCode: domain.ChannelSEPA,
		Lines: []domain.JournalLine{
			{LineNo: 1, AccountID: "a", Amount: decimal.RequireFromString("-42.10"), Currency: "EUR"},
			{LineNo: 2, AccountID: "b", Amount: decimal.RequireFromString("42.10"), Currency: "EUR"},
		},
	}
}

func TestPublishEntry_AppendsInOrder(t *testing.T) {
	pub, rdb := setupPublisher(t)
	ctx := context.Background()

	require.NoError(t, pub.PublishEntry(ctx, sampleEntry("E-1")))
	require.NoError(t, pub.PublishEntry(ctx, sampleEntry("E-2")))

	msgs, err := rdb.XRange(ctx, "ledger:entries", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "E-1", msgs[0].Values["code"])
	assert.Equal(t, "E-2", msgs[1].Values["code"])
	assert.Equal(t, "2024-03-04", msgs[0].Values["txn_date"])
	assert.Equal(t, "2", msgs[0].Values["lines"])

	var decoded domain.JournalEntry
	require.NoError(t, json.Unmarshal([]byte(msgs[0].Values["entry"].(string)), &decoded))
	assert.True(t, decoded.Lines[0].Amount.Equal(decimal.RequireFromString("-42.10")))
	assert.Equal(t, decimal.Zero.String(), decoded.Sum().String())
}

func TestPublishEntry_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	pub := NewPublisher(rdb, "ledger:entries")
	mr.Close()

	err = pub.PublishEntry(context.Background(), sampleEntry("E-1"))
	assert.Error(t, err)
}

func TestConnect(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	pub, err := Connect(context.Background(), "redis://"+mr.Addr()+"/0", "k")
	require.NoError(t, err)
	defer pub.Close()
	require.NoError(t, pub.PublishEntry(context.Background(), sampleEntry("E-9")))
	assert.Equal(t, 1, len(mr.Keys()))

	_, err = Connect(context.Background(), "not-a-url", "k")
	assert.Error(t, err)
}
