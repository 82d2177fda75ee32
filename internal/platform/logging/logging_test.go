package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/SscSPs/portfolio_ledger/internal/platform/logging"
	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	assert.Same(t, slog.Default(), logging.FromContext(context.Background()))

	var buf bytes.Buffer
	logger := logging.New(&buf, "debug")
	ctx := logging.WithLogger(context.Background(), logger)
	assert.Same(t, logger, logging.FromContext(ctx))

	logging.FromContext(ctx).Debug("posted", slog.String("code", "JE-1"))
	assert.Contains(t, buf.String(), `"code":"JE-1"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel("warning"))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel(""))
}
