package logger_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/bggcollect/internal/logger"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(logger.WARN), logger.WithColors(false))

	log.Info("not shown")
	log.Warn("shown %d", 1)

	out := buf.String()
	assert.NotContains(t, out, "not shown")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "shown 1")
}

func TestLogger_FieldsSortedAndPrefixed(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithColors(false)).
		WithPrefix("bggapi").
		WithFields(map[string]any{"username": "fagentu007", "subtype": "boardgame"}).
		WithError(errors.New("boom"))

	log.Info("fetched")

	out := buf.String()
	assert.Contains(t, out, "[bggapi]")
	assert.Contains(t, out, "fetched error=boom subtype=boardgame username=fagentu007")
}

func TestLogger_WithErrorNil(t *testing.T) {
	log := logger.Discard()
	assert.Same(t, log, log.WithError(nil))
}

func TestContextRoundTrip(t *testing.T) {
	log := logger.Discard().WithPrefix("test")
	ctx := logger.NewContext(context.Background(), log)

	assert.Same(t, log, logger.FromContext(ctx))
	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logger.DEBUG, logger.ParseLevel("debug"))
	assert.Equal(t, logger.WARN, logger.ParseLevel("WARNING"))
	assert.Equal(t, logger.INFO, logger.ParseLevel("nonsense"))
	assert.True(t, logger.ValidLevel("error"))
	assert.False(t, logger.ValidLevel(""))
}
