package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := context.Background()
	ctx = log.WithRequestID(ctx, "req-123")

	log.Error(ctx, "boom", errors.New("boom"))

	assert.Contains(t, buf.String(), `"request_id"`)
	assert.Contains(t, buf.String(), `"service":"test"`)
}

func TestLoggerWithFieldsAccumulates(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := log.WithFields(context.Background(), map[string]any{"order_id": "o-1"})
	ctx = log.WithField(ctx, "status", "completed")
	log.Info(ctx, "order.updated")

	assert.Contains(t, buf.String(), `"order_id":"o-1"`)
	assert.Contains(t, buf.String(), `"status":"completed"`)
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	assert.Equal(t, ParseLevel(""), ParseLevel("nonsense"))
}
