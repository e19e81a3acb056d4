package tracer

import (
	"context"
	"testing"

	"p2p-chat-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestDisabledTracerIsNoop(t *testing.T) {
	shutdown := InitTracer(false, logger.NewNopLogger())
	assert.NoError(t, shutdown(context.Background()))
}
