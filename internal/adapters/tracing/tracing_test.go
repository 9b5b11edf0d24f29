package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_ExportsSpans(t *testing.T) {
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })

	var buf bytes.Buffer
	shutdown, err := Setup(context.Background(), Config{
		Enabled:        true,
		ServiceName:    "trade-journal-test",
		ServiceVersion: "test",
		Writer:         &buf,
	})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "ImportTrades")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "ImportTrades")
	assert.Contains(t, buf.String(), "trade-journal-test")
}
