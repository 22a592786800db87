package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectorTracerExportsSpans(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, InitTracing(TracingConfig{
		ServiceName:  "nebula-connect-test",
		SamplingRate: 1,
		Writer:       &out,
	}))

	tracer := NewConnectorTracer("webapi", "copper")
	_, span := tracer.StartSpan(context.Background(), "get_entity")
	span.SetAttribute("entity", "leads")
	span.SetAttribute("page", 2)
	span.RecordError(errors.New("boom"))
	span.End()

	require.NoError(t, Shutdown(context.Background()))
	assert.Contains(t, out.String(), "webapi.copper.get_entity")
	assert.Contains(t, out.String(), "leads")
}

func TestNoopTracerWithoutInit(t *testing.T) {
	ctx, span := NewSpan(context.Background(), "noop")
	assert.NotNil(t, ctx)
	span.End()
}
