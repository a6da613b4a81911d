package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// newRecordedSpan 返回一个可断言的span和读取已结束span的函数
func newRecordedSpan(t *testing.T) (trace.Span, func() tracetest.SpanStub) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	_, span := provider.Tracer("test").Start(context.Background(), "op")

	return span, func() tracetest.SpanStub {
		span.End()
		ended := recorder.Ended()
		require.Len(t, ended, 1)
		return tracetest.SpanStubFromReadOnlySpan(ended[0])
	}
}

func attrValue(attrs []attribute.KeyValue, key string) (string, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value.AsString(), true
		}
	}
	return "", false
}

func TestRecordErrorSetsTypeAndStatus(t *testing.T) {
	span, ended := newRecordedSpan(t)

	RecordError(span, errors.New("connection refused"), ErrorTypeDB)

	stub := ended()
	assert.Equal(t, codes.Error, stub.Status.Code)
	assert.Equal(t, "connection refused", stub.Status.Description)

	errType, ok := attrValue(stub.Attributes, "error.type")
	require.True(t, ok)
	assert.Equal(t, "db", errType)
}

func TestRecordErrorNilSafe(t *testing.T) {
	// nil span和nil error都不应panic
	assert.NotPanics(t, func() {
		RecordError(nil, errors.New("x"), ErrorTypeInternal)
	})

	span, ended := newRecordedSpan(t)
	RecordError(span, nil, ErrorTypeInternal)

	stub := ended()
	assert.Equal(t, codes.Unset, stub.Status.Code)
}

func TestRecordErrorWithInfoAppendsAttributes(t *testing.T) {
	span, ended := newRecordedSpan(t)

	RecordErrorWithInfo(span, errors.New("publish failed"), ErrorTypeRabbitMQ,
		attribute.String("messaging.destination", "resume.events"))

	stub := ended()
	assert.Equal(t, codes.Error, stub.Status.Code)

	dest, ok := attrValue(stub.Attributes, "messaging.destination")
	require.True(t, ok)
	assert.Equal(t, "resume.events", dest)
}

func TestRecordHTTPErrorCategorizesStatus(t *testing.T) {
	tests := []struct {
		statusCode int
		category   string
	}{
		{400, "client_error"},
		{404, "client_error"},
		{500, "server_error"},
		{302, "unknown"},
	}
	for _, tt := range tests {
		span, ended := newRecordedSpan(t)
		RecordHTTPError(span, errors.New("request failed"), tt.statusCode)

		stub := ended()
		category, ok := attrValue(stub.Attributes, "error.category")
		require.True(t, ok)
		assert.Equal(t, tt.category, category)
		assert.Equal(t, codes.Error, stub.Status.Code)
	}
}

func TestRecordRabbitMQNack(t *testing.T) {
	span, ended := newRecordedSpan(t)

	RecordRabbitMQNack(span, "msg-42", "")

	stub := ended()
	assert.Equal(t, codes.Error, stub.Status.Code)
	assert.Equal(t, "message not acknowledged by broker", stub.Status.Description)

	msgID, ok := attrValue(stub.Attributes, "messaging.message_id")
	require.True(t, ok)
	assert.Equal(t, "msg-42", msgID)
}
