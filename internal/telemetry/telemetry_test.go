package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitTelemetry(t *testing.T) {
	// Test with empty endpoint (should not fail, just no telemetry)
	shutdown, err := InitTelemetry(context.Background(), "test-service", "v1.0.0", "test", "", nil)
	if err != nil {
		t.Fatalf("InitTelemetry failed: %v", err)
	}
	if shutdown != nil {
		defer shutdown(context.Background())
	}
}

func TestTracer(t *testing.T) {
	tracer := Tracer("test-tracer")
	if tracer == nil {
		t.Fatal("Tracer returned nil")
	}
}

func TestSplitEndpoint(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		host      string
		tracePath string
		logPath   string
		insecure  bool
	}{
		{"local collector", "http://localhost:4318", "localhost:4318", "/v1/traces", "/v1/logs", true},
		{"grafana gateway", "https://otlp-gateway.grafana.net/otlp", "otlp-gateway.grafana.net", "/otlp/v1/traces", "/otlp/v1/logs", false},
		{"signal path given", "https://collector.example.com/v1/traces", "collector.example.com", "/v1/traces", "/v1/logs", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, tracePath, logPath, insecure := splitEndpoint(tt.raw)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.tracePath, tracePath)
			assert.Equal(t, tt.logPath, logPath)
			assert.Equal(t, tt.insecure, insecure)
		})
	}
}

func TestParseHeaders(t *testing.T) {
	headers := ParseHeaders("Authorization=Basic abc==, x-scope = tenant ,broken")

	assert.Equal(t, map[string]string{
		"Authorization": "Basic abc==",
		"x-scope":       "tenant",
	}, headers)
	assert.Empty(t, ParseHeaders(""))
}
