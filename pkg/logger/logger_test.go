package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "json default", cfg: Config{}},
		{name: "console debug", cfg: Config{Level: "debug", Encoding: "console"}},
		{name: "invalid level", cfg: Config{Level: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got none")
				}
				return
			}
			if err != nil || log == nil {
				t.Fatalf("Unexpected result: %v, %v", log, err)
			}
		})
	}
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx := ContextWithRequestID(context.Background(), "req-42")
	WithRequestID(ctx, base).Info("hello")
	WithRequestID(context.Background(), base).Info("plain")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["request_id"]; got != "req-42" {
		t.Errorf("Expected request_id req-42, got %v", got)
	}
	if _, ok := entries[1].ContextMap()["request_id"]; ok {
		t.Error("Expected no request_id on plain context")
	}
	if RequestID(ctx) != "req-42" {
		t.Errorf("RequestID mismatch: %q", RequestID(ctx))
	}
}
