package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		level   string
		format  string
		want    zapcore.Level
		wantErr bool
	}{
		{name: "json info", level: "info", format: "json", want: zapcore.InfoLevel},
		{name: "console debug", level: "debug", format: "console", want: zapcore.DebugLevel},
		{name: "empty format means json", level: "warn", format: "", want: zapcore.WarnLevel},
		{name: "bad level", level: "loud", format: "json", wantErr: true},
		{name: "bad format", level: "info", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			l, err := New(tt.level, tt.format)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if !l.Core().Enabled(tt.want) {
				t.Errorf("expected level %v to be enabled", tt.want)
			}
			if tt.want > zapcore.DebugLevel && l.Core().Enabled(tt.want-1) {
				t.Errorf("expected level %v to be disabled", tt.want-1)
			}
		})
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	fallback := zap.NewNop()
	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Error("expected fallback for empty context")
	}
	if got := FromContext(context.Background(), nil); got == nil {
		t.Error("expected a nop logger when there is no fallback")
	}

	l := zap.NewExample()
	ctx := WithContext(context.Background(), l)
	if got := FromContext(ctx, fallback); got != l {
		t.Error("expected stored logger")
	}
}
