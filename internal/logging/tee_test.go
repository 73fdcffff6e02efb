package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestTeeHandlerCollapses(t *testing.T) {
	if _, ok := TeeHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when every handler is nil")
	}
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := TeeHandler(nil, inner); h != inner {
		t.Fatal("expected single handler to be returned unwrapped")
	}
}

func TestTeeHandlerRespectsLevels(t *testing.T) {
	var info, debug bytes.Buffer
	h := TeeHandler(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected tee to be enabled when any handler accepts debug")
	}

	logger := slog.New(h).With("component", "scanner")
	logger.Debug("detail")
	logger.Info("summary")

	if bytes.Contains(info.Bytes(), []byte("detail")) {
		t.Fatal("info handler received a debug record")
	}
	if !bytes.Contains(info.Bytes(), []byte("summary")) || !bytes.Contains(debug.Bytes(), []byte("detail")) {
		t.Fatalf("records missing: info=%q debug=%q", info.String(), debug.String())
	}
	if !bytes.Contains(info.Bytes(), []byte(`"component":"scanner"`)) {
		t.Fatalf("attrs not propagated: %q", info.String())
	}
}
