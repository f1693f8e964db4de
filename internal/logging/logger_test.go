package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

func captureStdOut(fn func()) string {
	orig := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	defer func() {
		os.Stdout = orig
	}()

	fn()

	_ = w.Close()
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	_ = r.Close()
	return buf.String()
}

func toAny(attrs []slog.Attr) []any {
	out := make([]any, len(attrs))
	for i, a := range attrs {
		out[i] = a
	}
	return out
}

func TestDetectEnv(t *testing.T) {
	t.Setenv("APP_ENV", "")
	if got := DetectEnv(); got != EnvDev {
		t.Fatalf("default should be dev, got %q", got)
	}

	t.Setenv("APP_ENV", "stage")
	if got := DetectEnv(); got != EnvStage {
		t.Fatalf("expected stage, got %q", got)
	}

	t.Setenv("APP_ENV", "prod")
	if got := DetectEnv(); got != EnvProd {
		t.Fatalf("expected prod, got %q", got)
	}
}

func TestInit_DevStd_TextOutput(t *testing.T) {
	cfg := Config{
		Service:   "signal-hub",
		Version:   "v0.0.1",
		Env:       EnvDev,
		Backend:   BackendStd,
		Level:     slog.LevelDebug,
		AddSource: true,
	}

	out := captureStdOut(func() {
		Init(cfg)
		slog.Info("hub started")
	})

	if strings.Contains(out, "{") && strings.Contains(out, "}") {
		t.Fatalf("expected text output in dev/std, got JSON: %s", out)
	}
	if !strings.Contains(out, "hub started") {
		t.Fatalf("message missing: %s", out)
	}
	if !strings.Contains(out, "service=signal-hub") {
		t.Fatalf("service attr missing: %s", out)
	}
	if !strings.Contains(out, "env=dev") {
		t.Fatalf("env attr missing: %s", out)
	}
}

func TestAttrsFromCtx_NoSpan(t *testing.T) {
	attrs := AttrsFromCtx(context.Background())
	if attrs != nil {
		t.Fatalf("expected nil attrs without an active span, got %v", attrs)
	}
}

func TestAttrsFromCtx_PropagatesTraceIDs(t *testing.T) {
	Init(Config{
		Service:          "signal-hub",
		Env:              EnvProd,
		Backend:          BackendZap,
		SampleInitial:    100000,
		SampleThereafter: 100000,
	})

	tp := sdktrace.NewTracerProvider()
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()
	otel.SetTracerProvider(tp)
	tr := tp.Tracer("test")

	var outStr string
	func() {
		ctx, span := tr.Start(context.Background(), "op")
		defer span.End()

		outStr = captureStdOut(func() {
			Init(Config{
				Service:          "signal-hub",
				Env:              EnvProd,
				Backend:          BackendZap,
				SampleInitial:    100000,
				SampleThereafter: 100000,
			})

			slog.InfoContext(ctx, "with trace", toAny(AttrsFromCtx(ctx))...)
		})
	}()

	if err := zap.L().Sync(); err != nil {
		t.Fatalf("failed to flush logs: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(outStr), &m); err != nil {
		t.Fatalf("expected JSON, got: %s, err=%v", outStr, err)
	}

	if m["trace_id"] == nil || m["span_id"] == nil {
		t.Fatalf("trace_id/span_id missing in log: %v", m)
	}
	if m["msg"] != "with trace" {
		t.Fatalf("msg mismatch: %v", m["msg"])
	}
}
