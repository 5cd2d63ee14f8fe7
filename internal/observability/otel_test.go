package observability

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/kemtech/forms-backend/internal/config"
)

func TestSetup_DisabledIsNoOp(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.OTELConfig{Enabled: false}, "test")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if shutdown == nil {
		t.Fatal("shutdown must not be nil")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("no-op shutdown returned %v", err)
	}
}

func TestSetup_ExporterErrorPropagates(t *testing.T) {
	orig := newOTLPExporterFn
	t.Cleanup(func() { newOTLPExporterFn = orig })

	wantErr := errors.New("exporter boom")
	newOTLPExporterFn = func(context.Context, otlptrace.Client) (*otlptrace.Exporter, error) {
		return nil, wantErr
	}

	_, err := Setup(context.Background(), config.OTELConfig{
		Enabled:  true,
		Endpoint: "localhost:4317",
		Insecure: true,
	}, "test")
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestSetup_ResourceErrorPropagates(t *testing.T) {
	origExp := newOTLPExporterFn
	origRes := newServiceResourceFn
	t.Cleanup(func() {
		newOTLPExporterFn = origExp
		newServiceResourceFn = origRes
	})

	newOTLPExporterFn = func(ctx context.Context, client otlptrace.Client) (*otlptrace.Exporter, error) {
		return &otlptrace.Exporter{}, nil
	}
	wantErr := errors.New("resource boom")
	newServiceResourceFn = func(context.Context, string, string) (*resource.Resource, error) {
		return nil, wantErr
	}

	_, err := Setup(context.Background(), config.OTELConfig{
		Enabled:  true,
		Endpoint: "localhost:4317",
		Insecure: true,
	}, "test")
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}
