package metrics

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
)

func TestServerExposesRegistry(t *testing.T) {
	m := NewMetrics()
	m.RecordRun("chunked")

	s := NewServer("127.0.0.1:0", m, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := s.Start(); err != nil {
		t.Fatalf("Failed to start metrics server: %v", err)
	}
	defer s.Stop(context.Background())

	resp, err := http.Get("http://" + s.Addr() + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `transcriber_runs_total{route="chunked"} 1`) {
		t.Errorf("Expected runs counter in output, got:\n%s", body)
	}

	health, err := http.Get("http://" + s.Addr() + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	health.Body.Close()
	if health.StatusCode != http.StatusOK {
		t.Errorf("Expected health status 200, got %d", health.StatusCode)
	}
}

func TestServerStartFailsOnBadAddress(t *testing.T) {
	s := NewServer("not-an-address", NewMetrics(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := s.Start(); err == nil {
		t.Errorf("Expected error for invalid address")
	}
}
