package sse

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// nonFlusher はhttp.Flusherを実装しないResponseWriterです。
type nonFlusher struct {
	http.ResponseWriter
}

func TestNewWriter_RequiresFlusher(t *testing.T) {
	t.Parallel()

	if _, err := NewWriter(nonFlusher{}); !errors.Is(err, ErrStreamingUnsupported) {
		t.Errorf("expected ErrStreamingUnsupported, got %v", err)
	}

	if _, err := NewWriter(httptest.NewRecorder()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWriter_WriteHeaders(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w.WriteHeaders()

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("expected Content-Type text/event-stream, got %q", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-cache" {
		t.Errorf("expected Cache-Control no-cache, got %q", got)
	}
	if got := rec.Header().Get("Connection"); got != "keep-alive" {
		t.Errorf("expected Connection keep-alive, got %q", got)
	}
}

func TestWriter_WriteEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		event    string
		data     string
		expected string
	}{
		{
			name:     "json payload",
			event:    "progress",
			data:     `{"type":"progress","current":1,"total":2}`,
			expected: "event: progress\ndata: {\"type\":\"progress\",\"current\":1,\"total\":2}\n\n",
		},
		{
			name:     "multi-line payload keeps one block",
			event:    "complete",
			data:     "symbol,date\nAAPL,2023-01-03\n",
			expected: "event: complete\ndata: symbol,date\nAAPL,2023-01-03\n\n",
		},
		{
			name:     "trailing newlines trimmed",
			event:    "complete",
			data:     "text\n\n\n",
			expected: "event: complete\ndata: text\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			w, err := NewWriter(rec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if err := w.WriteEvent(tt.event, []byte(tt.data)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := rec.Body.String(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
			if !rec.Flushed {
				t.Error("expected response to be flushed after WriteEvent")
			}
		})
	}
}
