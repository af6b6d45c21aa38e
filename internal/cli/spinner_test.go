package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "rendering")
	s.start()
	time.Sleep(200 * time.Millisecond)
	s.stop()

	got := out.String()
	if !strings.Contains(got, "rendering") {
		t.Errorf("spinner output %q should contain the message", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("spinner should clear its line, got %q", got)
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "x")
	s.start()
	s.stop()
	s.stop()
}

func TestSpinnerStopsWithContext(t *testing.T) {
	var out syncBuffer
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinner(ctx, &out, "waiting")
	s.start()
	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop when its context ended")
	}
	s.stop()
}
