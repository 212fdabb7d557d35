package demo_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/gfuhrmann/barvis/internal/demo"
)

func TestMailbox_DrainAppliesOperationsInOrder(t *testing.T) {
	t.Parallel()
	m := demo.NewMailbox(4)
	m.Send(demo.Message{Producer: "a", Op: demo.OpIncrement, Amount: 10})
	m.Send(demo.Message{Producer: "a", Op: demo.OpDecrement, Amount: 3})
	m.Send(demo.Message{Producer: "b", Op: demo.OpIncrement, Amount: 5})
	m.Close()

	var buf bytes.Buffer
	if got := m.Drain(&buf); got != 12 {
		t.Errorf("Drain total = %d, want 12", got)
	}

	out := buf.String()
	first := strings.Index(out, "incremented 10")
	second := strings.Index(out, "decremented 3")
	if first == -1 || second == -1 || first > second {
		t.Errorf("messages not drained in FIFO order:\n%s", out)
	}
}

func TestMailbox_TrySendRejectsWhenFull(t *testing.T) {
	t.Parallel()
	m := demo.NewMailbox(1)

	if !m.TrySend(demo.Message{Op: demo.OpIncrement, Amount: 1}) {
		t.Fatal("TrySend on empty buffer = false, want true")
	}
	if m.TrySend(demo.Message{Op: demo.OpIncrement, Amount: 2}) {
		t.Error("TrySend on full buffer = true, want false")
	}

	m.Close()
	if got := m.Drain(io.Discard); got != 1 {
		t.Errorf("Drain total = %d, want only the accepted message", got)
	}
}

func TestChannel_RunsToCompletion(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := demo.Channel(context.Background(), &buf); err != nil {
		t.Fatalf("Channel: %v", err)
	}

	out := buf.String()
	// main +100, producer-1 +20 -1 +2 (+1 only if the TrySend won the race),
	// producer-2 +2.
	if !strings.Contains(out, "total: 123") && !strings.Contains(out, "total: 124") {
		t.Errorf("output = %q, want a total of 123 or 124", out)
	}
	if !strings.Contains(out, "[main] incremented 100") {
		t.Errorf("output missing the main producer's message:\n%s", out)
	}
}
