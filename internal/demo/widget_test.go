package demo_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/gfuhrmann/barvis/internal/demo"
)

func TestWidget_Render(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		widget demo.Widget
		want   string
	}{
		{
			"network",
			demo.Widget{Kind: demo.KindNetwork, Network: demo.NetworkConfig{SSID: "home"}},
			"net: connected to home",
		},
		{
			"battery",
			demo.Widget{Kind: demo.KindBattery, Battery: demo.BatteryConfig{Level: 42}},
			"bat: 42%",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.widget.Render()
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWidget_RenderUnknownKind(t *testing.T) {
	t.Parallel()
	w := demo.Widget{Kind: demo.WidgetKind(42)}

	_, err := w.Render()
	if err == nil {
		t.Fatal("expected error for unknown widget kind, got nil")
	}
	if !strings.Contains(err.Error(), "unknown widget kind") {
		t.Errorf("error = %v, want it to name the unknown kind", err)
	}
}

func TestWidgets_RendersStatusBar(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := demo.Widgets(context.Background(), &buf); err != nil {
		t.Fatalf("Widgets: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "net: connected to my_ssid") {
		t.Errorf("output missing network widget:\n%s", out)
	}
	if !strings.Contains(out, "bat: 100%") {
		t.Errorf("output missing battery widget:\n%s", out)
	}
}

func TestRun_UnknownDemo(t *testing.T) {
	t.Parallel()
	err := demo.Run(context.Background(), "no-such-demo", io.Discard)
	if err == nil {
		t.Fatal("expected error for unknown demo, got nil")
	}
	if !strings.Contains(err.Error(), "no-such-demo") {
		t.Errorf("error = %v, want it to name the missing demo", err)
	}
}

func TestNames_Sorted(t *testing.T) {
	t.Parallel()
	names := demo.Names()
	want := []string{"atomic-counter", "bounded-channel", "widgets"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", names, want)
		}
	}
}
