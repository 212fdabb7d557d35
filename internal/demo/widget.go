package demo

import (
	"context"
	"fmt"
	"io"
)

// WidgetKind enumerates the closed set of status-bar widget kinds. The set
// is fixed at compile time, so dispatch is an exhaustive switch over the tag
// rather than an interface — an unknown tag is a constructible-but-invalid
// value and surfaces as an error, not a panic.
type WidgetKind int

const (
	KindNetwork WidgetKind = iota
	KindBattery
)

// String returns the widget kind's name.
func (k WidgetKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindBattery:
		return "battery"
	default:
		return fmt.Sprintf("widget-kind-%d", int(k))
	}
}

// NetworkConfig is the payload for a network status widget.
type NetworkConfig struct {
	SSID string
}

// BatteryConfig is the payload for a battery status widget.
type BatteryConfig struct {
	// Level is the charge percentage in [0, 100].
	Level int
}

// Widget is a tagged union: Kind selects which payload field is meaningful.
type Widget struct {
	Kind    WidgetKind
	Network NetworkConfig
	Battery BatteryConfig
}

// Render produces the widget's status-bar text, dispatching on the tag.
func (w Widget) Render() (string, error) {
	switch w.Kind {
	case KindNetwork:
		return fmt.Sprintf("net: connected to %s", w.Network.SSID), nil
	case KindBattery:
		return fmt.Sprintf("bat: %d%%", w.Battery.Level), nil
	default:
		return "", fmt.Errorf("demo: unknown widget kind %v", w.Kind)
	}
}

// Widgets demonstrates enum-based dispatch: a status bar holds a list of
// widgets loaded from configuration and renders each one through the
// exhaustive switch in [Widget.Render].
func Widgets(_ context.Context, w io.Writer) error {
	statusBar := []Widget{
		{Kind: KindNetwork, Network: NetworkConfig{SSID: "my_ssid"}},
		{Kind: KindBattery, Battery: BatteryConfig{Level: 100}},
	}

	for _, widget := range statusBar {
		line, err := widget.Render()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
