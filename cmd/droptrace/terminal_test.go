package main

import (
	"context"
	"testing"

	"github.com/decker502/dropfx/pkg/effects"
	"github.com/gdamore/tcell/v2"
)

func newTestTerminal(t *testing.T, offset float64) (*terminalHost, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	host, err := newTerminalHostOn(screen, "drop", offset, 600)
	if err != nil {
		t.Fatalf("newTerminalHostOn() error: %v", err)
	}
	screen.SetSize(40, 25)
	t.Cleanup(host.Close)
	return host, screen
}

// findLabel 返回标签所在行，找不到时返回 -1
func findLabel(screen tcell.SimulationScreen) int {
	width, height := screen.Size()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if r, _, _, _ := screen.GetContent(x, y); r == 'd' {
				return y
			}
		}
	}
	return -1
}

func TestTerminalHostDraw(t *testing.T) {
	host, screen := newTestTerminal(t, 0)

	if _, err := host.Prepare("trace"); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	if row := findLabel(screen); row != 0 {
		t.Errorf("label row after Prepare: got %d, want 0", row)
	}

	// 600 像素视口映射到 25 行：300 像素在第 12 行
	if err := host.ApplyStep("trace", effects.SimulationData{Step: 1, Distance: 300, Opacity: 0.5}); err != nil {
		t.Fatalf("ApplyStep() error: %v", err)
	}
	if row := findLabel(screen); row != 12 {
		t.Errorf("label row after step: got %d, want 12", row)
	}

	if err := host.Cleanup("trace"); err != nil {
		t.Fatalf("Cleanup() error: %v", err)
	}
	if row := findLabel(screen); row != -1 {
		t.Errorf("label should be cleared, found at row %d", row)
	}
	if host.Applied() != 1 {
		t.Errorf("Applied: got %d, want 1", host.Applied())
	}
}

func TestTerminalHostRowClamp(t *testing.T) {
	host, _ := newTestTerminal(t, 0)

	tests := []struct {
		distance float64
		want     int
	}{
		{-50, 0},
		{0, 0},
		{600, 24},
		{900, 24},
	}
	for _, tt := range tests {
		if got := host.rowFor(tt.distance); got != tt.want {
			t.Errorf("rowFor(%v) = %d, want %d", tt.distance, got, tt.want)
		}
	}
}

func TestStyleForOpacity(t *testing.T) {
	bright, _, _ := styleFor(1).Decompose()
	dim, _, _ := styleFor(0).Decompose()
	if bright == dim {
		t.Error("opaque and transparent styles should differ")
	}
	over, _, _ := styleFor(1.5).Decompose()
	if over != bright {
		t.Error("opacity above 1 should map to the brightest style")
	}
}

func TestTraceOnTerminal(t *testing.T) {
	host, _ := newTestTerminal(t, 100)

	opts := mustParse(t, "--offset", "100", "--fps", "1000", "--speed", "100")
	run, err := trace(context.Background(), opts, host)
	if err != nil {
		t.Fatalf("trace() error: %v", err)
	}
	if run.Reason() != effects.ReasonReachedLimit {
		t.Errorf("Reason: got %v, want reached limit", run.Reason())
	}
	if host.Applied() != run.Steps()-1 {
		t.Errorf("Applied: got %d, want %d", host.Applied(), run.Steps()-1)
	}
}
