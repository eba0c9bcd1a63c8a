package avatar

import (
	"strings"
	"testing"
)

func TestStatusPresentation(t *testing.T) {
	tests := []struct {
		status     Status
		hsl        string
		hex        string
		pulses     bool
		visualizer bool
	}{
		{StatusIdle, "hsl(198, 93%, 60%)", "#3abff8", false, false},
		{StatusListening, "hsl(198, 100%, 75%)", "#80d9ff", false, true},
		{StatusThinking, "hsl(45, 100%, 60%)", "#ffcc33", true, false},
		{StatusSpeaking, "hsl(120, 100%, 60%)", "#33ff33", false, true},
		{StatusAnalyzing, "hsl(280, 100%, 65%)", "#c44dff", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			if got := tt.status.EnergyHSL(); got != tt.hsl {
				t.Fatalf("EnergyHSL() = %q, want %q", got, tt.hsl)
			}
			if got := string(tt.status.Color()); got != tt.hex {
				t.Fatalf("Color() = %q, want %q", got, tt.hex)
			}
			if tt.status.Pulses() != tt.pulses {
				t.Fatalf("Pulses() = %v", tt.status.Pulses())
			}
			if tt.status.VisualizerActive() != tt.visualizer {
				t.Fatalf("VisualizerActive() = %v", tt.status.VisualizerActive())
			}
		})
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	for _, s := range []Status{StatusIdle, StatusListening, StatusThinking, StatusSpeaking, StatusAnalyzing} {
		a := Render(s, 3)
		b := Render(s, 3)
		if a != b {
			t.Fatalf("%s: render must be a pure function of status and frame", s)
		}
		if !strings.Contains(a, "T") {
			t.Fatalf("%s: expected chest logo in render", s)
		}
	}
}

func TestRenderAnalyzingAddsRings(t *testing.T) {
	idle := strings.Count(Render(StatusIdle, 0), "\n")
	analyzing := strings.Count(Render(StatusAnalyzing, 0), "\n")
	if analyzing != idle {
		t.Fatalf("rings must keep the same height: idle=%d analyzing=%d", idle, analyzing)
	}
	if !strings.Contains(Render(StatusAnalyzing, 0), "·") {
		t.Fatalf("expected ring dashes while analyzing")
	}
}

func TestWaveStaysInBounds(t *testing.T) {
	for _, tm := range []float64{0, 0.5, 1.57, 3, 10} {
		for x, y := range Wave(40, 5, tm) {
			if y < 0 || y > 4 {
				t.Fatalf("t=%v x=%d: y=%d out of bounds", tm, x, y)
			}
		}
	}
	// sin(0) 振幅为零，波形是一条中线。
	for _, y := range Wave(10, 5, 0) {
		if y != 2 {
			t.Fatalf("expected flat line at t=0, got %d", y)
		}
	}
}

func TestVisualizerInactiveIsBlank(t *testing.T) {
	v := Visualizer{Width: 8, Height: 3}
	if strings.Contains(v.Render(1, false, StatusIdle.Color()), "•") {
		t.Fatalf("inactive visualizer must be blank")
	}
	if !strings.Contains(v.Render(1, true, StatusSpeaking.Color()), "•") {
		t.Fatalf("active visualizer must draw the wave")
	}
}
