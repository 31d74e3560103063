package sink

import (
	"context"
	"strings"
	"testing"
)

func TestFloorplanDOT(t *testing.T) {
	dot := FloorplanDOT(model(t))
	mustContain(t, dot,
		`graph "fab5x5" {`,
		"layout=neato;",
		`"die" [pos="360.00,170.03!"`,
		`"T0_0" [`,
		`"T4_4" [`,
		`label="LOGIC\n(0,0)"`,
		`"pin:clk" [`,
		`xlabel="dout"`,
	)
	if got := strings.Count(dot, "fillcolor=\"lightblue\""); got != 25 {
		t.Errorf("tile nodes = %d, want 25", got)
	}
}

func TestFloorplanDOTWithoutPins(t *testing.T) {
	dot := FloorplanDOT(model(t), WithoutFloorplanPins(), WithFloorplanWidth(360))
	if strings.Contains(dot, "pin:") {
		t.Error("pins drawn despite WithoutFloorplanPins")
	}
	mustContain(t, dot, `"die" [pos="180.00,85.02!"`)
}

func TestPlacementMinimumSize(t *testing.T) {
	m := model(t)
	got := placement(m.Pins[0].Rect, 0.001)
	if !strings.Contains(got, "width=0.0500, height=0.0500") {
		t.Errorf("placement = %s, want minimum 0.05 inch node", got)
	}
}

func TestRenderFloorplan(t *testing.T) {
	svg, err := RenderFloorplan(context.Background(), model(t))
	if err != nil {
		t.Fatalf("RenderFloorplan: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("output missing <svg> tag")
	}
}

func TestRenderDOTInvalid(t *testing.T) {
	if _, err := renderDOT(context.Background(), "not valid DOT {{{"); err == nil {
		t.Error("renderDOT should fail on invalid DOT")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name, svg, want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">x</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">x</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">x</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">x</svg>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(normalizeViewBox([]byte(tt.svg))); got != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", got, tt.want)
			}
		})
	}
}
