package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// TuningValues holds the live-adjustable physics parameters.
type TuningValues struct {
	SmoothingLength float64
	SwarmGain       float64
}

// TuningPanel renders sliders for the swarm parameters.
type TuningPanel struct {
	x, y  float32
	width float32
}

// NewTuningPanel creates a panel anchored at (x, y).
func NewTuningPanel(x, y, width float32) *TuningPanel {
	return &TuningPanel{x: x, y: y, width: width}
}

// Draw renders the sliders and returns the adjusted values.
func (p *TuningPanel) Draw(v TuningValues) TuningValues {
	panelY := p.y

	rl.DrawText("Swarm Parameters", int32(p.x), int32(panelY), 16, rl.White)
	panelY += 26

	rl.DrawText("Smoothing length", int32(p.x), int32(panelY), 14, rl.Gray)
	panelY += 18
	newLength := gui.SliderBar(
		rl.Rectangle{X: p.x, Y: panelY, Width: p.width - 60, Height: 20},
		"0.5", "5.0",
		float32(v.SmoothingLength), 0.5, 5.0,
	)
	rl.DrawText(fmt.Sprintf("%.2f", v.SmoothingLength), int32(p.x+p.width-50), int32(panelY+2), 16, rl.LightGray)
	v.SmoothingLength = float64(newLength)
	panelY += 32

	rl.DrawText("Swarm gain", int32(p.x), int32(panelY), 14, rl.Gray)
	panelY += 18
	newGain := gui.SliderBar(
		rl.Rectangle{X: p.x, Y: panelY, Width: p.width - 60, Height: 20},
		"0.0", "2.0",
		float32(v.SwarmGain), 0.0, 2.0,
	)
	rl.DrawText(fmt.Sprintf("%.2f", v.SwarmGain), int32(p.x+p.width-50), int32(panelY+2), 16, rl.LightGray)
	v.SwarmGain = float64(newGain)

	return v
}
