// Package scene models the simulation domain: a rectangle with
// impassable obstacles and permeable exits, loaded from a JSON file.
package scene

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
)

// Rect is an axis-aligned rectangle in domain units.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle. Points on
// the lower edges count as inside, points on the upper edges do not.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Obstacle is a named rectangular region. Permeable obstacles (exits)
// can be walked through; solid ones cannot.
type Obstacle struct {
	Rect
	Name      string
	Permeable bool
}

// Scene holds the domain extent and its obstacles and exits.
type Scene struct {
	Width, Height float64
	Obstacles     []Obstacle // solid only
	Exits         []Obstacle
}

// jsonRegion mirrors one entry of the scene file. Begin and Size are
// fractions of the domain extent, not absolute units.
type jsonRegion struct {
	Name  string     `json:"name"`
	Begin [2]float64 `json:"begin"`
	Size  [2]float64 `json:"size"`
}

type jsonScene struct {
	Obstacles []jsonRegion `json:"obstacles"`
	Exits     []jsonRegion `json:"exits"`
}

// Load reads a scene file and scales its fractional regions to a
// width-by-height domain. A zero exit extent on either axis is promoted
// to one domain unit so that hairline exits stay reachable.
func Load(path string, width, height float64) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}
	var data jsonScene
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}
	if len(data.Exits) == 0 {
		return nil, fmt.Errorf("scene %s: no exits specified", path)
	}

	s := &Scene{Width: width, Height: height}
	for _, o := range data.Obstacles {
		s.Obstacles = append(s.Obstacles, Obstacle{
			Rect: Rect{
				X:      o.Begin[0] * width,
				Y:      o.Begin[1] * height,
				Width:  o.Size[0] * width,
				Height: o.Size[1] * height,
			},
			Name: o.Name,
		})
	}
	for _, e := range data.Exits {
		r := Rect{
			X:      e.Begin[0] * width,
			Y:      e.Begin[1] * height,
			Width:  e.Size[0] * width,
			Height: e.Size[1] * height,
		}
		if r.Width == 0 {
			r.Width = 1
		}
		if r.Height == 0 {
			r.Height = 1
		}
		s.Exits = append(s.Exits, Obstacle{Rect: r, Name: e.Name, Permeable: true})
	}
	return s, nil
}

// Default returns a scene with a single exit strip on the right wall
// and no obstacles, for runs without a scene file.
func Default(width, height float64) *Scene {
	return &Scene{
		Width:  width,
		Height: height,
		Exits: []Obstacle{{
			Rect:      Rect{X: width - 1, Y: height * 0.4, Width: 1, Height: height * 0.2},
			Name:      "exit",
			Permeable: true,
		}},
	}
}

// IsWithinBounds reports whether (x, y) lies inside the domain.
func (s *Scene) IsWithinBounds(x, y float64) bool {
	return x >= 0 && x < s.Width && y >= 0 && y < s.Height
}

// IsAccessible reports whether (x, y) is inside the domain and outside
// every solid obstacle. Exits are permeable and never block.
func (s *Scene) IsAccessible(x, y float64) bool {
	if !s.IsWithinBounds(x, y) {
		return false
	}
	for _, o := range s.Obstacles {
		if o.Contains(x, y) {
			return false
		}
	}
	return true
}

// InExit returns the exit containing (x, y), or nil.
func (s *Scene) InExit(x, y float64) *Obstacle {
	for i := range s.Exits {
		if s.Exits[i].Contains(x, y) {
			return &s.Exits[i]
		}
	}
	return nil
}

// RandomAccessiblePosition draws uniform positions until one lands
// outside all obstacles and exits. Spawning inside an exit would
// deactivate the agent on its first tick.
func (s *Scene) RandomAccessiblePosition(rng *rand.Rand) (float64, float64, error) {
	for attempt := 0; attempt < 10000; attempt++ {
		x := rng.Float64() * s.Width
		y := rng.Float64() * s.Height
		if s.IsAccessible(x, y) && s.InExit(x, y) == nil {
			return x, y, nil
		}
	}
	return 0, 0, fmt.Errorf("scene %gx%g: no accessible position found", s.Width, s.Height)
}
