package config

import (
	"sort"

	"github.com/san-kum/circles/internal/scene"
)

var Presets = map[string]*Config{
	"identical": {
		Name: "identical",
		Bodies: []scene.Body{
			{Name: "c1", X: 0, Y: 0, R: 10},
			{Name: "c2", X: 0, Y: 0, R: 10},
		},
	},
	"separated": {
		Name: "separated",
		Bodies: []scene.Body{
			{Name: "c1", X: 0, Y: 0, R: 10},
			{Name: "c2", X: 0, Y: 0, R: 10},
		},
		Steps: []scene.Step{
			{Mutations: []scene.Mutation{{Body: "c2", Op: scene.OpMove, X: 20.1, Y: 0}}},
			{Mutations: []scene.Mutation{
				{Body: "c1", Op: scene.OpMove, X: 0, Y: -20.1},
				{Body: "c2", Op: scene.OpMove, X: 0, Y: 0},
			}},
		},
	},
	"tangent": {
		Name: "tangent",
		Bodies: []scene.Body{
			{Name: "a", X: 0, Y: 0, R: 10},
			{Name: "b", X: 20, Y: 0, R: 10},
		},
	},
	"nested": {
		Name: "nested",
		Bodies: []scene.Body{
			{Name: "outer", X: 0, Y: 0, R: 10},
			{Name: "inner", X: 1, Y: 0, R: 2},
		},
	},
	"sweep": {
		Name: "sweep",
		Bodies: []scene.Body{
			{Name: "a", X: 0, Y: 0, R: 10},
			{Name: "b", X: -30, Y: 0, R: 3},
		},
		Sweep: &SweepConfig{Body: "b", From: [2]float32{-30, 0}, To: [2]float32{30, 0}, Samples: 61},
	},
	"grow": {
		Name: "grow",
		Bodies: []scene.Body{
			{Name: "a", X: 0, Y: 0, R: 10},
			{Name: "b", X: 5, Y: 0, R: 1},
		},
		Steps: growSteps("b", 2, 20),
	},
}

func growSteps(body string, from, to int) []scene.Step {
	steps := make([]scene.Step, 0, to-from+1)
	for r := from; r <= to; r++ {
		steps = append(steps, scene.Step{Mutations: []scene.Mutation{{Body: body, Op: scene.OpResize, R: float32(r)}}})
	}
	return steps
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
