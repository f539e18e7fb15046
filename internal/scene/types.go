package scene

import "github.com/san-kum/circles/internal/geom"

// Body is the initial layout of one named circle.
type Body struct {
	Name string  `yaml:"name" json:"name"`
	X    float32 `yaml:"x" json:"x"`
	Y    float32 `yaml:"y" json:"y"`
	R    float32 `yaml:"r" json:"r"`
}

// Op names the kind of a Mutation.
type Op string

const (
	OpMove      Op = "move"
	OpTranslate Op = "translate"
	OpResize    Op = "resize"
)

// Mutation changes one body. Move uses X/Y as the new center, translate
// adds X/Y to the current center, resize uses R.
type Mutation struct {
	Body string  `yaml:"body" json:"body"`
	Op   Op      `yaml:"op" json:"op"`
	X    float32 `yaml:"x,omitempty" json:"x,omitempty"`
	Y    float32 `yaml:"y,omitempty" json:"y,omitempty"`
	R    float32 `yaml:"r,omitempty" json:"r,omitempty"`
}

// Step is a set of mutations applied together before a frame is taken.
type Step struct {
	Mutations []Mutation `yaml:"mutations" json:"mutations"`
}

// Scene is an initial layout plus the steps run against it.
type Scene struct {
	Name   string
	Bodies []Body
	Steps  []Step
}

// BodyState is a body as it stood when a frame was taken.
type BodyState struct {
	Name string  `json:"name"`
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
	R    float32 `json:"r"`
}

// Contact is the outcome of one pairwise test. Lo and Hi are the squared
// distance bounds of the collision band.
type Contact struct {
	A          string        `json:"a"`
	B          string        `json:"b"`
	Relation   geom.Relation `json:"relation"`
	DistanceSq float64       `json:"distance_sq"`
	Lo         float64       `json:"lo"`
	Hi         float64       `json:"hi"`
}

func (c Contact) Colliding() bool {
	return c.Relation == geom.Touching
}

// Frame is the state of every body and pair after one step.
type Frame struct {
	Index    int         `json:"index"`
	Bodies   []BodyState `json:"bodies"`
	Contacts []Contact   `json:"contacts"`
}

// Colliding returns the contacts whose circles collide.
func (f Frame) Colliding() []Contact {
	var out []Contact
	for _, c := range f.Contacts {
		if c.Colliding() {
			out = append(out, c)
		}
	}
	return out
}

// Pair returns the contact between bodies a and b in either order.
func (f Frame) Pair(a, b string) (Contact, bool) {
	for _, c := range f.Contacts {
		if (c.A == a && c.B == b) || (c.A == b && c.B == a) {
			return c, true
		}
	}
	return Contact{}, false
}

// Result collects the frames and metric values of one run.
type Result struct {
	Frames     []Frame            `json:"frames"`
	Metrics    map[string]float64 `json:"metrics"`
	StepsTaken int                `json:"steps_taken"`
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}
