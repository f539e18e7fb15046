package metrics

import "github.com/san-kum/circles/internal/scene"

// ContactFrames counts frames with at least one colliding pair.
type ContactFrames struct {
	name  string
	count int
}

func NewContactFrames() *ContactFrames {
	return &ContactFrames{name: "contact_frames"}
}

func (c *ContactFrames) Name() string { return c.name }

func (c *ContactFrames) Observe(f scene.Frame) {
	for _, ct := range f.Contacts {
		if ct.Colliding() {
			c.count++
			return
		}
	}
}

func (c *ContactFrames) Value() float64 { return float64(c.count) }

func (c *ContactFrames) Reset() { c.count = 0 }

type pairKey struct{ a, b string }

// ContactEvents counts contact starts: a pair colliding in a frame after
// not colliding in the previous one. A pair already colliding in the first
// frame counts as one start.
type ContactEvents struct {
	name   string
	events int
	prev   map[pairKey]bool
}

func NewContactEvents() *ContactEvents {
	return &ContactEvents{name: "contact_events", prev: make(map[pairKey]bool)}
}

func (c *ContactEvents) Name() string { return c.name }

func (c *ContactEvents) Observe(f scene.Frame) {
	for _, ct := range f.Contacts {
		k := pairKey{ct.A, ct.B}
		now := ct.Colliding()
		if now && !c.prev[k] {
			c.events++
		}
		c.prev[k] = now
	}
}

func (c *ContactEvents) Value() float64 { return float64(c.events) }

func (c *ContactEvents) Reset() {
	c.events = 0
	c.prev = make(map[pairKey]bool)
}
