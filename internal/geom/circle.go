package geom

import (
	"fmt"
	"math"
)

// Relation classifies how two circles sit relative to each other.
type Relation int

const (
	// Separate: centers farther apart than the radius sum.
	Separate Relation = iota
	// Touching: boundaries meet or cross.
	Touching
	// Nested: one circle strictly inside the other, boundaries apart.
	Nested
)

func (r Relation) String() string {
	switch r {
	case Separate:
		return "separate"
	case Touching:
		return "touching"
	case Nested:
		return "nested"
	default:
		return fmt.Sprintf("relation(%d)", int(r))
	}
}

// ParseRelation is the inverse of Relation.String.
func ParseRelation(s string) (Relation, error) {
	switch s {
	case "separate":
		return Separate, nil
	case "touching":
		return Touching, nil
	case "nested":
		return Nested, nil
	}
	return 0, fmt.Errorf("geom: unknown relation %q", s)
}

func (r Relation) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Relation) UnmarshalText(text []byte) error {
	v, err := ParseRelation(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Circle is a 2D circle. The zero value is a point circle at the origin.
type Circle struct {
	x, y float32
	r    float32
}

// New returns a circle centered at (x, y). It fails with a *RadiusError
// when r is negative.
func New(x, y, r float32) (Circle, error) {
	if err := checkRadius(r); err != nil {
		return Circle{}, err
	}
	return Circle{x: x, y: y, r: r}, nil
}

// NewAtOrigin returns a circle of radius r centered at (0, 0).
func NewAtOrigin(r float32) (Circle, error) {
	return New(0, 0, r)
}

// MustNew is like New but panics on an invalid radius.
func MustNew(x, y, r float32) Circle {
	c, err := New(x, y, r)
	if err != nil {
		panic(err)
	}
	return c
}

// SetPosition moves the center to (x, y).
func (c *Circle) SetPosition(x, y float32) {
	c.x = x
	c.y = y
}

// SetRadius changes the radius. A rejected radius leaves c unchanged.
func (c *Circle) SetRadius(r float32) error {
	if err := checkRadius(r); err != nil {
		return err
	}
	c.r = r
	return nil
}

// Position returns the center.
func (c Circle) Position() (float32, float32) {
	return c.x, c.y
}

// Radius returns the radius.
func (c Circle) Radius() float32 {
	return c.r
}

// DistanceSquared returns the squared distance between the two centers.
func (c Circle) DistanceSquared(other Circle) float64 {
	dx := float64(c.x) - float64(other.x)
	dy := float64(c.y) - float64(other.y)
	return dx*dx + dy*dy
}

// Band returns the squared center distances [lo, hi] for which the two
// boundaries touch or cross.
func (c Circle) Band(other Circle) (lo, hi float64) {
	diff := float64(c.r) - float64(other.r)
	sum := float64(c.r) + float64(other.r)
	return diff * diff, sum * sum
}

// Relation reports where other sits relative to c. It is Touching exactly
// when Collides is true; comparisons involving NaN yield Separate.
func (c Circle) Relation(other Circle) Relation {
	if c.Collides(other) {
		return Touching
	}
	lo, _ := c.Band(other)
	if c.DistanceSquared(other) < lo {
		return Nested
	}
	return Separate
}

// Collides reports whether the boundaries of c and other touch or overlap.
// A circle strictly inside another without boundary contact does not
// collide.
func (c Circle) Collides(other Circle) bool {
	lo, hi := c.Band(other)
	d := c.DistanceSquared(other)
	return d >= lo && d <= hi
}

// Clearance is the distance between the boundaries along the center line:
// positive when apart, zero when tangent, negative when overlapping.
func (c Circle) Clearance(other Circle) float64 {
	return math.Sqrt(c.DistanceSquared(other)) - (float64(c.r) + float64(other.r))
}

// IsFinite reports whether the center and radius are finite numbers.
func (c Circle) IsFinite() bool {
	for _, v := range [...]float32{c.x, c.y, c.r} {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func (c Circle) String() string {
	return fmt.Sprintf("circle(%g, %g; r=%g)", c.x, c.y, c.r)
}
