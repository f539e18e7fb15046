package scene

import (
	"fmt"

	"github.com/san-kum/circles/internal/geom"
)

// World is the mutable set of named circles a scene operates on.
type World struct {
	names   []string
	circles []geom.Circle
	index   map[string]int
}

// NewWorld builds one circle per body. Bodies keep their order.
func NewWorld(bodies []Body) (*World, error) {
	if len(bodies) == 0 {
		return nil, ErrEmptyScene
	}
	w := &World{
		names:   make([]string, len(bodies)),
		circles: make([]geom.Circle, len(bodies)),
		index:   make(map[string]int, len(bodies)),
	}
	for i, b := range bodies {
		if _, dup := w.index[b.Name]; dup {
			return nil, &StepError{Step: -1, Body: b.Name, Wrapped: ErrDuplicateBody}
		}
		c, err := geom.New(b.X, b.Y, b.R)
		if err != nil {
			return nil, &StepError{Step: -1, Body: b.Name, Wrapped: err}
		}
		w.names[i] = b.Name
		w.circles[i] = c
		w.index[b.Name] = i
	}
	return w, nil
}

func (w *World) Len() int { return len(w.circles) }

func (w *World) Names() []string {
	return append([]string(nil), w.names...)
}

// Circle returns a copy of the named circle.
func (w *World) Circle(name string) (geom.Circle, bool) {
	i, ok := w.index[name]
	if !ok {
		return geom.Circle{}, false
	}
	return w.circles[i], true
}

// Apply performs one mutation. A rejected resize leaves the body as it was.
func (w *World) Apply(m Mutation) error {
	i, ok := w.index[m.Body]
	if !ok {
		return ErrUnknownBody
	}
	c := &w.circles[i]
	switch m.Op {
	case OpMove:
		c.SetPosition(m.X, m.Y)
	case OpTranslate:
		x, y := c.Position()
		c.SetPosition(x+m.X, y+m.Y)
	case OpResize:
		return c.SetRadius(m.R)
	default:
		return fmt.Errorf("%w %q", ErrUnknownOp, m.Op)
	}
	return nil
}

// Frame snapshots the bodies and tests every unordered pair once.
func (w *World) Frame(index int) Frame {
	n := len(w.circles)
	f := Frame{
		Index:    index,
		Bodies:   make([]BodyState, n),
		Contacts: make([]Contact, 0, n*(n-1)/2),
	}
	for i, c := range w.circles {
		x, y := c.Position()
		f.Bodies[i] = BodyState{Name: w.names[i], X: x, Y: y, R: c.Radius()}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := w.circles[i], w.circles[j]
			lo, hi := a.Band(b)
			f.Contacts = append(f.Contacts, Contact{
				A:          w.names[i],
				B:          w.names[j],
				Relation:   a.Relation(b),
				DistanceSq: a.DistanceSquared(b),
				Lo:         lo,
				Hi:         hi,
			})
		}
	}
	return f
}
