package metrics

import (
	"math"

	"github.com/san-kum/circles/internal/scene"
)

// MinClearance tracks the smallest boundary gap seen over all pairs.
// Negative values mean the circles overlapped.
type MinClearance struct {
	name    string
	min     float64
	samples int
}

func NewMinClearance() *MinClearance {
	return &MinClearance{name: "min_clearance"}
}

func (m *MinClearance) Name() string { return m.name }

func (m *MinClearance) Observe(f scene.Frame) {
	for _, ct := range f.Contacts {
		gap := Clearance(ct)
		if m.samples == 0 || gap < m.min {
			m.min = gap
		}
		m.samples++
	}
}

func (m *MinClearance) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.min
}

func (m *MinClearance) Reset() {
	m.min = 0
	m.samples = 0
}

// Clearance is the gap between the two boundaries along the center line.
func Clearance(c scene.Contact) float64 {
	return math.Sqrt(c.DistanceSq) - math.Sqrt(c.Hi)
}

// Defaults returns fresh instances of every metric.
func Defaults() []scene.Metric {
	return []scene.Metric{
		NewContactFrames(),
		NewContactEvents(),
		NewMinClearance(),
	}
}
