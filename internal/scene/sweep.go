package scene

// Sweep expands a straight-line move of body from (fromX, fromY) to
// (toX, toY) into samples absolute moves, endpoints included. Each sample
// is a separate step; nothing is tested between samples.
func Sweep(body string, fromX, fromY, toX, toY float32, samples int) []Step {
	if samples <= 0 {
		return nil
	}
	if samples == 1 {
		return []Step{{Mutations: []Mutation{{Body: body, Op: OpMove, X: toX, Y: toY}}}}
	}

	steps := make([]Step, samples)
	x0, y0 := float64(fromX), float64(fromY)
	dx, dy := float64(toX)-x0, float64(toY)-y0
	last := float64(samples - 1)
	for k := 0; k < samples; k++ {
		t := float64(k) / last
		steps[k] = Step{Mutations: []Mutation{{
			Body: body,
			Op:   OpMove,
			X:    float32(x0 + dx*t),
			Y:    float32(y0 + dy*t),
		}}}
	}
	// Land exactly on the endpoint regardless of rounding.
	steps[samples-1].Mutations[0].X = toX
	steps[samples-1].Mutations[0].Y = toY
	return steps
}
