// Package geom provides the circle primitive and its pairwise collision test.
//
// A [Circle] stores its center and radius in single precision. All
// comparisons widen to float64 before squaring so that the band test
//
//	(r1-r2)² <= dx²+dy² <= (r1+r2)²
//
// does not lose precision near the bounds. Both bounds are inclusive:
// tangent circles collide.
//
// # Example
//
//	a, _ := geom.New(0, 0, 10)
//	b, _ := geom.New(20, 0, 10)
//	a.Collides(b) // true, externally tangent
//
// Radius validation happens when a circle is built and when its radius is
// changed. Collides itself never fails.
package geom
