// Package scene runs circle scenarios step by step.
//
// A [Scene] names a set of bodies and a list of steps. Each step mutates
// some bodies (move, translate, resize) and then every unordered pair of
// bodies is checked with [geom.Circle.Collides]. The result is one [Frame]
// per evaluation, starting with the initial layout as frame 0.
//
//   - [Runner]: executes a scene and feeds frames to metrics and observers
//   - [Sweep]: expands a straight-line motion into discrete steps
//   - [RunAll]: evaluates independent scenes concurrently
//
// All pairs are tested every frame. There is no broad phase and no swept
// test between frames.
//
// # Thread Safety
//
// A Runner holds stateful metrics and must not be shared between
// goroutines. RunAll takes a factory and builds one Runner per scene.
package scene
