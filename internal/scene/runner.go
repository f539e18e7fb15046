package scene

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type Runner struct {
	logger    *zap.Logger
	metrics   []Metric
	observers []Observer
}

// New returns a Runner. A nil logger disables logging.
func New(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		logger:    logger,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run evaluates the initial layout and then every step of sc. On a step
// error the frames gathered so far are returned alongside the error.
func (r *Runner) Run(ctx context.Context, sc Scene) (*Result, error) {
	w, err := NewWorld(sc.Bodies)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Frames:  make([]Frame, 0, len(sc.Steps)+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	log := r.logger.With(zap.String("scene", sc.Name))
	log.Debug("run started", zap.Int("bodies", len(sc.Bodies)), zap.Int("steps", len(sc.Steps)))

	prev := r.record(result, w.Frame(0), nil, log)

	for i, step := range sc.Steps {
		select {
		case <-ctx.Done():
			r.finish(result)
			return result, fmt.Errorf("%w: %v", ErrCanceled, ctx.Err())
		default:
		}

		for _, m := range step.Mutations {
			if err := w.Apply(m); err != nil {
				r.finish(result)
				return result, &StepError{Step: i, Body: m.Body, Wrapped: err}
			}
		}

		prev = r.record(result, w.Frame(i+1), prev, log)
		result.StepsTaken++
	}

	r.finish(result)
	log.Debug("run finished", zap.Int("frames", len(result.Frames)))
	return result, nil
}

// record appends f, feeds the hooks and logs contact transitions against
// the previous frame's collision flags.
func (r *Runner) record(result *Result, f Frame, prev []bool, log *zap.Logger) []bool {
	result.Frames = append(result.Frames, f)
	for _, m := range r.metrics {
		m.Observe(f)
	}
	for _, o := range r.observers {
		o.OnFrame(f)
	}

	cur := make([]bool, len(f.Contacts))
	for k, c := range f.Contacts {
		cur[k] = c.Colliding()
		was := prev != nil && prev[k]
		switch {
		case cur[k] && !was:
			log.Debug("contact started", zap.Int("frame", f.Index), zap.String("a", c.A), zap.String("b", c.B))
		case !cur[k] && was:
			log.Debug("contact ended", zap.Int("frame", f.Index), zap.String("a", c.A), zap.String("b", c.B), zap.Stringer("relation", c.Relation))
		}
	}
	return cur
}

func (r *Runner) finish(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
