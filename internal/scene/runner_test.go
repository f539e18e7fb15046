package scene_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/circles/internal/geom"
	"github.com/san-kum/circles/internal/scene"
)

type frameCounter struct{ frames int }

func (f *frameCounter) OnFrame(scene.Frame) { f.frames++ }

type collidingFrames struct{ n int }

func (c *collidingFrames) Name() string { return "colliding" }
func (c *collidingFrames) Observe(f scene.Frame) {
	if len(f.Colliding()) > 0 {
		c.n++
	}
}
func (c *collidingFrames) Value() float64 { return float64(c.n) }
func (c *collidingFrames) Reset()         { c.n = 0 }

func move(body string, x, y float32) scene.Step {
	return scene.Step{Mutations: []scene.Mutation{{Body: body, Op: scene.OpMove, X: x, Y: y}}}
}

var _ = Describe("Runner", func() {
	var (
		runner *scene.Runner
		ctx    context.Context
	)

	BeforeEach(func() {
		runner = scene.New(nil)
		ctx = context.Background()
	})

	It("replays the separation scenario", func() {
		sc := scene.Scene{
			Name: "separated",
			Bodies: []scene.Body{
				{Name: "c1", X: 0, Y: 0, R: 10},
				{Name: "c2", X: 0, Y: 0, R: 10},
			},
			Steps: []scene.Step{
				move("c2", 20.1, 0),
				{Mutations: []scene.Mutation{
					{Body: "c1", Op: scene.OpMove, X: 0, Y: -20.1},
					{Body: "c2", Op: scene.OpMove, X: 0, Y: 0},
				}},
			},
		}

		res, err := runner.Run(ctx, sc)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Frames).To(HaveLen(3))
		Expect(res.StepsTaken).To(Equal(2))

		Expect(res.Frames[0].Contacts).To(HaveLen(1))
		Expect(res.Frames[0].Contacts[0].Colliding()).To(BeTrue())
		Expect(res.Frames[1].Contacts[0].Colliding()).To(BeFalse())
		Expect(res.Frames[2].Contacts[0].Colliding()).To(BeFalse())
		Expect(res.Frames[2].Contacts[0].Relation).To(Equal(geom.Separate))
	})

	It("checks every unordered pair once", func() {
		sc := scene.Scene{Bodies: []scene.Body{
			{Name: "a", R: 1}, {Name: "b", X: 1, R: 1}, {Name: "c", X: 50, R: 1}, {Name: "d", X: 51, R: 1},
		}}

		res, err := runner.Run(ctx, sc)
		Expect(err).NotTo(HaveOccurred())

		f := res.Frames[0]
		Expect(f.Contacts).To(HaveLen(6))
		Expect(f.Colliding()).To(HaveLen(2))

		ab, ok := f.Pair("b", "a")
		Expect(ok).To(BeTrue())
		Expect(ab.Colliding()).To(BeTrue())

		ac, ok := f.Pair("a", "c")
		Expect(ok).To(BeTrue())
		Expect(ac.Relation).To(Equal(geom.Separate))
	})

	It("records body states after mutations", func() {
		sc := scene.Scene{
			Bodies: []scene.Body{{Name: "a", X: 1, Y: 1, R: 1}},
			Steps: []scene.Step{
				{Mutations: []scene.Mutation{{Body: "a", Op: scene.OpTranslate, X: 2, Y: -1}}},
				{Mutations: []scene.Mutation{{Body: "a", Op: scene.OpResize, R: 4}}},
			},
		}

		res, err := runner.Run(ctx, sc)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Frames[1].Bodies[0]).To(Equal(scene.BodyState{Name: "a", X: 3, Y: 0, R: 1}))
		Expect(res.Frames[2].Bodies[0]).To(Equal(scene.BodyState{Name: "a", X: 3, Y: 0, R: 4}))
		Expect(res.Frames[0].Contacts).To(BeEmpty())
	})

	It("feeds metrics and observers", func() {
		obs := &frameCounter{}
		runner.AddObserver(obs)
		runner.AddMetric(&collidingFrames{})

		sc := scene.Scene{
			Bodies: []scene.Body{{Name: "a", R: 1}, {Name: "b", X: 5, R: 1}},
			Steps:  scene.Sweep("b", 5, 0, -5, 0, 11),
		}
		res, err := runner.Run(ctx, sc)
		Expect(err).NotTo(HaveOccurred())
		Expect(obs.frames).To(Equal(12))
		// b passes x = 2, 1, 0, -1, -2 while the radius sum is 2.
		Expect(res.Metrics).To(HaveKeyWithValue("colliding", 5.0))

		res, err = runner.Run(ctx, sc)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Metrics["colliding"]).To(Equal(5.0), "metrics reset between runs")
	})

	Describe("errors", func() {
		It("rejects a negative initial radius", func() {
			_, err := runner.Run(ctx, scene.Scene{Bodies: []scene.Body{{Name: "bad", R: -1}}})
			Expect(err).To(MatchError(geom.ErrInvalidRadius))

			var se *scene.StepError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.Body).To(Equal("bad"))
			Expect(se.Step).To(Equal(-1))
		})

		It("rejects a negative radius mutation and keeps earlier frames", func() {
			sc := scene.Scene{
				Bodies: []scene.Body{{Name: "a", R: 1}},
				Steps: []scene.Step{
					move("a", 1, 1),
					{Mutations: []scene.Mutation{{Body: "a", Op: scene.OpResize, R: -2}}},
				},
			}
			res, err := runner.Run(ctx, sc)
			Expect(err).To(MatchError(geom.ErrInvalidRadius))
			Expect(res.Frames).To(HaveLen(2))

			var se *scene.StepError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.Step).To(Equal(1))
		})

		DescribeTable("invalid scenes",
			func(sc scene.Scene, want error) {
				_, err := runner.Run(ctx, sc)
				Expect(err).To(MatchError(want))
			},
			Entry("empty", scene.Scene{}, scene.ErrEmptyScene),
			Entry("duplicate", scene.Scene{Bodies: []scene.Body{{Name: "a"}, {Name: "a"}}}, scene.ErrDuplicateBody),
			Entry("unknown body", scene.Scene{
				Bodies: []scene.Body{{Name: "a"}},
				Steps:  []scene.Step{move("ghost", 0, 0)},
			}, scene.ErrUnknownBody),
			Entry("unknown op", scene.Scene{
				Bodies: []scene.Body{{Name: "a"}},
				Steps:  []scene.Step{{Mutations: []scene.Mutation{{Body: "a", Op: "spin"}}}},
			}, scene.ErrUnknownOp),
		)

		It("stops when the context is canceled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			res, err := runner.Run(cctx, scene.Scene{
				Bodies: []scene.Body{{Name: "a"}},
				Steps:  []scene.Step{move("a", 1, 1)},
			})
			Expect(err).To(MatchError(scene.ErrCanceled))
			Expect(res.Frames).To(HaveLen(1))
		})
	})
})

var _ = Describe("Sweep", func() {
	It("includes both endpoints", func() {
		steps := scene.Sweep("b", -30, 0, 30, 0, 61)
		Expect(steps).To(HaveLen(61))
		Expect(steps[0].Mutations[0].X).To(Equal(float32(-30)))
		Expect(steps[30].Mutations[0].X).To(BeNumerically("~", 0, 1e-5))
		Expect(steps[60].Mutations[0].X).To(Equal(float32(30)))
		Expect(steps[60].Mutations[0].Op).To(Equal(scene.OpMove))
	})

	It("handles degenerate sample counts", func() {
		Expect(scene.Sweep("b", 0, 0, 1, 1, 0)).To(BeEmpty())
		one := scene.Sweep("b", 0, 0, 1, 1, 1)
		Expect(one).To(HaveLen(1))
		Expect(one[0].Mutations[0].X).To(Equal(float32(1)))
	})
})

var _ = Describe("RunAll", func() {
	It("keeps scene order", func() {
		scenes := []scene.Scene{
			{Name: "apart", Bodies: []scene.Body{{Name: "a", R: 1}, {Name: "b", X: 10, R: 1}}},
			{Name: "touch", Bodies: []scene.Body{{Name: "a", R: 1}, {Name: "b", X: 2, R: 1}}},
		}
		results, err := scene.RunAll(context.Background(), func() *scene.Runner { return scene.New(nil) }, scenes)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(2))
		Expect(results[0].Frames[0].Contacts[0].Colliding()).To(BeFalse())
		Expect(results[1].Frames[0].Contacts[0].Colliding()).To(BeTrue())
	})

	It("returns the first failure", func() {
		scenes := []scene.Scene{
			{Name: "ok", Bodies: []scene.Body{{Name: "a", R: 1}}},
			{Name: "bad", Bodies: []scene.Body{{Name: "a", R: -1}}},
		}
		_, err := scene.RunAll(context.Background(), func() *scene.Runner { return scene.New(nil) }, scenes)
		Expect(err).To(MatchError(geom.ErrInvalidRadius))
	})
})
