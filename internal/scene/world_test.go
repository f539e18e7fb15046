package scene_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/circles/internal/geom"
	"github.com/san-kum/circles/internal/scene"
)

var _ = Describe("World", func() {
	var w *scene.World

	BeforeEach(func() {
		var err error
		w, err = scene.NewWorld([]scene.Body{{Name: "a", R: 2}, {Name: "b", X: 10, R: 2}})
		Expect(err).NotTo(HaveOccurred())
	})

	It("exposes bodies in order", func() {
		Expect(w.Len()).To(Equal(2))
		Expect(w.Names()).To(Equal([]string{"a", "b"}))

		c, ok := w.Circle("b")
		Expect(ok).To(BeTrue())
		x, _ := c.Position()
		Expect(x).To(Equal(float32(10)))

		_, ok = w.Circle("z")
		Expect(ok).To(BeFalse())
	})

	It("leaves a body unchanged after a rejected resize", func() {
		err := w.Apply(scene.Mutation{Body: "a", Op: scene.OpResize, R: -1})
		Expect(err).To(MatchError(geom.ErrInvalidRadius))

		c, _ := w.Circle("a")
		Expect(c.Radius()).To(Equal(float32(2)))
	})

	It("reports contacts once the bodies meet", func() {
		Expect(w.Frame(0).Colliding()).To(BeEmpty())

		Expect(w.Apply(scene.Mutation{Body: "b", Op: scene.OpTranslate, X: -6})).To(Succeed())
		f := w.Frame(1)
		Expect(f.Index).To(Equal(1))
		Expect(f.Colliding()).To(HaveLen(1))
		Expect(f.Contacts[0].DistanceSq).To(Equal(16.0))
		Expect(f.Contacts[0].Lo).To(Equal(0.0))
		Expect(f.Contacts[0].Hi).To(Equal(16.0))
	})
})
