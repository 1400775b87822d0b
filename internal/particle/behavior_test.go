package particle_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/impulse/internal/particle"
)

var _ = Describe("World", func() {
	var w *particle.World

	BeforeEach(func() {
		w = particle.NewWorld()
	})

	Context("with a body on an anchored spring", func() {
		It("oscillates through the rest point and stays bounded", func() {
			h := w.InsertBody(particle.Body{
				Position:    particle.Vec3{3, 0, 0},
				InverseMass: 1,
				Damping:     0.995,
			})
			spring := w.InsertForceGenerator(particle.NewAnchoredSpring(particle.Vec3{}, 8, 1))
			w.Register(spring, h)

			crossed := false
			for i := 0; i < 2000; i++ {
				Expect(w.Tick(0.005)).To(Succeed())
				b, ok := w.Body(h)
				Expect(ok).To(BeTrue())
				if b.Position.X() < 1 {
					crossed = true
				}
				Expect(b.Position.Len()).To(BeNumerically("<", 4))
			}
			Expect(crossed).To(BeTrue(), "spring never pulled the body through its rest length")
		})
	})

	Context("with a buoyant body under gravity", func() {
		It("settles where buoyancy balances weight", func() {
			h := w.InsertBody(particle.Body{
				Position:    particle.Vec3{0, 0.4, 0},
				InverseMass: 1 / 0.05,
				Damping:     0.9,
			})
			g := w.InsertForceGenerator(particle.NewEarthGravity())
			water := w.InsertForceGenerator(particle.NewBuoyancy(0.5, 0.001, 0))
			w.Register(g, h)
			w.Register(water, h)

			for i := 0; i < 3000; i++ {
				Expect(w.Tick(0.01)).To(Succeed())
			}

			// Weight 0.05*9.8 against density*volume*submerged: the
			// submerged fraction at rest is 0.49, just under the surface.
			b, _ := w.Body(h)
			Expect(b.Position.Y()).To(BeNumerically("~", 0.01, 0.05))
			Expect(b.Velocity.Len()).To(BeNumerically("<", 0.01))
		})
	})

	Context("when a registered body is removed mid-run", func() {
		It("keeps applying forces to the survivors", func() {
			doomed := w.InsertBody(particle.Body{InverseMass: 1, Damping: 1})
			survivor := w.InsertBody(particle.Body{InverseMass: 1, Damping: 1})
			g := w.InsertForceGenerator(particle.NewGravity(particle.Vec3{0, -1, 0}))
			w.Register(g, doomed, survivor)

			Expect(w.Tick(1)).To(Succeed())
			Expect(w.RemoveBody(doomed)).To(BeTrue())
			Expect(w.Tick(1)).To(Succeed())

			b, ok := w.Body(survivor)
			Expect(ok).To(BeTrue())
			Expect(b.Velocity.Y()).To(BeNumerically("~", -2, 1e-9))
		})
	})
})

var _ = Describe("Resolver", func() {
	var (
		w        *particle.World
		resolver *particle.Resolver
	)

	BeforeEach(func() {
		w = particle.NewWorld()
		resolver = particle.NewResolver(8)
	})

	collide := func(restitution float64) (va, vb particle.Vec3) {
		a := w.InsertBody(particle.Body{Velocity: particle.Vec3{2, 0, 0}, InverseMass: 1, Damping: 1})
		b := w.InsertBody(particle.Body{Position: particle.Vec3{1, 0, 0}, InverseMass: 1.0 / 3.0, Damping: 1})

		contacts := []particle.Contact{{
			Body:        a,
			OtherBody:   b,
			Restitution: restitution,
			Normal:      particle.Vec3{-1, 0, 0},
		}}
		resolver.ResolveContacts(contacts, 0.01, w.Bodies())

		ba, _ := w.Body(a)
		bb, _ := w.Body(b)
		return ba.Velocity, bb.Velocity
	}

	Context("for an elastic collision of unequal masses", func() {
		It("conserves momentum and kinetic energy", func() {
			va, vb := collide(1)

			momentum := va.X()*1 + vb.X()*3
			energy := 0.5*1*va.Dot(va) + 0.5*3*vb.Dot(vb)

			Expect(momentum).To(BeNumerically("~", 2, 1e-9))
			Expect(energy).To(BeNumerically("~", 2, 1e-9))
			Expect(va.X()).To(BeNumerically("~", -1, 1e-9))
			Expect(vb.X()).To(BeNumerically("~", 1, 1e-9))
		})
	})

	Context("for a perfectly inelastic collision", func() {
		It("conserves momentum while dissipating energy", func() {
			va, vb := collide(0)

			momentum := va.X()*1 + vb.X()*3
			energy := 0.5*1*va.Dot(va) + 0.5*3*vb.Dot(vb)

			Expect(momentum).To(BeNumerically("~", 2, 1e-9))
			Expect(energy).To(BeNumerically("<", 2))
			Expect(va.X()).To(BeNumerically("~", vb.X(), 1e-9))
		})
	})
})
