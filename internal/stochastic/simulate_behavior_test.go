package stochastic_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/predsim/internal/dynamo"
	"github.com/san-kum/predsim/internal/stochastic"
)

var _ = Describe("Simulate", func() {
	var p stochastic.Params

	BeforeEach(func() {
		p = stochastic.DefaultParams()
		p.N = 1000
	})

	It("returns n+1 points starting at the initial populations", func() {
		points := stochastic.Simulate(p, stochastic.NewSource(7))

		Expect(points).To(HaveLen(1001))
		Expect(points[0]).To(Equal(dynamo.PhasePoint{Prey: 2000, Predators: 2000}))
	})

	It("is reproducible for a fixed seed", func() {
		a := stochastic.Simulate(p, stochastic.NewSource(42))
		b := stochastic.Simulate(p, stochastic.NewSource(42))

		Expect(a).To(Equal(b))
	})

	It("changes each population by at most one per step", func() {
		points := stochastic.Simulate(p, stochastic.NewSource(3))

		for i := 1; i < len(points); i++ {
			dPrey := points[i].Prey - points[i-1].Prey
			dPred := points[i].Predators - points[i-1].Predators

			Expect(dPrey).To(BeNumerically("~", 0, 1))
			Expect(dPred).To(BeNumerically("~", 0, 1))
			Expect(dPrey == 0 || dPred == 0).To(BeTrue(), "at most one event per step")
		}
	})

	It("accepts a nil source", func() {
		Expect(stochastic.Simulate(p, nil)).To(HaveLen(p.N + 1))
	})

	Context("with draws above every threshold", func() {
		It("never changes the populations", func() {
			points := stochastic.Simulate(p, stochastic.NewSequence(0.999999))

			for _, pt := range points {
				Expect(pt).To(Equal(points[0]))
			}
		})
	})

	Context("when every draw is zero", func() {
		It("always picks the prey birth first", func() {
			p.N = 10
			points := stochastic.Simulate(p, stochastic.NewSequence(0))

			Expect(points[10].Prey).To(Equal(2010.0))
			Expect(points[10].Predators).To(Equal(2000.0))
		})
	})

	Describe("MaxThreshold", func() {
		It("reports T4 at the initial state for a static run", func() {
			points := []dynamo.PhasePoint{{Prey: 2000, Predators: 2000}}
			th := stochastic.Thresholds(p, 2000, 2000)

			Expect(stochastic.MaxThreshold(p, points)).To(Equal(th[3]))
			Expect(th[3]).To(BeNumerically("<", 1))
		})
	})
})
