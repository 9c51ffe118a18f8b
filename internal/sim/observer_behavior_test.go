package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lorenzobs/internal/analysis"
	"github.com/san-kum/lorenzobs/internal/dynamo"
	"github.com/san-kum/lorenzobs/internal/metrics"
	"github.com/san-kum/lorenzobs/internal/sim"
)

func estimationRMS(tr *dynamo.Trajectory, from int) float64 {
	sum, n := 0.0, 0
	for i := from; i < tr.Len(); i++ {
		e := tr.At(i).State.EstimationError()
		sum += e * e
		n++
	}
	return math.Sqrt(sum / float64(n))
}

var _ = Describe("Observed Lorenz system", func() {
	var (
		ctx context.Context
		p   dynamo.Params
	)

	BeforeEach(func() {
		ctx = context.Background()
		p = dynamo.DefaultParams().WithSeed(42)
	})

	Context("with the reference scenario", func() {
		var result *sim.Result

		BeforeEach(func() {
			var err error
			result, err = sim.Simulate(ctx, dynamo.NewState([3]float64{1, 1, 1}, [3]float64{0, 0, 0}), p,
				sim.WithMetrics(metrics.Default()...))
			Expect(err).NotTo(HaveOccurred())
		})

		It("records every step", func() {
			Expect(result.Trajectory.Len()).To(Equal(2001))
			last, ok := result.Trajectory.Last()
			Expect(ok).To(BeTrue())
			Expect(last.Time).To(BeNumerically("~", 20.0, 1e-9))
		})

		It("ends with a smaller estimation error than after the transient", func() {
			last, ok := result.Trajectory.Last()
			Expect(ok).To(BeTrue())
			early := result.Trajectory.At(50).State.EstimationError()
			Expect(last.State.EstimationError()).To(BeNumerically("<", early))
		})

		It("keeps every value finite", func() {
			for _, snap := range result.Trajectory.History() {
				Expect(snap.State.IsValid()).To(BeTrue(), "t=%v", snap.Time)
				Expect(math.IsNaN(snap.Measurement)).To(BeFalse())
			}
		})

		It("stays on the attractor", func() {
			for _, snap := range result.Trajectory.History() {
				s := snap.State
				Expect(math.Abs(s[dynamo.X])).To(BeNumerically("<", 30))
				Expect(math.Abs(s[dynamo.Y])).To(BeNumerically("<", 30))
				Expect(s[dynamo.Z]).To(And(BeNumerically(">", -1), BeNumerically("<", 55)))
			}
		})

		It("keeps the estimates bounded", func() {
			for _, snap := range result.Trajectory.History() {
				s := snap.State
				Expect(math.Abs(s[dynamo.XHat])).To(BeNumerically("<", 60))
				Expect(math.Abs(s[dynamo.YHat])).To(BeNumerically("<", 60))
				Expect(s[dynamo.ZHat]).To(And(BeNumerically(">", -30), BeNumerically("<", 90)))
			}
		})

		It("reports the estimation metrics", func() {
			Expect(result.Metrics).To(HaveKey("estimation_rms"))
			Expect(result.Metrics).To(HaveKey("estimation_final"))
			Expect(result.Metrics["estimation_rms"]).To(BeNumerically("<", 8*p.NoiseStd))
		})
	})

	Context("with a distant initial estimate", func() {
		It("pulls the error down to the noise floor", func() {
			x0 := dynamo.NewState([3]float64{1, 1, 1}, [3]float64{0, -20, 45})
			result, err := sim.Simulate(ctx, x0, p)
			Expect(err).NotTo(HaveOccurred())

			initial := result.Trajectory.At(0).State.EstimationError()
			early := result.Trajectory.At(50).State.EstimationError()
			terminal := estimationRMS(result.Trajectory, 1500)

			Expect(early).To(BeNumerically("<", initial))
			Expect(terminal).To(BeNumerically("<", early))
			Expect(terminal).To(BeNumerically("<", 8*p.NoiseStd))
		})
	})

	Context("with two observers sharing one measurement", func() {
		It("converges the estimates toward each other", func() {
			a, err := sim.Simulate(ctx, dynamo.NewState([3]float64{1, 1, 1}, [3]float64{0, 0, 0}), p)
			Expect(err).NotTo(HaveOccurred())
			b, err := sim.Simulate(ctx, dynamo.NewState([3]float64{1, 1, 1}, [3]float64{-8, 12, 30}), p)
			Expect(err).NotTo(HaveOccurred())

			yz := func(i int) float64 {
				sa, sb := a.Trajectory.At(i).State, b.Trajectory.At(i).State
				return math.Hypot(sa[dynamo.YHat]-sb[dynamo.YHat], sa[dynamo.ZHat]-sb[dynamo.ZHat])
			}
			// At least e^{-t} between t=0 and t=5.
			Expect(yz(500)).To(BeNumerically("<", yz(0)*math.Exp(-5)*1.01))
			Expect(yz(1000)).To(BeNumerically("<", yz(500)))

			d := analysis.EstimateDistance(a.Trajectory, b.Trajectory)
			Expect(d[2000]).To(BeNumerically("<", 1e-6*d[0]))
		})
	})

	Context("with varying noise levels", func() {
		It("scales the terminal error with the noise", func() {
			run := func(std float64) float64 {
				q := p
				q.NoiseStd = std
				result, err := sim.Simulate(ctx, dynamo.NewState([3]float64{1, 1, 1}, [3]float64{0, 0, 0}), q)
				Expect(err).NotTo(HaveOccurred())
				return estimationRMS(result.Trajectory, 1000)
			}

			low, high := run(0.5), run(2.0)
			Expect(low).To(BeNumerically("<", high))
			Expect(high).To(BeNumerically("<", 8*2.0))
		})
	})

	Context("with an ensemble of perturbed plants", func() {
		It("runs every member and the spread grows", func() {
			q := p
			q.Steps = 1500
			initial := sim.PerturbedInitialStates(dynamo.NewState([3]float64{1, 1, 1}, [3]float64{0, 0, 0}), 8, 1e-3, 3)

			ens, err := sim.NewEnsemble(q, "rk4", 100, sim.WithWorkers(4))
			Expect(err).NotTo(HaveOccurred())
			members := ens.Run(ctx, initial)
			Expect(members).To(HaveLen(8))

			trs := make([]*dynamo.Trajectory, 0, len(members))
			for _, m := range members {
				Expect(m.Err).NotTo(HaveOccurred())
				trs = append(trs, m.Result.Trajectory)
			}

			spread := analysis.Spread(trs)
			Expect(spread[len(spread)-1]).To(BeNumerically(">", 100*spread[0]))
		})
	})
})
