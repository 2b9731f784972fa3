package pipeline_test

import (
	"context"
	"errors"

	"github.com/go-kit/kit/metrics/generic"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gasviz/internal/chart"
	"github.com/san-kum/gasviz/internal/config"
	"github.com/san-kum/gasviz/internal/pipeline"
)

var _ = Describe("Session", func() {
	var (
		factory  *fakeFactory
		surfaces []*countingSurface
		session  *pipeline.Session
		readout  *pipeline.Readout
	)

	BeforeEach(func() {
		factory = &fakeFactory{}
		var s pipeline.Surfaces
		s, surfaces = newSurfaces()
		readout = pipeline.NewReadout()
		session = pipeline.New(factory.build, s, pipeline.WithInstruments(readout.Instruments()))
	})

	Context("before any reset", func() {
		It("refuses to tick", func() {
			_, err := session.Tick()
			Expect(err).To(MatchError(pipeline.ErrNotReady))
		})

		It("has no particles to show", func() {
			_, _, ok := session.Particles()
			Expect(ok).To(BeFalse())
		})
	})

	Context("after a reset", func() {
		BeforeEach(func() {
			Expect(session.Reset(uniformExperiment(), smallParams())).To(Succeed())
		})

		It("is paused at frame zero", func() {
			Expect(session.Paused()).To(BeTrue())
			Expect(session.Frame()).To(Equal(0))
		})

		It("fixes the particles of a fresh engine", func() {
			Expect(factory.built).To(HaveLen(1))
			Expect(factory.last().fixed).To(BeTrue())
		})

		It("draws the initial frame on every chart", func() {
			for _, s := range surfaces {
				Expect(s.clears).To(Equal(1))
			}
		})

		It("picks the display range from the population", func() {
			sc := session.Scale()
			Expect(sc.Height).To(BeNumerically(">=", 1))
			Expect(sc.GridStep).To(BeNumerically(">", 0))
			Expect(sc.Left).To(Equal(-3.0))
			Expect(sc.Right).To(Equal(3.0))
		})

		It("sizes every series to the bucket count", func() {
			vx, vy := session.Raw()
			Expect(vx).To(HaveLen(5))
			Expect(vy).To(HaveLen(5))
			ax, ay := session.Averaged()
			Expect(ax).To(HaveLen(5))
			Expect(ay).To(HaveLen(5))
		})

		It("builds a reference curve", func() {
			xs, ys := session.Curve()
			Expect(xs).NotTo(BeEmpty())
			Expect(xs).To(HaveLen(len(ys)))
		})

		It("feeds the raw series into the averages every tick", func() {
			_, err := session.Tick()
			Expect(err).NotTo(HaveOccurred())

			vx, vy := session.Raw()
			Expect(vx).To(HaveEach(1.0))
			Expect(vy).To(HaveEach(2.0))

			ax, _ := session.Averaged()
			Expect(ax).To(HaveEach(1.0))

			_, err = session.Tick()
			Expect(err).NotTo(HaveOccurred())
			ax, ay := session.Averaged()
			Expect(ax).To(HaveEach(BeNumerically("~", 1.5, 1e-12)))
			Expect(ay).To(HaveEach(BeNumerically("~", 3.0, 1e-12)))
		})

		It("reports particle positions from a positioner", func() {
			ps, r, ok := session.Particles()
			Expect(ok).To(BeTrue())
			Expect(ps).To(HaveLen(100))
			Expect(r).To(Equal(0.01))
		})

		It("counts ticks and draws", func() {
			Expect(session.Run(context.Background(), 3)).To(Succeed())
			Expect(readout.Ticks.Value()).To(Equal(3.0))
			Expect(readout.Draws.Value()).To(Equal(3.0))
		})

		It("runs regardless of the pause flag", func() {
			session.Pause()
			Expect(session.Run(context.Background(), 4)).To(Succeed())
			Expect(session.Frame()).To(Equal(4))
			Expect(session.Paused()).To(BeTrue())
		})

		It("stops a run between ticks on cancellation", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err := session.Run(ctx, 10)
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(session.Frame()).To(Equal(0))
		})

		It("toggles the pause flag", func() {
			session.TogglePause()
			Expect(session.Paused()).To(BeFalse())
			session.TogglePause()
			Expect(session.Paused()).To(BeTrue())
			session.Resume()
			Expect(session.Paused()).To(BeFalse())
		})

		It("recolors the charts on a palette change", func() {
			Expect(session.SetPalette(pipeline.Palette{Bar: "#00ff00"})).To(Succeed())
			Expect(surfaces[0].clears).To(Equal(2))
			Expect(surfaces[0].colors).To(ContainElement(chart.Color("#00ff00")))
		})
	})

	Context("with a histogram delay", func() {
		BeforeEach(func() {
			p := smallParams()
			p.HistogramDelay = 3
			Expect(session.Reset(uniformExperiment(), p)).To(Succeed())
		})

		It("draws every third frame but averages every frame", func() {
			var drawn []bool
			for i := 0; i < 7; i++ {
				d, err := session.Tick()
				Expect(err).NotTo(HaveOccurred())
				drawn = append(drawn, d)
			}
			Expect(drawn).To(Equal([]bool{true, false, false, true, false, false, true}))

			// 1 initial repaint plus 3 from ticks.
			Expect(surfaces[2].clears).To(Equal(4))

			// The mean of 1..7 proves no tick was skipped.
			ax, _ := session.Averaged()
			Expect(ax).To(HaveEach(BeNumerically("~", 4.0, 1e-12)))
			Expect(factory.last().histos).To(Equal(8))
		})
	})

	Context("when reset again", func() {
		It("resizes trackers to the new bucket count", func() {
			Expect(session.Reset(uniformExperiment(), smallParams())).To(Succeed())
			Expect(session.Run(context.Background(), 2)).To(Succeed())

			p := smallParams()
			p.Buckets = 9
			Expect(session.Reset(uniformExperiment(), p)).To(Succeed())

			Expect(session.Frame()).To(Equal(0))
			ax, _ := session.Averaged()
			Expect(ax).To(HaveLen(9))
			Expect(ax).To(HaveEach(0.0))
			Expect(factory.built).To(HaveLen(2))

			_, err := session.Tick()
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Context("with a bad configuration", func() {
		It("rejects out-of-range params at reset", func() {
			p := smallParams()
			p.Buckets = 0
			err := session.Reset(uniformExperiment(), p)
			Expect(err).To(MatchError(config.ErrOutOfRange))
			Expect(factory.built).To(BeEmpty())

			_, err = session.Tick()
			Expect(err).To(MatchError(pipeline.ErrNotReady))
		})

		It("rejects an engine with the wrong bucket count", func() {
			factory.bucketSkew = 1
			err := session.Reset(uniformExperiment(), smallParams())
			Expect(err).To(MatchError(chart.ErrBucketMismatch))
			for _, s := range surfaces {
				Expect(s.clears).To(Equal(0))
			}
		})

		It("recovers after a later good reset", func() {
			p := smallParams()
			p.Particles = 0
			Expect(session.Reset(uniformExperiment(), p)).NotTo(Succeed())
			Expect(session.Reset(uniformExperiment(), smallParams())).To(Succeed())
			_, err := session.Tick()
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Context("with a surface too small to plot", func() {
		It("fails the reset", func() {
			tiny := &countingSurface{w: 10, h: 10}
			s, _ := newSurfaces()
			s.AvgVy = tiny
			session = pipeline.New(factory.build, s)
			err := session.Reset(uniformExperiment(), smallParams())
			Expect(err).To(MatchError(chart.ErrSurfaceTooSmall))
		})
	})
})

var _ = Describe("Instruments", func() {
	It("fills missing instruments with discarding ones", func() {
		ticks := generic.NewCounter("ticks")
		factory := &fakeFactory{}
		s, _ := newSurfaces()
		session := pipeline.New(factory.build, s, pipeline.WithInstruments(pipeline.Instruments{Ticks: ticks}))
		Expect(session.Reset(uniformExperiment(), smallParams())).To(Succeed())
		Expect(session.Run(context.Background(), 2)).To(Succeed())
		Expect(ticks.Value()).To(Equal(2.0))
	})
})

var _ = Describe("Ensemble", func() {
	It("averages runs over consecutive seeds", func() {
		factory := &fakeFactory{}
		e := pipeline.NewEnsemble(factory.build, 3, 10)
		res, err := e.Run(context.Background(), uniformExperiment(), smallParams(), 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Runs).To(Equal(3))
		Expect(res.AvgVx).To(HaveLen(5))
		// Every fake run sees levels 1..4.
		Expect(res.AvgVx).To(HaveEach(BeNumerically("~", 2.5, 1e-12)))
		Expect(res.AvgVy).To(HaveEach(BeNumerically("~", 5.0, 1e-12)))
		Expect(res.Drift).To(HaveLen(3))
		Expect(factory.built).To(HaveLen(3))
	})

	It("rejects an empty ensemble", func() {
		factory := &fakeFactory{}
		_, err := pipeline.NewEnsemble(factory.build, 0, 1).Run(context.Background(), uniformExperiment(), smallParams(), 1)
		Expect(err).To(HaveOccurred())
	})
})
