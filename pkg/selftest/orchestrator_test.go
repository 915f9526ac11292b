package selftest_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/xanderflood/pincheck/pkg/board"
	"github.com/xanderflood/pincheck/pkg/clock"
	"github.com/xanderflood/pincheck/pkg/selftest"
)

var _ = Describe("Next", func() {
	It("cycles through the passes without returning to Init", func() {
		s := selftest.Init
		var seen []selftest.State
		for i := 0; i < 13; i++ {
			s = selftest.Next(s)
			seen = append(seen, s)
		}
		Expect(seen[:6]).To(Equal([]selftest.State{
			selftest.CheckDigitalHigh,
			selftest.CheckAnalogHigh,
			selftest.SignalPhaseBoundary,
			selftest.CheckDigitalLow,
			selftest.CheckAnalogLow,
			selftest.SignalCycleEnd,
		}))
		Expect(seen[6:12]).To(Equal(seen[:6]))
		Expect(seen).NotTo(ContainElement(selftest.Init))
	})

	It("names its states", func() {
		Expect(selftest.SignalPhaseBoundary.String()).To(Equal("SIGNAL_PHASE_BOUNDARY"))
		Expect(selftest.State(42).String()).To(Equal("State(42)"))
	})
})

var _ = Describe("Orchestrator", func() {
	var (
		plan  selftest.Plan
		sim   *board.Sim
		tr    *transcript
		sig   *signaller
		orch  *selftest.Orchestrator
		steps []selftest.Step
	)

	BeforeEach(func() {
		plan = selftest.Plan{Digital: []int{0, 1}, Analog: []int{0}, Indicator: 14}
		tr = &transcript{}
		sig = &signaller{t: tr}
		steps = nil
	})

	JustBeforeEach(func() {
		p, err := board.NewSim(board.Options{Digital: plan.Digital, Analog: plan.Analog, Indicator: plan.Indicator})
		Expect(err).NotTo(HaveOccurred())
		sim = p.(*board.Sim)

		checker := selftest.NewChecker(sim, sig, tr)
		checker.Clock = &clock.Recorder{}
		orch = selftest.NewOrchestrator(plan, checker, sig)
		orch.OnStep = func(s selftest.Step) { steps = append(steps, s) }
	})

	It("runs the HIGH pass, a boundary, the LOW pass and the cycle end", func() {
		Expect(orch.RunCycles(context.Background(), 1)).To(Succeed())

		Expect(tr.signals()).To(Equal([]int{
			3, 1, 3, 1, 3, 1,
			4,
			3, 2, 3, 2, 3, 2,
			4, 4,
		}))
		Expect(tr.lines()).To(Equal([]string{
			"checking 2 digital pins for HIGH",
			"D0 1 ok",
			"D1 1 ok",
			"checking 1 analog pins for HIGH",
			"A0 1023 ok",
			"checking 2 digital pins for LOW",
			"D0 1 nok",
			"D1 1 nok",
			"checking 1 analog pins for LOW",
			"A0 1023 nok",
		}))
	})

	It("initializes once and then repeats the cycle", func() {
		Expect(orch.RunCycles(context.Background(), 2)).To(Succeed())

		var states []selftest.State
		for _, s := range steps {
			states = append(states, s.State)
		}
		Expect(states).To(HaveLen(13))
		Expect(states[0]).To(Equal(selftest.Init))
		Expect(states[1:7]).To(Equal(states[7:13]))
		Expect(steps[12].Cycle).To(Equal(2))

		Expect(sig.lit).To(Equal([]bool{false}))
		ok, nok := selftest.Tally(steps[1].Results)
		Expect([]int{ok, nok}).To(Equal([]int{2, 0}))
	})

	It("leaves every pin floating between passes", func() {
		orch.OnStep = func(selftest.Step) {
			for _, id := range plan.Digital {
				Expect(sim.MockDigital(id).Floating()).To(BeTrue())
			}
			Expect(sim.MockAnalog(0).Floating()).To(BeTrue())
		}
		Expect(orch.RunCycles(context.Background(), 1)).To(Succeed())
	})

	It("runs until cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		orch.OnStep = func(s selftest.Step) {
			if s.Cycle == 3 && s.State == selftest.CheckAnalogHigh {
				cancel()
			}
		}

		err := orch.Run(ctx)
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(tr.signals()[len(tr.signals())-1]).To(Equal(1))
	})

	Context("when the indicator is one of the digital pins", func() {
		BeforeEach(func() {
			plan = selftest.Plan{Digital: []int{0, 14}, Indicator: 14}
		})

		It("refuses to start", func() {
			err := orch.RunCycles(context.Background(), 1)
			Expect(errors.Is(err, selftest.ErrIndicatorUnderTest)).To(BeTrue())
			Expect(tr.events).To(BeEmpty())
		})

		It("warns on every digital pass when allowed", func() {
			plan.AllowIndicatorUnderTest = true
			orch.Plan = plan

			Expect(orch.RunCycles(context.Background(), 1)).To(Succeed())
			warnings := 0
			for _, l := range tr.lines() {
				if l == "WARNING: indicator line D14 is under test; blink output during its window is unreliable" {
					warnings++
				}
			}
			Expect(warnings).To(Equal(2))
		})
	})
})

var _ = Describe("Plan", func() {
	It("defaults to a dedicated indicator", func() {
		p := selftest.DefaultPlan()
		Expect(p.Digital).To(HaveLen(14))
		Expect(p.Analog).To(HaveLen(8))
		Expect(p.IndicatorUnderTest()).To(BeFalse())
		Expect(p.IndicatorLine()).To(Equal(selftest.NoLine))
		Expect(p.Validate()).To(Succeed())
	})

	It("rejects duplicate pins", func() {
		p := selftest.Plan{Digital: []int{1, 2, 1}, Indicator: 14}
		Expect(p.Validate()).To(MatchError(ContainSubstring("digital pin 1 listed twice")))
	})
})
