package selftest

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/xanderflood/pincheck/pkg/gpio"
	"github.com/xanderflood/pincheck/pkg/indicator"
)

//BoundaryPulses marks the switch from the HIGH pass to the LOW pass, and
//twice over the end of a cycle
const BoundaryPulses = 4

//State one step of the test sequence
type State int

const (
	Init State = iota
	CheckDigitalHigh
	CheckAnalogHigh
	SignalPhaseBoundary
	CheckDigitalLow
	CheckAnalogLow
	SignalCycleEnd
)

var stateNames = map[State]string{
	Init:                "INIT",
	CheckDigitalHigh:    "CHECK_DIGITAL_HIGH",
	CheckAnalogHigh:     "CHECK_ANALOG_HIGH",
	SignalPhaseBoundary: "SIGNAL_PHASE_BOUNDARY",
	CheckDigitalLow:     "CHECK_DIGITAL_LOW",
	CheckAnalogLow:      "CHECK_ANALOG_LOW",
	SignalCycleEnd:      "SIGNAL_CYCLE_END",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

//Next the fixed successor of a state. Init is never re-entered.
func Next(s State) State {
	if s >= SignalCycleEnd || s < Init {
		return CheckDigitalHigh
	}
	return s + 1
}

//Line an indicator that can also be parked dark
type Line interface {
	indicator.Signaller
	Set(on bool)
}

//Step what the orchestrator just finished
type Step struct {
	State   State
	Cycle   int
	Results []Result
}

//Orchestrator runs the HIGH pass then the LOW pass over every pin, forever
type Orchestrator struct {
	Plan      Plan
	Checker   *Checker
	Indicator Line

	//OnStep called after every completed state
	OnStep func(Step)
}

//NewOrchestrator wire a checker to a plan
func NewOrchestrator(plan Plan, checker *Checker, ind Line) *Orchestrator {
	checker.IndicatorLine = plan.IndicatorLine()
	return &Orchestrator{
		Plan:      plan,
		Checker:   checker,
		Indicator: ind,
	}
}

//Run initialize once and cycle until ctx is cancelled
func (o *Orchestrator) Run(ctx context.Context) error {
	return o.RunCycles(ctx, 0)
}

//RunCycles initialize once, then run n full cycles. n <= 0 runs until ctx is
//cancelled.
func (o *Orchestrator) RunCycles(ctx context.Context, n int) error {
	if err := o.Plan.Validate(); err != nil {
		return err
	}
	if err := o.step(ctx, Init, 0); err != nil {
		return err
	}

	for cycle := 1; n <= 0 || cycle <= n; cycle++ {
		for s := Next(Init); ; s = Next(s) {
			if err := o.step(ctx, s, cycle); err != nil {
				return err
			}
			if s == SignalCycleEnd {
				break
			}
		}
	}
	return nil
}

func (o *Orchestrator) step(ctx context.Context, s State, cycle int) error {
	glog.V(2).Infof("cycle %d: %s", cycle, s)

	var (
		results []Result
		err     error
	)
	switch s {
	case Init:
		err = o.initialize()
	case CheckDigitalHigh:
		results, err = o.Checker.Check(ctx, Digital, o.Plan.Digital, gpio.High)
	case CheckAnalogHigh:
		results, err = o.Checker.Check(ctx, Analog, o.Plan.Analog, gpio.High)
	case SignalPhaseBoundary:
		err = o.Indicator.Signal(ctx, BoundaryPulses)
	case CheckDigitalLow:
		results, err = o.Checker.Check(ctx, Digital, o.Plan.Digital, gpio.Low)
	case CheckAnalogLow:
		results, err = o.Checker.Check(ctx, Analog, o.Plan.Analog, gpio.Low)
	case SignalCycleEnd:
		if err = o.Indicator.Signal(ctx, BoundaryPulses); err == nil {
			err = o.Indicator.Signal(ctx, BoundaryPulses)
		}
	default:
		err = fmt.Errorf("unexpected state %s", s)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", s, err)
	}

	if o.OnStep != nil {
		o.OnStep(Step{State: s, Cycle: cycle, Results: results})
	}
	return nil
}

func (o *Orchestrator) initialize() error {
	o.Indicator.Set(false)
	if err := InitializeAsInput(o.Checker.Board, Digital, o.Plan.Digital); err != nil {
		return err
	}
	return InitializeAsInput(o.Checker.Board, Analog, o.Plan.Analog)
}
