package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"

	"github.com/xanderflood/pincheck/pkg/board"
	"github.com/xanderflood/pincheck/pkg/clock"
	"github.com/xanderflood/pincheck/pkg/indicator"
	"github.com/xanderflood/pincheck/pkg/selftest"
)

var (
	profilePath = flag.String("profile", "", "JSON board profile; a simulated board is used when empty")
	backend     = flag.String("backend", "", "override the profile's board backend")
	outPath     = flag.String("out", "", "text channel: a file or serial device, stdout when empty")
	cycles      = flag.Int("cycles", 0, "number of full HIGH/LOW cycles to run, 0 runs until interrupted")
	window      = flag.Duration("window", 0, "override the per-pin reaction window")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	profile, err := LoadProfile(*profilePath)
	if err != nil {
		glog.Exitf("failed loading profile: %v", err)
	}
	if *backend != "" {
		profile.Backend = *backend
	}
	if *window > 0 {
		profile.ReactionWindow = Duration(*window)
	}

	out, closeOut, err := openOut(*outPath)
	if err != nil {
		glog.Exitf("failed opening text channel: %v", err)
	}
	defer closeOut()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handleSignals(cancel)

	if err := run(ctx, profile, out, *cycles, clock.System{}); err != nil && ctx.Err() == nil {
		glog.Errorf("self-test aborted: %v", err)
		glog.Flush()
		os.Exit(1)
	}
}

func run(ctx context.Context, profile Profile, out io.Writer, cycles int, sys clock.Sleeper) error {
	plan := profile.Plan()
	if err := plan.Validate(); err != nil {
		return err
	}

	b, err := board.Open(profile.Backend, profile.BoardOptions())
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			glog.Warningf("failed closing board: %v", err)
		}
	}()
	glog.Infof("testing %d digital and %d analog pins on the %s board", len(plan.Digital), len(plan.Analog), profile.Backend)

	thresholds, err := profile.ThresholdsFor(b.ADCMax())
	if err != nil {
		return err
	}

	line, err := b.Digital(plan.Indicator)
	if err != nil {
		return err
	}
	ind := indicator.New(line, profile.IndicatorInverted, sys)
	// leave the indicator dark however the run ends
	defer ind.Set(false)

	checker := selftest.NewChecker(b, ind, out)
	checker.Clock = sys
	checker.Thresholds = thresholds
	checker.Window = time.Duration(profile.ReactionWindow)

	orch := selftest.NewOrchestrator(plan, checker, ind)
	orch.OnStep = newCycleSummary().observe
	if plan.IndicatorUnderTest() {
		glog.Warningf("indicator line D%d doubles as a pin under test", plan.Indicator)
	}

	return orch.RunCycles(ctx, cycles)
}

//cycleSummary counts outcomes over one full cycle
type cycleSummary struct {
	ok, nok int
	logf    func(format string, args ...interface{})
}

func newCycleSummary() *cycleSummary {
	return &cycleSummary{logf: glog.V(1).Infof}
}

func (s *cycleSummary) observe(step selftest.Step) {
	ok, nok := selftest.Tally(step.Results)
	s.ok += ok
	s.nok += nok

	if step.State == selftest.SignalCycleEnd {
		s.logf("cycle %d complete: %d ok, %d nok", step.Cycle, s.ok, s.nok)
		s.ok, s.nok = 0, 0
	}
}

func openOut(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

//handleSignals cancel on CtrlC or SIGTERM, exit hard on a second one
func handleSignals(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		glog.Info("stop requested")
		cancel()
		<-sigCh
		glog.Error("stop requested again, force exit")
		glog.Flush()
		os.Exit(2)
	}()
}
