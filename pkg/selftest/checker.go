package selftest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/xanderflood/pincheck/pkg/analog"
	"github.com/xanderflood/pincheck/pkg/board"
	"github.com/xanderflood/pincheck/pkg/clock"
	"github.com/xanderflood/pincheck/pkg/gpio"
	"github.com/xanderflood/pincheck/pkg/indicator"
)

const (
	//ReadyPulses announces the reaction window of the next pin
	ReadyPulses = 3
	//MatchPulses the pin read as expected
	MatchPulses = 1
	//MismatchPulses the pin did not
	MismatchPulses = 2

	//DefaultWindow time the operator gets to wire up each pin
	DefaultWindow = 2 * time.Second
)

//Checker tests pins one at a time and reports each outcome by blink and by
//a line on Out
type Checker struct {
	Board      board.Provider
	Indicator  indicator.Signaller
	Out        io.Writer
	Clock      clock.Sleeper
	Thresholds analog.Thresholds
	Window     time.Duration

	//IndicatorLine digital pin shared with the indicator, or NoLine
	IndicatorLine int
}

//NewChecker a checker with the default window and thresholds
func NewChecker(b board.Provider, ind indicator.Signaller, out io.Writer) *Checker {
	return &Checker{
		Board:         b,
		Indicator:     ind,
		Out:           out,
		Clock:         clock.System{},
		Thresholds:    analog.DefaultThresholds,
		Window:        DefaultWindow,
		IndicatorLine: NoLine,
	}
}

func (c *Checker) println(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(c.Out, format+"\n", args...); err != nil {
		glog.Warningf("failed writing to text channel: %v", err)
	}
}

//Check test every pin in order against the expected level. A mismatch is a
//normal outcome; the error is reserved for cancellation and for pins the
//board does not have. Results gathered before an error are still returned.
func (c *Checker) Check(ctx context.Context, class Class, pins []int, expected gpio.State) ([]Result, error) {
	c.println("checking %d %s pins for %s", len(pins), class, gpio.Name(expected))
	if class == Digital && c.IndicatorLine != NoLine && contains(pins, c.IndicatorLine) {
		c.println("WARNING: indicator line D%d is under test; blink output during its window is unreliable", c.IndicatorLine)
		glog.Warningf("indicator line D%d is under test, its blinks may corrupt its own reading", c.IndicatorLine)
	}

	results := make([]Result, 0, len(pins))
	for _, id := range pins {
		r, err := c.checkPin(ctx, class, id, expected)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

func (c *Checker) checkPin(ctx context.Context, class Class, id int, expected gpio.State) (Result, error) {
	pin, err := lookup(c.Board, class, id)
	if err != nil {
		return Result{}, err
	}

	if err := c.Indicator.Signal(ctx, ReadyPulses); err != nil {
		return Result{}, err
	}
	if err := c.Clock.Sleep(ctx, c.Window); err != nil {
		return Result{}, err
	}

	gpio.PullUpInput(pin)
	defer gpio.Float(pin)

	r := c.measure(class, id, pin)
	r.Expected = expected
	r.OK = r.Determinate && r.Level == expected

	c.println("%s", r)
	glog.V(2).Infof("%s%d expected %s raw %d determinate %v", class.Tag(), id, gpio.Name(expected), r.Raw, r.Determinate)

	pulses := MismatchPulses
	if r.OK {
		pulses = MatchPulses
	}
	if err := c.Indicator.Signal(ctx, pulses); err != nil {
		return r, err
	}
	return r, nil
}

func (c *Checker) measure(class Class, id int, pin target) Result {
	r := Result{Class: class, Pin: id}

	if class == Analog {
		raw, err := pin.(analog.Pin).Sample()
		if err != nil {
			r.Err = err
			return r
		}
		r.Raw = raw
		r.Level, r.Determinate = c.Thresholds.Classify(raw)
		return r
	}

	r.Level = pin.(gpio.InputPin).Read()
	r.Determinate = true
	if r.Level == gpio.High {
		r.Raw = 1
	}
	return r
}
