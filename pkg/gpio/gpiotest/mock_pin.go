package gpiotest

import (
	"fmt"

	"github.com/xanderflood/pincheck/pkg/gpio"
)

//Call one recorded interaction with a mock pin
type Call string

const (
	CallInput   Call = "input"
	CallOutput  Call = "output"
	CallHigh    Call = "high"
	CallLow     Call = "low"
	CallRead    Call = "read"
	CallPullUp  Call = "pullup"
	CallPullOff Call = "pulloff"
	CallSample  Call = "sample"
)

//Wire what the operator has connected to a pin
type Wire int

const (
	//Open nothing attached, the pin floats or follows its pull-up
	Open Wire = iota
	//Ground bridged to ground
	Ground
	//Supply tied to the supply rail
	Supply
)

//ParseWire parse a wiring name as used in board profiles
func ParseWire(s string) (Wire, error) {
	switch s {
	case "open", "":
		return Open, nil
	case "ground", "gnd", "low":
		return Ground, nil
	case "supply", "vcc", "high":
		return Supply, nil
	}
	return Open, fmt.Errorf("unknown wiring `%s`", s)
}

//Mode pin direction
type Mode int

const (
	ModeInput Mode = iota
	ModeOutput
)

//MockPin an in-memory gpio.Pin that records every call
type MockPin struct {
	index int

	Wire Wire
	//FloatLevel what an open pin reads with no pull-up
	FloatLevel gpio.State
	//OnRead runs before every Read so a test can rewire mid-sequence
	OnRead func(*MockPin)

	mode   Mode
	pullUp bool
	driven gpio.State
	calls  []Call
}

//NewMockPin a floating input
func NewMockPin(index int) *MockPin {
	return &MockPin{index: index}
}

func (p *MockPin) Index() int { return p.index }

func (p *MockPin) Input() {
	p.mode = ModeInput
	p.calls = append(p.calls, CallInput)
}

func (p *MockPin) Output() {
	p.mode = ModeOutput
	p.calls = append(p.calls, CallOutput)
}

func (p *MockPin) High() {
	p.driven = gpio.High
	p.calls = append(p.calls, CallHigh)
}

func (p *MockPin) Low() {
	p.driven = gpio.Low
	p.calls = append(p.calls, CallLow)
}

func (p *MockPin) PullUp() {
	p.pullUp = true
	p.calls = append(p.calls, CallPullUp)
}

func (p *MockPin) PullOff() {
	p.pullUp = false
	p.calls = append(p.calls, CallPullOff)
}

func (p *MockPin) Read() gpio.State {
	p.calls = append(p.calls, CallRead)
	if p.OnRead != nil {
		p.OnRead(p)
	}
	if p.mode == ModeOutput {
		return p.driven
	}
	switch p.Wire {
	case Ground:
		return gpio.Low
	case Supply:
		return gpio.High
	}
	if p.pullUp {
		return gpio.High
	}
	return p.FloatLevel
}

//Mode current direction
func (p *MockPin) Mode() Mode { return p.mode }

//PulledUp whether the pull-up is currently enabled
func (p *MockPin) PulledUp() bool { return p.pullUp }

//Driven last level written while in output mode
func (p *MockPin) Driven() gpio.State { return p.driven }

//Floating input mode with no pull-up
func (p *MockPin) Floating() bool {
	return p.mode == ModeInput && !p.pullUp
}

//Calls every recorded interaction, oldest first
func (p *MockPin) Calls() []Call {
	return append([]Call(nil), p.calls...)
}

//Count number of recorded calls of one kind
func (p *MockPin) Count(c Call) int {
	n := 0
	for _, call := range p.calls {
		if call == c {
			n++
		}
	}
	return n
}

//Reset forget the recorded calls, keeping the pin state
func (p *MockPin) Reset() {
	p.calls = nil
}
