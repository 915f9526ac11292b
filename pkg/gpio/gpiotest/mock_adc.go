package gpiotest

//MockADC an in-memory analog channel that records every call
type MockADC struct {
	index int

	Wire Wire
	//Max full-scale sample
	Max int
	//NoPull the channel has no pull-up, so an open channel floats mid-scale
	NoPull bool
	//Err returned from every Sample when set
	Err error

	fixed  *int
	mode   Mode
	pullUp bool
	calls  []Call
}

//NewMockADC a floating channel with a 10-bit range
func NewMockADC(index int) *MockADC {
	return &MockADC{index: index, Max: 1023}
}

//SetRaw pin every subsequent sample to one value
func (a *MockADC) SetRaw(raw int) {
	a.fixed = &raw
}

func (a *MockADC) Index() int { return a.index }

func (a *MockADC) Input() {
	a.mode = ModeInput
	a.calls = append(a.calls, CallInput)
}

func (a *MockADC) PullUp() {
	a.pullUp = true
	a.calls = append(a.calls, CallPullUp)
}

func (a *MockADC) PullOff() {
	a.pullUp = false
	a.calls = append(a.calls, CallPullOff)
}

func (a *MockADC) Sample() (int, error) {
	a.calls = append(a.calls, CallSample)
	if a.Err != nil {
		return 0, a.Err
	}
	if a.fixed != nil {
		return *a.fixed, nil
	}
	switch a.Wire {
	case Ground:
		return 0, nil
	case Supply:
		return a.Max, nil
	}
	if a.pullUp && !a.NoPull {
		return a.Max, nil
	}
	return a.Max / 2, nil
}

//PulledUp whether the pull-up is currently enabled
func (a *MockADC) PulledUp() bool { return a.pullUp }

//Floating input mode with no pull-up
func (a *MockADC) Floating() bool {
	return a.mode == ModeInput && !a.pullUp
}

//Calls every recorded interaction, oldest first
func (a *MockADC) Calls() []Call {
	return append([]Call(nil), a.calls...)
}

//Count number of recorded calls of one kind
func (a *MockADC) Count(c Call) int {
	n := 0
	for _, call := range a.calls {
		if call == c {
			n++
		}
	}
	return n
}
