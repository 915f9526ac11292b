package selftest

import (
	"fmt"

	"github.com/xanderflood/pincheck/pkg/gpio"
)

//Class how a pin is read
type Class int

const (
	//Digital binary read
	Digital Class = iota
	//Analog ranged sample collapsed by thresholds
	Analog
)

//Tag the single-letter prefix used in log records
func (c Class) Tag() string {
	if c == Analog {
		return "A"
	}
	return "D"
}

func (c Class) String() string {
	if c == Analog {
		return "analog"
	}
	return "digital"
}

//Result outcome of testing one pin
type Result struct {
	Class    Class
	Pin      int
	Expected gpio.State

	//Raw the measured value: 0/1 for digital pins, the sample for analog ones
	Raw int
	//Level the collapsed reading, meaningful only when Determinate
	Level       gpio.State
	Determinate bool
	//Err a failed analog conversion
	Err error

	OK bool
}

func (r Result) verdict() string {
	if r.OK {
		return "ok"
	}
	return "nok"
}

//String the record line written to the text channel
func (r Result) String() string {
	line := fmt.Sprintf("%s%d %d %s", r.Class.Tag(), r.Pin, r.Raw, r.verdict())
	if r.Err != nil {
		line += fmt.Sprintf(" (read error: %v)", r.Err)
	}
	return line
}

//Tally count passing and failing results
func Tally(results []Result) (ok, nok int) {
	for _, r := range results {
		if r.OK {
			ok++
		} else {
			nok++
		}
	}
	return ok, nok
}
