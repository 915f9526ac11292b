package gpio

import (
	"fmt"
	"strings"

	rpio "github.com/stianeikeland/go-rpio"
)

//State IO pin state
type State = rpio.State

//States state names
var States = map[State]string{
	Low:  "low",
	High: "high",
}

const (
	//Low signal
	Low = rpio.Low

	//High signal
	High = rpio.High
)

//ParseState parse a state from a string
func ParseState(s string) (State, error) {
	if strings.ToLower(s) == States[Low] {
		return Low, nil
	} else if strings.ToLower(s) == States[High] {
		return High, nil
	}
	return State(0), fmt.Errorf("unexpected string %s, expected HIGH or LOW", s)
}

//Name upper-case name of a state, as printed in test banners
func Name(s State) string {
	return strings.ToUpper(States[s])
}

//Setup initialize memory buffers for GPIO
func Setup() error {
	return rpio.Open()
}

//Teardown release the memory buffers mapped by Setup
func Teardown() error {
	return rpio.Close()
}

//OutputPin minimal interface for a GPIO pin
type OutputPin interface {
	Output()
	High()
	Low()
}

//InputPin minimal interface for a GPIO pin
type InputPin interface {
	Input()
	Read() rpio.State
}

//PullPin a pin with a switchable pull-up resistor
type PullPin interface {
	PullUp()
	PullOff()
}

//Pin minimal interface for a GPIO pin. rpio.Pin satisfies it as is.
type Pin interface {
	OutputPin
	InputPin
	PullPin
}

//Floater anything that can be left as a non-driving, floating input
type Floater interface {
	Input()
	PullOff()
}

//Biased anything that can be configured as a pulled-up input
type Biased interface {
	Input()
	PullUp()
}

//Set sets the state of the pin
func Set(pin OutputPin, high bool) {
	pin.Output()
	if high {
		pin.High()
	} else {
		pin.Low()
	}
}

//Float leave the pin as an input with its pull-up disabled
func Float(pin Floater) {
	pin.Input()
	pin.PullOff()
}

//PullUpInput configure the pin as an input biased high
func PullUpInput(pin Biased) {
	pin.Input()
	pin.PullUp()
}
