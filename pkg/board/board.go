package board

import (
	"errors"
	"fmt"
	"sort"

	"github.com/xanderflood/pincheck/pkg/analog"
	"github.com/xanderflood/pincheck/pkg/gpio"
)

//ErrUnknownPin the board has no pin with that identifier
var ErrUnknownPin = errors.New("no such pin")

//Provider hands out the pins of one board
type Provider interface {
	Digital(id int) (gpio.Pin, error)
	Analog(id int) (analog.Pin, error)
	//ADCMax full-scale analog sample, 0 when the board has no analog pins
	ADCMax() int

	Close() error
}

//Options what a backend needs to know to open a board
type Options struct {
	Digital   []int
	Analog    []int
	Indicator int

	//I2C sample analog pins through an ADS1115 on the default bus
	I2C bool
	//Wiring simulated connections, keyed "D5" or "A3"
	Wiring map[string]string
	//ADCMax simulated full scale
	ADCMax int
}

//Factory opens a backend
type Factory func(Options) (Provider, error)

//Index every backend, by the name used in profiles
var Index = map[string]Factory{
	"sim":    NewSim,
	"rpio":   NewRPIO,
	"periph": NewPeriph,
}

//Backends sorted backend names
func Backends() []string {
	names := make([]string, 0, len(Index))
	for name := range Index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

//Open a board through the named backend
func Open(backend string, opts Options) (Provider, error) {
	factory, ok := Index[backend]
	if !ok {
		return nil, fmt.Errorf("no such board backend `%s` (have %v)", backend, Backends())
	}
	p, err := factory(opts)
	if err != nil {
		return nil, fmt.Errorf("failed opening %s board: %w", backend, err)
	}
	return p, nil
}

func unknown(tag string, id int) error {
	return fmt.Errorf("%w: %s%d", ErrUnknownPin, tag, id)
}
