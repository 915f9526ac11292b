package board

import (
	"fmt"
	"strconv"

	"github.com/golang/glog"

	"github.com/xanderflood/pincheck/pkg/analog"
	"github.com/xanderflood/pincheck/pkg/gpio"
	"github.com/xanderflood/pincheck/pkg/gpio/gpiotest"
)

//Sim an in-memory board for dry runs
type Sim struct {
	digital map[int]*gpiotest.MockPin
	analog  map[int]*gpiotest.MockADC
	max     int
}

//NewSim build a simulated board. Wiring values are open, ground, supply,
//nopull (an open channel without a pull-up) or a fixed raw sample.
func NewSim(opts Options) (Provider, error) {
	max := opts.ADCMax
	if max <= 0 {
		max = analog.DefaultThresholds.Max
	}
	s := &Sim{
		digital: map[int]*gpiotest.MockPin{},
		analog:  map[int]*gpiotest.MockADC{},
		max:     max,
	}

	for _, id := range append(append([]int(nil), opts.Digital...), opts.Indicator) {
		s.digital[id] = gpiotest.NewMockPin(id)
	}
	for _, id := range opts.Analog {
		adc := gpiotest.NewMockADC(id)
		adc.Max = max
		s.analog[id] = adc
	}

	for key, wiring := range opts.Wiring {
		if err := s.wire(key, wiring); err != nil {
			return nil, err
		}
	}
	glog.V(1).Infof("simulated board with %d digital and %d analog pins", len(s.digital), len(s.analog))
	return s, nil
}

func (s *Sim) wire(key, wiring string) error {
	if len(key) < 2 {
		return fmt.Errorf("bad wiring key `%s`", key)
	}
	id, err := strconv.Atoi(key[1:])
	if err != nil {
		return fmt.Errorf("bad wiring key `%s`: %w", key, err)
	}

	switch key[0] {
	case 'D', 'd':
		pin, ok := s.digital[id]
		if !ok {
			return unknown("D", id)
		}
		w, err := gpiotest.ParseWire(wiring)
		if err != nil {
			return err
		}
		pin.Wire = w
	case 'A', 'a':
		adc, ok := s.analog[id]
		if !ok {
			return unknown("A", id)
		}
		if wiring == "nopull" {
			adc.NoPull = true
			return nil
		}
		if raw, err := strconv.Atoi(wiring); err == nil {
			adc.SetRaw(raw)
			return nil
		}
		w, err := gpiotest.ParseWire(wiring)
		if err != nil {
			return err
		}
		adc.Wire = w
	default:
		return fmt.Errorf("bad wiring key `%s`, expected D<n> or A<n>", key)
	}
	return nil
}

func (s *Sim) Digital(id int) (gpio.Pin, error) {
	if pin, ok := s.digital[id]; ok {
		return pin, nil
	}
	return nil, unknown("D", id)
}

func (s *Sim) Analog(id int) (analog.Pin, error) {
	if adc, ok := s.analog[id]; ok {
		return adc, nil
	}
	return nil, unknown("A", id)
}

//MockDigital the underlying mock, for inspection
func (s *Sim) MockDigital(id int) *gpiotest.MockPin { return s.digital[id] }

//MockAnalog the underlying mock, for inspection
func (s *Sim) MockAnalog(id int) *gpiotest.MockADC { return s.analog[id] }

func (s *Sim) ADCMax() int { return s.max }

func (s *Sim) Close() error { return nil }
