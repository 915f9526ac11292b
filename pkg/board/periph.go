package board

import (
	"fmt"
	"strconv"

	"github.com/golang/glog"
	pgpio "periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"

	"github.com/xanderflood/pincheck/pkg/analog"
	"github.com/xanderflood/pincheck/pkg/gpio"
)

//Periph a host board driven through periph.io's pin registry
type Periph struct {
	pins map[int]*periphPin
	ads  *adsBank
}

//NewPeriph initialize periph.io and resolve every pin up front, so a typo in
//a profile fails before the first test sequence starts
func NewPeriph(opts Options) (Provider, error) {
	if err := checkChannels(opts.Analog); err != nil {
		return nil, err
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed initializing periph.io host: %w", err)
	}

	p := &Periph{pins: map[int]*periphPin{}}
	for _, id := range append(append([]int(nil), opts.Digital...), opts.Indicator) {
		// Use gpioreg GPIO pin registry to find a GPIO pin by name.
		pin := gpioreg.ByName(strconv.Itoa(id))
		if pin == nil {
			return nil, unknown("D", id)
		}
		p.pins[id] = &periphPin{pin: pin, pull: pgpio.Float}
	}

	if len(opts.Analog) > 0 {
		ads, err := openADS(opts.Analog)
		if err != nil {
			return nil, err
		}
		p.ads = ads

		var numbers []int
		for _, pin := range p.pins {
			numbers = append(numbers, pin.pin.Number())
		}
		if err := checkBus(numbers, ads.busPins()); err != nil {
			_ = p.Close()
			return nil, err
		}
	}
	return p, nil
}

func (p *Periph) Digital(id int) (gpio.Pin, error) {
	if pin, ok := p.pins[id]; ok {
		return pin, nil
	}
	return nil, unknown("D", id)
}

func (p *Periph) Analog(id int) (analog.Pin, error) {
	return p.ads.Analog(id)
}

func (p *Periph) ADCMax() int {
	return p.ads.ADCMax()
}

func (p *Periph) Close() error {
	for _, pin := range p.pins {
		_ = pin.pin.Halt()
	}
	return p.ads.Close()
}

//periphPin adapts a periph.io pin to the register-style gpio.Pin. periph sets
//direction and pull in one call, so the pull is remembered and re-applied.
type periphPin struct {
	pin   pgpio.PinIO
	pull  pgpio.Pull
	input bool
}

func (p *periphPin) apply() {
	if err := p.pin.In(p.pull, pgpio.NoEdge); err != nil {
		glog.Warningf("failed configuring %s as input: %v", p.pin, err)
	}
}

func (p *periphPin) out(l pgpio.Level) {
	if err := p.pin.Out(l); err != nil {
		glog.Warningf("failed driving %s: %v", p.pin, err)
	}
}

func (p *periphPin) Input() {
	p.input = true
	p.apply()
}

func (p *periphPin) Output() {
	p.input = false
	p.out(pgpio.Low)
}

func (p *periphPin) High() { p.out(pgpio.High) }
func (p *periphPin) Low()  { p.out(pgpio.Low) }

func (p *periphPin) Read() gpio.State {
	if p.pin.Read() == pgpio.High {
		return gpio.High
	}
	return gpio.Low
}

func (p *periphPin) PullUp() {
	p.pull = pgpio.PullUp
	if p.input {
		p.apply()
	}
}

func (p *periphPin) PullOff() {
	p.pull = pgpio.Float
	if p.input {
		p.apply()
	}
}
