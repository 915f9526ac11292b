package board

import (
	"fmt"

	rpio "github.com/stianeikeland/go-rpio"

	"github.com/xanderflood/pincheck/pkg/analog"
	"github.com/xanderflood/pincheck/pkg/gpio"
)

//bcmPins number of lines the BCM2835 register window exposes
const bcmPins = 54

//i2c1Pins BCM numbers of SDA1 and SCL1, the bus the ADS1115 hangs off
var i2c1Pins = []int{2, 3}

var _ gpio.Pin = rpio.Pin(0)

//RPIO a Raspberry Pi driven through memory-mapped registers. Identifiers are
//BCM numbers.
type RPIO struct {
	ads *adsBank
}

//NewRPIO map the GPIO registers and, when asked, the ADS1115 channels
func NewRPIO(opts Options) (Provider, error) {
	if err := checkRPIO(opts); err != nil {
		return nil, err
	}
	if err := gpio.Setup(); err != nil {
		return nil, err
	}

	r := &RPIO{}
	if len(opts.Analog) > 0 {
		ads, err := openADS(opts.Analog)
		if err != nil {
			_ = gpio.Teardown()
			return nil, err
		}
		r.ads = ads
	}
	return r, nil
}

func (r *RPIO) Digital(id int) (gpio.Pin, error) {
	if id < 0 || id >= bcmPins {
		return nil, unknown("D", id)
	}
	return rpio.Pin(id), nil
}

func (r *RPIO) Analog(id int) (analog.Pin, error) {
	return r.ads.Analog(id)
}

func (r *RPIO) ADCMax() int {
	return r.ads.ADCMax()
}

func (r *RPIO) Close() error {
	err := r.ads.Close()
	if cerr := gpio.Teardown(); err == nil {
		err = cerr
	}
	return err
}

//checkRPIO catch profiles the register backend cannot serve before touching
//the hardware
func checkRPIO(opts Options) error {
	if len(opts.Analog) > 0 && !opts.I2C {
		return fmt.Errorf("%w: rpio samples analog pins only through an ADS1115, set i2c", ErrNoAnalog)
	}
	if !opts.I2C {
		return nil
	}
	if err := checkChannels(opts.Analog); err != nil {
		return err
	}
	return checkBus(append(append([]int(nil), opts.Digital...), opts.Indicator), i2c1Pins)
}
