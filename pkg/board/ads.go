package board

import (
	"errors"
	"fmt"
	"math"

	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/conn/physic"
	periphanalog "periph.io/x/periph/experimental/conn/analog"
	"periph.io/x/periph/experimental/devices/ads1x15"
	"periph.io/x/periph/host"

	"github.com/xanderflood/pincheck/pkg/analog"
)

const (
	//ADS1115Channels single-ended inputs on one converter, A0 to A3
	ADS1115Channels = 4

	//Rail the supply a pulled-up or tied-high channel sits at
	Rail = 5 * physic.Volt
)

var (
	//ErrNoAnalog the profile lists analog pins the backend cannot sample
	ErrNoAnalog = errors.New("analog pins unavailable")
	//ErrBusPin a pin under test carries the converter's I2C bus
	ErrBusPin = errors.New("pin is wired to the i2c bus")
)

var singleEnded = []ads1x15.Channel{
	ads1x15.Channel0,
	ads1x15.Channel1,
	ads1x15.Channel2,
	ads1x15.Channel3,
}

//FullScale raw count a sample reads at rail when the converter's range tops
//out at gain with rawMax counts
func FullScale(rail, gain physic.ElectricPotential, rawMax int32) int {
	if rawMax <= 0 {
		rawMax = math.MaxInt16
	}
	if gain <= 0 || rail >= gain {
		return int(rawMax)
	}
	return int(int64(rail) * int64(rawMax) / int64(gain))
}

func checkChannels(channels []int) error {
	for _, id := range channels {
		if id < 0 || id >= ADS1115Channels {
			return fmt.Errorf("%w: A%d, an ADS1115 has channels A0 to A%d", ErrUnknownPin, id, ADS1115Channels-1)
		}
	}
	return nil
}

//adsBank analog pins backed by one ADS1115 on the default I2C bus
type adsBank struct {
	bus  i2c.BusCloser
	pins map[int]*analog.ADCPin
	max  int
}

func openADS(channels []int) (*adsBank, error) {
	if err := checkChannels(channels); err != nil {
		return nil, err
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed initializing periph.io host: %w", err)
	}

	bus, err := i2creg.Open("")
	if err != nil {
		return nil, fmt.Errorf("failed opening default i2c bus: %w", err)
	}

	ads, err := ads1x15.NewADS1115(bus, &ads1x15.DefaultOpts)
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("failed initializing ADS1115 device: %w", err)
	}

	pins := map[int]periphanalog.PinADC{}
	for _, id := range channels {
		pin, err := ads.PinForChannel(singleEnded[id], Rail, 1*physic.Hertz, ads1x15.BestQuality)
		if err != nil {
			_ = newADSBank(bus, pins).Close()
			return nil, fmt.Errorf("failed opening ADS1115 channel %d: %w", id, err)
		}
		pins[id] = pin
	}
	return newADSBank(bus, pins), nil
}

//newADSBank wrap opened channels. The gain periph picks for Rail reaches
//past it, so the full scale is the count at Rail, not the converter maximum.
func newADSBank(bus i2c.BusCloser, pins map[int]periphanalog.PinADC) *adsBank {
	bank := &adsBank{bus: bus, pins: map[int]*analog.ADCPin{}}
	for id, pin := range pins {
		_, top := pin.Range()
		if fs := FullScale(Rail, top.V, top.Raw); bank.max == 0 || fs < bank.max {
			bank.max = fs
		}
		bank.pins[id] = analog.FromADC(pin)
	}
	return bank
}

func (b *adsBank) Analog(id int) (analog.Pin, error) {
	if b != nil {
		if pin, ok := b.pins[id]; ok {
			return pin, nil
		}
	}
	return nil, unknown("A", id)
}

func (b *adsBank) ADCMax() int {
	if b == nil {
		return 0
	}
	return b.max
}

//busPins GPIO numbers of SCL and SDA, when the bus reports them
func (b *adsBank) busPins() []int {
	if b == nil {
		return nil
	}
	p, ok := b.bus.(i2c.Pins)
	if !ok {
		return nil
	}
	var out []int
	for _, pin := range []interface{ Number() int }{p.SCL(), p.SDA()} {
		if pin != nil && pin.Number() >= 0 {
			out = append(out, pin.Number())
		}
	}
	return out
}

func (b *adsBank) Close() error {
	if b == nil {
		return nil
	}
	for _, pin := range b.pins {
		_ = pin.Halt()
	}
	if b.bus == nil {
		return nil
	}
	return b.bus.Close()
}

//checkBus refuse pins under test that carry the bus
func checkBus(ids []int, bus []int) error {
	for _, id := range ids {
		for _, b := range bus {
			if id == b {
				return fmt.Errorf("%w: D%d", ErrBusPin, id)
			}
		}
	}
	return nil
}
