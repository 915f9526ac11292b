package analog

import (
	"errors"
	"fmt"

	periphanalog "periph.io/x/periph/experimental/conn/analog"

	"github.com/xanderflood/pincheck/pkg/gpio"
)

//ErrThresholds the threshold policy cannot separate HIGH from LOW
var ErrThresholds = errors.New("invalid analog thresholds")

//Pin an analog input that can be biased and sampled
type Pin interface {
	Input()
	gpio.PullPin
	Sample() (int, error)
}

//Thresholds collapses a raw sample into a logic level. Samples above High
//read HIGH, samples below Low read LOW and anything in [Low, High] is
//indeterminate.
type Thresholds struct {
	Max  int `json:"max"`
	High int `json:"high"`
	Low  int `json:"low"`
}

//DefaultThresholds suits a 10-bit ADC
var DefaultThresholds = Thresholds{Max: 1023, High: 950, Low: 100}

//Validate check that the bands are ordered and fit the sample range
func (t Thresholds) Validate() error {
	if t.Max <= 0 {
		return fmt.Errorf("%w: max %d must be positive", ErrThresholds, t.Max)
	}
	if t.Low < 0 || t.Low >= t.High {
		return fmt.Errorf("%w: low %d must be below high %d", ErrThresholds, t.Low, t.High)
	}
	if t.High > t.Max {
		return fmt.Errorf("%w: high %d exceeds max %d", ErrThresholds, t.High, t.Max)
	}
	return nil
}

//Classify map a raw sample to a level. ok is false when the sample sits in
//the dead band, in which case it matches neither level.
func (t Thresholds) Classify(raw int) (level gpio.State, ok bool) {
	switch {
	case raw > t.High:
		return gpio.High, true
	case raw < t.Low:
		return gpio.Low, true
	default:
		return gpio.Low, false
	}
}

//Rescale keep the same high/low ratios for an ADC with a different full scale
func (t Thresholds) Rescale(max int) Thresholds {
	if t.Max == max || t.Max <= 0 {
		return Thresholds{Max: max, High: t.High, Low: t.Low}
	}
	scale := func(v int) int {
		return int(int64(v) * int64(max) / int64(t.Max))
	}
	return Thresholds{Max: max, High: scale(t.High), Low: scale(t.Low)}
}

//ADCPin exposes a periph ADC channel as a Pin. Channels on an external
//converter carry no pull resistor, so Input, PullUp and PullOff do nothing and
//an unconnected channel reads whatever the line floats to.
type ADCPin struct {
	adc periphanalog.PinADC
}

//FromADC wrap a periph ADC channel
func FromADC(adc periphanalog.PinADC) *ADCPin {
	return &ADCPin{adc: adc}
}

func (p *ADCPin) Input()   {}
func (p *ADCPin) PullUp()  {}
func (p *ADCPin) PullOff() {}

//Sample read the raw converter value
func (p *ADCPin) Sample() (int, error) {
	sample, err := p.adc.Read()
	if err != nil {
		return 0, fmt.Errorf("failed sampling %s: %w", p.adc.String(), err)
	}
	if sample.Raw < 0 {
		return 0, nil
	}
	return int(sample.Raw), nil
}

//Halt stop the underlying converter channel
func (p *ADCPin) Halt() error {
	return p.adc.Halt()
}
