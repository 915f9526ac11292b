package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/xanderflood/pincheck/pkg/analog"
	"github.com/xanderflood/pincheck/pkg/board"
	"github.com/xanderflood/pincheck/pkg/selftest"
)

//Duration a time.Duration written as "2s" in profiles
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"2s\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

//Profile describes one board under test
type Profile struct {
	Backend string `json:"backend"`

	Digital                 []int `json:"digital"`
	Analog                  []int `json:"analog"`
	Indicator               *int  `json:"indicator"`
	IndicatorInverted       bool  `json:"indicator_inverted"`
	AllowIndicatorUnderTest bool  `json:"allow_indicator_under_test"`

	Thresholds     *analog.Thresholds `json:"thresholds"`
	ReactionWindow Duration           `json:"reaction_window"`

	I2C    bool              `json:"i2c"`
	Wiring map[string]string `json:"wiring"`
}

//DefaultProfile a simulated board with a dedicated indicator line
func DefaultProfile() Profile {
	plan := selftest.DefaultPlan()
	return Profile{
		Backend:        "sim",
		Digital:        plan.Digital,
		Analog:         plan.Analog,
		Indicator:      &plan.Indicator,
		ReactionWindow: Duration(selftest.DefaultWindow),
		Wiring: map[string]string{
			// no pull-up on these two, like the ATmega328 TQFP's ADC6/ADC7
			"A6": "nopull",
			"A7": "nopull",
		},
	}
}

//LoadProfile read a profile, filling anything it omits from the defaults
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	if path == "" {
		return p, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return p, fmt.Errorf("failed opening profile: %w", err)
	}
	defer f.Close()

	var loaded Profile
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&loaded); err != nil {
		return p, fmt.Errorf("failed decoding profile %s: %w", path, err)
	}
	return p.merge(loaded), nil
}

func (p Profile) merge(o Profile) Profile {
	if o.Backend != "" {
		p.Backend = o.Backend
	}
	if o.Digital != nil {
		p.Digital = o.Digital
	}
	if o.Analog != nil {
		p.Analog = o.Analog
		// the default wiring names default analog pins
		p.Wiring = nil
	}
	if o.Indicator != nil {
		p.Indicator = o.Indicator
	}
	if o.Thresholds != nil {
		p.Thresholds = o.Thresholds
	}
	if o.ReactionWindow > 0 {
		p.ReactionWindow = o.ReactionWindow
	}
	if o.Wiring != nil {
		p.Wiring = o.Wiring
	}
	p.IndicatorInverted = o.IndicatorInverted
	p.AllowIndicatorUnderTest = o.AllowIndicatorUnderTest
	p.I2C = o.I2C
	return p
}

//Plan the pin layout of the profile
func (p Profile) Plan() selftest.Plan {
	plan := selftest.Plan{
		Digital:                 p.Digital,
		Analog:                  p.Analog,
		Indicator:               selftest.DefaultPlan().Indicator,
		AllowIndicatorUnderTest: p.AllowIndicatorUnderTest,
	}
	if p.Indicator != nil {
		plan.Indicator = *p.Indicator
	}
	return plan
}

//BoardOptions what the backend needs to open the board
func (p Profile) BoardOptions() board.Options {
	plan := p.Plan()
	opts := board.Options{
		Digital:   plan.Digital,
		Analog:    plan.Analog,
		Indicator: plan.Indicator,
		I2C:       p.I2C,
		Wiring:    p.Wiring,
	}
	if p.Thresholds != nil {
		opts.ADCMax = p.Thresholds.Max
	}
	return opts
}

//ThresholdsFor the profile's thresholds, or the defaults scaled to the
//board's converter
func (p Profile) ThresholdsFor(adcMax int) (analog.Thresholds, error) {
	t := analog.DefaultThresholds
	if p.Thresholds != nil {
		t = *p.Thresholds
	} else if adcMax > 0 {
		t = t.Rescale(adcMax)
	}
	return t, t.Validate()
}
