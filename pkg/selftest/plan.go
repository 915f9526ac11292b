package selftest

import (
	"errors"
	"fmt"
)

//ErrIndicatorUnderTest the indicator line is also listed as a digital pin
var ErrIndicatorUnderTest = errors.New("indicator line is also a pin under test")

//NoLine marks a checker with no indicator line among its digital pins
const NoLine = -1

//Plan which pins exist, in test order
type Plan struct {
	Digital   []int
	Analog    []int
	Indicator int

	//AllowIndicatorUnderTest keep a board mapping where the indicator is
	//one of the digital pins. Blinks during its own window are unreliable.
	AllowIndicatorUnderTest bool
}

//DefaultPlan fourteen digital and eight analog pins with a dedicated indicator
func DefaultPlan() Plan {
	p := Plan{Indicator: 14}
	for i := 0; i < 14; i++ {
		p.Digital = append(p.Digital, i)
	}
	for i := 0; i < 8; i++ {
		p.Analog = append(p.Analog, i)
	}
	return p
}

//Validate reject duplicate pins and, unless allowed, an indicator under test
func (p Plan) Validate() error {
	if err := unique(Digital, p.Digital); err != nil {
		return err
	}
	if err := unique(Analog, p.Analog); err != nil {
		return err
	}
	if p.IndicatorUnderTest() && !p.AllowIndicatorUnderTest {
		return fmt.Errorf("%w: D%d", ErrIndicatorUnderTest, p.Indicator)
	}
	return nil
}

//IndicatorUnderTest whether the indicator line is one of the digital pins
func (p Plan) IndicatorUnderTest() bool {
	return contains(p.Digital, p.Indicator)
}

//IndicatorLine the identifier a checker should warn about, or NoLine
func (p Plan) IndicatorLine() int {
	if p.IndicatorUnderTest() {
		return p.Indicator
	}
	return NoLine
}

func unique(class Class, pins []int) error {
	seen := map[int]bool{}
	for _, id := range pins {
		if seen[id] {
			return fmt.Errorf("%s pin %d listed twice", class, id)
		}
		seen[id] = true
	}
	return nil
}

func contains(pins []int, id int) bool {
	for _, p := range pins {
		if p == id {
			return true
		}
	}
	return false
}
