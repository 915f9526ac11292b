package selftest

import (
	"github.com/xanderflood/pincheck/pkg/board"
	"github.com/xanderflood/pincheck/pkg/gpio"
)

//InitializeAsInput leave every listed pin as a floating input. Calling it
//again changes nothing.
func InitializeAsInput(b board.Provider, class Class, pins []int) error {
	for _, id := range pins {
		pin, err := lookup(b, class, id)
		if err != nil {
			return err
		}
		gpio.Float(pin)
	}
	return nil
}

//target the part of a pin the checker configures, whatever its class
type target interface {
	gpio.Floater
	gpio.Biased
}

func lookup(b board.Provider, class Class, id int) (target, error) {
	if class == Analog {
		return b.Analog(id)
	}
	return b.Digital(id)
}
