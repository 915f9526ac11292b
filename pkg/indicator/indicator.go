package indicator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xanderflood/pincheck/pkg/clock"
	"github.com/xanderflood/pincheck/pkg/gpio"
)

//Burst total length of one signal, however many pulses it carries
const Burst = time.Second

//ErrPulseCount a signal needs at least one pulse
var ErrPulseCount = errors.New("pulse count must be positive")

//Signaller emits pulse patterns a person can count
type Signaller interface {
	Signal(ctx context.Context, pulses int) error
}

//Indicator standard indicator line implementation
type Indicator struct {
	pin      gpio.OutputPin
	inverted bool
	clock    clock.Sleeper
}

//New drive an indicator line. inverted suits LEDs wired active-low.
func New(pin gpio.OutputPin, inverted bool, c clock.Sleeper) *Indicator {
	if c == nil {
		c = clock.System{}
	}
	return &Indicator{
		pin:      pin,
		inverted: inverted,
		clock:    c,
	}
}

//Set drive the line lit or dark
func (i *Indicator) Set(on bool) {
	val := (on != i.inverted) //xor
	gpio.Set(i.pin, val)
}

//Signal blink `pulses` times inside one Burst and leave the line dark. The
//line is put back into output mode first, since a test pass may have left it
//as an input.
func (i *Indicator) Signal(ctx context.Context, pulses int) (err error) {
	if pulses <= 0 {
		return fmt.Errorf("%w: got %d", ErrPulseCount, pulses)
	}

	half := Burst / time.Duration(2*pulses)
	defer i.Set(false)

	for n := 0; n < pulses; n++ {
		i.Set(true)
		if err = i.clock.Sleep(ctx, half); err != nil {
			return err
		}
		i.Set(false)
		if err = i.clock.Sleep(ctx, half); err != nil {
			return err
		}
	}
	return nil
}
