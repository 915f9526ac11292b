package gpio_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/xanderflood/pincheck/pkg/gpio"
	"github.com/xanderflood/pincheck/pkg/gpio/gpiotest"
)

var _ = Describe("ParseState", func() {
	It("accepts either case", func() {
		Expect(gpio.ParseState("HIGH")).To(Equal(gpio.High))
		Expect(gpio.ParseState("low")).To(Equal(gpio.Low))
	})

	It("rejects anything else", func() {
		_, err := gpio.ParseState("floating")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Name", func() {
	It("is upper case", func() {
		Expect(gpio.Name(gpio.High)).To(Equal("HIGH"))
		Expect(gpio.Name(gpio.Low)).To(Equal("LOW"))
	})
})

var _ = Describe("pin helpers", func() {
	var pin *gpiotest.MockPin

	BeforeEach(func() {
		pin = gpiotest.NewMockPin(3)
	})

	It("Set re-asserts output before driving", func() {
		gpio.Set(pin, true)
		Expect(pin.Calls()).To(Equal([]gpiotest.Call{gpiotest.CallOutput, gpiotest.CallHigh}))
		Expect(pin.Driven()).To(Equal(gpio.High))

		gpio.Set(pin, false)
		Expect(pin.Driven()).To(Equal(gpio.Low))
		Expect(pin.Mode()).To(Equal(gpiotest.ModeOutput))
	})

	It("Float leaves a non-driving input without pull-up", func() {
		gpio.PullUpInput(pin)
		Expect(pin.PulledUp()).To(BeTrue())

		gpio.Float(pin)
		Expect(pin.Floating()).To(BeTrue())

		gpio.Float(pin)
		Expect(pin.Floating()).To(BeTrue())
	})
})

var _ = Describe("MockPin", func() {
	It("follows its wiring and pull-up", func() {
		pin := gpiotest.NewMockPin(0)
		pin.Input()
		Expect(pin.Read()).To(Equal(gpio.Low))

		pin.PullUp()
		Expect(pin.Read()).To(Equal(gpio.High))

		pin.Wire = gpiotest.Ground
		Expect(pin.Read()).To(Equal(gpio.Low))
		Expect(pin.Count(gpiotest.CallRead)).To(Equal(3))
	})

	It("parses profile wiring names", func() {
		Expect(gpiotest.ParseWire("gnd")).To(Equal(gpiotest.Ground))
		Expect(gpiotest.ParseWire("vcc")).To(Equal(gpiotest.Supply))
		Expect(gpiotest.ParseWire("")).To(Equal(gpiotest.Open))
		_, err := gpiotest.ParseWire("shorted")
		Expect(err).To(HaveOccurred())
	})
})
