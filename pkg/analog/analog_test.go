package analog_test

import (
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
	periphanalog "periph.io/x/periph/experimental/conn/analog"

	"github.com/xanderflood/pincheck/pkg/analog"
	"github.com/xanderflood/pincheck/pkg/gpio"
)

var _ = Describe("Thresholds", func() {
	t := analog.DefaultThresholds

	DescribeTable("Classify",
		func(raw int, level gpio.State, ok bool) {
			l, determinate := t.Classify(raw)
			Expect(determinate).To(Equal(ok))
			if ok {
				Expect(l).To(Equal(level))
			}
		},
		Entry("full scale", 1023, gpio.High, true),
		Entry("just above high", 951, gpio.High, true),
		Entry("on the high threshold", 950, gpio.Low, false),
		Entry("mid-band floating", 480, gpio.Low, false),
		Entry("on the low threshold", 100, gpio.Low, false),
		Entry("just below low", 99, gpio.Low, true),
		Entry("grounded", 12, gpio.Low, true),
	)

	It("validates the default", func() {
		Expect(t.Validate()).To(Succeed())
	})

	It("rejects overlapping bands", func() {
		err := analog.Thresholds{Max: 1023, High: 100, Low: 100}.Validate()
		Expect(errors.Is(err, analog.ErrThresholds)).To(BeTrue())
	})

	It("rejects a high threshold past full scale", func() {
		err := analog.Thresholds{Max: 255, High: 950, Low: 100}.Validate()
		Expect(errors.Is(err, analog.ErrThresholds)).To(BeTrue())
	})

	It("keeps its ratios when rescaled", func() {
		r := t.Rescale(32767)
		Expect(r.Max).To(Equal(32767))
		Expect(r.Validate()).To(Succeed())

		l, ok := r.Classify(32767 * 95 / 100)
		Expect(ok).To(BeTrue())
		Expect(l).To(Equal(gpio.High))

		l, ok = r.Classify(32767 * 5 / 100)
		Expect(ok).To(BeTrue())
		Expect(l).To(Equal(gpio.Low))

		_, ok = r.Classify(32767 / 2)
		Expect(ok).To(BeFalse())
	})
})

type fakeADC struct {
	periphanalog.PinADC

	sample periphanalog.Sample
	err    error
	halted bool
}

func (f *fakeADC) String() string { return "fake" }
func (f *fakeADC) Halt() error    { f.halted = true; return nil }
func (f *fakeADC) Read() (periphanalog.Sample, error) {
	return f.sample, f.err
}

var _ = Describe("ADCPin", func() {
	It("reports the raw conversion", func() {
		adc := &fakeADC{sample: periphanalog.Sample{Raw: 30000}}
		pin := analog.FromADC(adc)
		pin.Input()
		pin.PullUp()

		Expect(pin.Sample()).To(Equal(30000))
		Expect(pin.Halt()).To(Succeed())
		Expect(adc.halted).To(BeTrue())
	})

	It("clamps negative single-ended noise to zero", func() {
		pin := analog.FromADC(&fakeADC{sample: periphanalog.Sample{Raw: -3}})
		Expect(pin.Sample()).To(Equal(0))
	})

	It("wraps conversion errors", func() {
		boom := errors.New("nack")
		_, err := analog.FromADC(&fakeADC{err: boom}).Sample()
		Expect(errors.Is(err, boom)).To(BeTrue())
	})
})
