package backend

import (
	"github.com/wamphlett/status-lights/pkg/color"
)

// PinDriver writes to GPIO pins
type PinDriver interface {
	Digital(pin int, high bool)
	Analog(pin int, duty uint8)
}

// PinMap assigns a GPIO pin to each LED channel. A negative White means
// there is no white LED.
type PinMap struct {
	Red   int
	Green int
	Blue  int
	White int
}

type channelPin struct {
	pin   int
	pwm   bool
	value func(c color.Color) uint8
}

// Pins renders colors on individually wired LEDs. Every channel gets a
// digital on/off write, and PWM capable pins are then given the channel
// value as their duty cycle.
type Pins struct {
	driver   PinDriver
	channels []channelPin
}

// NewPins returns a pin backend. pwm lists the pins able to do PWM.
func NewPins(driver PinDriver, pins PinMap, pwm []int) *Pins {
	canPWM := make(map[int]bool, len(pwm))
	for _, p := range pwm {
		canPWM[p] = true
	}

	channel := func(pin int, value func(c color.Color) uint8) channelPin {
		return channelPin{pin: pin, pwm: canPWM[pin], value: value}
	}

	p := &Pins{driver: driver}
	p.channels = append(p.channels,
		channel(pins.Red, func(c color.Color) uint8 { return c.R }),
		channel(pins.Green, func(c color.Color) uint8 { return c.G }),
		channel(pins.Blue, func(c color.Color) uint8 { return c.B }),
	)
	if pins.White >= 0 {
		p.channels = append(p.channels, channel(pins.White, func(c color.Color) uint8 { return c.W }))
	}
	return p
}

func (p *Pins) Name() string {
	return "pins"
}

// HasWhite reports whether a white LED is wired
func (p *Pins) HasWhite() bool {
	return len(p.channels) == 4
}

func (p *Pins) Render(c color.Color) {
	for _, ch := range p.channels {
		v := ch.value(c)
		p.driver.Digital(ch.pin, v != 0)
		if ch.pwm {
			p.driver.Analog(ch.pin, v)
		}
	}
}
