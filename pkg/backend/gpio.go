package backend

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
)

// GPIO drives Raspberry Pi pins through /dev/gpiomem
type GPIO struct {
	frequency int
	pwm       map[int]bool
}

var _ PinDriver = (*GPIO)(nil)

// OpenGPIO maps the GPIO registers. frequency is the PWM clock in Hz.
func OpenGPIO(frequency int) (*GPIO, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("failed to open gpio: %w", err)
	}
	return &GPIO{
		frequency: frequency,
		pwm:       make(map[int]bool),
	}, nil
}

// Digital switches the pin to output mode and drives it high or low
func (g *GPIO) Digital(pin int, high bool) {
	p := rpio.Pin(pin)
	p.Output()
	if high {
		p.High()
		return
	}
	p.Low()
}

// Analog switches the pin to PWM mode with a duty of duty/255
func (g *GPIO) Analog(pin int, duty uint8) {
	p := rpio.Pin(pin)
	p.Pwm()
	if !g.pwm[pin] {
		p.Freq(g.frequency)
		g.pwm[pin] = true
	}
	p.DutyCycle(uint32(duty), 255)
}

// Close unmaps the GPIO registers
func (g *GPIO) Close() error {
	return rpio.Close()
}
