package controller

import (
	"time"

	"github.com/wamphlett/status-lights/pkg/backend"
)

// Opt defines a controller option
type Opt func(*Controller)

// WithPublisher configures a publisher for the controller
func WithPublisher(p Publisher) Opt {
	return func(c *Controller) {
		c.publishers = append(c.publishers, p)
	}
}

// WithStrip attaches an addressable strip
func WithStrip(s *backend.Strip) Opt {
	return func(c *Controller) {
		c.strip = s
	}
}

// WithBus attaches an I2C LED controller
func WithBus(b *backend.Bus) Opt {
	return func(c *Controller) {
		c.bus = b
	}
}

// WithPins attaches individually wired LEDs
func WithPins(p *backend.Pins) Opt {
	return func(c *Controller) {
		c.pins = p
	}
}

// WithPause replaces the function used to wait between animation frames
func WithPause(pause func(time.Duration)) Opt {
	return func(c *Controller) {
		c.pause = pause
	}
}
