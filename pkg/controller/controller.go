package controller

import (
	"errors"
	"time"

	"github.com/wamphlett/status-lights/config"
	"github.com/wamphlett/status-lights/pkg/backend"
	"github.com/wamphlett/status-lights/pkg/color"
	"github.com/wamphlett/status-lights/pkg/logging"
)

var logger = logging.New("controller")

// ErrNoStateTracking is returned by operations that need the remembered
// color when state tracking is turned off
var ErrNoStateTracking = errors.New("state tracking is disabled")

type Event string

const (
	EventSetup        Event = "SETUP"
	EventColorChanged Event = "COLOR_CHANGED"
	EventTurnedOn     Event = "TURNED_ON"
	EventTurnedOff    Event = "TURNED_OFF"
)

// Publisher receives lighting state changes
type Publisher interface {
	Publish(event Event, state State)
}

// Controller is the single entry point for setting the light color. Every
// color is sent to each installed backend in a fixed order: strip, bus, pins.
//
// The controller is not safe for concurrent use; it expects to be driven from
// one goroutine.
type Controller struct {
	strip *backend.Strip
	bus   *backend.Bus
	pins  *backend.Pins

	renderers []backend.Renderer

	tracking        bool
	startupTest     bool
	presetOnStartup bool
	allWhite        bool
	hasWhite        bool
	preset          color.Color

	on    bool
	color color.Color
	quiet bool

	pause      func(time.Duration)
	publishers []Publisher
}

// New returns a controller for the configured features. Backends are
// attached with options.
func New(cfg *config.Lights, opts ...Opt) *Controller {
	c := &Controller{
		tracking:        cfg.StateTracking,
		startupTest:     cfg.StartupTest,
		presetOnStartup: cfg.PresetOnStartup,
		allWhite:        cfg.StartupAllWhite,
		hasWhite:        cfg.HasWhite(),
		preset:          cfg.Preset(),
		pause:           time.Sleep,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.strip != nil {
		c.renderers = append(c.renderers, c.strip)
		c.hasWhite = c.hasWhite || c.strip.RGBW()
	}
	if c.bus != nil {
		c.renderers = append(c.renderers, c.bus)
	}
	if c.pins != nil {
		c.renderers = append(c.renderers, c.pins)
		c.hasWhite = c.hasWhite || c.pins.HasWhite()
	}

	c.color = c.preset

	return c
}

// Setup prepares the hardware and runs the boot time features. It must be
// called once before the controller is used.
func (c *Controller) Setup() {
	for _, r := range c.renderers {
		i, ok := r.(backend.Initializer)
		if !ok {
			continue
		}
		if err := i.Init(); err != nil {
			logger.With("backend", r.Name()).Warnw("failed to initialise backend", "error", err)
		}
	}

	if c.startupTest {
		c.StartupTest()
	}

	if c.presetOnStartup {
		c.SetDefault()
	}

	logger.With("backends", len(c.renderers), "on", c.on).Info("lights ready")
	c.publish(EventSetup)
}

// SetColor renders the color on every backend, the strip in uniform mode
func (c *Controller) SetColor(col color.Color) {
	for _, r := range c.renderers {
		r.Render(col)
	}
	c.track(col)
}

// SetColorSequence paints the color onto the next pixel of the strip,
// leaving every other backend and the tracked state alone. Without a strip
// it is the same as SetColor.
func (c *Controller) SetColorSequence(col color.Color) {
	if c.strip == nil {
		c.SetColor(col)
		return
	}
	c.strip.RenderNext(col)
}

// SetWhite turns the lights white, letting backends with their own white
// encoding use it
func (c *Controller) SetWhite() {
	white := color.White(c.hasWhite)
	for _, r := range c.renderers {
		if w, ok := r.(backend.WhiteRenderer); ok {
			w.RenderWhite()
			continue
		}
		r.Render(white)
	}
	c.track(white)
}

// SetOff turns every light off
func (c *Controller) SetOff() {
	c.SetColor(color.Off())
}

// SetDefault applies the configured preset color
func (c *Controller) SetDefault() {
	c.SetColor(c.preset)
}

// Update re-applies the remembered color
func (c *Controller) Update() error {
	if !c.tracking {
		return ErrNoStateTracking
	}
	c.SetColor(c.color)
	return nil
}

// Toggle turns the lights off when they are on, otherwise it restores the
// last color that was shown
func (c *Controller) Toggle() error {
	if !c.tracking {
		return ErrNoStateTracking
	}
	if c.on {
		c.SetOff()
		return nil
	}
	return c.Update()
}

// State returns the tracked on/off state and the remembered color
func (c *Controller) State() State {
	return State{
		On:    c.on,
		Color: c.color,
	}
}

// Tracking reports whether the controller remembers its state
func (c *Controller) Tracking() bool {
	return c.tracking
}

// HasWhite reports whether any backend has a dedicated white channel
func (c *Controller) HasWhite() bool {
	return c.hasWhite
}

// StartupTest plays the boot animation through SetColor. It blocks until the
// animation has finished and must not be used once the device is running.
func (c *Controller) StartupTest() {
	// the animation should not replace the color toggle restores
	remembered := c.color
	c.quiet = true
	defer func() {
		c.color = remembered
		c.quiet = false
	}()

	frames := 0
	start := time.Now()
	for f := range StartupFrames(c.hasWhite, c.allWhite) {
		c.SetColor(f.Color)
		if f.Pause > 0 {
			c.pause(f.Pause)
		}
		frames++
	}
	logger.With("frames", frames, "duration", time.Since(start)).Debug("startup test finished")
}

func (c *Controller) track(col color.Color) {
	if !c.tracking {
		return
	}

	wasOn := c.on
	c.on = !col.IsOff()
	// the remembered color is kept while off so toggle can restore it
	if c.on {
		c.color = col
	}

	switch {
	case c.on && !wasOn:
		c.publish(EventTurnedOn)
	case !c.on && wasOn:
		c.publish(EventTurnedOff)
	case c.on:
		c.publish(EventColorChanged)
	}
}

func (c *Controller) publish(event Event) {
	if c.quiet {
		return
	}
	state := c.State()
	logger.With("event", event, "on", state.On, "color", state.Color.String()).Debug("lights changed")
	for _, p := range c.publishers {
		p.Publish(event, state)
	}
}
