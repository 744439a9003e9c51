// Package panel reads the resistor ladder button panel and drives the lights
// from it.
package panel

import (
	"time"

	"github.com/wamphlett/status-lights/config"
	"github.com/wamphlett/status-lights/pkg/color"
	"github.com/wamphlett/status-lights/pkg/logging"
)

var logger = logging.New("panel")

type Button string

const (
	ButtonNone   Button = "NONE"
	ButtonToggle Button = "TOGGLE"
	ButtonWhite  Button = "WHITE"
	ButtonPreset Button = "PRESET"
	ButtonChase  Button = "CHASE"
)

// chaseStep is how far round the color wheel each chase press moves
const chaseStep = 30.0

// Lights is the part of the lighting controller the panel drives
type Lights interface {
	Tracking() bool
	Toggle() error
	SetWhite()
	SetDefault()
	SetOff()
	SetColorSequence(c color.Color)
}

// Reader returns the averaged ladder reading since the last call
type Reader interface {
	Read() float64
}

type buttonRegister struct {
	registerTime time.Time
	button       Button
	accuracy     int
	held         bool
}

type targetRange struct {
	Button Button
	upper  int
	lower  int
}

func (r *targetRange) InRange(input int) bool {
	return input >= r.lower && input <= r.upper
}

// Panel polls the button ladder and maps presses and holds onto the lights
type Panel struct {
	lights Lights
	reader Reader

	holdDuration time.Duration
	pollRate     time.Duration

	buttonRegister *buttonRegister
	targets        []*targetRange

	// hue of the next chase color, in degrees
	hue float64

	now   func() time.Time
	close chan struct{}
	done  chan struct{}
}

// New returns a panel for the configured button targets
func New(cfg *config.Panel, lights Lights, reader Reader, opts ...Opt) *Panel {
	p := &Panel{
		lights:       lights,
		reader:       reader,
		holdDuration: cfg.HoldDuration,
		pollRate:     cfg.PollRate,
		now:          time.Now,
		close:        make(chan struct{}),
		done:         make(chan struct{}),
	}

	p.targets = configureButton(ButtonToggle, cfg.ToggleTarget, cfg.Tolerance)
	p.targets = append(p.targets, configureButton(ButtonWhite, cfg.WhiteTarget, cfg.Tolerance)...)
	p.targets = append(p.targets, configureButton(ButtonPreset, cfg.PresetTarget, cfg.Tolerance)...)
	p.targets = append(p.targets, configureButton(ButtonChase, cfg.ChaseTarget, cfg.Tolerance)...)

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Start polls the panel until Shutdown is called
func (p *Panel) Start() {
	ticker := time.NewTicker(p.pollRate)
	go func() {
		defer close(p.done)
		for {
			select {
			case <-ticker.C:
				p.poll()
			case <-p.close:
				ticker.Stop()
				return
			}
		}
	}()
}

// Shutdown stops polling and waits for the poll loop to exit
func (p *Panel) Shutdown() {
	close(p.close)
	<-p.done
}

func (p *Panel) poll() {
	pollTime := p.now()
	result := p.reader.Read()

	for _, target := range p.targets {
		if !target.InRange(int(result)) {
			continue
		}

		if p.buttonRegister == nil || p.buttonRegister.button != target.Button {
			p.buttonRegister = &buttonRegister{
				registerTime: pollTime,
				button:       target.Button,
			}
		}
		p.buttonRegister.accuracy++

		// two matching polls in a row count as a press
		if p.buttonRegister.accuracy == 2 {
			p.handlePress(target.Button)
		}

		if !p.buttonRegister.held && pollTime.Sub(p.buttonRegister.registerTime) > p.holdDuration {
			p.handleHold(target.Button)
			p.buttonRegister.held = true
		}

		return
	}

	// nothing matched, the panel is idle
	p.buttonRegister = nil
}

func (p *Panel) handlePress(button Button) {
	logger.With("button", button).Debug("button pressed")

	switch button {
	case ButtonToggle:
		// without a remembered color there is nothing to toggle back to
		if !p.lights.Tracking() {
			p.lights.SetOff()
			return
		}
		if err := p.lights.Toggle(); err != nil {
			logger.With("error", err).Warn("failed to toggle lights")
		}
	case ButtonWhite:
		p.lights.SetWhite()
	case ButtonPreset:
		p.lights.SetDefault()
	case ButtonChase:
		p.lights.SetColorSequence(p.nextChaseColor())
	}
}

func (p *Panel) handleHold(button Button) {
	logger.With("button", button).Debug("button held")

	switch button {
	case ButtonToggle:
		p.lights.SetOff()
	}
}

func (p *Panel) nextChaseColor() color.Color {
	c := color.FromHSI(p.hue, 1, 1)
	p.hue += chaseStep
	if p.hue >= 360 {
		p.hue -= 360
	}
	return c
}

func configureButton(b Button, targets []int, tolerance int) []*targetRange {
	targetRanges := make([]*targetRange, len(targets))
	for i, target := range targets {
		targetRanges[i] = &targetRange{
			Button: b,
			lower:  target - tolerance,
			upper:  target + tolerance,
		}
	}
	return targetRanges
}
