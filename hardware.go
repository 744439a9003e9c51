package main

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"

	"github.com/wamphlett/status-lights/config"
	"github.com/wamphlett/status-lights/pkg/backend"
	"github.com/wamphlett/status-lights/pkg/controller"
)

// hardware holds the opened lighting backends and how to release them
type hardware struct {
	opts    []controller.Opt
	closers []func()
}

// openHardware opens every backend enabled in the config. On error anything
// already opened is released.
func openHardware(cfg *config.Lights) (_ *hardware, err error) {
	h := &hardware{}
	defer func() {
		if err != nil {
			h.Close()
		}
	}()

	if cfg.StripEnabled {
		strip, err := backend.OpenWS281x(backend.StripConfig{
			Pin:    cfg.StripPin,
			Pixels: cfg.StripPixels,
			RGBW:   cfg.StripRGBW,
			DMA:    cfg.StripDMA,
		})
		if err != nil {
			return nil, err
		}
		h.closers = append(h.closers, strip.Close)
		h.opts = append(h.opts, controller.WithStrip(backend.NewStrip(strip, cfg.StripRGBW)))
	}

	if cfg.BusEnabled {
		chip := backend.Chip(cfg.BusChip)
		addr := cfg.BusAddr
		if addr == 0 {
			addr = chip.DefaultAddr()
		}

		b, err := backend.OpenI2C(cfg.BusName)
		if err != nil {
			return nil, err
		}
		h.closers = append(h.closers, func() {
			if err := b.Close(); err != nil {
				logger.With("error", err).Warn("failed to close i2c bus")
			}
		})

		bus, err := backend.NewBus(&i2c.Dev{Bus: b, Addr: addr}, chip)
		if err != nil {
			return nil, err
		}
		h.opts = append(h.opts, controller.WithBus(bus))
	}

	if cfg.PinsEnabled {
		gpio, err := backend.OpenGPIO(cfg.PWMFrequency)
		if err != nil {
			return nil, err
		}
		h.closers = append(h.closers, func() {
			if err := gpio.Close(); err != nil {
				logger.With("error", err).Warn("failed to close gpio")
			}
		})

		pins := backend.PinMap{
			Red:   cfg.PinRed,
			Green: cfg.PinGreen,
			Blue:  cfg.PinBlue,
			White: cfg.PinWhite,
		}
		h.opts = append(h.opts, controller.WithPins(backend.NewPins(gpio, pins, cfg.PWMPins)))
	}

	if len(h.opts) == 0 {
		return nil, fmt.Errorf("no lighting hardware is enabled")
	}

	return h, nil
}

// Close releases the hardware in reverse order
func (h *hardware) Close() {
	for i := len(h.closers) - 1; i >= 0; i-- {
		h.closers[i]()
	}
	h.closers = nil
}
