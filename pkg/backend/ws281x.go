package backend

import (
	"fmt"

	ws2811 "github.com/rpi-ws281x/rpi-ws281x-go"
)

// StripConfig describes a WS281x/SK6812 strip wired to the Pi
type StripConfig struct {
	Pin    int
	Pixels int
	RGBW   bool
	DMA    int
}

// WS281x drives a strip through the rpi_ws281x library. Only channel 0 is used.
type WS281x struct {
	dev    *ws2811.WS2811
	pixels int
}

var _ Pixels = (*WS281x)(nil)

// stripOptions builds the library options for cfg without touching
// ws2811.DefaultOptions
func stripOptions(cfg StripConfig) ws2811.Option {
	opt := ws2811.DefaultOptions
	// DefaultOptions shares its channel slice
	opt.Channels = append([]ws2811.ChannelOption(nil), opt.Channels...)
	opt.DmaNum = cfg.DMA
	opt.Channels[0].GpioPin = cfg.Pin
	opt.Channels[0].LedCount = cfg.Pixels
	opt.Channels[0].Brightness = 255
	if cfg.RGBW {
		opt.Channels[0].StripeType = ws2811.SK6812StripGRBW
	}
	return opt
}

// OpenWS281x initialises the strip hardware. The caller must Close it.
func OpenWS281x(cfg StripConfig) (*WS281x, error) {
	opt := stripOptions(cfg)

	dev, err := ws2811.MakeWS2811(&opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create strip device: %w", err)
	}
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialise strip on pin %d: %w", cfg.Pin, err)
	}

	return &WS281x{
		dev:    dev,
		pixels: cfg.Pixels,
	}, nil
}

func (w *WS281x) Len() int {
	return w.pixels
}

func (w *WS281x) SetBrightness(brightness uint8) {
	w.dev.SetBrightness(0, int(brightness))
}

func (w *WS281x) Set(index int, value uint32) {
	w.dev.Leds(0)[index] = value
}

func (w *WS281x) Show() error {
	return w.dev.Render()
}

// Close turns the strip off and releases the DMA channel
func (w *WS281x) Close() {
	w.dev.Fini()
}
