// Package color holds the color value passed to every lighting backend.
package color

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const maxChannel = 255

// Color is a single lighting color. W is only used by hardware with a
// dedicated white channel and Brightness only by hardware with a master
// brightness control.
type Color struct {
	R          uint8
	G          uint8
	B          uint8
	W          uint8
	Brightness uint8
}

// New returns an RGB color at full brightness
func New(r, g, b int) Color {
	return NewWithBrightness(r, g, b, 0, maxChannel)
}

// NewRGBW returns an RGBW color at full brightness
func NewRGBW(r, g, b, w int) Color {
	return NewWithBrightness(r, g, b, w, maxChannel)
}

// NewWithBrightness returns a color with every channel clamped to 0-255
func NewWithBrightness(r, g, b, w, brightness int) Color {
	return Color{
		R:          clamp(r),
		G:          clamp(g),
		B:          clamp(b),
		W:          clamp(w),
		Brightness: clamp(brightness),
	}
}

// FromHex parses a #rrggbb string into a full brightness color
func FromHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b, Brightness: maxChannel}, nil
}

// Parse accepts a preset name such as "orange" or a #rrggbb hex color
func Parse(s string) (Color, error) {
	if c, ok := Named(strings.ToLower(s)); ok {
		return c, nil
	}
	return FromHex(s)
}

// EnvDecode lets colors be read straight from the environment as a preset
// name or hex
func (c *Color) EnvDecode(val string) error {
	parsed, err := Parse(val)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// IsOff reports whether every channel is zero. Brightness is ignored.
func (c Color) IsOff() bool {
	return c.R == 0 && c.G == 0 && c.B == 0 && c.W == 0
}

// WithBrightness returns a copy of the color with a new brightness
func (c Color) WithBrightness(brightness int) Color {
	c.Brightness = clamp(brightness)
	return c
}

// WithWhite returns a copy of the color with a new white channel
func (c Color) WithWhite(w int) Color {
	c.W = clamp(w)
	return c
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x w=%d i=%d", c.R, c.G, c.B, c.W, c.Brightness)
}

func clamp(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > maxChannel {
		return maxChannel
	}
	return uint8(v)
}
