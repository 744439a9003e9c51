package backend

import (
	"github.com/wamphlett/status-lights/pkg/color"
)

// Pixels is an addressable LED strip. Values are packed as 0xWWRRGGBB.
type Pixels interface {
	Len() int
	SetBrightness(brightness uint8)
	Set(index int, value uint32)
	Show() error
}

// Strip renders colors on an addressable strip, either on every pixel at
// once or one pixel per call for chase patterns
type Strip struct {
	pixels Pixels
	rgbw   bool
	next   int
}

// NewStrip returns a strip backend. rgbw marks strips with a white sub-pixel.
func NewStrip(pixels Pixels, rgbw bool) *Strip {
	return &Strip{
		pixels: pixels,
		rgbw:   rgbw,
	}
}

func (s *Strip) Name() string {
	return "strip"
}

// RGBW reports whether the strip has a white sub-pixel
func (s *Strip) RGBW() bool {
	return s.rgbw
}

// Cursor returns the pixel the next sequence write will land on
func (s *Strip) Cursor() int {
	return s.next
}

// Render sets every pixel to the color in one update
func (s *Strip) Render(c color.Color) {
	s.pixels.SetBrightness(c.Brightness)
	s.fill(pack(c))
}

// RenderNext writes the color to the pixel under the cursor and moves the
// cursor on, wrapping back to the first pixel after the last
func (s *Strip) RenderNext(c color.Color) {
	s.pixels.SetBrightness(c.Brightness)

	n := s.pixels.Len()
	if n == 0 {
		return
	}
	if s.next >= n {
		s.next = 0
	}

	s.pixels.Set(s.next, pack(c))
	s.show()

	s.next++
	if s.next >= n {
		s.next = 0
	}
}

// RenderWhite uses the white sub-pixel where there is one
func (s *Strip) RenderWhite() {
	if s.rgbw {
		s.fill(0xFF000000)
		return
	}
	s.fill(0x00FFFFFF)
}

func (s *Strip) fill(value uint32) {
	for i := 0; i < s.pixels.Len(); i++ {
		s.pixels.Set(i, value)
	}
	s.show()
}

func (s *Strip) show() {
	if err := s.pixels.Show(); err != nil {
		logger.Debugw("strip render failed", "error", err)
	}
}

func pack(c color.Color) uint32 {
	return uint32(c.W)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
