// Package backend renders colors on the physical lighting hardware.
//
// Every backend accepts any color and never reports a failure to its caller:
// a write that does not reach the hardware is logged and dropped.
package backend

import (
	"github.com/wamphlett/status-lights/pkg/color"
	"github.com/wamphlett/status-lights/pkg/logging"
)

var logger = logging.New("backend")

// Renderer draws a color on one lighting technology
type Renderer interface {
	Name() string
	Render(c color.Color)
}

// Initializer is implemented by backends that need a one time hardware setup
type Initializer interface {
	Init() error
}

// WhiteRenderer is implemented by backends with their own white encoding
type WhiteRenderer interface {
	RenderWhite()
}
