package controller

import (
	"iter"
	"time"

	"github.com/wamphlett/status-lights/pkg/color"
)

const (
	fadePause  = 2 * time.Millisecond
	wheelPause = 7 * time.Millisecond
)

// Frame is one step of an animation: show Color, then wait Pause
type Frame struct {
	Color color.Color
	Pause time.Duration
}

// StartupFrames returns the boot animation: a red fade in, a full turn of the
// color wheel, a red fade out, a white fade in and out when white hardware is
// present, and finally off. allWhite fades every channel instead of only the
// white one. The sequence can be ranged over any number of times.
func StartupFrames(hasWhite, allWhite bool) iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		for i := 0; i < 255; i++ {
			if !yield(Frame{Color: color.New(i, 0, 0), Pause: fadePause}) {
				return
			}
		}
		for h := 0; h <= 360; h++ {
			if !yield(Frame{Color: color.FromHSI(float64(h), 1, 1), Pause: wheelPause}) {
				return
			}
		}
		for i := 255; i > 0; i-- {
			if !yield(Frame{Color: color.New(i, 0, 0), Pause: fadePause}) {
				return
			}
		}

		if hasWhite {
			white := func(i int) color.Color {
				if allWhite {
					return color.NewRGBW(i, i, i, i)
				}
				return color.NewRGBW(0, 0, 0, i)
			}
			for i := 0; i < 255; i++ {
				if !yield(Frame{Color: white(i), Pause: fadePause}) {
					return
				}
			}
			for i := 255; i > 0; i-- {
				if !yield(Frame{Color: white(i), Pause: fadePause}) {
					return
				}
			}
		}

		yield(Frame{Color: color.Off()})
	}
}
