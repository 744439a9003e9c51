package controller

import (
	"slices"
	"testing"

	"github.com/wamphlett/status-lights/pkg/color"
)

func TestStartupFramesDeterministic(t *testing.T) {
	seq := StartupFrames(true, false)

	first := slices.Collect(seq)
	second := slices.Collect(seq)

	if !slices.Equal(first, second) {
		t.Error("ranging the startup sequence twice should give the same frames")
	}
}

func TestStartupFramesShape(t *testing.T) {
	tests := []struct {
		name     string
		hasWhite bool
		allWhite bool
		frames   int
		peak     color.Color
	}{
		{name: "rgb", frames: 255 + 361 + 255 + 1},
		{name: "white channel", hasWhite: true, frames: 255 + 361 + 255 + 510 + 1, peak: color.NewRGBW(0, 0, 0, 255)},
		{name: "all white", hasWhite: true, allWhite: true, frames: 255 + 361 + 255 + 510 + 1, peak: color.NewRGBW(255, 255, 255, 255)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frames := slices.Collect(StartupFrames(tt.hasWhite, tt.allWhite))
			if len(frames) != tt.frames {
				t.Fatalf("got %d frames, want %d", len(frames), tt.frames)
			}

			if frames[0].Color != color.Off() || frames[254].Color != color.New(254, 0, 0) {
				t.Errorf("red fade in = %v .. %v", frames[0].Color, frames[254].Color)
			}
			if got := frames[255].Color; got != color.FromHSI(0, 1, 1) {
				t.Errorf("wheel start = %v", got)
			}
			if got := frames[255+360].Color; got != color.FromHSI(360, 1, 1) {
				t.Errorf("wheel end = %v", got)
			}
			if frames[255].Pause != wheelPause || frames[0].Pause != fadePause {
				t.Error("unexpected frame pauses")
			}
			if got := frames[616].Color; got != color.New(255, 0, 0) {
				t.Errorf("red fade out start = %v", got)
			}

			last := frames[len(frames)-1]
			if !last.Color.IsOff() || last.Pause != 0 {
				t.Errorf("last frame = %+v, want off without a pause", last)
			}

			if tt.hasWhite {
				if got := frames[616+255+255].Color; got != tt.peak {
					t.Errorf("white peak = %v, want %v", got, tt.peak)
				}
			}
		})
	}
}

func TestStartupFramesStopEarly(t *testing.T) {
	n := 0
	for range StartupFrames(false, false) {
		n++
		if n == 10 {
			break
		}
	}
	if n != 10 {
		t.Errorf("n = %d", n)
	}
}
