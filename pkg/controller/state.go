package controller

import (
	"github.com/wamphlett/status-lights/pkg/color"
)

// State defines the state of the lights and is used when publishing events
type State struct {
	On    bool
	Color color.Color
}
