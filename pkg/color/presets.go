package color

// Off returns the color with every channel at zero
func Off() Color {
	return New(0, 0, 0)
}

// White returns full white. Hardware with a dedicated white channel gets a
// pure white from that channel alone, otherwise red, green and blue are mixed.
func White(hasWhite bool) Color {
	if hasWhite {
		return NewRGBW(0, 0, 0, maxChannel)
	}
	return New(maxChannel, maxChannel, maxChannel)
}

func Red() Color    { return New(255, 0, 0) }
func Orange() Color { return New(255, 80, 0) }
func Yellow() Color { return New(255, 255, 0) }
func Green() Color  { return New(0, 255, 0) }
func Blue() Color   { return New(0, 0, 255) }
func Indigo() Color { return New(0, 255, 255) }
func Violet() Color { return New(255, 0, 255) }

var named = map[string]func() Color{
	"off":    Off,
	"red":    Red,
	"orange": Orange,
	"yellow": Yellow,
	"green":  Green,
	"blue":   Blue,
	"indigo": Indigo,
	"violet": Violet,
}

// Named returns the preset with the given lower case name
func Named(name string) (Color, bool) {
	fn, ok := named[name]
	if !ok {
		return Color{}, false
	}
	return fn(), true
}
