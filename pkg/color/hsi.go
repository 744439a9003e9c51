package color

import "math"

// HSIToRGB converts hue (degrees), saturation and intensity (0-1) into red,
// green and blue. The hue circle is split into three 120 degree sectors; a
// hue sitting exactly on a boundary belongs to the sector that starts there.
func HSIToRGB(h, s, i float64) (r, g, b uint8) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	s = unit(s)
	i = unit(i)

	switch {
	case h < 120:
		h = radians(h)
		r, g, b = calc1(h, s, i), calc2(h, s, i), calc3(s, i)
	case h < 240:
		h = radians(h - 120)
		g, b, r = calc1(h, s, i), calc2(h, s, i), calc3(s, i)
	default:
		h = radians(h - 240)
		b, r, g = calc1(h, s, i), calc2(h, s, i), calc3(s, i)
	}
	return r, g, b
}

// FromHSI returns the full brightness color for the given hue, saturation
// and intensity
func FromHSI(h, s, i float64) Color {
	r, g, b := HSIToRGB(h, s, i)
	return Color{R: r, G: g, B: b, Brightness: maxChannel}
}

func calc1(h, s, i float64) uint8 {
	return channel(255 * i / 3 * (1 + s*math.Cos(h)/math.Cos(math.Pi/3-h)))
}

func calc2(h, s, i float64) uint8 {
	return channel(255 * i / 3 * (1 + s*(1-math.Cos(h)/math.Cos(math.Pi/3-h))))
}

func calc3(s, i float64) uint8 {
	return channel(255 * i / 3 * (1 - s))
}

// channel truncates towards zero like an integer assignment would, after
// pinning the value to the representable range.
func channel(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= maxChannel {
		return maxChannel
	}
	return uint8(v)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func unit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
