package backend

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/wamphlett/status-lights/pkg/color"
)

// Chip is an I2C RGB LED controller
type Chip string

const (
	ChipPCA9632 Chip = "pca9632"
	ChipBlinkM  Chip = "blinkm"
)

// DefaultAddr returns the factory address of the chip
func (c Chip) DefaultAddr() uint16 {
	switch c {
	case ChipBlinkM:
		return 0x09
	default:
		return 0x60
	}
}

// PCA9632 registers
const (
	pcaMode1  = 0x00
	pcaMode2  = 0x01
	pcaPWM0   = 0x02
	pcaLEDOut = 0x08

	// auto increment through every register
	pcaAutoIncrement = 0x80

	// normal mode, respond to all call
	pcaMode1Value = 0x01
	// group dimming, inverted outputs, change on stop, totem pole
	pcaMode2Value = 0x15

	// individual pwm plus group dimming
	pcaLEDPWMGroup = 0x03
)

// BlinkM commands
const (
	blinkmStopScript = 'o'
	blinkmGoToRGB    = 'n'
)

// Bus sends colors to an RGB controller chip over I2C. Each color is sent as
// a single bus transaction.
type Bus struct {
	dev  conn.Conn
	chip Chip
}

// NewBus returns a bus backend for the chip reachable through dev
func NewBus(dev conn.Conn, chip Chip) (*Bus, error) {
	switch chip {
	case ChipPCA9632, ChipBlinkM:
	default:
		return nil, fmt.Errorf("unsupported bus chip %q", chip)
	}
	return &Bus{
		dev:  dev,
		chip: chip,
	}, nil
}

// OpenI2C loads the host drivers and opens the named I2C bus, eg "I2C1"
func OpenI2C(name string) (i2c.BusCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialise host drivers: %w", err)
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open i2c bus %s: %w", name, err)
	}
	return b, nil
}

func (b *Bus) Name() string {
	return string(b.chip)
}

// Init puts the chip into a state where it accepts colors
func (b *Bus) Init() error {
	switch b.chip {
	case ChipBlinkM:
		return b.tx([]byte{blinkmStopScript})
	default:
		if err := b.tx([]byte{pcaMode1, pcaMode1Value}); err != nil {
			return err
		}
		return b.tx([]byte{pcaMode2, pcaMode2Value})
	}
}

func (b *Bus) Render(c color.Color) {
	if err := b.tx(b.encode(c)); err != nil {
		logger.Debugw("bus render failed", "chip", b.chip, "error", err)
	}
}

func (b *Bus) encode(c color.Color) []byte {
	if b.chip == ChipBlinkM {
		return []byte{blinkmGoToRGB, c.R, c.G, c.B}
	}

	var out byte
	for i, v := range []uint8{c.R, c.G, c.B, c.W} {
		if v != 0 {
			out |= pcaLEDPWMGroup << (2 * i)
		}
	}
	// PWM0-3, GRPPWM, GRPFREQ and LEDOUT are consecutive
	return []byte{pcaAutoIncrement | pcaPWM0, c.R, c.G, c.B, c.W, c.Brightness, 0, out}
}

func (b *Bus) tx(w []byte) error {
	if err := b.dev.Tx(w, nil); err != nil {
		return fmt.Errorf("%s: %w", b.chip, err)
	}
	return nil
}
