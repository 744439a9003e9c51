package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/wamphlett/status-lights/pkg/color"
)

// New reads the full configuration from the environment
func New() (*Config, error) {
	return Load(context.Background(), envconfig.OsLookuper())
}

// Load reads the configuration using the given lookuper
func Load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}

// DefaultLightsConfig returns the lights config with every default applied
func DefaultLightsConfig() *Lights {
	var cfg Lights
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.MapLookuper(nil),
	}); err != nil {
		panic("failed to extract default config: " + err.Error())
	}
	return &cfg
}

type Config struct {
	Lights  *Lights
	Panel   *Panel
	MQTT    *MQTTPublisher
	Metrics *Metrics
	Logging *Logging
}

// Lights selects the installed lighting hardware and the controller features
type Lights struct {
	StripEnabled bool `env:"LIGHTS_STRIP_ENABLED,default=false"`
	StripPin     int  `env:"LIGHTS_STRIP_PIN,default=18"`
	StripPixels  int  `env:"LIGHTS_STRIP_PIXELS,default=8"`
	StripRGBW    bool `env:"LIGHTS_STRIP_RGBW,default=false"`
	StripDMA     int  `env:"LIGHTS_STRIP_DMA,default=10"`

	BusEnabled bool   `env:"LIGHTS_BUS_ENABLED,default=false"`
	BusName    string `env:"LIGHTS_BUS_NAME,default=I2C1"`
	BusChip    string `env:"LIGHTS_BUS_CHIP,default=pca9632"`
	// BusAddr of 0 selects the default address of the chip
	BusAddr uint16 `env:"LIGHTS_BUS_ADDR,default=0"`

	PinsEnabled bool `env:"LIGHTS_PINS_ENABLED,default=false"`
	PinRed      int  `env:"LIGHTS_PIN_RED,default=12"`
	PinGreen    int  `env:"LIGHTS_PIN_GREEN,default=13"`
	PinBlue     int  `env:"LIGHTS_PIN_BLUE,default=19"`
	// PinWhite below zero means no dedicated white LED is wired
	PinWhite     int   `env:"LIGHTS_PIN_WHITE,default=-1"`
	PWMPins      []int `env:"LIGHTS_PWM_PINS,default=12,13,18,19"`
	PWMFrequency int   `env:"LIGHTS_PWM_FREQUENCY,default=64000"`

	StateTracking   bool `env:"LIGHTS_STATE_TRACKING,default=true"`
	StartupTest     bool `env:"LIGHTS_STARTUP_TEST,default=true"`
	StartupAllWhite bool `env:"LIGHTS_STARTUP_ALL_WHITE,default=false"`
	PresetOnStartup bool `env:"LIGHTS_PRESET_ON_STARTUP,default=false"`

	PresetColor      color.Color `env:"LIGHTS_PRESET_COLOR,default=#ffffff"`
	PresetWhite      int         `env:"LIGHTS_PRESET_WHITE,default=255"`
	PresetBrightness int         `env:"LIGHTS_PRESET_BRIGHTNESS,default=255"`
}

// Preset returns the configured default color
func (l *Lights) Preset() color.Color {
	return l.PresetColor.WithWhite(l.PresetWhite).WithBrightness(l.PresetBrightness)
}

// HasWhite reports whether any installed hardware has a dedicated white channel
func (l *Lights) HasWhite() bool {
	return (l.PinsEnabled && l.PinWhite >= 0) || (l.StripEnabled && l.StripRGBW)
}

// Panel configures the button panel read through the ADS1115
type Panel struct {
	Enabled bool   `env:"PANEL_ENABLED,default=false"`
	Bus     string `env:"PANEL_BUS,default=I2C1"`
	Addr    uint16 `env:"PANEL_ADDR,default=0x48"`

	ToggleTarget []int `env:"PANEL_TOGGLE_TARGET,default=200"`
	WhiteTarget  []int `env:"PANEL_WHITE_TARGET,default=400"`
	PresetTarget []int `env:"PANEL_PRESET_TARGET,default=600"`
	ChaseTarget  []int `env:"PANEL_CHASE_TARGET,default=800"`

	Tolerance    int           `env:"PANEL_TARGET_RANGE,default=80"`
	HoldDuration time.Duration `env:"PANEL_HOLD_DURATION,default=2s"`
	PollRate     time.Duration `env:"PANEL_POLL_RATE,default=30ms"`
}

type MQTTPublisher struct {
	Enabled     bool   `env:"MQTT_ENABLED,default=false"`
	Scheme      string `env:"MQTT_SCHEME,default=tcp"`
	Host        string `env:"MQTT_HOST,default=localhost:1883"`
	ClientID    string `env:"MQTT_CLIENT_ID,default=status-lights"`
	TopicPrefix string `env:"MQTT_TOPIC_PREFIX,default=STATUS_LIGHTS"`
}

type Metrics struct {
	Addr string `env:"METRICS_ADDR"`
}

type Logging struct {
	Level string `env:"LOG_LEVEL,default=info"`
	// Levels overrides single loggers, eg "backend:debug,panel:warn"
	Levels map[string]string `env:"LOG_LEVELS"`
}
