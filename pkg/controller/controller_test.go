package controller

import (
	"errors"
	"slices"
	"testing"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/wamphlett/status-lights/config"
	"github.com/wamphlett/status-lights/pkg/backend"
	"github.com/wamphlett/status-lights/pkg/color"
)

type fakePixels struct {
	values []uint32
	shows  int
}

func (f *fakePixels) Len() int { return len(f.values) }

func (f *fakePixels) SetBrightness(_ uint8) {}

func (f *fakePixels) Set(i int, v uint32) { f.values[i] = v }

func (f *fakePixels) Show() error {
	f.shows++
	return nil
}

// fakePins keeps the last duty written to each pin
type fakePins struct {
	duty   map[int]uint8
	writes int
}

func newFakePins() *fakePins {
	return &fakePins{duty: make(map[int]uint8)}
}

func (f *fakePins) Digital(pin int, high bool) { f.writes++ }

func (f *fakePins) Analog(pin int, duty uint8) {
	f.writes++
	f.duty[pin] = duty
}

func (f *fakePins) color() color.Color {
	return color.NewRGBW(int(f.duty[1]), int(f.duty[2]), int(f.duty[3]), int(f.duty[4]))
}

type recordedEvent struct {
	event Event
	state State
}

type fakePublisher struct {
	events []recordedEvent
}

func (f *fakePublisher) Publish(event Event, state State) {
	f.events = append(f.events, recordedEvent{event: event, state: state})
}

type rig struct {
	c      *Controller
	pixels *fakePixels
	pins   *fakePins
	bus    *i2ctest.Record
	pub    *fakePublisher
}

func newRig(t *testing.T, cfg *config.Lights, withStrip bool) *rig {
	t.Helper()

	r := &rig{
		pixels: &fakePixels{values: make([]uint32, 4)},
		pins:   newFakePins(),
		bus:    &i2ctest.Record{},
		pub:    &fakePublisher{},
	}

	bus, err := backend.NewBus(&i2c.Dev{Bus: r.bus, Addr: 0x60}, backend.ChipPCA9632)
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}

	opts := []Opt{
		WithBus(bus),
		WithPins(backend.NewPins(r.pins, backend.PinMap{Red: 1, Green: 2, Blue: 3, White: 4}, []int{1, 2, 3, 4})),
		WithPause(func(time.Duration) {}),
		WithPublisher(r.pub),
	}
	if withStrip {
		opts = append(opts, WithStrip(backend.NewStrip(r.pixels, false)))
	}

	r.c = New(cfg, opts...)
	return r
}

func testConfig() *config.Lights {
	cfg := config.DefaultLightsConfig()
	cfg.StartupTest = false
	return cfg
}

func TestSetColorReachesEveryBackend(t *testing.T) {
	r := newRig(t, testConfig(), true)

	c := color.NewRGBW(10, 20, 30, 40)
	r.c.SetColor(c)

	for i, v := range r.pixels.values {
		if v != 0x280A141E {
			t.Errorf("pixel %d = %#x, want 0x280a141e", i, v)
		}
	}
	if got := r.pins.color(); got != c {
		t.Errorf("pins = %v, want %v", got, c)
	}
	if len(r.bus.Ops) != 1 {
		t.Fatalf("bus transactions = %d, want 1", len(r.bus.Ops))
	}
	if w := r.bus.Ops[0].W; w[1] != 10 || w[2] != 20 || w[3] != 30 || w[4] != 40 {
		t.Errorf("bus write = %v", w)
	}
}

// writeLog records which backend reached its hardware, once per run of writes
type writeLog []string

func (l *writeLog) add(name string) {
	if n := len(*l); n > 0 && (*l)[n-1] == name {
		return
	}
	*l = append(*l, name)
}

type loggedPixels struct {
	fakePixels
	log *writeLog
}

func (p *loggedPixels) Show() error {
	p.log.add("strip")
	return nil
}

type loggedConn struct {
	log *writeLog
}

func (c *loggedConn) String() string { return "logged" }

func (c *loggedConn) Tx(w, r []byte) error {
	c.log.add("bus")
	return nil
}

func (c *loggedConn) Duplex() conn.Duplex { return conn.Half }

type loggedPins struct {
	log *writeLog
}

func (p *loggedPins) Digital(pin int, high bool) { p.log.add("pins") }

func (p *loggedPins) Analog(pin int, duty uint8) { p.log.add("pins") }

func TestBackendsRenderInOrder(t *testing.T) {
	log := &writeLog{}

	bus, err := backend.NewBus(&loggedConn{log: log}, backend.ChipPCA9632)
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}
	pixels := &loggedPixels{fakePixels: fakePixels{values: make([]uint32, 3)}, log: log}

	// options are given out of order on purpose
	c := New(testConfig(),
		WithPins(backend.NewPins(&loggedPins{log: log}, backend.PinMap{Red: 1, Green: 2, Blue: 3, White: -1}, nil)),
		WithBus(bus),
		WithStrip(backend.NewStrip(pixels, false)),
		WithPause(func(time.Duration) {}),
	)

	want := []string{"strip", "bus", "pins"}

	c.SetColor(color.Orange())
	if !slices.Equal(*log, want) {
		t.Errorf("SetColor order = %v, want %v", *log, want)
	}

	*log = nil
	c.SetWhite()
	if !slices.Equal(*log, want) {
		t.Errorf("SetWhite order = %v, want %v", *log, want)
	}
}

func TestSetColorSequence(t *testing.T) {
	r := newRig(t, testConfig(), true)

	for i := 0; i < len(r.pixels.values); i++ {
		r.c.SetColorSequence(color.New(0, 0, i+1))
	}

	for i, v := range r.pixels.values {
		if v != uint32(i+1) {
			t.Errorf("pixel %d = %#x, want %#x", i, v, i+1)
		}
	}
	if r.c.strip.Cursor() != 0 {
		t.Errorf("Cursor() = %d, want 0", r.c.strip.Cursor())
	}
	if r.pins.writes != 0 {
		t.Errorf("pins written %d times in sequence mode", r.pins.writes)
	}
	if len(r.bus.Ops) != 0 {
		t.Errorf("bus written %d times in sequence mode", len(r.bus.Ops))
	}
	if r.c.State().On {
		t.Error("sequence mode should not change the tracked state")
	}
	if len(r.pub.events) != 0 {
		t.Errorf("sequence mode published %v", r.pub.events)
	}
}

func TestSetColorSequenceWithoutStrip(t *testing.T) {
	r := newRig(t, testConfig(), false)

	r.c.SetColorSequence(color.Red())

	if got := r.pins.color(); got != color.Red() {
		t.Errorf("pins = %v, want red", got)
	}
	if !r.c.State().On {
		t.Error("without a strip sequence mode should act like SetColor")
	}
}

func TestToggleRoundTrip(t *testing.T) {
	r := newRig(t, testConfig(), true)
	white := color.White(r.c.HasWhite())

	if r.c.State().On {
		t.Fatal("controller should start off")
	}

	r.c.SetColor(white)
	if s := r.c.State(); !s.On || s.Color != white {
		t.Fatalf("after SetColor state = %+v", s)
	}

	if err := r.c.Toggle(); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if r.c.State().On {
		t.Error("first toggle should turn the lights off")
	}
	if !r.pins.color().IsOff() {
		t.Errorf("pins = %v, want off", r.pins.color())
	}

	if err := r.c.Toggle(); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if s := r.c.State(); !s.On || s.Color != white {
		t.Errorf("second toggle state = %+v", s)
	}
	if got := r.pins.color(); got != white {
		t.Errorf("pins = %v, want %v", got, white)
	}
}

func TestToggleIsItsOwnInverse(t *testing.T) {
	tests := []struct {
		name  string
		start func(c *Controller)
	}{
		{name: "from on", start: func(c *Controller) { c.SetColor(color.Violet()) }},
		{name: "from off", start: func(c *Controller) {
			c.SetColor(color.Blue())
			c.SetOff()
		}},
		{name: "from fresh", start: func(c *Controller) {}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t, testConfig(), false)
			tt.start(r.c)
			before := r.c.State()

			_ = r.c.Toggle()
			_ = r.c.Toggle()

			if after := r.c.State(); after != before {
				t.Errorf("state after two toggles = %+v, want %+v", after, before)
			}
		})
	}
}

func TestToggleWithoutTracking(t *testing.T) {
	cfg := testConfig()
	cfg.StateTracking = false
	r := newRig(t, cfg, false)

	r.c.SetColor(color.Red())
	if err := r.c.Toggle(); !errors.Is(err, ErrNoStateTracking) {
		t.Errorf("Toggle() error = %v, want ErrNoStateTracking", err)
	}
	if r.c.State().On {
		t.Error("state should not be tracked")
	}
	if len(r.pub.events) != 0 {
		t.Errorf("published %d events without tracking", len(r.pub.events))
	}
}

func TestSetWhiteUsesStripEncoding(t *testing.T) {
	r := newRig(t, testConfig(), true)

	r.c.SetWhite()

	// the pins have a white LED so the generic white is white only
	for i, v := range r.pixels.values {
		if v != 0x00FFFFFF {
			t.Errorf("pixel %d = %#x, want strip white", i, v)
		}
	}
	if got := r.pins.color(); got != color.White(true) {
		t.Errorf("pins = %v, want white channel only", got)
	}
	if s := r.c.State(); !s.On || s.Color != color.White(true) {
		t.Errorf("state = %+v", s)
	}
}

func TestSetupRunsStartupAndPreset(t *testing.T) {
	cfg := testConfig()
	cfg.StartupTest = true
	cfg.PresetOnStartup = true
	r := newRig(t, cfg, false)

	var pauses int
	r.c.pause = func(time.Duration) { pauses++ }

	r.c.Setup()

	want := 0
	for f := range StartupFrames(r.c.HasWhite(), false) {
		if f.Pause > 0 {
			want++
		}
	}
	if pauses != want {
		t.Errorf("paused %d times, want %d", pauses, want)
	}

	if s := r.c.State(); !s.On || s.Color != cfg.Preset() {
		t.Errorf("state after setup = %+v, want preset on", s)
	}
	if got := r.pins.color(); got != cfg.Preset() {
		t.Errorf("pins = %v, want preset", got)
	}

	// PCA9632 mode registers come before any color
	if len(r.bus.Ops) < 2 || r.bus.Ops[0].W[0] != 0x00 || r.bus.Ops[1].W[0] != 0x01 {
		t.Errorf("bus was not initialised first: %+v", r.bus.Ops)
	}

	events := r.pub.events
	if len(events) != 2 || events[0].event != EventTurnedOn || events[1].event != EventSetup {
		t.Errorf("events = %+v, want TURNED_ON then SETUP", events)
	}
}

func TestStartupTestKeepsRememberedColor(t *testing.T) {
	r := newRig(t, testConfig(), false)
	r.c.SetColor(color.Green())
	r.c.SetOff()

	r.c.StartupTest()

	if s := r.c.State(); s.On || s.Color != color.Green() {
		t.Errorf("state after startup test = %+v", s)
	}
	if !r.pins.color().IsOff() {
		t.Errorf("startup test should finish off, pins = %v", r.pins.color())
	}
}

func TestPublishedEvents(t *testing.T) {
	r := newRig(t, testConfig(), false)

	r.c.SetColor(color.Red())
	r.c.SetColor(color.Blue())
	r.c.SetOff()
	r.c.SetOff()

	want := []Event{EventTurnedOn, EventColorChanged, EventTurnedOff}
	if len(r.pub.events) != len(want) {
		t.Fatalf("events = %+v, want %v", r.pub.events, want)
	}
	for i, e := range want {
		if r.pub.events[i].event != e {
			t.Errorf("event %d = %s, want %s", i, r.pub.events[i].event, e)
		}
	}
	if last := r.pub.events[2].state; last.On || last.Color != color.Blue() {
		t.Errorf("TURNED_OFF state = %+v", last)
	}
}
