package panel

import "time"

type Opt func(p *Panel)

// WithClock replaces the clock used to detect held buttons
func WithClock(now func() time.Time) Opt {
	return func(p *Panel) {
		p.now = now
	}
}
