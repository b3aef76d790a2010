package engine

import "time"

// TickSource is the scheduler driving the position-update loop: one tick
// per host display refresh. It is injected so tests can substitute a
// deterministic source for the real ~60 Hz ticker.
type TickSource interface {
	C() <-chan time.Time
	Stop()
}

// DisplayRefresh is the real tick interval, approximating a 60 Hz display.
const DisplayRefresh = 16 * time.Millisecond

type tickerSource struct {
	ticker *time.Ticker
}

// NewTicker returns a TickSource backed by a real time.Ticker.
func NewTicker(interval time.Duration) TickSource {
	return &tickerSource{ticker: time.NewTicker(interval)}
}

func (t *tickerSource) C() <-chan time.Time { return t.ticker.C }
func (t *tickerSource) Stop()               { t.ticker.Stop() }
