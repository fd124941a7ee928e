package timer

import (
	"sync"
	"time"
)

// TickSource delivers periodic ticks while started.
type TickSource interface {
	Start(onTick func())
	Stop()
}

// Ticker is a TickSource backed by time.Ticker. Stop never blocks, so it may
// be called from inside onTick.
type Ticker struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Ticker{interval: interval}
}

// Start begins delivering ticks, replacing any previous schedule.
func (t *Ticker) Start(onTick func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		close(t.stop)
	}
	stop := make(chan struct{})
	t.stop = stop
	go t.run(stop, onTick)
}

func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

func (t *Ticker) run(stop <-chan struct{}, onTick func()) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			select {
			case <-stop:
				return
			default:
			}
			onTick()
		}
	}
}
