package server

import (
	"sync"
	"time"

	"github.com/coder/quartz"
)

// turnTimer arms a deadline for the acting player. Re-arming cancels the
// previous deadline; a generation counter keeps a stale callback from firing
// after it lost the race against a re-arm.
type turnTimer struct {
	clock quartz.Clock
	mu    sync.Mutex
	timer *quartz.Timer
	gen   int
}

func newTurnTimer(clock quartz.Clock) *turnTimer {
	return &turnTimer{clock: clock}
}

func (t *turnTimer) arm(d time.Duration, fire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.timer = t.clock.AfterFunc(d, func() {
		t.mu.Lock()
		stale := gen != t.gen
		t.mu.Unlock()
		if !stale {
			fire()
		}
	})
}

func (t *turnTimer) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
