package checkin

import (
	"sync"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/staff"
)

func normalizeID(id string) string {
	return staff.NormalizeID(id)
}

// inFlight tracks staff ids with a check-in underway.
type inFlight struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func newInFlight() *inFlight {
	return &inFlight{busy: make(map[string]struct{})}
}

// tryAcquire marks id busy. It returns a release func, or false if id is already busy.
func (f *inFlight) tryAcquire(id string) (func(), bool) {
	key := normalizeID(id)

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.busy[key]; ok {
		return nil, false
	}
	f.busy[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.busy, key)
			f.mu.Unlock()
		})
	}, true
}
