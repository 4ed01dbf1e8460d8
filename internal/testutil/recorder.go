package testutil

import (
	"strings"
	"sync"
)

// CallRecorder captures remote calls in order across the fake clients so
// tests can assert both call counts and cross-system ordering.
type CallRecorder struct {
	mu    sync.Mutex
	calls []string
}

func NewCallRecorder() *CallRecorder {
	return &CallRecorder{}
}

func (r *CallRecorder) Record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

// Calls returns all recorded calls in order.
func (r *CallRecorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// Count returns how many recorded calls start with the given prefix.
func (r *CallRecorder) Count(prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}
