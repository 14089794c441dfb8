// Package signals delivers process signals to the session orchestrator.
package signals

import (
	"os"
	"os/signal"
	"slices"
	"sync"
)

// buffer is the per-subscriber channel capacity.
const buffer = 8

// Source implements ports.SignalSource on top of os/signal.
type Source struct {
	mu      sync.Mutex
	signals []os.Signal
	subs    []chan os.Signal
}

// NewSource returns a Source for the given signals. With none, the platform's
// forwarded set is used.
func NewSource(sigs ...os.Signal) *Source {
	if len(sigs) == 0 {
		sigs = Forwarded()
	}
	return &Source{signals: slices.Clone(sigs)}
}

// Subscribe starts delivery of the source's signals. Signals are not
// delivered to the default handler until the returned stop function runs.
func (s *Source) Subscribe() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, buffer)

	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	signal.Notify(ch, s.signals...)

	var once sync.Once
	stop := func() {
		once.Do(func() {
			signal.Stop(ch)
			s.mu.Lock()
			defer s.mu.Unlock()
			s.subs = slices.DeleteFunc(s.subs, func(c chan os.Signal) bool { return c == ch })
		})
	}
	return ch, stop
}

// Raise delivers sig to every current subscriber. Full subscribers drop it.
func (s *Source) Raise(sig os.Signal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- sig:
		default:
		}
	}
}
