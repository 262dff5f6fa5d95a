package monitoring

import (
	"sync"
	"time"

	nuts "github.com/vaudience/go-nuts"
)

// Service keeps per-event counters for the lifetime of the process and logs
// each recorded event.
type Service struct {
	mu       sync.Mutex
	counts   map[string]int64
	lastSeen map[string]time.Time
}

func NewService() *Service {
	return &Service{
		counts:   make(map[string]int64),
		lastSeen: make(map[string]time.Time),
	}
}

// RecordEvent records a monitored event with labels
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	ts := time.Now()

	s.mu.Lock()
	s.counts[eventName]++
	s.lastSeen[eventName] = ts
	s.mu.Unlock()

	nuts.L.Debugf("[Monitoring] Event %s recorded at %v with labels: %v", eventName, ts.Format(time.RFC3339), labels)
}

// EventCounts returns a copy of the counters
func (s *Service) EventCounts() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int64, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// LastSeen returns when eventName was last recorded, or the zero time
func (s *Service) LastSeen(eventName string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen[eventName]
}
