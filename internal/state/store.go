// Package state holds the latest decoded remote state for display surfaces.
// State is a pure function of the most recent successful poll per source;
// nothing here is persisted.
package state

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/alertify/agent/internal/model"
)

// SmokeView is the displayable smoke-bridge side of the store.
type SmokeView struct {
	Latest      *model.SensorReading  `json:"latest,omitempty"`
	UpdatedAt   *time.Time            `json:"updated_at,omitempty"`
	History     []model.SensorReading `json:"history"`
	AlertsCount int                   `json:"alerts_count"`
	LastError   string                `json:"last_error,omitempty"`
}

// SecurityView is the displayable camera-gateway side of the store.
type SecurityView struct {
	Snapshot       *model.SecuritySnapshot `json:"snapshot,omitempty"`
	UpdatedAt      *time.Time              `json:"updated_at,omitempty"`
	Alerts         []model.AlertRecord     `json:"alerts"`
	Detections     []model.DetectionRecord `json:"detections"`
	DetectionStats map[string]int          `json:"detection_stats,omitempty"`
	Persons        []model.PersonRecord    `json:"persons"`
	LastError      string                  `json:"last_error,omitempty"`
}

// View is one full copy of the displayable state.
type View struct {
	Smoke    SmokeView    `json:"smoke"`
	Security SecurityView `json:"security"`
}

// Store keeps the latest decoded records behind a lock. Poll completions
// carry a sequence number taken before the request was issued; a completion
// older than the last applied one is dropped so a slow response can never
// overwrite newer data.
type Store struct {
	smokeSeq    atomic.Uint64
	securitySeq atomic.Uint64

	mu              sync.RWMutex
	smoke           SmokeView
	security        SecurityView
	smokeApplied    uint64
	securityApplied uint64
	subscribers     map[chan View]struct{}

	now func() time.Time
}

func New() *Store {
	return &Store{
		subscribers: map[chan View]struct{}{},
		now:         time.Now,
	}
}

// NextSmokeSeq reserves a sequence number for a smoke poll about to start.
func (s *Store) NextSmokeSeq() uint64 {
	return s.smokeSeq.Add(1)
}

// NextSecuritySeq reserves a sequence number for a security poll.
func (s *Store) NextSecuritySeq() uint64 {
	return s.securitySeq.Add(1)
}

// ApplySmoke installs a successful smoke poll result. The bulk history is
// trimmed to the retained window in server order. Returns false if a newer
// poll already landed.
func (s *Store) ApplySmoke(seq uint64, reading model.SensorReading, history model.SensorHistory) bool {
	s.mu.Lock()
	if seq <= s.smokeApplied {
		s.mu.Unlock()
		return false
	}
	s.smokeApplied = seq

	kept := history.Readings
	if len(kept) > model.HistoryLimit {
		kept = kept[:model.HistoryLimit]
	}
	latest := reading
	at := s.now().UTC()
	s.smoke = SmokeView{
		Latest:      &latest,
		UpdatedAt:   &at,
		History:     append([]model.SensorReading(nil), kept...),
		AlertsCount: history.AlertsCount,
	}
	s.mu.Unlock()
	s.broadcast()
	return true
}

// ApplySmokeError records a user-visible failure string for the smoke side,
// leaving the last good data in place.
func (s *Store) ApplySmokeError(seq uint64, message string) bool {
	s.mu.Lock()
	if seq <= s.smokeApplied {
		s.mu.Unlock()
		return false
	}
	s.smokeApplied = seq
	s.smoke.LastError = message
	s.mu.Unlock()
	s.broadcast()
	return true
}

// ApplySecurity installs a successful security poll result.
func (s *Store) ApplySecurity(
	seq uint64,
	snapshot model.SecuritySnapshot,
	alerts []model.AlertRecord,
	detections []model.DetectionRecord,
	stats map[string]int,
	persons []model.PersonRecord,
) bool {
	s.mu.Lock()
	if seq <= s.securityApplied {
		s.mu.Unlock()
		return false
	}
	s.securityApplied = seq

	snap := snapshot
	at := s.now().UTC()
	s.security = SecurityView{
		Snapshot:       &snap,
		UpdatedAt:      &at,
		Alerts:         append([]model.AlertRecord(nil), alerts...),
		Detections:     append([]model.DetectionRecord(nil), detections...),
		DetectionStats: copyStats(stats),
		Persons:        append([]model.PersonRecord(nil), persons...),
	}
	s.mu.Unlock()
	s.broadcast()
	return true
}

// ApplySecurityError records a user-visible failure string for the security
// side.
func (s *Store) ApplySecurityError(seq uint64, message string) bool {
	s.mu.Lock()
	if seq <= s.securityApplied {
		s.mu.Unlock()
		return false
	}
	s.securityApplied = seq
	s.security.LastError = message
	s.mu.Unlock()
	s.broadcast()
	return true
}

// View returns a copy of the full displayable state.
func (s *Store) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return View{
		Smoke:    copySmoke(s.smoke),
		Security: copySecurity(s.security),
	}
}

// Subscribe registers a state-change listener. The channel holds at most one
// pending view; a slow consumer sees the newest state, not every transition.
// The returned func removes the subscription.
func (s *Store) Subscribe() (<-chan View, func()) {
	ch := make(chan View, 1)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subscribers, ch)
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Store) broadcast() {
	s.mu.RLock()
	view := View{Smoke: copySmoke(s.smoke), Security: copySecurity(s.security)}
	subscribers := make([]chan View, 0, len(s.subscribers))
	for ch := range s.subscribers {
		subscribers = append(subscribers, ch)
	}
	s.mu.RUnlock()

	for _, ch := range subscribers {
		select {
		case ch <- view:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- view:
			default:
			}
		}
	}
}

func copySmoke(v SmokeView) SmokeView {
	out := v
	out.History = append([]model.SensorReading(nil), v.History...)
	return out
}

func copySecurity(v SecurityView) SecurityView {
	out := v
	out.Alerts = append([]model.AlertRecord(nil), v.Alerts...)
	out.Detections = append([]model.DetectionRecord(nil), v.Detections...)
	out.Persons = append([]model.PersonRecord(nil), v.Persons...)
	out.DetectionStats = copyStats(v.DetectionStats)
	return out
}

func copyStats(stats map[string]int) map[string]int {
	if stats == nil {
		return nil
	}
	out := make(map[string]int, len(stats))
	for k, v := range stats {
		out[k] = v
	}
	return out
}
