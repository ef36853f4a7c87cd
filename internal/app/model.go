package app

import (
	"sync"
	"time"

	"github.com/bft-labs/companion/internal/domain"
)

// Store guards the live status records. Writers mutate through the Update
// methods; readers always receive copies.
type Store struct {
	mu      sync.RWMutex
	memory  domain.MemoryState
	boot    domain.BootStatus
	sensors domain.SensorStatus
}

// NewStore returns a store holding default records.
func NewStore() *Store {
	return &Store{
		memory: domain.MemoryIdle,
		boot:   domain.NewBootStatus(),
	}
}

// UpdateBoot applies fn to the boot record under the write lock.
func (s *Store) UpdateBoot(fn func(b *domain.BootStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.boot)
}

// UpdateSensors applies fn to the sensor record under the write lock.
func (s *Store) UpdateSensors(fn func(ss *domain.SensorStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.sensors)
}

// BeginRun resets the boot and sensor records for a new boot run.
func (s *Store) BeginRun(id string, start time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boot = s.boot.NewRun(id, start)
	s.sensors.ResetConnectivity()
}

// Boot returns a copy of the boot record.
func (s *Store) Boot() domain.BootStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.boot.Clone()
}

// Sensors returns a copy of the sensor record.
func (s *Store) Sensors() domain.SensorStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sensors
}

// MemoryState returns the current memory label.
func (s *Store) MemoryState() domain.MemoryState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.memory
}

// SetMemoryState records which subsystem occupies working memory.
func (s *Store) SetMemoryState(m domain.MemoryState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memory = m
}

// Snapshot builds an immutable status for the given system state.
func (s *Store) Snapshot(state domain.SystemState) domain.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.NewStatus(state, s.memory, s.boot, s.sensors)
}
