package store

import (
	"sync"

	"github.com/frontdesk-ai/receptionist-platform/internal/model"
)

// ProfileStore holds the business profile and service catalog.
type ProfileStore struct {
	mu           sync.RWMutex
	profile      model.BusinessProfile
	services     []model.Service
	observers    map[int]func(model.BusinessProfile)
	nextObserver int
}

// NewProfileStore creates a profile store seeded with the given profile and
// services.
func NewProfileStore(profile model.BusinessProfile, services []model.Service) *ProfileStore {
	return &ProfileStore{
		profile:   profile,
		services:  services,
		observers: make(map[int]func(model.BusinessProfile)),
	}
}

// Subscribe registers a profile observer.
func (s *ProfileStore) Subscribe(fn func(model.BusinessProfile)) UnsubscribeFunc {
	s.mu.Lock()
	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = fn
	profile := s.profile
	s.mu.Unlock()

	fn(profile)

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Profile returns the current business profile.
func (s *ProfileStore) Profile() model.BusinessProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// UpdateProfile replaces the business profile.
func (s *ProfileStore) UpdateProfile(profile model.BusinessProfile) {
	s.mu.Lock()
	s.profile = profile
	observers := make([]func(model.BusinessProfile), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	notify(observers, profile)
}

// Services returns the current service catalog.
func (s *ProfileStore) Services() []model.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Service, len(s.services))
	copy(out, s.services)
	return out
}

// UpdateServices replaces the service catalog.
func (s *ProfileStore) UpdateServices(services []model.Service) {
	s.mu.Lock()
	s.services = make([]model.Service, len(services))
	copy(s.services, services)
	s.mu.Unlock()
}
