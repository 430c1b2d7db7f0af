package pinflow

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// MemoryPinStore is a PinStore held in process memory.
type MemoryPinStore struct {
	mu   sync.RWMutex
	pins []*Pin // newest first
}

var _ PinStore = (*MemoryPinStore)(nil)

func NewMemoryPinStore() *MemoryPinStore {
	return &MemoryPinStore{}
}

func (s *MemoryPinStore) Add(_ context.Context, pin *Pin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(pin.ID) >= 0 {
		return fmt.Errorf("pin %s already exists", pin.ID)
	}
	s.pins = slices.Insert(s.pins, 0, pin.Clone())
	return nil
}

func (s *MemoryPinStore) Get(_ context.Context, id string) (*Pin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrPinNotFound, id)
	}
	return s.pins[i].Clone(), nil
}

func (s *MemoryPinStore) List(_ context.Context) ([]*Pin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Pin, len(s.pins))
	for i, p := range s.pins {
		out[i] = p.Clone()
	}
	return out, nil
}

func (s *MemoryPinStore) Update(_ context.Context, pin *Pin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(pin.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPinNotFound, pin.ID)
	}
	s.pins[i] = pin.Clone()
	return nil
}

func (s *MemoryPinStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pins = nil
	return nil
}

func (s *MemoryPinStore) indexOf(id string) int {
	return slices.IndexFunc(s.pins, func(p *Pin) bool { return p.ID == id })
}

// MemoryCredentialStore is a CredentialStore held in process memory.
type MemoryCredentialStore struct {
	mu    sync.Mutex
	creds *RepoCredentials
}

var _ CredentialStore = (*MemoryCredentialStore)(nil)

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{}
}

func (s *MemoryCredentialStore) Save(_ context.Context, creds RepoCredentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = &creds
	return nil
}

func (s *MemoryCredentialStore) Load(_ context.Context) (RepoCredentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return RepoCredentials{}, ErrNoCredentials
	}
	return *s.creds, nil
}

func (s *MemoryCredentialStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = nil
	return nil
}
