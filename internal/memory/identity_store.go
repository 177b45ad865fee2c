// Package memory keeps identities, rooms, memberships and message logs in
// process memory. Nothing here outlives the process.
package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cwrk-planet/roomcast/internal/domain"
)

type IdentityStore struct {
	mu         sync.RWMutex
	identities map[string]domain.Identity

	now func() time.Time
}

func NewIdentityStore(now func() time.Time) *IdentityStore {
	if now == nil {
		now = time.Now
	}
	return &IdentityStore{
		identities: make(map[string]domain.Identity),
		now:        now,
	}
}

// Create stores a new identity from already validated fields.
func (s *IdentityStore) Create(in domain.NewIdentity) domain.Identity {
	id := domain.Identity{
		ID:          uuid.NewString(),
		DisplayName: in.DisplayName,
		Email:       strings.ToLower(in.Email),
		BirthDate:   in.BirthDate.UTC(),
		Gender:      in.Gender,
		CreatedAt:   s.now().UTC(),
	}

	s.mu.Lock()
	s.identities[id.ID] = id
	s.mu.Unlock()

	return id
}

func (s *IdentityStore) Get(id string) (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.identities[id]
	return it, ok
}

func (s *IdentityStore) Exists(id string) bool {
	_, ok := s.Get(id)
	return ok
}

func (s *IdentityStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.identities)
}
