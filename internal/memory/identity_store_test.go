package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cwrk-planet/roomcast/internal/domain"
)

func fixedClock() time.Time {
	return time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)
}

func TestIdentityStore_CreateLowercasesEmail(t *testing.T) {
	s := NewIdentityStore(fixedClock)

	got := s.Create(domain.NewIdentity{
		DisplayName: " Alice ",
		Email:       "Alice@Example.COM",
		BirthDate:   time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
		Gender:      domain.GenderFemale,
	})

	require.NotEmpty(t, got.ID)
	require.Equal(t, " Alice ", got.DisplayName, "names are stored as validated")
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, fixedClock(), got.CreatedAt)

	stored, ok := s.Get(got.ID)
	require.True(t, ok)
	require.Equal(t, got, stored)
	require.True(t, s.Exists(got.ID))
	require.False(t, s.Exists("nope"))
}

func TestIdentityStore_UniqueIDs(t *testing.T) {
	s := NewIdentityStore(nil)
	seen := make(map[string]struct{})
	for range 100 {
		id := s.Create(domain.NewIdentity{DisplayName: "Bob"}).ID
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
	require.Equal(t, 100, s.Count())
}
