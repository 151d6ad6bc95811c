package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CapIot.energyportal/internal/models"
)

func TestStore_SignInSignOut(t *testing.T) {
	t.Parallel()

	s := NewStore()
	assert.Equal(t, models.AuthSession{}, s.Current())

	s.SignIn("RealChAuLa", "P-100")
	assert.Equal(t, models.AuthSession{Username: "RealChAuLa", ProductID: "P-100", IsAuthenticated: true}, s.Current())

	s.SignOut()
	assert.False(t, s.Current().IsAuthenticated)
	assert.Empty(t, s.Current().Username)
}

func TestStore_Subscribe(t *testing.T) {
	t.Parallel()

	s := NewStore()
	var got []models.AuthSession
	cancel := s.Subscribe(func(a models.AuthSession) { got = append(got, a) })

	s.SignIn("alice", "P-1")
	s.SignOut()
	require.Len(t, got, 2)
	assert.True(t, got[0].IsAuthenticated)
	assert.False(t, got[1].IsAuthenticated)

	cancel()
	cancel()
	s.SignIn("bob", "P-2")
	assert.Len(t, got, 2)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := NewStore()
	var mu sync.Mutex
	calls := 0
	cancel := s.Subscribe(func(models.AuthSession) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.SignIn("user", "pid")
			_ = s.Current()
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 20, calls)
}
