// Package session holds the signed-in user for the dashboard process.
package session

import (
	"log"
	"sync"

	"CapIot.energyportal/internal/models"
)

// Store owns the current AuthSession and notifies subscribers on change.
// Create one per process and hand it to whatever needs the current user.
type Store struct {
	mu      sync.Mutex
	current models.AuthSession
	nextID  int
	subs    map[int]func(models.AuthSession)
}

func NewStore() *Store {
	return &Store{subs: make(map[int]func(models.AuthSession))}
}

// SignIn records username and productID as the current user.
func (s *Store) SignIn(username, productID string) {
	s.set(models.AuthSession{
		Username:        username,
		ProductID:       productID,
		IsAuthenticated: true,
	})
	log.Printf("Session opened for user %s (product %s)", username, productID)
}

// SignOut clears the current user.
func (s *Store) SignOut() {
	s.set(models.AuthSession{})
	log.Println("Session cleared")
}

// Current returns a snapshot of the session.
func (s *Store) Current() models.AuthSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers fn to receive every future session snapshot. The
// returned cancel func is idempotent; once it returns fn is not called again.
func (s *Store) Subscribe(fn func(models.AuthSession)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// set notifies while holding the lock so a cancelled subscriber can never
// observe a later update. Subscribers must not call back into the Store.
func (s *Store) set(next models.AuthSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = next
	for _, fn := range s.subs {
		fn(next)
	}
}
