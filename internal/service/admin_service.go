package service

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"sync"
	"time"

	"CapIot.energyportal/internal/models"
	"CapIot.energyportal/internal/poller"
)

// ConnectionBackend reads and flips product connection status.
type ConnectionBackend interface {
	ConnectionStatus(ctx context.Context) (*models.ConnectionStatusResponse, error)
	SetConnectionStatus(ctx context.Context, req models.ConnectionStatusRequest) error
}

type ConnectionSummary struct {
	Timestamp     string                  `json:"timestamp"`
	Users         []models.ConnectionUser `json:"users"`
	TotalCount    int                     `json:"total_count"`
	ActiveCount   int                     `json:"active_count"`
	InactiveCount int                     `json:"inactive_count"`
	Toggling      []string                `json:"toggling,omitempty"`
}

// AdminService backs the connection-status admin panel.
type AdminService struct {
	backend ConnectionBackend
	gate    Gate

	mu       sync.Mutex
	summary  ConnectionSummary
	toggling map[string]bool
}

func NewAdminService(backend ConnectionBackend) *AdminService {
	return &AdminService{
		backend:  backend,
		toggling: make(map[string]bool),
	}
}

// Refresh reloads the connection list. A refresh that completes after a
// newer one started is discarded.
func (s *AdminService) Refresh(ctx context.Context) (ConnectionSummary, error) {
	ticket := s.gate.Begin()
	resp, err := s.backend.ConnectionStatus(ctx)
	if err != nil {
		log.Printf("Error fetching connection status: %v", err)
		return s.Summary(), err
	}
	ticket.Commit(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.summary = ConnectionSummary{
			Timestamp:  resp.Timestamp,
			Users:      resp.Users,
			TotalCount: resp.TotalCount,
		}
		s.recount()
	})
	log.Printf("Connection status data updated at %s", time.Now().UTC().Format(time.RFC3339))
	return s.Summary(), nil
}

// Toggle sets the connection status of productID. Only one toggle per
// product may be in flight. A failed toggle reloads the list.
func (s *AdminService) Toggle(ctx context.Context, productID string, status bool) (ConnectionSummary, error) {
	if productID == "" {
		return s.Summary(), models.NewAPIError(models.ErrorCodeMissingParameter, "product_id is required", nil, http.StatusBadRequest)
	}

	s.mu.Lock()
	if s.toggling[productID] {
		s.mu.Unlock()
		return s.Summary(), models.NewAPIError(models.ErrorCodeConflict,
			fmt.Sprintf("connection status for product ID %s is already being updated", productID), nil, http.StatusConflict)
	}
	s.toggling[productID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.toggling, productID)
		s.mu.Unlock()
	}()

	err := s.backend.SetConnectionStatus(ctx, models.ConnectionStatusRequest{ProductID: productID, Status: status})
	if err != nil {
		log.Printf("Error updating connection status for product ID %s: %v", productID, err)
		if _, refreshErr := s.Refresh(ctx); refreshErr != nil {
			log.Printf("Error reloading connection status: %v", refreshErr)
		}
		return s.Summary(), fmt.Errorf("failed to update connection status for product ID %s: %w", productID, err)
	}

	s.mu.Lock()
	for i := range s.summary.Users {
		if s.summary.Users[i].ProductID == productID {
			s.summary.Users[i].ConnectionStatus = status
			s.recount()
			state := "offline"
			if status {
				state = "online"
			}
			log.Printf("Connection status for product %s set to %s", productID, state)
			break
		}
	}
	s.mu.Unlock()
	return s.Summary(), nil
}

// Watch silently refreshes every interval until ctx is done.
func (s *AdminService) Watch(ctx context.Context, interval time.Duration) {
	poller.Run(ctx, interval, func(ctx context.Context) {
		if _, err := s.Refresh(ctx); err != nil {
			log.Printf("Background connection refresh failed: %v", err)
		}
	})
}

// Summary returns a copy of the current panel state.
func (s *AdminService) Summary() ConnectionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.summary
	out.Users = append([]models.ConnectionUser(nil), s.summary.Users...)
	for pid := range s.toggling {
		out.Toggling = append(out.Toggling, pid)
	}
	sort.Strings(out.Toggling)
	return out
}

// recount requires s.mu.
func (s *AdminService) recount() {
	active := 0
	for _, u := range s.summary.Users {
		if u.ConnectionStatus {
			active++
		}
	}
	s.summary.ActiveCount = active
	s.summary.InactiveCount = s.summary.TotalCount - active
}
