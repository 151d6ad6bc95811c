package service

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"CapIot.energyportal/internal/models"
	"CapIot.energyportal/internal/poller"
	"CapIot.energyportal/internal/validation"
)

// BillingBackend is the part of the backend the bill screen reads.
type BillingBackend interface {
	Bill(ctx context.Context, username string) (*models.BillData, error)
	Payments(ctx context.Context, username string) (*models.PaymentHistory, error)
}

// Account is a user's bill screen. A failed half keeps its error message and
// leaves the other half usable.
type Account struct {
	Bill         *models.BillData       `json:"bill"`
	History      *models.PaymentHistory `json:"history"`
	BillError    string                 `json:"bill_error,omitempty"`
	HistoryError string                 `json:"history_error,omitempty"`
}

// BillingService loads bills and records payments.
type BillingService struct {
	backend BillingBackend
	now     func() time.Time

	mu       sync.Mutex
	accounts map[string]*Account
}

func NewBillingService(backend BillingBackend) *BillingService {
	return &BillingService{
		backend:  backend,
		now:      time.Now,
		accounts: make(map[string]*Account),
	}
}

// Load fetches the current bill and payment history of username in parallel.
// It fails only when both requests fail.
func (s *BillingService) Load(ctx context.Context, username string) (Account, error) {
	if username == "" {
		return Account{}, models.NewAPIError(models.ErrorCodeNotSignedIn, "sign in to view bills", nil, http.StatusUnauthorized)
	}

	var (
		acc              Account
		billErr, histErr error
		g                errgroup.Group
	)
	g.Go(func() error {
		acc.Bill, billErr = s.backend.Bill(ctx, username)
		if billErr != nil {
			log.Printf("Error fetching bill data for %s: %v", username, billErr)
			acc.BillError = billErr.Error()
		}
		return nil
	})
	g.Go(func() error {
		acc.History, histErr = s.backend.Payments(ctx, username)
		if histErr != nil {
			log.Printf("Error fetching payment history for %s: %v", username, histErr)
			acc.HistoryError = histErr.Error()
		}
		return nil
	})
	_ = g.Wait()

	if billErr != nil && histErr != nil {
		return acc, fmt.Errorf("error loading account %s: %w", username, billErr)
	}

	s.mu.Lock()
	stored := acc
	s.accounts[username] = &stored
	s.mu.Unlock()
	return acc, nil
}

// normalizePayment applies the card form's input masks, so raw digits such
// as "1227" are accepted the same as "12/27".
func normalizePayment(d models.PaymentDetails) models.PaymentDetails {
	d.CardNumber = validation.FormatCardNumber(d.CardNumber)
	d.Expiry = validation.FormatExpiry(d.Expiry)
	d.CVV = validation.FormatCVV(d.CVV)
	return d
}

// Pay validates details and settles the loaded bill of username. Payment is
// recorded locally: the bill is marked paid and prepended to the history.
func (s *BillingService) Pay(ctx context.Context, username string, details models.PaymentDetails) (Account, error) {
	details = normalizePayment(details)
	if err := validation.Payment(details); err != nil {
		return Account{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[username]
	if !ok || acc.Bill == nil {
		return Account{}, models.NewAPIError(models.ErrorCodeNotFound, "no bill loaded for this user", nil, http.StatusNotFound)
	}
	if acc.Bill.IsPaid {
		return *acc, models.NewAPIError(models.ErrorCodeConflict, fmt.Sprintf("bill for %s is already paid", acc.Bill.YearMonth), nil, http.StatusConflict)
	}

	bill := *acc.Bill
	paidAt := poller.FormatClock(s.now())
	bill.IsPaid = true
	bill.PaymentDate = &paidAt
	acc.Bill = &bill

	if acc.History != nil {
		history := *acc.History
		history.Payments = append([]models.Payment{{Month: bill.YearMonth, Amount: bill.Amount}}, history.Payments...)
		acc.History = &history
	}
	log.Printf("Payment recorded for %s, month %s, amount %s", username, bill.YearMonth, bill.Amount.StringFixed(2))
	return *acc, nil
}
