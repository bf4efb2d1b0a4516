package service

import (
	"strings"

	"toyexchange/internal/domain"
	"toyexchange/internal/ledger"
	"toyexchange/internal/store"
)

// AdminService handles administrative operations: instrument lifecycle,
// user deletion, and balance adjustment. Role checks happen at the handler
// boundary; this service assumes the caller is already an admin.
type AdminService struct {
	users       *store.UserStore
	instruments *store.InstrumentStore
	ledger      *ledger.Ledger
}

// NewAdminService creates a new AdminService with the given dependencies.
func NewAdminService(
	users *store.UserStore,
	instruments *store.InstrumentStore,
	led *ledger.Ledger,
) *AdminService {
	return &AdminService{
		users:       users,
		instruments: instruments,
		ledger:      led,
	}
}

// CreateInstrument registers a new tradable instrument.
func (s *AdminService) CreateInstrument(ticker, name string) (*domain.Instrument, error) {
	if !domain.TickerRegex.MatchString(ticker) {
		return nil, &domain.ValidationError{
			Message: "ticker must match ^[A-Z0-9]{2,10}$",
		}
	}
	if strings.TrimSpace(name) == "" {
		return nil, &domain.ValidationError{
			Message: "name must not be empty",
		}
	}

	instrument := &domain.Instrument{
		Ticker: ticker,
		Name:   strings.TrimSpace(name),
	}
	if err := s.instruments.Create(instrument); err != nil {
		return nil, err
	}
	return instrument, nil
}

// DeleteInstrument removes an instrument from the registry. Resting orders
// on the ticker's book are left untouched; the engine reacts only to the
// current set of known instruments on new submissions.
func (s *AdminService) DeleteInstrument(ticker string) error {
	return s.instruments.Delete(ticker)
}

// DeleteUser removes a user record and their API keys.
func (s *AdminService) DeleteUser(userID string) error {
	return s.users.Delete(userID)
}

// Deposit credits a user's balance for a ticker. The amount must be
// positive and the ticker registered.
func (s *AdminService) Deposit(userID, ticker string, amount int64) error {
	if err := s.checkAdjustment(userID, ticker, amount); err != nil {
		return err
	}
	s.ledger.Credit(userID, ticker, amount)
	return nil
}

// Withdraw debits a user's balance for a ticker, applying the same
// non-negative invariant as settlement.
func (s *AdminService) Withdraw(userID, ticker string, amount int64) error {
	if err := s.checkAdjustment(userID, ticker, amount); err != nil {
		return err
	}
	return s.ledger.Debit(userID, ticker, amount)
}

// checkAdjustment validates the common deposit/withdraw preconditions.
func (s *AdminService) checkAdjustment(userID, ticker string, amount int64) error {
	if amount <= 0 {
		return &domain.ValidationError{
			Message: "amount must be a positive integer",
		}
	}
	if _, err := s.users.Get(userID); err != nil {
		return err
	}
	if !s.instruments.Exists(ticker) {
		return domain.ErrInstrumentNotFound
	}
	return nil
}
