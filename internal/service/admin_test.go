package service

import (
	"errors"
	"testing"

	"toyexchange/internal/domain"
	"toyexchange/internal/ledger"
	"toyexchange/internal/store"
)

type adminTestEnv struct {
	admin  *AdminService
	users  *store.UserStore
	ledger *ledger.Ledger
}

func newAdminTestEnv(t *testing.T) *adminTestEnv {
	t.Helper()

	users := store.NewUserStore()
	instruments := store.NewInstrumentStore()
	led := ledger.New()
	if err := instruments.Create(&domain.Instrument{Ticker: domain.CashTicker, Name: "Russian Ruble"}); err != nil {
		t.Fatalf("seeding cash instrument: %v", err)
	}
	users.Create(&domain.User{ID: "alice", Name: "alice", Role: domain.UserRoleUser})

	return &adminTestEnv{
		admin:  NewAdminService(users, instruments, led),
		users:  users,
		ledger: led,
	}
}

func TestAdminService_CreateInstrument(t *testing.T) {
	env := newAdminTestEnv(t)

	inst, err := env.admin.CreateInstrument("MEMCOIN", "  Meme Coin  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.Name != "Meme Coin" {
		t.Errorf("expected trimmed name, got %q", inst.Name)
	}

	if _, err := env.admin.CreateInstrument("MEMCOIN", "Again"); !errors.Is(err, domain.ErrInstrumentExists) {
		t.Errorf("expected ErrInstrumentExists, got %v", err)
	}

	var verr *domain.ValidationError
	if _, err := env.admin.CreateInstrument("bad ticker", "Name"); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for ticker, got %v", err)
	}
	if _, err := env.admin.CreateInstrument("OKAY", "   "); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for empty name, got %v", err)
	}
}

func TestAdminService_DeleteInstrument(t *testing.T) {
	env := newAdminTestEnv(t)
	if _, err := env.admin.CreateInstrument("MEMCOIN", "Meme Coin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := env.admin.DeleteInstrument("MEMCOIN"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := env.admin.DeleteInstrument("MEMCOIN"); !errors.Is(err, domain.ErrInstrumentNotFound) {
		t.Errorf("expected ErrInstrumentNotFound, got %v", err)
	}
}

func TestAdminService_DeleteUser(t *testing.T) {
	env := newAdminTestEnv(t)

	if err := env.admin.DeleteUser("alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := env.admin.DeleteUser("alice"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAdminService_DepositWithdraw(t *testing.T) {
	env := newAdminTestEnv(t)

	if err := env.admin.Deposit("alice", domain.CashTicker, 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := env.ledger.Balance("alice", domain.CashTicker); got != 1000 {
		t.Errorf("expected balance 1000, got %d", got)
	}

	if err := env.admin.Withdraw("alice", domain.CashTicker, 400); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := env.ledger.Balance("alice", domain.CashTicker); got != 600 {
		t.Errorf("expected balance 600, got %d", got)
	}

	if err := env.admin.Withdraw("alice", domain.CashTicker, 601); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := env.ledger.Balance("alice", domain.CashTicker); got != 600 {
		t.Errorf("expected untouched balance 600, got %d", got)
	}
}

func TestAdminService_AdjustmentValidation(t *testing.T) {
	env := newAdminTestEnv(t)

	var verr *domain.ValidationError
	if err := env.admin.Deposit("alice", domain.CashTicker, 0); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for zero amount, got %v", err)
	}
	if err := env.admin.Deposit("alice", domain.CashTicker, -5); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for negative amount, got %v", err)
	}
	if err := env.admin.Deposit("nobody", domain.CashTicker, 10); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if err := env.admin.Deposit("alice", "GHOST", 10); !errors.Is(err, domain.ErrInstrumentNotFound) {
		t.Errorf("expected ErrInstrumentNotFound, got %v", err)
	}
	if err := env.admin.Withdraw("nobody", domain.CashTicker, 10); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
