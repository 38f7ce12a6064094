package domain

import (
	"errors"
	"testing"
)

func TestWallet_Available(t *testing.T) {
	w := &Wallet{Balance: 100, Reserved: 30}
	if got := w.Available(); got != 70 {
		t.Fatalf("expected available 70, got %d", got)
	}
}

func TestWallet_ValidateConsume(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
		reserve int64
		amount  int64
		wantErr error
	}{
		{"sufficient", 100, 0, 100, nil},
		{"sufficient with reservation", 100, 30, 70, nil},
		{"insufficient", 100, 0, 101, ErrInsufficientFunds},
		{"reservation blocks consumption", 100, 30, 71, ErrInsufficientFunds},
		{"empty wallet", 0, 0, 1, ErrInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Wallet{Balance: tt.balance, Reserved: tt.reserve}
			err := w.ValidateConsume(tt.amount)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestWallet_ValidateRelease(t *testing.T) {
	w := &Wallet{Balance: 100, Reserved: 30}

	if err := w.ValidateRelease(30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := w.ValidateRelease(31); !errors.Is(err, ErrInvalidReservation) {
		t.Fatalf("expected ErrInvalidReservation, got %v", err)
	}
}

func TestWallet_ValidateCreditOverflow(t *testing.T) {
	w := &Wallet{Balance: MaxWalletBalance - 10}

	if err := w.ValidateCredit(10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := w.ValidateCredit(11); !errors.Is(err, ErrBalanceOverflow) {
		t.Fatalf("expected ErrBalanceOverflow, got %v", err)
	}
}

func TestBalanceView_NilWallet(t *testing.T) {
	view := BalanceView("acct-1", nil)

	if view.AccountID != "acct-1" || view.Balance != 0 || view.Reserved != 0 || view.Available != 0 {
		t.Fatalf("expected zero balance view, got %+v", view)
	}
}

func TestBalanceView(t *testing.T) {
	view := BalanceView("acct-1", &Wallet{AccountID: "acct-1", Balance: 50, Reserved: 20})

	if view.Balance != 50 || view.Reserved != 20 || view.Available != 30 {
		t.Fatalf("unexpected view: %+v", view)
	}
}
