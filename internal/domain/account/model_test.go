package account

import (
	"testing"
	"time"

	"sportsschool/internal/domain/access"
)

func init() {
	// Minimum cost keeps the password tests fast.
	bcryptCost = 4
}

// TestAccount_Validate tests validation of Account.
func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		account Account
		wantErr error
	}{
		{"valid admin", Account{Email: "admin@school.test", Role: access.RoleAdmin}, nil},
		{"valid finance", Account{Email: "cash@school.test", Role: access.RoleFinance}, nil},
		{"empty email", Account{Email: "  ", Role: access.RoleAdmin}, ErrEmptyEmail},
		{"missing at", Account{Email: "nobody", Role: access.RoleAdmin}, ErrInvalidEmail},
		{"unknown role", Account{Email: "a@b.test", Role: "member"}, ErrInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.account.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestAccount_SetPassword_CheckPassword verifies hashing round-trips and rejects short passwords.
func TestAccount_SetPassword_CheckPassword(t *testing.T) {
	a := Account{Email: "coach@school.test", Role: access.RoleCoach}
	if err := a.SetPassword("short"); err != ErrPasswordTooShort {
		t.Fatalf("SetPassword(short) = %v, want ErrPasswordTooShort", err)
	}
	if err := a.SetPassword(""); err != ErrEmptyPassword {
		t.Fatalf("SetPassword(empty) = %v, want ErrEmptyPassword", err)
	}
	if err := a.SetPassword("correct horse battery"); err != nil {
		t.Fatalf("SetPassword() unexpected error: %v", err)
	}
	if err := a.CheckPassword("correct horse battery"); err != nil {
		t.Errorf("CheckPassword(correct) = %v", err)
	}
	if err := a.CheckPassword("wrong horse battery"); err != ErrWrongPassword {
		t.Errorf("CheckPassword(wrong) = %v, want ErrWrongPassword", err)
	}
}

// TestAccount_CheckPassword_NoHash verifies an account without a hash never authenticates.
func TestAccount_CheckPassword_NoHash(t *testing.T) {
	a := Account{}
	if err := a.CheckPassword("anything at all"); err != ErrWrongPassword {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
}

// TestAccount_Lockout verifies the account locks after repeated failures and unlocks on reset.
func TestAccount_Lockout(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	a := Account{}
	for i := 0; i < MaxFailedLogins-1; i++ {
		a.RecordFailedLogin(now)
	}
	if a.IsLocked(now) {
		t.Fatal("should not lock before threshold")
	}
	a.RecordFailedLogin(now)
	if !a.IsLocked(now) {
		t.Fatal("should lock at threshold")
	}
	if a.IsLocked(now.Add(LockoutDuration + time.Second)) {
		t.Error("lock should expire")
	}
	a.ResetFailedLogins()
	if a.FailedLogins != 0 || a.IsLocked(now) {
		t.Error("reset should clear counter and lock")
	}
}

// TestAccount_Can verifies capability checks delegate to the role.
func TestAccount_Can(t *testing.T) {
	a := Account{Role: access.RoleFinance}
	if !a.Can(access.EditInvoices) {
		t.Error("finance should edit invoices")
	}
	if a.Can(access.EditSettings) {
		t.Error("finance should not edit settings")
	}
}
