package account

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/bank-account-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Common errors
var (
	ErrInsufficientFunds = shared.InsufficientFunds("insufficient balance for withdrawal")
	ErrInvalidAmount     = shared.Invalid("amount must be positive")
	ErrBalanceOverflow   = shared.Invalid("deposit would overflow the balance")
	ErrNotOwner          = shared.Unauthorized("account is not owned by the principal")
	ErrWrongPassword     = shared.BadCredential("account password does not match")
	ErrEmptyNumber       = shared.Invalid("account number cannot be empty")
	ErrPaddedNumber      = shared.Invalid("account number cannot start or end with whitespace")
	ErrPasswordTooLong   = shared.Invalid("account password cannot exceed 72 bytes")
	ErrEmptyPassword     = shared.Invalid("account password cannot be empty")
	ErrEmptyOwner        = shared.Invalid("owning principal cannot be empty")
	ErrNegativeBalance   = shared.Invalid("initial balance cannot be negative")
)

// PasswordCost is the bcrypt cost used when hashing account passwords
var PasswordCost = bcrypt.DefaultCost

// MaxPasswordBytes is the longest password bcrypt accepts
const MaxPasswordBytes = 72

// Account represents a bank account
type Account struct {
	ID        uuid.UUID `json:"id"`
	Number    string    `json:"number"`
	UserID    string    `json:"user_id"`
	Password  string    `json:"-"`       // bcrypt hash
	Balance   int64     `json:"balance"` // Stored in minor units
	CreatedAt time.Time `json:"created_at"`
}

// NewAccount creates an account bound to userID. The plain password is hashed
// before it is stored on the account.
func NewAccount(number string, password string, initialBalance int64, userID string) (*Account, error) {
	if number == "" {
		return nil, ErrEmptyNumber
	}
	if strings.TrimSpace(number) != number {
		return nil, ErrPaddedNumber
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}
	if len(password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	if userID == "" {
		return nil, ErrEmptyOwner
	}
	if initialBalance < 0 {
		return nil, ErrNegativeBalance
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, shared.WrapError(shared.KindSystem, "failed to hash account password", err)
	}

	return &Account{
		ID:        uuid.New(),
		Number:    number,
		UserID:    userID,
		Password:  string(hash),
		Balance:   initialBalance,
		CreatedAt: time.Now(),
	}, nil
}

// CheckOwner fails unless principalID owns the account
func (a *Account) CheckOwner(principalID string) error {
	if a.UserID != principalID {
		return ErrNotOwner
	}
	return nil
}

// CheckPassword fails unless candidate matches the stored password hash
func (a *Account) CheckPassword(candidate string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(candidate)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// CheckBalance fails if amount is not positive or exceeds the current balance
func (a *Account) CheckBalance(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > a.Balance {
		return ErrInsufficientFunds
	}
	return nil
}

// Withdraw subtracts amount from the balance. It never lets the balance go
// below zero, even when the caller skipped CheckBalance.
func (a *Account) Withdraw(amount int64) error {
	if err := a.CheckBalance(amount); err != nil {
		return err
	}

	a.Balance -= amount
	return nil
}

// Deposit adds amount to the balance
func (a *Account) Deposit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if a.Balance > math.MaxInt64-amount {
		return ErrBalanceOverflow
	}

	a.Balance += amount
	return nil
}
