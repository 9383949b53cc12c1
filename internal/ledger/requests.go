package ledger

import (
	"strings"

	"github.com/bank-account-ledger/internal/domain/account"
	"github.com/bank-account-ledger/internal/domain/shared"
)

// OpenAccountRequest opens an account for the acting principal
type OpenAccountRequest struct {
	Number   string `json:"number"`
	Password string `json:"password"`
	Balance  int64  `json:"balance"` // initial balance, minor units
}

func (r OpenAccountRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.Number) == "":
		return shared.Invalid("account number is required")
	case strings.TrimSpace(r.Number) != r.Number:
		return account.ErrPaddedNumber
	case r.Password == "":
		return shared.Invalid("account password is required")
	case len(r.Password) > account.MaxPasswordBytes:
		return account.ErrPasswordTooLong
	case r.Balance < 0:
		return shared.Invalid("initial balance cannot be negative")
	}
	return nil
}

// WithdrawRequest takes Amount out of the account numbered WAccountNumber
type WithdrawRequest struct {
	Amount           int64  `json:"amount"`
	WAccountNumber   string `json:"w_account_number"`
	WAccountPassword string `json:"w_account_password"`
}

func (r WithdrawRequest) Validate() error {
	switch {
	case r.Amount <= 0:
		return shared.Invalid("amount must be positive")
	case strings.TrimSpace(r.WAccountNumber) == "":
		return shared.Invalid("withdrawal account number is required")
	case r.WAccountPassword == "":
		return shared.Invalid("withdrawal account password is required")
	}
	return nil
}

// DepositRequest adds Amount to the account numbered DAccountNumber
type DepositRequest struct {
	Amount         int64  `json:"amount"`
	DAccountNumber string `json:"d_account_number"`
}

func (r DepositRequest) Validate() error {
	switch {
	case r.Amount <= 0:
		return shared.Invalid("amount must be positive")
	case strings.TrimSpace(r.DAccountNumber) == "":
		return shared.Invalid("deposit account number is required")
	}
	return nil
}

// TransferRequest moves Amount between two accounts. Password belongs to the
// withdrawal account.
type TransferRequest struct {
	Amount         int64  `json:"amount"`
	WAccountNumber string `json:"w_account_number"`
	DAccountNumber string `json:"d_account_number"`
	Password       string `json:"password"`
}

func (r TransferRequest) Validate() error {
	switch {
	case r.Amount <= 0:
		return shared.Invalid("amount must be positive")
	case strings.TrimSpace(r.WAccountNumber) == "":
		return shared.Invalid("withdrawal account number is required")
	case strings.TrimSpace(r.DAccountNumber) == "":
		return shared.Invalid("deposit account number is required")
	case r.WAccountNumber == r.DAccountNumber:
		return shared.Invalid("cannot transfer to the same account")
	case r.Password == "":
		return shared.Invalid("withdrawal account password is required")
	}
	return nil
}
