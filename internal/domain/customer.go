// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrCustomerNotFound indicates that the customer is not found.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrAccountNumberAlreadyExists indicates that the account number is already taken.
	ErrAccountNumberAlreadyExists = errors.New("account number already exists")
	// ErrInsufficientFunds indicates that the customer balance does not cover the withdrawal.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// AccountType enumerates the supported customer account types.
type AccountType string

// Supported account types.
const (
	AccountTypeSavings      AccountType = "savings"
	AccountTypeChecking     AccountType = "checking"
	AccountTypeFixedDeposit AccountType = "fixed-deposit"
)

// Customer holds customer profile data and the authoritative current balance.
//
// Balance is mutated only through the transaction processor; profile fields
// may change via profile update.
type Customer struct {
	ID            int64       `json:"id"`
	AccountNumber string      `json:"account_number"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Phone         string      `json:"phone"`
	Address       string      `json:"address"`
	AccountType   AccountType `json:"account_type"`
	Balance       string      `json:"balance"`
	CreatedAt     time.Time   `json:"created_at"`
}

// CreateCustomerParams is the input data to open a customer account.
type CreateCustomerParams struct {
	AccountNumber string      `json:"account_number"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Phone         string      `json:"phone"`
	Address       string      `json:"address"`
	AccountType   AccountType `json:"account_type"`
	Balance       string      `json:"balance"`
}

// UpdateCustomerParams is the input data to update customer contact details.
// Empty fields are left unchanged.
type UpdateCustomerParams struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}
