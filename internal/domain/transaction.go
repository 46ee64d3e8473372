package domain

import (
	"errors"
	"time"
)

var (
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrInvalidAmount indicates invalid amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNegativeAmount indicates non-positive amount.
	ErrNegativeAmount = errors.New("amount must be positive")
	// ErrInvalidTransactionKind indicates an unknown transaction kind.
	ErrInvalidTransactionKind = errors.New("invalid transaction kind")
	// ErrWithdrawalMethodRequired indicates a withdrawal without a method.
	ErrWithdrawalMethodRequired = errors.New("withdrawal method is required")
	// ErrInvalidWithdrawalMethod indicates an unknown withdrawal method.
	ErrInvalidWithdrawalMethod = errors.New("invalid withdrawal method")
	// ErrLimitExceeded indicates that a withdrawal limit rejected the request.
	ErrLimitExceeded = errors.New("withdrawal limit exceeded")
	// ErrTransactionIDGeneration indicates the transaction id generator ran out of attempts.
	ErrTransactionIDGeneration = errors.New("cannot generate unique transaction id")
)

// TransactionKind enumerates balance change directions.
type TransactionKind string

// Supported transaction kinds.
const (
	TransactionDeposit    TransactionKind = "deposit"
	TransactionWithdrawal TransactionKind = "withdrawal"
)

// WithdrawalMethod enumerates withdrawal channels.
type WithdrawalMethod string

// Supported withdrawal methods. MethodNone marks deposits.
const (
	MethodCash   WithdrawalMethod = "cash"
	MethodCheque WithdrawalMethod = "cheque"
	MethodNone   WithdrawalMethod = ""
)

// TransactionStatus enumerates transaction lifecycle states.
//
// Only completed transactions are ever persisted: a failed operation leaves
// no record because the whole unit of work rolls back.
type TransactionStatus string

// Transaction statuses.
const (
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
	StatusPending   TransactionStatus = "pending"
)

// Transaction is an immutable record of one balance change.
//
// BalanceAfter equals the customer balance immediately after the change was
// applied; ordered by creation time the records reconstruct the balance
// history.
type Transaction struct {
	ID            int64             `json:"id"`
	TransactionID string            `json:"transaction_id"`
	CustomerID    int64             `json:"customer_id"`
	Kind          TransactionKind   `json:"kind"`
	Amount        string            `json:"amount"` // must be positive
	BalanceAfter  string            `json:"balance_after"`
	Method        WithdrawalMethod  `json:"withdrawal_method,omitempty"`
	Description   string            `json:"description,omitempty"`
	Status        TransactionStatus `json:"status"`
	PerformedBy   string            `json:"performed_by"`
	CreatedAt     time.Time         `json:"created_at"`
}

// ProcessTransactionParams is the input data for the transaction processor.
type ProcessTransactionParams struct {
	CustomerID  int64            `json:"customer_id"`
	Kind        TransactionKind  `json:"kind"`
	Amount      string           `json:"amount"`
	Description string           `json:"description"`
	Method      WithdrawalMethod `json:"withdrawal_method"`
	PerformedBy string           `json:"performed_by"`
}

// CreateTransactionParams is the input data to persist a ledger record.
type CreateTransactionParams struct {
	CustomerID   int64
	Kind         TransactionKind
	Amount       string
	BalanceAfter string
	Method       WithdrawalMethod
	Description  string
	PerformedBy  string
}

// TransactionResult is the result of an applied transaction: the created
// ledger record and the customer carrying the updated balance.
type TransactionResult struct {
	Transaction Transaction `json:"transaction"`
	Customer    Customer    `json:"customer"`
}
