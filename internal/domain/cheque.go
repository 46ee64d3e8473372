package domain

import (
	"errors"
	"time"
)

var (
	// ErrChequeNotFound indicates that the cheque is not found.
	ErrChequeNotFound = errors.New("cheque not found")
	// ErrDuplicateChequeNumber indicates that the cheque number was already submitted.
	ErrDuplicateChequeNumber = errors.New("cheque number already processed")
	// ErrChequeAlreadyProcessed indicates that the cheque has left the pending state.
	ErrChequeAlreadyProcessed = errors.New("cheque already processed")
	// ErrRejectionReasonRequired indicates a rejection without a reason.
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
	// ErrInvalidChequeDecision indicates an unknown processing decision.
	ErrInvalidChequeDecision = errors.New("invalid cheque decision")
)

// ChequeStatus enumerates cheque lifecycle states.
type ChequeStatus string

// Cheque statuses. A cheque leaves pending exactly once; cleared and
// rejected are terminal.
const (
	ChequePending  ChequeStatus = "pending"
	ChequeCleared  ChequeStatus = "cleared"
	ChequeRejected ChequeStatus = "rejected"
)

// Cheque represents a deposited or to-be-withdrawn cheque instrument.
type Cheque struct {
	ID              int64           `json:"id"`
	ChequeNumber    string          `json:"cheque_number"`
	Amount          string          `json:"amount"` // must be positive
	IssuingBank     string          `json:"issuing_bank"`
	IssueDate       time.Time       `json:"issue_date"`
	CustomerID      int64           `json:"customer_id"`
	Kind            TransactionKind `json:"transaction_type"`
	Status          ChequeStatus    `json:"status"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	ProcessedBy     string          `json:"processed_by,omitempty"`
	ProcessedAt     time.Time       `json:"processed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SubmitChequeParams is the input data to submit a cheque for clearing.
type SubmitChequeParams struct {
	ChequeNumber string          `json:"cheque_number"`
	Amount       string          `json:"amount"`
	IssuingBank  string          `json:"issuing_bank"`
	IssueDate    time.Time       `json:"issue_date"`
	CustomerID   int64           `json:"customer_id"`
	Kind         TransactionKind `json:"transaction_type"`
	Notes        string          `json:"notes"`
	SubmittedBy  string          `json:"submitted_by"`
}

// ProcessChequeParams is the input data for the clearing decision.
type ProcessChequeParams struct {
	ChequeID        int64        `json:"cheque_id"`
	Decision        ChequeStatus `json:"decision"`
	RejectionReason string       `json:"rejection_reason"`
	ProcessedBy     string       `json:"processed_by"`
}

// ListChequesParams is the input data to filter cheques.
type ListChequesParams struct {
	CustomerID int64        `json:"customer_id"`
	Status     ChequeStatus `json:"status"`
	Limit      int32        `json:"limit"`
	Offset     int32        `json:"offset"`
}

// ChequeProcessResult is the result of the clearing decision. Transaction and
// Customer are zero values when the cheque was rejected.
type ChequeProcessResult struct {
	Cheque      Cheque      `json:"cheque"`
	Transaction Transaction `json:"transaction,omitempty"`
	Customer    Customer    `json:"customer,omitempty"`
}
