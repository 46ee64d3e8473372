package domain

import (
	"errors"
	"time"
)

// ErrNotificationNotFound indicates that the notification is not found.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationType enumerates event sources.
type NotificationType string

// Notification types.
const (
	NotificationCheque      NotificationType = "cheque"
	NotificationTransaction NotificationType = "transaction"
)

// NotificationStatus enumerates event outcomes.
type NotificationStatus string

// Notification statuses.
const (
	NotificationCleared  NotificationStatus = "cleared"
	NotificationRejected NotificationStatus = "rejected"
	NotificationSuccess  NotificationStatus = "success"
)

// NotificationDetails carries the structured part of an event.
type NotificationDetails struct {
	ChequeID      int64  `json:"cheque_id,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	Amount        string `json:"amount,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// Notification is a record of an event surfaced to a teller or customer.
type Notification struct {
	ID         int64               `json:"id"`
	CustomerID int64               `json:"customer_id"`
	Type       NotificationType    `json:"type"`
	Status     NotificationStatus  `json:"status"`
	Message    string              `json:"message"`
	Details    NotificationDetails `json:"details"`
	Read       bool                `json:"read"`
	CreatedAt  time.Time           `json:"created_at"`
}

// CreateNotificationParams is the input data to append a notification.
type CreateNotificationParams struct {
	CustomerID int64               `json:"customer_id"`
	Type       NotificationType    `json:"type"`
	Status     NotificationStatus  `json:"status"`
	Message    string              `json:"message"`
	Details    NotificationDetails `json:"details"`
}
