package domain

import (
	"errors"
	"time"
)

var (
	// ErrUsernameAlreadyExists indicates that the teller with the given username already exists.
	ErrUsernameAlreadyExists = errors.New("username already exists")
	// ErrEmailAlreadyExists indicates that the teller with the given email already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrTellerNotFound indicates that the teller is not found.
	ErrTellerNotFound = errors.New("teller not found")
	// ErrWrongPassword indicates the wrong password for the given teller.
	ErrWrongPassword = errors.New("wrong password")
)

// Teller holds branch teller account data. Tellers are the actors recorded on
// every transaction and cheque decision.
type Teller struct {
	Username          string    `json:"username"`
	HashedPassword    string    `json:"hashed_password"`
	FullName          string    `json:"full_name"`
	Email             string    `json:"email"`
	Branch            string    `json:"branch"`
	PasswordChangedAt time.Time `json:"password_changed_at,omitempty"`
	CreatedAt         time.Time `json:"created_at,omitempty"`
}

// CreateTellerParams is the input data to create a teller.
type CreateTellerParams struct {
	Username       string `json:"username"`
	HashedPassword string `json:"hashed_password"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Branch         string `json:"branch"`
}

// TellerWithoutPassword is Teller data excluding password data.
type TellerWithoutPassword struct {
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Branch    string    `json:"branch"`
	CreatedAt time.Time `json:"created_at"`
}
