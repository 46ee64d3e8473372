// Package customerservice manages business logic layer of customers.
package customerservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-teller/branch-bank/internal/domain"
)

// Repo provides data access layer interface needed by customer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package customerservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateCustomerParams) (domain.Customer, error)
	Get(ctx context.Context, id int64) (domain.Customer, error)
	Update(ctx context.Context, arg domain.UpdateCustomerParams) (domain.Customer, error)
	Search(ctx context.Context, query string, limit, offset int32) ([]domain.Customer, error)
}

// Service facilitates customer service layer logic.
type Service struct {
	repo Repo
}

// New returns customer service struct to manage customer bussines logic.
func New(cr Repo) *Service {
	return &Service{repo: cr}
}

// Create opens a customer account with the given opening balance.
func (s *Service) Create(ctx context.Context, arg domain.CreateCustomerParams) (domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	if arg.Balance == "" {
		arg.Balance = "0"
	}

	balance, err := decimal.NewFromString(arg.Balance)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Customer{}, domain.ErrInvalidAmount
	}

	if balance.IsNegative() {
		return domain.Customer{}, domain.ErrNegativeAmount
	}

	customer, err := s.repo.Create(ctx, arg)
	if err != nil {
		return customer, err
	}

	return customer, nil
}

// Get returns the customer with the given id.
func (s *Service) Get(ctx context.Context, id int64) (domain.Customer, error) {
	return s.repo.Get(ctx, id)
}

// Update changes the allowed profile fields only; the balance is mutated
// exclusively by the transaction processor.
func (s *Service) Update(ctx context.Context, arg domain.UpdateCustomerParams) (domain.Customer, error) {
	return s.repo.Update(ctx, arg)
}

// Search returns customers matching the query by name, account number or email.
func (s *Service) Search(ctx context.Context, query string, pageSize, pageID int32) ([]domain.Customer, error) {
	limit := pageSize
	offset := (pageID - 1) * pageSize

	customers, err := s.repo.Search(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}

	return customers, nil
}
