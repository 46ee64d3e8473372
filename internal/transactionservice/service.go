// Package transactionservice manages business logic layer of ledger transactions.
package transactionservice

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-teller/branch-bank/internal/domain"
)

// Repo provides data access layer interface needed by transaction service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type Repo interface {
	Process(ctx context.Context, arg domain.ProcessTransactionParams) (domain.TransactionResult, error)
	List(ctx context.Context, customerID int64, limit, offset int32) ([]domain.Transaction, error)
}

// Emitter provides the notification interface needed by transaction service layer.
type Emitter interface {
	Emit(ctx context.Context, arg domain.CreateNotificationParams) (domain.Notification, error)
}

// Service facilitates transaction service layer logic.
type Service struct {
	repo    Repo
	emitter Emitter
}

// New returns transaction service struct to manage transaction bussines logic.
func New(tr Repo, ne Emitter) *Service {
	return &Service{
		repo:    tr,
		emitter: ne,
	}
}

func validRequest(arg *domain.ProcessTransactionParams) error {
	amount, err := decimal.NewFromString(arg.Amount)
	if err != nil {
		return domain.ErrInvalidAmount
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrNegativeAmount
	}

	switch arg.Kind {
	case domain.TransactionDeposit:
		// Deposits never carry a withdrawal method.
		arg.Method = domain.MethodNone
	case domain.TransactionWithdrawal:
		switch arg.Method {
		case domain.MethodNone:
			return domain.ErrWithdrawalMethodRequired
		case domain.MethodCash, domain.MethodCheque:
		default:
			return domain.ErrInvalidWithdrawalMethod
		}
	default:
		return domain.ErrInvalidTransactionKind
	}

	return nil
}

// Process checks the transaction request and then applies it atomically.
//
// On success it emits a notification for the customer; a failed emit is
// logged but does not fail the already committed transaction.
func (s *Service) Process(ctx context.Context, arg domain.ProcessTransactionParams) (domain.TransactionResult, error) {
	l := zerolog.Ctx(ctx)

	if err := validRequest(&arg); err != nil {
		l.Info().Err(err).Send()
		return domain.TransactionResult{}, err
	}

	result, err := s.repo.Process(ctx, arg)
	if err != nil {
		return result, err
	}

	_, err = s.emitter.Emit(ctx, domain.CreateNotificationParams{
		CustomerID: result.Customer.ID,
		Type:       domain.NotificationTransaction,
		Status:     domain.NotificationSuccess,
		Message:    fmt.Sprintf("%s of %s completed", result.Transaction.Kind, result.Transaction.Amount),
		Details: domain.NotificationDetails{
			TransactionID: result.Transaction.TransactionID,
			Amount:        result.Transaction.Amount,
		},
	})
	if err != nil {
		l.Warn().Err(err).Msg("transaction notification emit failed")
	}

	return result, nil
}

// History returns the customer's transactions, most recent first.
func (s *Service) History(ctx context.Context, customerID int64, pageSize, pageID int32) ([]domain.Transaction, error) {
	limit := pageSize
	offset := (pageID - 1) * pageSize

	transactions, err := s.repo.List(ctx, customerID, limit, offset)
	if err != nil {
		return nil, err
	}

	return transactions, nil
}
