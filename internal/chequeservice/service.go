// Package chequeservice manages business logic layer of the cheque clearing
// workflow.
package chequeservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-teller/branch-bank/internal/domain"
)

// Repo provides data access layer interface needed by cheque service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package chequeservice
type Repo interface {
	Create(ctx context.Context, arg domain.SubmitChequeParams) (domain.Cheque, error)
	Get(ctx context.Context, id int64) (domain.Cheque, error)
	List(ctx context.Context, arg domain.ListChequesParams) ([]domain.Cheque, error)
	Process(ctx context.Context, arg domain.ProcessChequeParams) (domain.ChequeProcessResult, error)
}

// Service facilitates cheque service layer logic.
type Service struct {
	repo Repo
}

// New returns cheque service struct to manage cheque bussines logic.
func New(cr Repo) *Service {
	return &Service{repo: cr}
}

// Submit checks the cheque fields and then records it in pending state.
func (s *Service) Submit(ctx context.Context, arg domain.SubmitChequeParams) (domain.Cheque, error) {
	l := zerolog.Ctx(ctx)

	amount, err := decimal.NewFromString(arg.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Cheque{}, domain.ErrInvalidAmount
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.Cheque{}, domain.ErrNegativeAmount
	}

	if arg.Kind != domain.TransactionDeposit && arg.Kind != domain.TransactionWithdrawal {
		return domain.Cheque{}, domain.ErrInvalidTransactionKind
	}

	cheque, err := s.repo.Create(ctx, arg)
	if err != nil {
		return cheque, err
	}

	return cheque, nil
}

// Process applies the clearing decision for a pending cheque.
//
// A rejection must carry a non-empty reason; a cheque that already left
// pending is rejected with ErrChequeAlreadyProcessed by the repository.
func (s *Service) Process(ctx context.Context, arg domain.ProcessChequeParams) (domain.ChequeProcessResult, error) {
	l := zerolog.Ctx(ctx)

	switch arg.Decision {
	case domain.ChequeCleared:
	case domain.ChequeRejected:
		if arg.RejectionReason == "" {
			l.Info().Msg("cheque rejection submitted without a reason")
			return domain.ChequeProcessResult{}, domain.ErrRejectionReasonRequired
		}
	default:
		return domain.ChequeProcessResult{}, domain.ErrInvalidChequeDecision
	}

	result, err := s.repo.Process(ctx, arg)
	if err != nil {
		return result, err
	}

	return result, nil
}

// Get returns the cheque with the given id.
func (s *Service) Get(ctx context.Context, id int64) (domain.Cheque, error) {
	return s.repo.Get(ctx, id)
}

// List returns cheques filtered by customer and/or status.
func (s *Service) List(ctx context.Context, arg domain.ListChequesParams) ([]domain.Cheque, error) {
	return s.repo.List(ctx, arg)
}
