// Package tellerservice manages business logic layer of tellers.
package tellerservice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/go-teller/branch-bank/internal/domain"
	"github.com/go-teller/branch-bank/pkg/errorspkg"
	"github.com/go-teller/branch-bank/pkg/passpkg"
)

// Repo provides data access layer interface needed by teller service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package tellerservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateTellerParams) (domain.Teller, error)
	Get(ctx context.Context, username string) (domain.Teller, error)
}

// Service facilitates teller service layer logic.
type Service struct {
	repo Repo
}

// New returns teller service struct to manage teller bussines logic.
func New(tr Repo) *Service {
	return &Service{
		repo: tr,
	}
}

// NewTellerWithoutPassword returns teller with removed sensitive data.
func NewTellerWithoutPassword(t domain.Teller) domain.TellerWithoutPassword {
	return domain.TellerWithoutPassword{
		Username:  t.Username,
		FullName:  t.FullName,
		Email:     t.Email,
		Branch:    t.Branch,
		CreatedAt: t.CreatedAt,
	}
}

// Create creates and returns a teller.
func (s *Service) Create(ctx context.Context, username, password, fullname, email, branch string) (domain.TellerWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	var result domain.TellerWithoutPassword

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	arg := domain.CreateTellerParams{
		Username:       username,
		HashedPassword: hashedPassword,
		FullName:       fullname,
		Email:          email,
		Branch:         branch,
	}

	gotTeller, err := s.repo.Create(ctx, arg)
	if err != nil {
		return result, err
	}

	result = NewTellerWithoutPassword(gotTeller)

	return result, nil
}

// CheckPassword checks if the password is valid for the given username.
func (s *Service) CheckPassword(ctx context.Context, username, pass string) (domain.TellerWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	var response domain.TellerWithoutPassword

	gotTeller, err := s.repo.Get(ctx, username)
	if err != nil {
		return response, err
	}

	err = passpkg.Check(pass, gotTeller.HashedPassword)
	if err != nil {
		l.Warn().Err(err).Send()
		return response, domain.ErrWrongPassword
	}

	response = NewTellerWithoutPassword(gotTeller)

	return response, nil
}
