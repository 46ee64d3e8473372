// Package helpers provides seed data for integration tests.
package helpers

import (
	"context"
	"testing"

	"github.com/go-teller/branch-bank/internal/customerrepo"
	"github.com/go-teller/branch-bank/internal/domain"
	"github.com/go-teller/branch-bank/internal/tellerrepo"
	"github.com/go-teller/branch-bank/pkg/dbpkg"
	"github.com/go-teller/branch-bank/pkg/passpkg"
	"github.com/go-teller/branch-bank/pkg/randompkg"
)

// SeedTeller creates a random teller.
func SeedTeller(t *testing.T, db dbpkg.SQLInterface) domain.Teller {
	t.Helper()

	hashedPassword, err := passpkg.Hash(randompkg.String(10))
	if err != nil {
		t.Fatalf("passpkg.Hash(password) returned error: %v", err)
	}

	arg := domain.CreateTellerParams{
		Username:       randompkg.Owner(),
		HashedPassword: hashedPassword,
		FullName:       randompkg.Owner(),
		Email:          randompkg.Email(),
		Branch:         "Main Branch",
	}

	tellerRepo := tellerrepo.NewRepoPGS(db)

	teller, err := tellerRepo.Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("tellerRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return teller
}

// SeedCustomerWithBalance creates a random customer with the given opening balance.
func SeedCustomerWithBalance(t *testing.T, db dbpkg.SQLInterface, balance string) domain.Customer {
	t.Helper()

	arg := domain.CreateCustomerParams{
		AccountNumber: randompkg.AccountNumber(),
		Name:          randompkg.Owner(),
		Email:         randompkg.Email(),
		Phone:         "+1" + randompkg.Digits(10),
		Address:       randompkg.String(20),
		AccountType:   domain.AccountTypeSavings,
		Balance:       balance,
	}

	customerRepo := customerrepo.NewRepoPGS(db)

	customer, err := customerRepo.Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("customerRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return customer
}

// SeedCustomerWith1000Balance creates a random customer holding 1000.
func SeedCustomerWith1000Balance(t *testing.T, db dbpkg.SQLInterface) domain.Customer {
	t.Helper()

	return SeedCustomerWithBalance(t, db, "1000")
}
