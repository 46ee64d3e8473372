// Package limitpolicy evaluates withdrawal limits.
//
// The policy is a pure function of the withdrawal request and the recent
// transaction history; callers must gather the history inside the same
// serialized section that guards the balance so the count cannot race.
package limitpolicy

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/go-teller/branch-bank/internal/domain"
	"github.com/go-teller/branch-bank/pkg/configpkg"
)

// Window is the trailing interval over which cash withdrawals are counted.
const Window = time.Hour

// Policy holds the configured withdrawal ceilings.
type Policy struct {
	CashMaxAmount   decimal.Decimal
	ChequeMaxAmount decimal.Decimal
	CashMaxPerHour  int
}

// FromConfig parses the configured limits into a Policy.
func FromConfig(config configpkg.Config) (Policy, error) {
	var p Policy

	cashMax, err := decimal.NewFromString(config.CashWithdrawalLimit)
	if err != nil {
		return p, fmt.Errorf("parsing cash withdrawal limit %q: %w", config.CashWithdrawalLimit, err)
	}

	chequeMax, err := decimal.NewFromString(config.ChequeWithdrawalLimit)
	if err != nil {
		return p, fmt.Errorf("parsing cheque withdrawal limit %q: %w", config.ChequeWithdrawalLimit, err)
	}

	p = Policy{
		CashMaxAmount:   cashMax,
		ChequeMaxAmount: chequeMax,
		CashMaxPerHour:  config.CashWithdrawalsPerHour,
	}

	return p, nil
}

// CheckWithdrawal decides whether a withdrawal is allowed.
//
// recentCashCount is the number of completed cash withdrawals for the
// customer whose recorded timestamps fall within Window of now. Deposits
// carry no limits and are never checked.
func (p Policy) CheckWithdrawal(method domain.WithdrawalMethod, amount decimal.Decimal, recentCashCount int) error {
	switch method {
	case domain.MethodCash:
		if amount.GreaterThan(p.CashMaxAmount) {
			return fmt.Errorf("cash withdrawal of %s exceeds the %s per-transaction cap: %w",
				amount, p.CashMaxAmount, domain.ErrLimitExceeded)
		}

		if recentCashCount >= p.CashMaxPerHour {
			return fmt.Errorf("reached the maximum of %d cash withdrawals per hour: %w",
				p.CashMaxPerHour, domain.ErrLimitExceeded)
		}
	case domain.MethodCheque:
		if amount.GreaterThan(p.ChequeMaxAmount) {
			return fmt.Errorf("cheque withdrawal of %s exceeds the %s per-transaction cap: %w",
				amount, p.ChequeMaxAmount, domain.ErrLimitExceeded)
		}
	default:
		return domain.ErrInvalidWithdrawalMethod
	}

	return nil
}
