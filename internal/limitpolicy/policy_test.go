package limitpolicy

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/go-teller/branch-bank/internal/domain"
	"github.com/go-teller/branch-bank/pkg/configpkg"
)

func testPolicy(t *testing.T) Policy {
	t.Helper()

	config := configpkg.Config{
		CashWithdrawalLimit:    "5000",
		ChequeWithdrawalLimit:  "10000",
		CashWithdrawalsPerHour: 3,
	}

	policy, err := FromConfig(config)
	if err != nil {
		t.Fatalf("FromConfig(%+v) returned error: %v", config, err)
	}

	return policy
}

func TestFromConfigInvalidLimits(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		config configpkg.Config
	}{
		{
			name: "BadCashLimit",
			config: configpkg.Config{
				CashWithdrawalLimit:   "not-a-number",
				ChequeWithdrawalLimit: "10000",
			},
		},
		{
			name: "BadChequeLimit",
			config: configpkg.Config{
				CashWithdrawalLimit:   "5000",
				ChequeWithdrawalLimit: "",
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := FromConfig(tc.config); err == nil {
				t.Errorf("FromConfig(%+v) returned nil error, want non-nil", tc.config)
			}
		})
	}
}

func TestCheckWithdrawal(t *testing.T) {
	t.Parallel()

	policy := testPolicy(t)

	testCases := []struct {
		name            string
		method          domain.WithdrawalMethod
		amount          string
		recentCashCount int
		wantError       error
	}{
		{
			name:   "CashWithinLimits",
			method: domain.MethodCash,
			amount: "5000",
		},
		{
			name:      "CashOverCeiling",
			method:    domain.MethodCash,
			amount:    "5000.01",
			wantError: domain.ErrLimitExceeded,
		},
		{
			name:            "CashUnderHourlyCount",
			method:          domain.MethodCash,
			amount:          "100",
			recentCashCount: 2,
		},
		{
			name:            "CashAtHourlyCount",
			method:          domain.MethodCash,
			amount:          "100",
			recentCashCount: 3,
			wantError:       domain.ErrLimitExceeded,
		},
		{
			name:   "ChequeWithinLimit",
			method: domain.MethodCheque,
			amount: "10000",
		},
		{
			name:      "ChequeOverCeiling",
			method:    domain.MethodCheque,
			amount:    "10000.01",
			wantError: domain.ErrLimitExceeded,
		},
		{
			name:            "ChequeIgnoresCashCount",
			method:          domain.MethodCheque,
			amount:          "100",
			recentCashCount: 10,
		},
		{
			name:      "UnknownMethod",
			method:    domain.WithdrawalMethod("wire"),
			amount:    "100",
			wantError: domain.ErrInvalidWithdrawalMethod,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			amount, err := decimal.NewFromString(tc.amount)
			if err != nil {
				t.Fatalf("decimal.NewFromString(%v) returned error: %v", tc.amount, err)
			}

			err = policy.CheckWithdrawal(tc.method, amount, tc.recentCashCount)

			if tc.wantError == nil {
				if err != nil {
					t.Errorf("CheckWithdrawal(%v, %v, %v) = %v, want nil",
						tc.method, tc.amount, tc.recentCashCount, err)
				}

				return
			}

			if !errors.Is(err, tc.wantError) {
				t.Errorf("CheckWithdrawal(%v, %v, %v) = %v, want %v",
					tc.method, tc.amount, tc.recentCashCount, err, tc.wantError)
			}
		})
	}
}
