// Package transactionrepo manages repository layer of ledger transactions.
package transactionrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-teller/branch-bank/internal/customerrepo"
	"github.com/go-teller/branch-bank/internal/domain"
	"github.com/go-teller/branch-bank/internal/limitpolicy"
	"github.com/go-teller/branch-bank/pkg/dbpkg"
	"github.com/go-teller/branch-bank/pkg/errorspkg"
	"github.com/go-teller/branch-bank/pkg/txidpkg"
)

// maxIDAttempts bounds the regenerate-on-collision loop for transaction ids.
const maxIDAttempts = 5

// RepoPGS facilitates transaction repository layer logic.
type RepoPGS struct {
	db     dbpkg.SQLInterface
	conn   *sql.DB
	policy limitpolicy.Policy
}

// NewTxRepoPGS returns transaction RepoPGS scoped to an open db transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns transaction RepoPGS with a connection to start
// transactions and the withdrawal limit policy.
func NewRepoPGS(db *sql.DB, policy limitpolicy.Policy) *RepoPGS {
	return &RepoPGS{
		db:     db,
		conn:   db,
		policy: policy,
	}
}

const transactionColumns = `
	id, transaction_id, customer_id, kind, amount, balance_after,
	COALESCE(withdrawal_method, ''), COALESCE(description, ''), status, performed_by, created_at`

func scanTransaction(row *sql.Row) (domain.Transaction, error) {
	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.TransactionID,
		&t.CustomerID,
		&t.Kind,
		&t.Amount,
		&t.BalanceAfter,
		&t.Method,
		&t.Description,
		&t.Status,
		&t.PerformedBy,
		&t.CreatedAt,
	)

	return t, err
}

const createQuery = `
INSERT INTO
    transactions (transaction_id, customer_id, kind, amount, balance_after,
                  withdrawal_method, description, status, performed_by)
VALUES
    ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9)
RETURNING` + transactionColumns

const existsQuery = `
SELECT EXISTS (SELECT 1 FROM transactions WHERE transaction_id = $1)
`

// Create persists a ledger record under a freshly generated transaction id.
//
// Identifiers collide within a day; Create probes for the generated id and
// regenerates up to maxIDAttempts times before giving up.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	var t domain.Transaction

	transactionID := ""

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		candidate := txidpkg.New(time.Now())

		var taken bool
		if err := r.db.QueryRowContext(ctx, existsQuery, candidate).Scan(&taken); err != nil {
			l.Error().Err(err).Send()
			return t, errorspkg.Storage(err)
		}

		if !taken {
			transactionID = candidate
			break
		}
	}

	if transactionID == "" {
		l.Error().Int("attempts", maxIDAttempts).Msg("transaction id generation exhausted")
		return t, domain.ErrTransactionIDGeneration
	}

	row := r.db.QueryRowContext(ctx, createQuery,
		transactionID,
		arg.CustomerID,
		arg.Kind,
		arg.Amount,
		arg.BalanceAfter,
		string(arg.Method),
		arg.Description,
		domain.StatusCompleted,
		arg.PerformedBy,
	)

	t, err := scanTransaction(row)
	if err != nil {
		l.Error().Err(err).Send()
		return t, errorspkg.Storage(err)
	}

	return t, nil
}

const deleteQuery = `
DELETE FROM transactions
WHERE id = $1
`

// Delete removes the transaction with the given id. It is the storage-level
// compensation primitive; the processor itself relies on transaction rollback
// instead.
func (r *RepoPGS) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, deleteQuery, id)
	return err
}

const countCashWithdrawalsQuery = `
SELECT count(*)
FROM transactions
WHERE
    customer_id = $1
    AND kind = 'withdrawal'
    AND withdrawal_method = 'cash'
    AND created_at >= $2
`

// CountCashWithdrawalsSince counts completed cash withdrawals recorded for
// the customer at or after the given instant. The recorded timestamp, not
// arrival order, defines the window.
func (r *RepoPGS) CountCashWithdrawalsSince(ctx context.Context, customerID int64, since time.Time) (int, error) {
	l := zerolog.Ctx(ctx)

	var count int

	err := r.db.QueryRowContext(ctx, countCashWithdrawalsQuery, customerID, since).Scan(&count)
	if err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.Storage(err)
	}

	return count, nil
}

const listQuery = `
SELECT` + transactionColumns + `
FROM transactions
WHERE customer_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3
`

// List returns the customer's transactions, most recent first.
func (r *RepoPGS) List(ctx context.Context, customerID int64, limit, offset int32) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, customerID, limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.Storage(err)
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.TransactionID,
			&t.CustomerID,
			&t.Kind,
			&t.Amount,
			&t.BalanceAfter,
			&t.Method,
			&t.Description,
			&t.Status,
			&t.PerformedBy,
			&t.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.Storage(err)
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.Storage(err)
	}

	return items, nil
}

// Process validates and applies a deposit or withdrawal as one atomic unit.
//
// It locks the customer row, checks funds and the withdrawal limit policy
// against history read under the same lock, then writes the ledger record and
// the new balance together. On any failure the whole unit rolls back, so no
// partial state is ever observable.
func (r *RepoPGS) Process(ctx context.Context, arg domain.ProcessTransactionParams) (domain.TransactionResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.TransactionResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.Storage(err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			// A failed rollback is the one condition that threatens the
			// atomicity guarantee.
			l.Error().Err(err).Msg("transaction rollback failed")
		}
	}()

	txRepo := NewTxRepoPGS(tx)
	customerRepo := customerrepo.NewRepoPGS(tx)

	customer, err := customerRepo.GetForUpdate(ctx, arg.CustomerID)
	if err != nil {
		return result, err
	}

	balance, err := decimal.NewFromString(customer.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	amount, err := decimal.NewFromString(arg.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		return result, domain.ErrInvalidAmount
	}

	delta := amount

	if arg.Kind == domain.TransactionWithdrawal {
		if amount.GreaterThan(balance) {
			return result, fmt.Errorf("withdrawal of %s exceeds balance %s: %w",
				amount, balance, domain.ErrInsufficientFunds)
		}

		recentCash := 0
		if arg.Method == domain.MethodCash {
			since := time.Now().Add(-limitpolicy.Window)

			recentCash, err = txRepo.CountCashWithdrawalsSince(ctx, customer.ID, since)
			if err != nil {
				return result, err
			}
		}

		if err := r.policy.CheckWithdrawal(arg.Method, amount, recentCash); err != nil {
			l.Info().Err(err).Send()
			return result, err
		}

		delta = amount.Neg()
	}

	newBalance := balance.Add(delta)

	result.Transaction, err = txRepo.Create(ctx, domain.CreateTransactionParams{
		CustomerID:   customer.ID,
		Kind:         arg.Kind,
		Amount:       arg.Amount,
		BalanceAfter: newBalance.String(),
		Method:       arg.Method,
		Description:  arg.Description,
		PerformedBy:  arg.PerformedBy,
	})
	if err != nil {
		return result, err
	}

	result.Customer, err = customerRepo.AddBalance(ctx, delta.String(), customer.ID)
	if err != nil {
		return result, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Msg("transaction commit failed")
		return result, errorspkg.Storage(err)
	}

	return result, nil
}
