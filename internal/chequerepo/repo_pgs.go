// Package chequerepo manages repository layer of cheques and the clearing
// workflow.
package chequerepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-teller/branch-bank/internal/customerrepo"
	"github.com/go-teller/branch-bank/internal/domain"
	"github.com/go-teller/branch-bank/internal/limitpolicy"
	"github.com/go-teller/branch-bank/internal/notificationrepo"
	"github.com/go-teller/branch-bank/internal/transactionrepo"
	"github.com/go-teller/branch-bank/pkg/dbpkg"
	"github.com/go-teller/branch-bank/pkg/errorspkg"
)

// RepoPGS facilitates cheque repository layer logic.
type RepoPGS struct {
	db     dbpkg.SQLInterface
	conn   *sql.DB
	policy limitpolicy.Policy
}

// NewTxRepoPGS returns cheque RepoPGS scoped to an open db transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

// NewRepoPGS returns cheque RepoPGS with a connection to start transactions.
func NewRepoPGS(db *sql.DB, policy limitpolicy.Policy) *RepoPGS {
	return &RepoPGS{
		db:     db,
		conn:   db,
		policy: policy,
	}
}

const chequeColumns = `
	id, cheque_number, amount, issuing_bank, issue_date, customer_id,
	transaction_type, status, COALESCE(rejection_reason, ''), COALESCE(notes, ''),
	COALESCE(processed_by, ''), processed_at, created_at`

func scanCheque(row *sql.Row) (domain.Cheque, error) {
	var (
		c           domain.Cheque
		processedAt sql.NullTime
	)

	err := row.Scan(
		&c.ID,
		&c.ChequeNumber,
		&c.Amount,
		&c.IssuingBank,
		&c.IssueDate,
		&c.CustomerID,
		&c.Kind,
		&c.Status,
		&c.RejectionReason,
		&c.Notes,
		&c.ProcessedBy,
		&processedAt,
		&c.CreatedAt,
	)

	if processedAt.Valid {
		c.ProcessedAt = processedAt.Time
	}

	return c, err
}

const createQuery = `
INSERT INTO
    cheques (cheque_number, amount, issuing_bank, issue_date, customer_id,
             transaction_type, notes, processed_by)
VALUES
    ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
RETURNING` + chequeColumns

// Create submits the cheque in pending state and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.SubmitChequeParams) (domain.Cheque, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.ChequeNumber,
		arg.Amount,
		arg.IssuingBank,
		arg.IssueDate,
		arg.CustomerID,
		arg.Kind,
		arg.Notes,
		arg.SubmittedBy,
	)

	c, err := scanCheque(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "cheques_cheque_number_key":
				return c, domain.ErrDuplicateChequeNumber
			case "cheques_customer_id_fkey":
				return c, domain.ErrCustomerNotFound
			}
		}

		return c, errorspkg.Storage(err)
	}

	return c, nil
}

const getQuery = `
SELECT` + chequeColumns + `
FROM cheques
WHERE id = $1
`

// Get returns the cheque with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Cheque, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	c, err := scanCheque(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return c, domain.ErrChequeNotFound
		}

		return c, errorspkg.Storage(err)
	}

	return c, nil
}

const getForUpdateQuery = `
SELECT` + chequeColumns + `
FROM cheques
WHERE id = $1
FOR UPDATE
`

func (r *RepoPGS) getForUpdate(ctx context.Context, id int64) (domain.Cheque, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getForUpdateQuery, id)

	c, err := scanCheque(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return c, domain.ErrChequeNotFound
		}

		return c, errorspkg.Storage(err)
	}

	return c, nil
}

const listQuery = `
SELECT` + chequeColumns + `
FROM cheques
WHERE
    ($1 = 0 OR customer_id = $1)
    AND ($2 = '' OR status = $2)
ORDER BY created_at DESC, id DESC
LIMIT $3 OFFSET $4
`

// List returns cheques filtered by customer and/or status, newest first.
func (r *RepoPGS) List(ctx context.Context, arg domain.ListChequesParams) ([]domain.Cheque, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery,
		arg.CustomerID,
		string(arg.Status),
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.Storage(err)
	}
	defer rows.Close()

	items := []domain.Cheque{}

	for rows.Next() {
		var (
			c           domain.Cheque
			processedAt sql.NullTime
		)

		if err := rows.Scan(
			&c.ID,
			&c.ChequeNumber,
			&c.Amount,
			&c.IssuingBank,
			&c.IssueDate,
			&c.CustomerID,
			&c.Kind,
			&c.Status,
			&c.RejectionReason,
			&c.Notes,
			&c.ProcessedBy,
			&processedAt,
			&c.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.Storage(err)
		}

		if processedAt.Valid {
			c.ProcessedAt = processedAt.Time
		}

		items = append(items, c)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.Storage(err)
	}

	return items, nil
}

const settleQuery = `
UPDATE cheques
SET
	status = $1,
	rejection_reason = NULLIF($2, ''),
	processed_by = $3,
	processed_at = now()
WHERE id = $4
RETURNING` + chequeColumns

func (r *RepoPGS) settle(ctx context.Context, id int64, status domain.ChequeStatus, reason, processedBy string) (domain.Cheque, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, settleQuery, status, reason, processedBy, id)

	c, err := scanCheque(row)
	if err != nil {
		l.Error().Err(err).Send()
		return c, errorspkg.Storage(err)
	}

	return c, nil
}

// Process moves a pending cheque to its terminal state as one atomic unit.
//
// Clearing locks the customer row, re-checks funds under the lock, then
// writes the ledger record, the new balance, the cheque transition and the
// notification together. Rejection writes the cheque transition and the
// notification. A cheque that has already left pending is never touched.
func (r *RepoPGS) Process(ctx context.Context, arg domain.ProcessChequeParams) (domain.ChequeProcessResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.ChequeProcessResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.Storage(err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Msg("cheque processing rollback failed")
		}
	}()

	chequeRepo := NewTxRepoPGS(tx)
	customerRepo := customerrepo.NewRepoPGS(tx)
	transactionRepo := transactionrepo.NewTxRepoPGS(tx)
	notificationRepo := notificationrepo.NewRepoPGS(tx)

	cheque, err := chequeRepo.getForUpdate(ctx, arg.ChequeID)
	if err != nil {
		return result, err
	}

	if cheque.Status != domain.ChequePending {
		return result, domain.ErrChequeAlreadyProcessed
	}

	customer, err := customerRepo.GetForUpdate(ctx, cheque.CustomerID)
	if err != nil {
		return result, err
	}

	if arg.Decision == domain.ChequeRejected {
		result.Cheque, err = chequeRepo.settle(ctx, cheque.ID,
			domain.ChequeRejected, arg.RejectionReason, arg.ProcessedBy)
		if err != nil {
			return result, err
		}

		_, err = notificationRepo.Create(ctx, domain.CreateNotificationParams{
			CustomerID: customer.ID,
			Type:       domain.NotificationCheque,
			Status:     domain.NotificationRejected,
			Message:    fmt.Sprintf("Cheque %s was rejected", cheque.ChequeNumber),
			Details: domain.NotificationDetails{
				ChequeID: cheque.ID,
				Amount:   cheque.Amount,
				Reason:   arg.RejectionReason,
			},
		})
		if err != nil {
			return result, err
		}

		if err := tx.Commit(); err != nil {
			l.Error().Err(err).Msg("cheque processing commit failed")
			return result, errorspkg.Storage(err)
		}

		return result, nil
	}

	balance, err := decimal.NewFromString(customer.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	amount, err := decimal.NewFromString(cheque.Amount)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	delta := amount
	method := domain.MethodNone

	if cheque.Kind == domain.TransactionWithdrawal {
		if amount.GreaterThan(balance) {
			// The cheque stays pending: the whole unit rolls back.
			return result, fmt.Errorf("cheque withdrawal of %s exceeds balance %s: %w",
				amount, balance, domain.ErrInsufficientFunds)
		}

		if err := r.policy.CheckWithdrawal(domain.MethodCheque, amount, 0); err != nil {
			return result, err
		}

		delta = amount.Neg()
		method = domain.MethodCheque
	}

	newBalance := balance.Add(delta)

	result.Transaction, err = transactionRepo.Create(ctx, domain.CreateTransactionParams{
		CustomerID:   customer.ID,
		Kind:         cheque.Kind,
		Amount:       cheque.Amount,
		BalanceAfter: newBalance.String(),
		Method:       method,
		Description:  fmt.Sprintf("Cheque %s processed", cheque.ChequeNumber),
		PerformedBy:  arg.ProcessedBy,
	})
	if err != nil {
		return result, err
	}

	result.Customer, err = customerRepo.AddBalance(ctx, delta.String(), customer.ID)
	if err != nil {
		return result, err
	}

	result.Cheque, err = chequeRepo.settle(ctx, cheque.ID,
		domain.ChequeCleared, "", arg.ProcessedBy)
	if err != nil {
		return result, err
	}

	_, err = notificationRepo.Create(ctx, domain.CreateNotificationParams{
		CustomerID: customer.ID,
		Type:       domain.NotificationCheque,
		Status:     domain.NotificationCleared,
		Message:    fmt.Sprintf("Cheque %s was cleared", cheque.ChequeNumber),
		Details: domain.NotificationDetails{
			ChequeID:      cheque.ID,
			TransactionID: result.Transaction.TransactionID,
			Amount:        cheque.Amount,
		},
	})
	if err != nil {
		return result, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Msg("cheque processing commit failed")
		return result, errorspkg.Storage(err)
	}

	return result, nil
}
