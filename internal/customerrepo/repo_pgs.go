// Package customerrepo manages repository layer of customers.
package customerrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/go-teller/branch-bank/internal/domain"
	"github.com/go-teller/branch-bank/pkg/dbpkg"
	"github.com/go-teller/branch-bank/pkg/errorspkg"
)

// RepoPGS facilitates customer repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns customer RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const customerColumns = `
	id, account_number, name, email, phone, address, account_type, balance, created_at`

func scanCustomer(row *sql.Row) (domain.Customer, error) {
	var c domain.Customer

	err := row.Scan(
		&c.ID,
		&c.AccountNumber,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Address,
		&c.AccountType,
		&c.Balance,
		&c.CreatedAt,
	)

	return c, err
}

const createQuery = `
INSERT INTO
    customers (account_number, name, email, phone, address, account_type, balance)
VALUES
    ($1, $2, $3, $4, $5, $6, $7)
RETURNING` + customerColumns

// Create creates the customer and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateCustomerParams) (domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.AccountNumber,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.Address,
		arg.AccountType,
		arg.Balance,
	)

	c, err := scanCustomer(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "customers_account_number_key" {
				return c, domain.ErrAccountNumberAlreadyExists
			}
		}

		return c, errorspkg.Storage(err)
	}

	return c, nil
}

const getQuery = `
SELECT` + customerColumns + `
FROM customers
WHERE id = $1
`

// Get returns the customer with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	c, err := scanCustomer(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return c, domain.ErrCustomerNotFound
		}

		return c, errorspkg.Storage(err)
	}

	return c, nil
}

const getForUpdateQuery = `
SELECT` + customerColumns + `
FROM customers
WHERE id = $1
FOR UPDATE
`

// GetForUpdate returns the customer with the given id and locks the row until
// the surrounding transaction ends. The lock serializes concurrent balance
// mutations per customer.
func (r *RepoPGS) GetForUpdate(ctx context.Context, id int64) (domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getForUpdateQuery, id)

	c, err := scanCustomer(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return c, domain.ErrCustomerNotFound
		}

		return c, errorspkg.Storage(err)
	}

	return c, nil
}

const addBalanceQuery = `
UPDATE customers
SET balance = balance + $1
WHERE id = $2
RETURNING` + customerColumns

// AddBalance changes the customer's balance by the signed amount and returns
// the changed customer. The customers_balance_check constraint backstops the
// non-negative invariant.
func (r *RepoPGS) AddBalance(ctx context.Context, amount string, id int64) (domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, addBalanceQuery, amount, id)

	c, err := scanCustomer(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return c, domain.ErrCustomerNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "customers_balance_check" {
				return c, domain.ErrInsufficientFunds
			}
		}

		return c, errorspkg.Storage(err)
	}

	return c, nil
}

const updateQuery = `
UPDATE customers
SET
	name = COALESCE(NULLIF($1, ''), name),
	email = COALESCE(NULLIF($2, ''), email),
	phone = COALESCE(NULLIF($3, ''), phone),
	address = COALESCE(NULLIF($4, ''), address)
WHERE id = $5
RETURNING` + customerColumns

// Update changes the allowed profile fields and returns the changed customer.
// Empty fields are left unchanged.
func (r *RepoPGS) Update(ctx context.Context, arg domain.UpdateCustomerParams) (domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, updateQuery,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.Address,
		arg.ID,
	)

	c, err := scanCustomer(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return c, domain.ErrCustomerNotFound
		}

		return c, errorspkg.Storage(err)
	}

	return c, nil
}

const searchQuery = `
SELECT` + customerColumns + `
FROM customers
WHERE
    name ILIKE '%' || $1 || '%'
    OR account_number ILIKE '%' || $1 || '%'
    OR email ILIKE '%' || $1 || '%'
ORDER BY id
LIMIT $2 OFFSET $3
`

// Search returns customers whose name, account number or email matches the query.
func (r *RepoPGS) Search(ctx context.Context, query string, limit, offset int32) ([]domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, searchQuery, query, limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.Storage(err)
	}
	defer rows.Close()

	items := []domain.Customer{}

	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(
			&c.ID,
			&c.AccountNumber,
			&c.Name,
			&c.Email,
			&c.Phone,
			&c.Address,
			&c.AccountType,
			&c.Balance,
			&c.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.Storage(err)
		}

		items = append(items, c)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.Storage(err)
	}

	return items, nil
}
