// Package tellerrepo manages repository layer of tellers.
package tellerrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/go-teller/branch-bank/internal/domain"
	"github.com/go-teller/branch-bank/pkg/dbpkg"
	"github.com/go-teller/branch-bank/pkg/errorspkg"
)

// RepoPGS facilitates teller repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns teller RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO tellers (
    username,
    hashed_password,
    full_name,
    email,
    branch
) VALUES (
    $1, $2, $3, $4, $5
) RETURNING username, hashed_password, full_name, email, branch, password_changed_at, created_at
`

// Create creates the teller and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateTellerParams) (domain.Teller, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.Username,
		arg.HashedPassword,
		arg.FullName,
		arg.Email,
		arg.Branch,
	)

	var t domain.Teller

	err := row.Scan(
		&t.Username,
		&t.HashedPassword,
		&t.FullName,
		&t.Email,
		&t.Branch,
		&t.PasswordChangedAt,
		&t.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "unique_violation" {
				switch pqErr.Constraint {
				case "tellers_pkey":
					return t, domain.ErrUsernameAlreadyExists
				case "tellers_email_key":
					return t, domain.ErrEmailAlreadyExists
				}
			}
		}

		return t, errorspkg.Storage(err)
	}

	return t, nil
}

const getQuery = `
SELECT
	username,
	hashed_password,
	full_name,
	email,
	branch,
	password_changed_at,
	created_at
FROM tellers
WHERE username = $1
`

// Get returns the teller with the given username.
func (r *RepoPGS) Get(ctx context.Context, username string) (domain.Teller, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, username)

	var t domain.Teller

	err := row.Scan(
		&t.Username,
		&t.HashedPassword,
		&t.FullName,
		&t.Email,
		&t.Branch,
		&t.PasswordChangedAt,
		&t.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return t, domain.ErrTellerNotFound
		}

		return t, errorspkg.Storage(err)
	}

	return t, nil
}
