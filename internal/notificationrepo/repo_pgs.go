// Package notificationrepo manages repository layer of notifications.
package notificationrepo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/go-teller/branch-bank/internal/domain"
	"github.com/go-teller/branch-bank/pkg/dbpkg"
	"github.com/go-teller/branch-bank/pkg/errorspkg"
)

// RepoPGS facilitates notification repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns notification RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO
    notifications (customer_id, type, status, message, details)
VALUES
    ($1, $2, $3, $4, $5)
RETURNING id, customer_id, type, status, message, details, read, created_at
`

// Create appends a new unread notification and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateNotificationParams) (domain.Notification, error) {
	l := zerolog.Ctx(ctx)

	var n domain.Notification

	details, err := json.Marshal(arg.Details)
	if err != nil {
		l.Error().Err(err).Send()
		return n, errorspkg.ErrInternal
	}

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.CustomerID,
		arg.Type,
		arg.Status,
		arg.Message,
		details,
	)

	n, err = scanNotification(row)
	if err != nil {
		l.Error().Err(err).Send()
		return n, errorspkg.Storage(err)
	}

	return n, nil
}

func scanNotification(row *sql.Row) (domain.Notification, error) {
	var (
		n       domain.Notification
		details []byte
	)

	err := row.Scan(
		&n.ID,
		&n.CustomerID,
		&n.Type,
		&n.Status,
		&n.Message,
		&details,
		&n.Read,
		&n.CreatedAt,
	)
	if err != nil {
		return n, err
	}

	if err := json.Unmarshal(details, &n.Details); err != nil {
		return n, err
	}

	return n, nil
}

const listQuery = `
SELECT id, customer_id, type, status, message, details, read, created_at
FROM notifications
WHERE customer_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`

// List returns the customer's most recent notifications.
func (r *RepoPGS) List(ctx context.Context, customerID int64, limit int32) ([]domain.Notification, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, customerID, limit)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.Storage(err)
	}
	defer rows.Close()

	items := []domain.Notification{}

	for rows.Next() {
		var (
			n       domain.Notification
			details []byte
		)

		if err := rows.Scan(
			&n.ID,
			&n.CustomerID,
			&n.Type,
			&n.Status,
			&n.Message,
			&details,
			&n.Read,
			&n.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.Storage(err)
		}

		if err := json.Unmarshal(details, &n.Details); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, n)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.Storage(err)
	}

	return items, nil
}

const markReadQuery = `
UPDATE notifications
SET read = true
WHERE id = $1
RETURNING id, customer_id, type, status, message, details, read, created_at
`

// MarkRead acknowledges the notification. Re-marking an already-read
// notification is a no-op, not an error.
func (r *RepoPGS) MarkRead(ctx context.Context, id int64) (domain.Notification, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, markReadQuery, id)

	n, err := scanNotification(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return n, domain.ErrNotificationNotFound
		}

		return n, errorspkg.Storage(err)
	}

	return n, nil
}

const countUnreadQuery = `
SELECT count(*)
FROM notifications
WHERE customer_id = $1 AND read = false
`

// CountUnread returns the number of unread notifications for the customer.
func (r *RepoPGS) CountUnread(ctx context.Context, customerID int64) (int64, error) {
	l := zerolog.Ctx(ctx)

	var count int64

	err := r.db.QueryRowContext(ctx, countUnreadQuery, customerID).Scan(&count)
	if err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.Storage(err)
	}

	return count, nil
}
