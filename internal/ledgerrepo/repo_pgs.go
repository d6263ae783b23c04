// Package ledgerrepo manages repository layer of the ledger:
// user balances and the append-only transaction log that justifies them.
package ledgerrepo

import (
	"bytes"
	"context"
	"database/sql"

	"github.com/go-petr/peerpay/internal/domain"
	"github.com/go-petr/peerpay/pkg/dbpkg"
	"github.com/go-petr/peerpay/pkg/errorspkg"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RepoPGS facilitates ledger repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns ledger RepoPGS scoped to the given queryable.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns ledger RepoPGS with connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const createRecordQuery = `
INSERT INTO
    transactions (id, user_id, transaction_type, amount, status)
VALUES
    ($1, $2, $3, $4, $5)
RETURNING id, user_id, transaction_type, amount, status, created_at
`

// CreateRecord appends one transaction record and then returns it.
func (r *RepoPGS) CreateRecord(ctx context.Context, userID uuid.UUID, kind, amount, status string) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createRecordQuery, uuid.New(), userID, kind, amount, status)

	var rec domain.Transaction

	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Kind,
		&rec.Amount,
		&rec.Status,
		&rec.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "transactions_user_id_fkey":
				return rec, domain.ErrUserNotFound
			case "transactions_amount_check":
				return rec, domain.ErrInvalidAmount
			}
		}

		return rec, errorspkg.ErrInternal
	}

	return rec, nil
}

const addBalanceQuery = `
UPDATE users
SET balance = balance + $1
WHERE id = $2
RETURNING balance
`

// AddBalance changes the user's balance and returns the new balance.
func (r *RepoPGS) AddBalance(ctx context.Context, amount string, id uuid.UUID) (string, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, addBalanceQuery, amount, id)

	var balance string

	err := row.Scan(&balance)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return balance, domain.ErrUserNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "users_balance_check" {
				return balance, domain.ErrInsufficientBalance
			}
		}

		return balance, errorspkg.ErrInternal
	}

	return balance, nil
}

const listRecordsQuery = `
SELECT
	id, user_id, transaction_type, amount, status, created_at
FROM transactions
WHERE user_id = $1
ORDER BY created_at DESC
`

// ListRecords returns the user's transaction records, newest first.
func (r *RepoPGS) ListRecords(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listRecordsQuery, userID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var rec domain.Transaction
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.Kind,
			&rec.Amount,
			&rec.Status,
			&rec.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, rec)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

// Credit atomically increases the user's balance and appends one
// RECEIVED record within a single db transaction.
func (r *RepoPGS) Credit(ctx context.Context, userID uuid.UUID, amount string) (domain.CreditTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.CreditTxResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	q := NewTxRepoPGS(tx)

	result.Balance, err = q.AddBalance(ctx, amount, userID)
	if err != nil {
		return result, err
	}

	result.Record, err = q.CreateRecord(ctx, userID, domain.KindReceived, amount, domain.StatusSuccess)
	if err != nil {
		return result, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	return result, nil
}

const resolveReceiverQuery = `
SELECT id FROM users
WHERE email = $1
`

const lockUserQuery = `
SELECT balance FROM users
WHERE id = $1
FOR UPDATE
`

// Transfer moves money between two users.
//
// It locks both user rows, checks the sender's balance, updates both
// balances and appends a SENT and a RECEIVED record within a single db
// transaction. Any failure rolls the whole unit back.
func (r *RepoPGS) Transfer(ctx context.Context, senderID uuid.UUID, receiverEmail, amount string) (domain.TransferTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.TransferTxResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	q := NewTxRepoPGS(tx)

	receiverID, err := q.resolveReceiver(ctx, receiverEmail)
	if err != nil {
		return result, err
	}

	if receiverID == senderID {
		return result, domain.ErrSelfTransfer
	}

	senderBalance, err := q.lockBalances(ctx, senderID, receiverID)
	if err != nil {
		return result, err
	}

	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		l.Error().Err(err).Send()
		return result, domain.ErrInvalidAmount
	}

	if senderBalance.LessThan(amountDecimal) {
		return result, domain.ErrInsufficientBalance
	}

	result.SenderBalance, err = q.AddBalance(ctx, "-"+amount, senderID)
	if err != nil {
		return result, err
	}

	if _, err = q.AddBalance(ctx, amount, receiverID); err != nil {
		return result, err
	}

	result.SentRecord, err = q.CreateRecord(ctx, senderID, domain.KindSent, amount, domain.StatusSuccess)
	if err != nil {
		return result, err
	}

	result.ReceivedRecord, err = q.CreateRecord(ctx, receiverID, domain.KindReceived, amount, domain.StatusSuccess)
	if err != nil {
		return result, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	return result, nil
}

func (r *RepoPGS) resolveReceiver(ctx context.Context, email string) (uuid.UUID, error) {
	l := zerolog.Ctx(ctx)

	var id uuid.UUID

	err := r.db.QueryRowContext(ctx, resolveReceiverQuery, email).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return id, domain.ErrReceiverNotFound
		}

		l.Error().Err(err).Send()

		return id, errorspkg.ErrInternal
	}

	return id, nil
}

// lockBalances acquires row locks on both users and returns the sender's
// balance. To avoid deadlocks between transfers crossing the same pair of
// accounts the locks are acquired in consistent id order regardless of
// sender/receiver role.
func (r *RepoPGS) lockBalances(ctx context.Context, senderID, receiverID uuid.UUID) (decimal.Decimal, error) {
	l := zerolog.Ctx(ctx)

	first, second := senderID, receiverID
	if bytes.Compare(receiverID[:], senderID[:]) < 0 {
		first, second = receiverID, senderID
	}

	var senderBalance decimal.Decimal

	for _, id := range []uuid.UUID{first, second} {
		var balance string

		err := r.db.QueryRowContext(ctx, lockUserQuery, id).Scan(&balance)
		if err != nil {
			if err == sql.ErrNoRows {
				if id == senderID {
					return senderBalance, domain.ErrUserNotFound
				}

				return senderBalance, domain.ErrReceiverNotFound
			}

			l.Error().Err(err).Send()

			return senderBalance, errorspkg.ErrInternal
		}

		if id == senderID {
			senderBalance, err = decimal.NewFromString(balance)
			if err != nil {
				l.Error().Err(err).Send()
				return senderBalance, errorspkg.ErrInternal
			}
		}
	}

	return senderBalance, nil
}
