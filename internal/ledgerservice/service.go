// Package ledgerservice manages business logic layer of ledger operations.
package ledgerservice

import (
	"context"

	"github.com/go-petr/peerpay/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repo provides data access layer interface needed by ledger service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type Repo interface {
	Credit(ctx context.Context, userID uuid.UUID, amount string) (domain.CreditTxResult, error)
	Transfer(ctx context.Context, senderID uuid.UUID, receiverEmail, amount string) (domain.TransferTxResult, error)
	ListRecords(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error)
}

// Service facilitates ledger service layer logic.
type Service struct {
	repo Repo
}

// New returns ledger service struct to manage ledger bussines logic.
func New(lr Repo) *Service {
	return &Service{
		repo: lr,
	}
}

// validAmount rejects amounts that are not positive decimals before any
// mutation is attempted.
func validAmount(ctx context.Context, amount string) error {
	l := zerolog.Ctx(ctx)

	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.ErrInvalidAmount
	}

	if amountDecimal.LessThanOrEqual(decimal.Zero) {
		l.Info().Str("amount", amount).Msg("non-positive amount")
		return domain.ErrNegativeAmount
	}

	return nil
}

// Credit tops up the user's balance and returns the credit result.
func (s *Service) Credit(ctx context.Context, userID uuid.UUID, amount string) (domain.CreditTxResult, error) {
	if err := validAmount(ctx, amount); err != nil {
		return domain.CreditTxResult{}, err
	}

	return s.repo.Credit(ctx, userID, amount)
}

// Transfer checks if the transfer request is valid and then executes it.
func (s *Service) Transfer(ctx context.Context, senderID uuid.UUID, receiverEmail, amount string) (domain.TransferTxResult, error) {
	if err := validAmount(ctx, amount); err != nil {
		return domain.TransferTxResult{}, err
	}

	return s.repo.Transfer(ctx, senderID, receiverEmail, amount)
}

// ListTransactions returns the user's transaction history, newest first.
func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	return s.repo.ListRecords(ctx, userID)
}
