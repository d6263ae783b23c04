package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidAmount indicates invalid amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNegativeAmount indicates non-positive amount.
	ErrNegativeAmount = errors.New("amount must be positive")
	// ErrInsufficientBalance indicates that the sender does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrReceiverNotFound indicates that the transfer receiver is not found.
	ErrReceiverNotFound = errors.New("receiver not found")
	// ErrSelfTransfer indicates a transfer where sender and receiver are the same user.
	ErrSelfTransfer = errors.New("cannot transfer to self")
)

// Transaction kinds.
const (
	KindSent     = "SENT"
	KindReceived = "RECEIVED"
)

// Transaction statuses.
const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
)

// Transaction holds one append-only ledger record for a user.
// Once committed a record is never updated or deleted.
type Transaction struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Kind      string    `json:"transaction_type"`
	Amount    string    `json:"amount"` // must be positive
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CreditTxResult is the result of the credit transaction.
type CreditTxResult struct {
	Balance string      `json:"balance"`
	Record  Transaction `json:"record"`
}

// TransferTxResult is the result of the transfer transaction.
type TransferTxResult struct {
	SenderBalance  string      `json:"balance"`
	SentRecord     Transaction `json:"sent_record"`
	ReceivedRecord Transaction `json:"received_record"`
}
