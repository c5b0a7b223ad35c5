// Package ledger implements the token balance operations. The new
// balance is computed client-side from the caller's mirror and
// persisted as-is; the caller is responsible for checking that the
// balance covers the amount before debiting.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/ndemidov/ai-mentor/internal/storage"
	"go.uber.org/zap"
)

// ErrPersistence marks a failed remote balance write. The caller's
// mirror must not be updated when this is returned.
var ErrPersistence = errors.New("balance write failed")

type Ledger interface {
	Debit(ctx context.Context, userID int64, current, amount int) (int, error)
	Refund(ctx context.Context, userID int64, current, amount int) (int, error)
}

type Client struct {
	storage storage.Storage
	logger  *zap.Logger
}

func NewClient(storage storage.Storage, logger *zap.Logger) *Client {
	return &Client{
		storage: storage,
		logger:  logger,
	}
}

// Debit subtracts amount from the caller's current balance and
// persists the result, returning the persisted value.
func (c *Client) Debit(ctx context.Context, userID int64, current, amount int) (int, error) {
	newTokens := current - amount
	if err := c.storage.UpdateTokens(ctx, userID, newTokens); err != nil {
		c.logger.Error("Failed to persist debit",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int("amount", amount))
		return current, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return newTokens, nil
}

// Refund adds amount back to the caller's current balance and
// persists the result, returning the persisted value.
func (c *Client) Refund(ctx context.Context, userID int64, current, amount int) (int, error) {
	newTokens := current + amount
	if err := c.storage.UpdateTokens(ctx, userID, newTokens); err != nil {
		c.logger.Error("Failed to persist refund",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int("amount", amount))
		return current, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return newTokens, nil
}
