package session

import "errors"

// Local, recoverable conditions decline the operation before any
// debit; the rest surface failures from the ledger, the AI call, or
// playback. ErrRefundFailed is the documented inconsistent state: a
// post-debit failure whose compensating refund also failed.
var (
	ErrAuthRequired        = errors.New("sign in required")
	ErrInsufficientBalance = errors.New("insufficient token balance")
	ErrPlayback            = errors.New("audio playback failed")
	ErrRefundFailed        = errors.New("refund after failed operation also failed")
)

// User-facing copy shown in the chat log alongside the returned error.
const (
	msgAuthRequired        = "Please sign in to use the AI mentor."
	msgInsufficientBalance = "Not enough tokens. Top up your balance to continue."
	msgLedgerError         = "Could not charge your balance. Please try again later."
	msgRequestError        = "Sorry, something went wrong. Please try again later."
)
