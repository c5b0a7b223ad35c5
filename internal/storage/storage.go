package storage

import (
	"context"
	"errors"

	"github.com/ndemidov/ai-mentor/internal/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrLessonNotFound = errors.New("lesson state not found")
)

// Storage holds the authoritative user records, including the token
// balance that the ledger reads and writes.
type Storage interface {
	CreateUser(ctx context.Context, email, passwordHash, name string, startTokens int) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateTokens(ctx context.Context, userID int64, tokens int) error
	Close() error
}

// LessonStore keeps generated lesson HTML between visits, keyed by
// user and lesson title. The stored text is removed when the lesson
// is explicitly finished.
type LessonStore interface {
	Save(ctx context.Context, userID int64, title, html string) error
	Get(ctx context.Context, userID int64, title string) (string, error)
	Delete(ctx context.Context, userID int64, title string) error
}
