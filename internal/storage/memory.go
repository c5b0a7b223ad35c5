package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ndemidov/ai-mentor/internal/models"
)

type MemoryStorage struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*models.User
	emails map[string]int64
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		nextID: 1,
		users:  make(map[int64]*models.User),
		emails: make(map[string]int64),
	}
}

func (s *MemoryStorage) CreateUser(ctx context.Context, email, passwordHash, name string, startTokens int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emails[email]; exists {
		return nil, ErrDuplicateEmail
	}

	user := &models.User{
		ID:           s.nextID,
		Email:        email,
		Name:         name,
		Tokens:       startTokens,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.nextID++
	s.users[user.ID] = user
	s.emails[email] = user.ID

	copied := *user
	return &copied, nil
}

func (s *MemoryStorage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *MemoryStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.emails[email]
	if !exists {
		return nil, ErrUserNotFound
	}
	copied := *s.users[id]
	return &copied, nil
}

func (s *MemoryStorage) UpdateTokens(ctx context.Context, userID int64, tokens int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[userID]
	if !exists {
		return ErrUserNotFound
	}
	user.Tokens = tokens
	return nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}

// MemoryLessonStore is the in-process stand-in for the persisted
// lesson-state store.
type MemoryLessonStore struct {
	mu      sync.RWMutex
	lessons map[string]string
}

func NewMemoryLessonStore() *MemoryLessonStore {
	return &MemoryLessonStore{lessons: make(map[string]string)}
}

func lessonKey(userID int64, title string) string {
	return fmt.Sprintf("lesson:%d:%s", userID, title)
}

func (s *MemoryLessonStore) Save(ctx context.Context, userID int64, title, html string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lessons[lessonKey(userID, title)] = html
	return nil
}

func (s *MemoryLessonStore) Get(ctx context.Context, userID int64, title string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	html, exists := s.lessons[lessonKey(userID, title)]
	if !exists {
		return "", ErrLessonNotFound
	}
	return html, nil
}

func (s *MemoryLessonStore) Delete(ctx context.Context, userID int64, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.lessons, lessonKey(userID, title))
	return nil
}
