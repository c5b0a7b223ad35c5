package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ndemidov/ai-mentor/internal/ledger"
	"github.com/ndemidov/ai-mentor/internal/models"
	"github.com/ndemidov/ai-mentor/internal/storage"
	"go.uber.org/zap"
)

// LessonSession is the flow from lesson start through generated
// content display to completion. Generated lesson HTML is persisted
// keyed by title so a revisit does not charge again; finishing the
// lesson removes it.
type LessonSession struct {
	ledger     ledger.Ledger
	dispatcher Dispatcher
	store      storage.LessonStore
	costs      Costs
	logger     *zap.Logger

	mu      sync.Mutex
	user    *models.User
	title   string
	topics  []string
	state   State
	html    string
	started bool
}

func NewLessonSession(user *models.User, title string, topics []string, ledger ledger.Ledger, dispatcher Dispatcher, store storage.LessonStore, costs Costs, logger *zap.Logger) *LessonSession {
	return &LessonSession{
		ledger:     ledger,
		dispatcher: dispatcher,
		store:      store,
		costs:      costs,
		logger:     logger,
		user:       user,
		title:      title,
		topics:     topics,
	}
}

// Resume loads previously generated lesson content, if any. It never
// charges; it reports whether the lesson was already started.
func (s *LessonSession) Resume(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return false, ErrAuthRequired
	}

	html, err := s.store.Get(ctx, s.user.ID, s.title)
	if errors.Is(err, storage.ErrLessonNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error loading lesson state: %w", err)
	}

	s.html = html
	s.started = true
	s.state = StateDisplaying
	return true, nil
}

// Start debits the text-generation cost, requests the lesson body,
// and persists it. Starting an already started lesson just returns
// the stored content.
func (s *LessonSession) Start(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return s.html, nil
	}

	if s.user == nil {
		s.state = StateAwaitingAuth
		return "", ErrAuthRequired
	}
	if s.user.Tokens < s.costs.Lesson {
		s.state = StateAwaitingBalance
		return "", ErrInsufficientBalance
	}

	s.state = StateDebiting
	balance, err := s.ledger.Debit(ctx, s.user.ID, s.user.Tokens, s.costs.Lesson)
	if err != nil {
		s.state = StateLedgerError
		return "", err
	}
	s.user.Tokens = balance

	s.state = StateWaitingForAI
	html, err := s.dispatcher.SendLessonPrompt(ctx, s.title, s.topics)
	if err != nil {
		refundErr := s.refund(ctx, s.costs.Lesson)
		s.state = StateIdle
		if refundErr != nil {
			return "", fmt.Errorf("%w: %v (original failure: %v)", ErrRefundFailed, refundErr, err)
		}
		return "", err
	}

	if err := s.store.Save(ctx, s.user.ID, s.title, html); err != nil {
		// The lesson is paid for and generated; losing the saved copy
		// only costs a regeneration on the next visit.
		s.logger.Error("Failed to persist lesson state",
			zap.Error(err),
			zap.Int64("user_id", s.user.ID),
			zap.String("title", s.title))
	}

	s.html = html
	s.started = true
	s.state = StateDisplaying
	return html, nil
}

func (s *LessonSession) refund(ctx context.Context, amount int) error {
	balance, err := s.ledger.Refund(ctx, s.user.ID, s.user.Tokens, amount)
	if err != nil {
		s.logger.Error("Refund failed, balance left inconsistent",
			zap.Error(err),
			zap.Int64("user_id", s.user.ID),
			zap.Int("amount", amount))
		return err
	}
	s.user.Tokens = balance
	return nil
}

// Finish removes the persisted lesson state and resets the session.
func (s *LessonSession) Finish(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user != nil {
		if err := s.store.Delete(ctx, s.user.ID, s.title); err != nil {
			return fmt.Errorf("error removing lesson state: %w", err)
		}
	}

	s.html = ""
	s.started = false
	s.state = StateIdle
	return nil
}

func (s *LessonSession) HTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.html
}

func (s *LessonSession) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *LessonSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
