// Package session orchestrates the token-metered flows: check the
// balance, debit, call the AI, and either display the result or
// refund. The ordering is fixed for a session instance: the debit
// always precedes the AI call, and the refund (when one applies)
// always follows a failure response.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ndemidov/ai-mentor/internal/ledger"
	"github.com/ndemidov/ai-mentor/internal/models"
	"go.uber.org/zap"
)

// Dispatcher is the client side of the chat and speech endpoints.
// Satisfied by *dispatch.Client.
type Dispatcher interface {
	SendPrompt(ctx context.Context, question, lessonTitle string) (string, error)
	SendLessonPrompt(ctx context.Context, title string, topics []string) (string, error)
	FetchSpeech(ctx context.Context, text string) ([]byte, error)
}

// ChatSession is one user's conversation with the AI mentor. The
// message log lives only as long as the session.
type ChatSession struct {
	ledger     ledger.Ledger
	dispatcher Dispatcher
	costs      Costs
	logger     *zap.Logger
	now        func() time.Time

	mu          sync.Mutex
	user        *models.User
	lessonTitle string
	state       State
	messages    []models.Message
}

func NewChatSession(user *models.User, lessonTitle string, ledger ledger.Ledger, dispatcher Dispatcher, costs Costs, logger *zap.Logger) *ChatSession {
	return &ChatSession{
		ledger:      ledger,
		dispatcher:  dispatcher,
		costs:       costs,
		logger:      logger,
		now:         time.Now,
		user:        user,
		lessonTitle: lessonTitle,
	}
}

// Ask runs one metered question/answer cycle. Re-submitting the same
// text starts a fresh cycle; repeated questions are not deduplicated.
func (s *ChatSession) Ask(ctx context.Context, question string) (*models.Message, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("empty question")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		s.state = StateAwaitingAuth
		s.appendAI(msgAuthRequired)
		return nil, ErrAuthRequired
	}
	if s.user.Tokens < s.costs.Chat {
		s.state = StateAwaitingBalance
		s.appendAI(msgInsufficientBalance)
		return nil, ErrInsufficientBalance
	}

	s.append(models.Message{
		ID:        uuid.New().String(),
		Text:      question,
		Timestamp: s.now().Format("15:04"),
	})

	s.state = StateDebiting
	balance, err := s.ledger.Debit(ctx, s.user.ID, s.user.Tokens, s.costs.Chat)
	if err != nil {
		s.state = StateLedgerError
		s.appendAI(msgLedgerError)
		return nil, err
	}
	s.user.Tokens = balance

	s.state = StateWaitingForAI
	answer, err := s.dispatcher.SendPrompt(ctx, question, s.lessonTitle)
	if err != nil {
		refundErr := s.refund(ctx, s.costs.Chat)
		s.state = StateIdle
		s.appendAI(msgRequestError)
		if refundErr != nil {
			return nil, fmt.Errorf("%w: %v (original failure: %v)", ErrRefundFailed, refundErr, err)
		}
		return nil, err
	}

	msg := s.appendAI(answer)
	s.state = StateDisplaying
	return msg, nil
}

// refund is best-effort compensation for a debit whose operation did
// not yield a usable result.
func (s *ChatSession) refund(ctx context.Context, amount int) error {
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

func (s *ChatSession) append(msg models.Message) {
	s.messages = append(s.messages, msg)
}

func (s *ChatSession) appendAI(text string) *models.Message {
	msg := models.Message{
		ID:        uuid.New().String(),
		Text:      text,
		FromAI:    true,
		Timestamp: s.now().Format("15:04"),
	}
	s.messages = append(s.messages, msg)
	return &msg
}

// Messages returns a snapshot of the session's message log.
func (s *ChatSession) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *ChatSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Balance reports the local mirror of the user's token balance.
func (s *ChatSession) Balance() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return 0
	}
	return s.user.Tokens
}

// SignOut clears the local user mirror; the remote record is kept.
func (s *ChatSession) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.state = StateIdle
}
