package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/ndemidov/ai-mentor/internal/format"
	"github.com/ndemidov/ai-mentor/internal/ledger"
	"github.com/ndemidov/ai-mentor/internal/models"
	"go.uber.org/zap"
)

// Player is the handle for vendor-generated audio playback.
type Player interface {
	Play(audio []byte) error
	Pause() error
	Resume() error
	Stop() error
}

// Synthesizer is the local, zero-cost voice.
type Synthesizer interface {
	Speak(text string) error
	Cancel() error
}

// SpeechSession narrates lesson text. The premium path debits before
// fetching vendor audio; the free path uses the local synthesizer and
// never touches the ledger. A session owns at most one active stream:
// starting a new one stops the previous one first.
//
// Any failure after the premium debit — fetch, decode, or playback —
// triggers a best-effort refund before the error is surfaced.
type SpeechSession struct {
	ledger     ledger.Ledger
	dispatcher Dispatcher
	player     Player
	synth      Synthesizer
	costs      Costs
	logger     *zap.Logger

	mu      sync.Mutex
	user    *models.User
	state   SpeechState
	premium bool
}

func NewSpeechSession(user *models.User, ledger ledger.Ledger, dispatcher Dispatcher, player Player, synth Synthesizer, costs Costs, logger *zap.Logger) *SpeechSession {
	return &SpeechSession{
		ledger:     ledger,
		dispatcher: dispatcher,
		player:     player,
		synth:      synth,
		costs:      costs,
		logger:     logger,
		user:       user,
	}
}

// PlayPremium debits the premium voice cost, fetches narration audio,
// and starts playback.
func (s *SpeechSession) PlayPremium(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopCurrent()

	if s.user == nil {
		return ErrAuthRequired
	}
	if s.user.Tokens < s.costs.PremiumSpeech {
		return ErrInsufficientBalance
	}

	balance, err := s.ledger.Debit(ctx, s.user.ID, s.user.Tokens, s.costs.PremiumSpeech)
	if err != nil {
		return err
	}
	s.user.Tokens = balance

	s.state = SpeechRequesting
	audio, err := s.dispatcher.FetchSpeech(ctx, format.ForSpeech(text))
	if err != nil {
		s.state = SpeechStopped
		return s.failWithRefund(ctx, err)
	}

	if err := s.player.Play(audio); err != nil {
		s.state = SpeechStopped
		return s.failWithRefund(ctx, fmt.Errorf("%w: %v", ErrPlayback, err))
	}

	s.state = SpeechPlaying
	s.premium = true
	return nil
}

// PlayFree narrates with the local voice. No sign-in and no tokens
// are required.
func (s *SpeechSession) PlayFree(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopCurrent()

	if err := s.synth.Speak(format.ForSpeech(text)); err != nil {
		s.state = SpeechStopped
		return fmt.Errorf("%w: %v", ErrPlayback, err)
	}

	s.state = SpeechPlaying
	s.premium = false
	return nil
}

// Pause suspends premium playback. The local voice has no pause
// position to keep, so pausing it cancels outright.
func (s *SpeechSession) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SpeechPlaying {
		return nil
	}
	if s.premium {
		if err := s.player.Pause(); err != nil {
			return fmt.Errorf("%w: %v", ErrPlayback, err)
		}
		s.state = SpeechPaused
		return nil
	}

	s.synth.Cancel()
	s.state = SpeechStopped
	return nil
}

func (s *SpeechSession) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SpeechPaused || !s.premium {
		return nil
	}
	if err := s.player.Resume(); err != nil {
		return fmt.Errorf("%w: %v", ErrPlayback, err)
	}
	s.state = SpeechPlaying
	return nil
}

// Stop cancels playback and resets the session immediately, with no
// further side effects.
func (s *SpeechSession) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopCurrent()
}

// OnEnded is called by the player or synthesizer when playback runs
// to completion.
func (s *SpeechSession) OnEnded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SpeechStopped
	s.premium = false
}

func (s *SpeechSession) State() SpeechState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// stopCurrent halts whatever stream is active. Callers hold the lock.
func (s *SpeechSession) stopCurrent() {
	switch s.state {
	case SpeechPlaying, SpeechPaused:
		if s.premium {
			s.player.Stop()
		} else {
			s.synth.Cancel()
		}
	}
	s.state = SpeechStopped
	s.premium = false
}

func (s *SpeechSession) failWithRefund(ctx context.Context, opErr error) error {
	balance, err := s.ledger.Refund(ctx, s.user.ID, s.user.Tokens, s.costs.PremiumSpeech)
	if err != nil {
		s.logger.Error("Refund failed, balance left inconsistent",
			zap.Error(err),
			zap.Int64("user_id", s.user.ID),
			zap.Int("amount", s.costs.PremiumSpeech))
		return fmt.Errorf("%w: %v (original failure: %v)", ErrRefundFailed, err, opErr)
	}
	s.user.Tokens = balance
	return opErr
}
