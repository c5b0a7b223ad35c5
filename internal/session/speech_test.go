package session

import (
	"context"
	"errors"
	"testing"

	"github.com/ndemidov/ai-mentor/internal/dispatch"
	"go.uber.org/zap"
)

type fakePlayer struct {
	played  [][]byte
	stops   int
	pauses  int
	resumes int
	playErr error
}

func (f *fakePlayer) Play(audio []byte) error {
	if f.playErr != nil {
		return f.playErr
	}
	f.played = append(f.played, audio)
	return nil
}

func (f *fakePlayer) Pause() error  { f.pauses++; return nil }
func (f *fakePlayer) Resume() error { f.resumes++; return nil }
func (f *fakePlayer) Stop() error   { f.stops++; return nil }

type fakeSynth struct {
	spoken  []string
	cancels int
	err     error
}

func (f *fakeSynth) Speak(text string) error {
	if f.err != nil {
		return f.err
	}
	f.spoken = append(f.spoken, text)
	return nil
}

func (f *fakeSynth) Cancel() error { f.cancels++; return nil }

func newSpeechFixture(tokens int) (*SpeechSession, *fakeLedger, *fakeDispatcher, *fakePlayer, *fakeSynth) {
	led := &fakeLedger{}
	disp := &fakeDispatcher{audio: []byte("mp3")}
	player := &fakePlayer{}
	synth := &fakeSynth{}
	s := NewSpeechSession(testUser(tokens), led, disp, player, synth, testCosts, zap.NewNop())
	return s, led, disp, player, synth
}

func TestPremiumSpeechSuccess(t *testing.T) {
	s, led, disp, player, _ := newSpeechFixture(100)

	if err := s.PlayPremium(context.Background(), "Lesson text"); err != nil {
		t.Fatalf("PlayPremium: %v", err)
	}
	if led.debits != 1 || led.refunds != 0 {
		t.Errorf("expected one debit, no refund, got %d/%d", led.debits, led.refunds)
	}
	if disp.speechCalls != 1 {
		t.Errorf("expected one vendor fetch, got %d", disp.speechCalls)
	}
	if len(player.played) != 1 || string(player.played[0]) != "mp3" {
		t.Errorf("unexpected playback %v", player.played)
	}
	if s.State() != SpeechPlaying {
		t.Errorf("expected playing, got %v", s.State())
	}
}

func TestPremiumSpeechBelowCost(t *testing.T) {
	s, led, disp, _, _ := newSpeechFixture(40)

	err := s.PlayPremium(context.Background(), "Lesson text")
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if led.debits != 0 {
		t.Error("debit must not be called at balance 40 with cost 45")
	}
	if disp.speechCalls != 0 {
		t.Error("vendor audio must not be requested")
	}
	if s.State() != SpeechStopped {
		t.Errorf("expected stopped, got %v", s.State())
	}
}

func TestPremiumSpeechFetchFailureRefunds(t *testing.T) {
	s, led, disp, _, _ := newSpeechFixture(100)
	disp.err = dispatch.ErrRequest

	err := s.PlayPremium(context.Background(), "Lesson text")
	if !errors.Is(err, dispatch.ErrRequest) {
		t.Fatalf("expected ErrRequest, got %v", err)
	}
	if led.debits != 1 || led.refunds != 1 {
		t.Errorf("expected debit and refund, got %d/%d", led.debits, led.refunds)
	}
	if s.State() != SpeechStopped {
		t.Errorf("expected stopped, got %v", s.State())
	}
}

func TestPremiumSpeechPlaybackFailureRefunds(t *testing.T) {
	s, led, _, player, _ := newSpeechFixture(100)
	player.playErr = errors.New("decode error")

	err := s.PlayPremium(context.Background(), "Lesson text")
	if !errors.Is(err, ErrPlayback) {
		t.Fatalf("expected ErrPlayback, got %v", err)
	}
	if led.refunds != 1 {
		t.Errorf("post-debit playback failure must refund, got %d refunds", led.refunds)
	}
	if s.State() != SpeechStopped {
		t.Errorf("expected stopped, got %v", s.State())
	}
}

func TestFreeSpeechNoLedger(t *testing.T) {
	s, led, disp, _, synth := newSpeechFixture(0)

	if err := s.PlayFree("Line1\n\nLine2"); err != nil {
		t.Fatalf("PlayFree: %v", err)
	}
	if led.debits != 0 || led.refunds != 0 {
		t.Error("free voice must not touch the ledger")
	}
	if disp.speechCalls != 0 {
		t.Error("free voice must not call the vendor")
	}
	if len(synth.spoken) != 1 || synth.spoken[0] != "Line1. Line2" {
		t.Errorf("expected speech-formatted text, got %v", synth.spoken)
	}
}

func TestStartingNewStreamStopsPrevious(t *testing.T) {
	s, _, _, player, _ := newSpeechFixture(100)

	if err := s.PlayPremium(context.Background(), "first"); err != nil {
		t.Fatalf("PlayPremium: %v", err)
	}
	if err := s.PlayPremium(context.Background(), "second"); err != nil {
		t.Fatalf("second PlayPremium: %v", err)
	}
	if player.stops != 1 {
		t.Errorf("previous stream must be stopped first, got %d stops", player.stops)
	}
	if len(player.played) != 2 {
		t.Errorf("expected two playbacks, got %d", len(player.played))
	}
}

func TestPauseResumePremium(t *testing.T) {
	s, _, _, player, _ := newSpeechFixture(100)

	s.PlayPremium(context.Background(), "text")
	if err := s.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if s.State() != SpeechPaused || player.pauses != 1 {
		t.Errorf("expected paused, got %v (%d pauses)", s.State(), player.pauses)
	}

	if err := s.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if s.State() != SpeechPlaying || player.resumes != 1 {
		t.Errorf("expected playing, got %v (%d resumes)", s.State(), player.resumes)
	}
}

func TestPauseFreeCancels(t *testing.T) {
	s, _, _, _, synth := newSpeechFixture(100)

	s.PlayFree("text")
	if err := s.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if s.State() != SpeechStopped || synth.cancels != 1 {
		t.Errorf("free voice pause must cancel, got %v (%d cancels)", s.State(), synth.cancels)
	}
}

func TestStopAndOnEnded(t *testing.T) {
	s, _, _, player, _ := newSpeechFixture(100)

	s.PlayPremium(context.Background(), "text")
	s.Stop()
	if s.State() != SpeechStopped || player.stops != 1 {
		t.Errorf("expected stopped, got %v (%d stops)", s.State(), player.stops)
	}

	s.PlayPremium(context.Background(), "text")
	s.OnEnded()
	if s.State() != SpeechStopped {
		t.Errorf("expected stopped after OnEnded, got %v", s.State())
	}
}
