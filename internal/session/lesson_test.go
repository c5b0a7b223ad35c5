package session

import (
	"context"
	"errors"
	"testing"

	"github.com/ndemidov/ai-mentor/internal/dispatch"
	"github.com/ndemidov/ai-mentor/internal/storage"
	"go.uber.org/zap"
)

func TestLessonStartGeneratesAndPersists(t *testing.T) {
	led := &fakeLedger{}
	disp := &fakeDispatcher{answer: "<ol><li>Cells</li></ol>"}
	store := storage.NewMemoryLessonStore()
	user := testUser(100)
	s := NewLessonSession(user, "Biology", []string{"Cells"}, led, disp, store, testCosts, zap.NewNop())

	html, err := s.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if html != "<ol><li>Cells</li></ol>" {
		t.Errorf("unexpected html %q", html)
	}
	if user.Tokens != 90 {
		t.Errorf("expected 90 after lesson debit, got %d", user.Tokens)
	}

	saved, err := store.Get(context.Background(), user.ID, "Biology")
	if err != nil {
		t.Fatalf("lesson state not persisted: %v", err)
	}
	if saved != html {
		t.Errorf("persisted %q, want %q", saved, html)
	}

	// Starting again must not charge a second time.
	if _, err := s.Start(context.Background()); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if led.debits != 1 {
		t.Errorf("expected a single debit, got %d", led.debits)
	}
}

func TestLessonResumeSkipsCharge(t *testing.T) {
	led := &fakeLedger{}
	disp := &fakeDispatcher{}
	store := storage.NewMemoryLessonStore()
	user := testUser(100)
	store.Save(context.Background(), user.ID, "Biology", "<p>saved</p>")

	s := NewLessonSession(user, "Biology", nil, led, disp, store, testCosts, zap.NewNop())

	resumed, err := s.Resume(context.Background())
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if !resumed {
		t.Fatal("expected resumed lesson")
	}
	if s.HTML() != "<p>saved</p>" {
		t.Errorf("unexpected html %q", s.HTML())
	}
	if led.debits != 0 || disp.lessonCalls != 0 {
		t.Error("resume must not debit or call the AI")
	}

	// Start after resume is a no-op returning the stored content.
	html, err := s.Start(context.Background())
	if err != nil || html != "<p>saved</p>" {
		t.Errorf("Start after resume: %q, %v", html, err)
	}
	if led.debits != 0 {
		t.Error("no charge for an already started lesson")
	}
}

func TestLessonStartFailureRefunds(t *testing.T) {
	led := &fakeLedger{}
	disp := &fakeDispatcher{err: dispatch.ErrRequest}
	user := testUser(100)
	s := NewLessonSession(user, "Biology", nil, led, disp, storage.NewMemoryLessonStore(), testCosts, zap.NewNop())

	_, err := s.Start(context.Background())
	if !errors.Is(err, dispatch.ErrRequest) {
		t.Fatalf("expected ErrRequest, got %v", err)
	}
	if user.Tokens != 100 {
		t.Errorf("debit then refund must net to zero, got %d", user.Tokens)
	}
	if led.debits != 1 || led.refunds != 1 {
		t.Errorf("expected one debit and one refund, got %d/%d", led.debits, led.refunds)
	}
}

func TestLessonStartInsufficientBalance(t *testing.T) {
	led := &fakeLedger{}
	disp := &fakeDispatcher{}
	s := NewLessonSession(testUser(9), "Biology", nil, led, disp, storage.NewMemoryLessonStore(), testCosts, zap.NewNop())

	_, err := s.Start(context.Background())
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if led.debits != 0 || disp.lessonCalls != 0 {
		t.Error("no debit and no AI call below the lesson cost")
	}
}

func TestLessonFinishRemovesState(t *testing.T) {
	led := &fakeLedger{}
	disp := &fakeDispatcher{answer: "<p>lesson</p>"}
	store := storage.NewMemoryLessonStore()
	user := testUser(100)
	s := NewLessonSession(user, "Biology", nil, led, disp, store, testCosts, zap.NewNop())

	if _, err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Finish(context.Background()); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	if _, err := store.Get(context.Background(), user.ID, "Biology"); !errors.Is(err, storage.ErrLessonNotFound) {
		t.Errorf("expected removed lesson state, got %v", err)
	}
	if s.Started() || s.HTML() != "" {
		t.Error("session must reset after finish")
	}
}
