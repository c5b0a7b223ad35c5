package session

// State is the chat/lesson flow state, rendered declaratively by the
// embedding UI instead of it probing rendered elements.
type State int

const (
	StateIdle State = iota
	StateAwaitingAuth
	StateAwaitingBalance
	StateDebiting
	StateWaitingForAI
	StateDisplaying
	StateLedgerError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingAuth:
		return "awaiting_auth"
	case StateAwaitingBalance:
		return "awaiting_balance"
	case StateDebiting:
		return "debiting"
	case StateWaitingForAI:
		return "waiting_for_ai"
	case StateDisplaying:
		return "displaying"
	case StateLedgerError:
		return "ledger_error"
	default:
		return "unknown"
	}
}

// SpeechState tracks the single audio stream a speech session owns.
type SpeechState int

const (
	SpeechStopped SpeechState = iota
	SpeechRequesting
	SpeechPlaying
	SpeechPaused
)

func (s SpeechState) String() string {
	switch s {
	case SpeechStopped:
		return "stopped"
	case SpeechRequesting:
		return "requesting"
	case SpeechPlaying:
		return "playing"
	case SpeechPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Costs holds the token price of each metered operation.
type Costs struct {
	Chat          int
	Lesson        int
	PremiumSpeech int
}
