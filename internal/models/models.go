package models

import "time"

// User mirrors the authoritative per-user record held in storage.
// Tokens is the spendable balance; the local copy is refreshed on
// login and after every debit or refund.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Tokens       int       `json:"tokens"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Message is a single chat turn. Messages live only for the duration
// of a chat session and are never persisted.
type Message struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	FromAI    bool   `json:"from_ai"`
	Timestamp string `json:"timestamp"`
}

// LessonState is a generated lesson kept between visits, keyed by the
// lesson title. Removed when the lesson is finished.
type LessonState struct {
	UserID  int64  `json:"user_id"`
	Title   string `json:"title"`
	HTML    string `json:"html"`
	Started bool   `json:"started"`
}
