package domain

import "time"

// User represents a bot user
type User struct {
	UserID     int64
	Authorized bool
	LanguageID int64
	CreatedAt  time.Time
}

// UserState represents user's current interaction state
type UserState string

const (
	StateIdle      UserState = "idle"
	StateReviewing UserState = "reviewing"
)

// StateData holds temporary data for user's current state
type StateData struct {
	State   UserState
	Session *ReviewSession
}

// ReviewSession is an in-progress walk through a daily batch
type ReviewSession struct {
	LanguageID int64
	Queue      []int64 // vocabulary item ids, review cards first
	Pos        int
	ShownAt    time.Time
	Reviewed   int
	Correct    int

	// Last graded item and when it is due again, shown above the next card
	LastWord         string
	LastNextReviewAt time.Time
}

// Current returns the vocabulary id being reviewed, or false when the session is over
func (s *ReviewSession) Current() (int64, bool) {
	if s == nil || s.Pos >= len(s.Queue) {
		return 0, false
	}
	return s.Queue[s.Pos], true
}

// Remaining returns how many items are left including the current one
func (s *ReviewSession) Remaining() int {
	if s == nil || s.Pos >= len(s.Queue) {
		return 0
	}
	return len(s.Queue) - s.Pos
}
