// Package srs implements the SM-2 spaced repetition schedule.
//
// Every function in this package is pure: it takes the current card state and
// returns the next one. Persisting the result is the caller's job.
package srs

import (
	"fmt"
	"time"

	"linguo/internal/domain"
)

// Review quality grades
const (
	QualityBlackout          = 0 // complete blackout
	QualityIncorrect         = 1 // incorrect, correct answer remembered
	QualityIncorrectFamiliar = 2 // incorrect, correct answer seemed easy
	QualityCorrectDifficult  = 3 // correct with serious difficulty
	QualityCorrectHesitation = 4 // correct after hesitation
	QualityPerfect           = 5 // perfect response

	// PassThreshold is the lowest quality counted as a successful recall
	PassThreshold = QualityCorrectDifficult
)

// Mastery thresholds
const (
	MasteredRepetitions = 5
	MasteredInterval    = 21
)

// MaxIntervalDays caps interval growth at about a hundred years. The
// interval_days column enforces the same ceiling.
const MaxIntervalDays = 36500

// State is the part of a card the interval algorithm operates on
type State struct {
	EaseFactor   float64
	IntervalDays int
	Repetitions  int
}

// ValidQuality reports whether q is a valid review grade
func ValidQuality(q int) bool {
	return q >= QualityBlackout && q <= QualityPerfect
}

// ComputeNextState returns the scheduling state after a review graded quality.
// The ease factor is updated on every review, lapses included.
func ComputeNextState(quality int, current State) (State, error) {
	if !ValidQuality(quality) {
		return State{}, fmt.Errorf("%w: quality %d out of range [0, 5]", domain.ErrInvalidInput, quality)
	}

	miss := float64(5 - quality)
	ef := current.EaseFactor + (0.1 - miss*(0.08+miss*0.02))
	if ef < domain.MinEaseFactor {
		ef = domain.MinEaseFactor
	}

	next := State{EaseFactor: ef}

	if quality < PassThreshold {
		next.Repetitions = 0
		next.IntervalDays = 1
		return next, nil
	}

	next.Repetitions = current.Repetitions + 1
	switch next.Repetitions {
	case 1:
		next.IntervalDays = 1
	case 2:
		next.IntervalDays = 6
	default:
		// truncation, not rounding
		interval := float64(current.IntervalDays) * ef
		if interval > MaxIntervalDays {
			interval = MaxIntervalDays
		}
		next.IntervalDays = int(interval)
	}

	return next, nil
}

// DeriveStatus returns the status implied by a freshly computed state
func DeriveStatus(s State) domain.Status {
	switch {
	case s.Repetitions >= MasteredRepetitions && s.IntervalDays >= MasteredInterval:
		return domain.StatusMastered
	case s.Repetitions > 0:
		return domain.StatusReview
	default:
		return domain.StatusLearning
	}
}

// ApplyReview grades card with quality at now and returns the updated card
// together with the review event to append. The input card is not mutated.
func ApplyReview(card domain.Card, quality, timeTakenSeconds int, now time.Time) (domain.Card, domain.ReviewEvent, error) {
	next, err := ComputeNextState(quality, State{
		EaseFactor:   card.EaseFactor,
		IntervalDays: card.IntervalDays,
		Repetitions:  card.Repetitions,
	})
	if err != nil {
		return domain.Card{}, domain.ReviewEvent{}, err
	}

	c := card
	c.EaseFactor = next.EaseFactor
	c.IntervalDays = next.IntervalDays
	c.Repetitions = next.Repetitions

	reviewedAt := now
	c.LastReviewedAt = &reviewedAt
	c.NextReviewAt = now.AddDate(0, 0, next.IntervalDays)
	if c.FirstSeenAt.IsZero() {
		c.FirstSeenAt = now
	}

	correct := quality >= PassThreshold
	c.TimesReviewed++
	if correct {
		c.TimesCorrect++
	} else {
		c.TimesIncorrect++
	}

	c.Status = DeriveStatus(next)
	if c.Status == domain.StatusMastered && card.MasteredAt == nil {
		masteredAt := now
		c.MasteredAt = &masteredAt
	}

	event := domain.ReviewEvent{
		CardID:           card.ID,
		Quality:          quality,
		TimeTakenSeconds: timeTakenSeconds,
		WasCorrect:       correct,
		ReviewedAt:       now,
	}

	return c, event, nil
}
