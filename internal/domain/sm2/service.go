// Package sm2 implements the SM-2 family spaced repetition scheduling
// algorithm. All computation is pure: the engine reads its arguments,
// returns a fresh SchedulingState, and performs no I/O, which makes it safe
// to call from any number of concurrent callers.
package sm2

import (
	"errors"
	"time"

	"github.com/mnemolabs/mnemo-api/internal/domain"
)

// Common errors.
var (
	ErrNilState = errors.New("scheduling state cannot be nil")
)

// Service defines the interface for scheduling operations.
type Service interface {
	// CalculateNextReview computes the scheduling state that results from
	// reviewing a card at the given quality. The input state is never
	// mutated. Returns domain.ErrInvalidQuality for out-of-range quality.
	CalculateNextReview(
		state *domain.SchedulingState,
		quality domain.ReviewQuality,
		now time.Time,
	) (*domain.SchedulingState, error)
}

type defaultService struct {
	params *Params
}

// NewService creates a scheduling service with default parameters.
func NewService() Service {
	return &defaultService{params: DefaultParams()}
}

// NewServiceWithParams creates a scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{params: params}
}

// CalculateNextReview implements Service.
func (s *defaultService) CalculateNextReview(
	state *domain.SchedulingState,
	quality domain.ReviewQuality,
	now time.Time,
) (*domain.SchedulingState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	if !quality.IsValid() {
		return nil, domain.ErrInvalidQuality
	}

	ef, interval, repetitions := nextState(
		state.EaseFactor,
		state.Interval,
		state.Repetitions,
		quality,
		s.params,
	)

	next := &domain.SchedulingState{
		CardID:         state.CardID,
		EaseFactor:     ef,
		Interval:       interval,
		Repetitions:    repetitions,
		LastReviewedAt: now,
		NextReviewAt:   nextReviewAt(now, interval),
		CreatedAt:      state.CreatedAt,
		UpdatedAt:      now,
	}

	return next, nil
}

// nextReviewAt converts a possibly fractional interval in days into the
// next due timestamp. Sub-day relearning intervals need duration
// arithmetic, not calendar-day arithmetic.
func nextReviewAt(now time.Time, intervalDays float64) time.Time {
	return now.Add(time.Duration(intervalDays * float64(24*time.Hour)))
}

// CalculateEaseFactor applies the SM-2 ease-factor formula with default
// parameters. Exposed for hosts that want the raw update without running a
// full review.
func CalculateEaseFactor(current float64, quality domain.ReviewQuality) float64 {
	return calculateEaseFactor(current, quality, DefaultParams())
}

// CalculateInterval computes the classic staged SM-2 interval in whole
// days with default parameters: one day at repetitions 0, six at 1, and
// round(previousInterval * easeFactor) from 2 on, floored at one day.
// previousInterval is ignored for the first two stages.
func CalculateInterval(repetitions int, easeFactor, previousInterval float64) int {
	return calculateStagedInterval(repetitions, easeFactor, previousInterval, DefaultParams())
}
