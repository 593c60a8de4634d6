package sm2

import (
	"math"

	"github.com/mnemolabs/mnemo-api/internal/domain"
)

// calculateEaseFactor applies the classic SM-2 ease-factor update:
//
//	EF' = EF + (0.1 - (5-q)*(0.08 + (5-q)*0.02))
//
// where q is the quality on the 1-4 scale. Easy (4) leaves the ease factor
// unchanged, Good (3) lowers it slightly, Hard (2) and Again (1) lower it
// sharply. The result is clamped at params.MinEaseFactor.
func calculateEaseFactor(current float64, quality domain.ReviewQuality, params *Params) float64 {
	q := float64(quality)
	next := current + (0.1 - (5-q)*(0.08+(5-q)*0.02))

	if next < params.MinEaseFactor {
		next = params.MinEaseFactor
	}

	return next
}

// calculateStagedInterval computes the classic staged SM-2 interval behind
// the exported CalculateInterval helper. Stage zero is one day and stage
// one six days; later stages scale the previous interval by the ease
// factor, rounded to whole days and floored at one day.
func calculateStagedInterval(
	repetitions int,
	easeFactor float64,
	previousInterval float64,
	params *Params,
) int {
	switch {
	case repetitions <= 0:
		return params.FirstIntervalDays
	case repetitions == 1:
		return params.SecondIntervalDays
	default:
		days := int(math.Round(previousInterval * easeFactor))
		if days < int(params.MinIntervalDays) {
			days = int(params.MinIntervalDays)
		}
		return days
	}
}

// nextState computes the full scheduling update for one review. It never
// mutates its input; the caller receives a fresh value for every field the
// review changes.
//
// Quality branches:
//   - Again: lapse. Repetitions reset to zero and the interval drops to the
//     short relearning value regardless of the prior interval.
//   - Hard: repetitions unchanged; the interval grows by the hard
//     multiplier, keeping fractional precision.
//   - Good: repetitions increment; the first ever success is scheduled
//     one day out, and every later success scales the prior interval by
//     the ease factor as it stood before this review, rounded to whole
//     days.
//   - Easy: repetitions increment; the interval grows by the easy
//     multiplier and the ease factor receives an extra bonus on top of the
//     base formula.
//
// Every computed interval other than the Again relearning value is floored
// at params.MinIntervalDays.
func nextState(
	easeFactor, interval float64,
	repetitions int,
	quality domain.ReviewQuality,
	params *Params,
) (newEF, newInterval float64, newRepetitions int) {
	newEF = calculateEaseFactor(easeFactor, quality, params)

	switch quality {
	case domain.QualityAgain:
		return newEF, params.RelearnIntervalDays, 0

	case domain.QualityHard:
		newInterval = interval * params.HardIntervalMultiplier
		if newInterval < params.MinIntervalDays {
			newInterval = params.MinIntervalDays
		}
		return newEF, newInterval, repetitions

	case domain.QualityGood:
		newRepetitions = repetitions + 1
		if newRepetitions == 1 {
			return newEF, float64(params.FirstIntervalDays), newRepetitions
		}
		days := int(math.Round(interval * easeFactor))
		if days < int(params.MinIntervalDays) {
			days = int(params.MinIntervalDays)
		}
		return newEF, float64(days), newRepetitions

	default: // domain.QualityEasy, validated by the caller
		newEF += params.EasyEaseBonus
		newInterval = interval * params.EasyIntervalMultiplier
		if newInterval < params.MinIntervalDays {
			newInterval = params.MinIntervalDays
		}
		return newEF, newInterval, repetitions + 1
	}
}
