package sm2

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mnemolabs/mnemo-api/internal/domain"
)

func TestCalculateEaseFactor(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		current float64
		quality domain.ReviewQuality
		check   func(t *testing.T, got float64)
	}{
		{
			name:    "good slightly lowers the ease factor",
			current: 2.5,
			quality: domain.QualityGood,
			check: func(t *testing.T, got float64) {
				assert.InDelta(t, 2.36, got, 0.01)
			},
		},
		{
			name:    "easy leaves the ease factor unchanged",
			current: 2.5,
			quality: domain.QualityEasy,
			check: func(t *testing.T, got float64) {
				assert.InDelta(t, 2.5, got, 0.01)
			},
		},
		{
			name:    "hard lowers the ease factor",
			current: 2.5,
			quality: domain.QualityHard,
			check: func(t *testing.T, got float64) {
				assert.Less(t, got, 2.5)
			},
		},
		{
			name:    "again sharply lowers the ease factor",
			current: 2.5,
			quality: domain.QualityAgain,
			check: func(t *testing.T, got float64) {
				assert.Less(t, got, 2.0)
			},
		},
		{
			name:    "again near the floor clamps at the minimum",
			current: 1.4,
			quality: domain.QualityAgain,
			check: func(t *testing.T, got float64) {
				assert.Equal(t, 1.3, got)
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tc.check(t, CalculateEaseFactor(tc.current, tc.quality))
		})
	}
}

func TestCalculateEaseFactorNeverBelowFloor(t *testing.T) {
	t.Parallel()

	qualities := []domain.ReviewQuality{
		domain.QualityAgain,
		domain.QualityHard,
		domain.QualityGood,
		domain.QualityEasy,
	}

	for ef := 1.3; ef <= 3.0; ef += 0.1 {
		for _, q := range qualities {
			got := CalculateEaseFactor(ef, q)
			assert.GreaterOrEqual(t, got, 1.3,
				"ease factor %v with quality %v fell below floor", ef, q)
		}
	}
}

func TestCalculateInterval(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		repetitions int
		easeFactor  float64
		previous    float64
		expected    int
	}{
		{
			name:        "first stage is one day",
			repetitions: 0,
			easeFactor:  2.5,
			previous:    0,
			expected:    1,
		},
		{
			name:        "second stage is six days",
			repetitions: 1,
			easeFactor:  2.5,
			previous:    0,
			expected:    6,
		},
		{
			name:        "later stages scale the previous interval by the ease factor",
			repetitions: 2,
			easeFactor:  2.5,
			previous:    6,
			expected:    15,
		},
		{
			name:        "sub-day previous interval is floored to one day",
			repetitions: 2,
			easeFactor:  1.3,
			previous:    0.5,
			expected:    1,
		},
		{
			name:        "rounding goes to the nearest whole day",
			repetitions: 3,
			easeFactor:  2.36,
			previous:    6,
			expected:    14, // 6 * 2.36 = 14.16
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := CalculateInterval(tc.repetitions, tc.easeFactor, tc.previous)
			assert.Equal(t, tc.expected, got)
		})
	}
}
