package sm2

// Params defines all configurable parameters for the SM-2 scheduling
// algorithm. Thresholds live here rather than as literals in the algorithm
// so that hosts can tune scheduling without forking the engine.
type Params struct {
	// MinEaseFactor is the floor applied after every ease-factor update.
	MinEaseFactor float64

	// RelearnIntervalDays is the interval assigned after a lapse (Again),
	// expressed in days. The default is one minute.
	RelearnIntervalDays float64

	// HardIntervalMultiplier scales the prior interval on a Hard answer.
	HardIntervalMultiplier float64

	// EasyIntervalMultiplier scales the prior interval on an Easy answer.
	EasyIntervalMultiplier float64

	// EasyEaseBonus is added to the ease factor on an Easy answer, on top
	// of the base SM-2 formula (which leaves it unchanged for Easy).
	EasyEaseBonus float64

	// FirstIntervalDays is the interval after the first successful review.
	FirstIntervalDays int

	// SecondIntervalDays is the interval after the second successful review.
	SecondIntervalDays int

	// MinIntervalDays is the floor applied to every computed interval other
	// than the explicit relearning value.
	MinIntervalDays float64
}

// DefaultParams returns the standard SM-2 parameter set.
func DefaultParams() *Params {
	return &Params{
		MinEaseFactor:          1.3,
		RelearnIntervalDays:    1.0 / 1440, // one minute
		HardIntervalMultiplier: 1.2,
		EasyIntervalMultiplier: 1.3,
		EasyEaseBonus:          0.15,
		FirstIntervalDays:      1,
		SecondIntervalDays:     6,
		MinIntervalDays:        1,
	}
}
