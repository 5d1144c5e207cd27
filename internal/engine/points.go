package engine

import "math"

const (
	standardBasePoints = 1000
	doubleBasePoints   = 2000

	// decayFactor caps the time penalty at half the earned base for a
	// full-duration answer.
	decayFactor = 0.5
	// streakBonusStep is the flat multiplicative bonus per streak level,
	// uncapped.
	streakBonusStep = 0.05
)

// BasePoints is the default point pool for a question.
func BasePoints(doublePoints bool) int {
	if doublePoints {
		return doubleBasePoints
	}
	return standardBasePoints
}

// PointsInput carries everything the scoring formula reads. Streak is the
// player's streak before this question. BasePointsOverride replaces the
// double-points-derived base when non-zero (host manual adjustment).
type PointsInput struct {
	Accuracy           float64
	DoublePoints       bool
	Streak             int
	TimeTakenMs        int64
	TimeLimitSec       int
	IgnoreTimeDecay    bool // true for subjective answer types
	BasePointsOverride int  // 0 means use BasePoints(DoublePoints)
}

// Points converts accuracy into an integer award. Zero accuracy
// short-circuits to zero: no base, no streak bonus. The time ratio is
// deliberately not clamped to [0,1]; a submission past the time limit decays
// beyond the usual 50% floor, matching the product's grading curve.
func Points(in PointsInput) int {
	if in.Accuracy == 0 {
		return 0
	}

	base := in.BasePointsOverride
	if base == 0 {
		base = BasePoints(in.DoublePoints)
	}
	earnedBase := float64(base) * in.Accuracy
	streakMultiplier := 1 + float64(in.Streak)*streakBonusStep

	if in.IgnoreTimeDecay {
		return int(math.Round(earnedBase * streakMultiplier))
	}

	timeRatio := (float64(in.TimeTakenMs) / 1000) / float64(in.TimeLimitSec)
	scoreWithTimePenalty := (1 - timeRatio*decayFactor) * earnedBase
	return int(math.Round(scoreWithTimePenalty * streakMultiplier))
}
