package engine_test

import (
	"testing"

	"github.com/kristenlee3553/my-trivia/internal/engine"
)

func TestPointsScenarios(t *testing.T) {
	cases := []struct {
		name string
		in   engine.PointsInput
		want int
	}{
		{
			name: "instant full-accuracy answer earns full base",
			in:   engine.PointsInput{Accuracy: 1, TimeTakenMs: 0, TimeLimitSec: 30},
			want: 1000,
		},
		{
			name: "full-duration answer loses half the base",
			in:   engine.PointsInput{Accuracy: 1, TimeTakenMs: 30000, TimeLimitSec: 30},
			want: 500,
		},
		{
			name: "half accuracy on double points with streak four",
			in:   engine.PointsInput{Accuracy: 0.5, DoublePoints: true, Streak: 4, TimeTakenMs: 0, TimeLimitSec: 30},
			want: 1200,
		},
		{
			name: "subjective answer ignores time decay",
			in:   engine.PointsInput{Accuracy: 1, Streak: 2, TimeTakenMs: 25000, TimeLimitSec: 30, IgnoreTimeDecay: true},
			want: 1100,
		},
		{
			name: "base points override replaces the default pool",
			in:   engine.PointsInput{Accuracy: 1, BasePointsOverride: 500, TimeTakenMs: 0, TimeLimitSec: 30},
			want: 500,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := engine.Points(tc.in); got != tc.want {
				t.Fatalf("Points(%+v) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestPointsZeroAccuracyShortCircuits(t *testing.T) {
	in := engine.PointsInput{
		Accuracy:     0,
		DoublePoints: true,
		Streak:       10,
		TimeTakenMs:  0,
		TimeLimitSec: 30,
	}
	if got := engine.Points(in); got != 0 {
		t.Fatalf("zero accuracy earned %d points, want 0", got)
	}
}

func TestPointsMonotonicity(t *testing.T) {
	base := engine.PointsInput{Accuracy: 0.5, Streak: 1, TimeTakenMs: 10000, TimeLimitSec: 30}

	// Non-decreasing in accuracy.
	prev := engine.Points(base)
	for _, acc := range []float64{0.6, 0.75, 0.9, 1} {
		in := base
		in.Accuracy = acc
		got := engine.Points(in)
		if got < prev {
			t.Fatalf("points decreased when accuracy rose to %v: %d < %d", acc, got, prev)
		}
		prev = got
	}

	// Non-decreasing in streak.
	prev = engine.Points(base)
	for streak := 2; streak <= 8; streak++ {
		in := base
		in.Streak = streak
		got := engine.Points(in)
		if got < prev {
			t.Fatalf("points decreased when streak rose to %d: %d < %d", streak, got, prev)
		}
		prev = got
	}

	// Non-increasing in elapsed time within the limit.
	prev = engine.Points(base)
	for _, ms := range []int64{15000, 20000, 25000, 30000} {
		in := base
		in.TimeTakenMs = ms
		got := engine.Points(in)
		if got > prev {
			t.Fatalf("points increased when time rose to %dms: %d > %d", ms, got, prev)
		}
		prev = got
	}
}

// The time ratio is not clamped: a tolerated late submission keeps decaying
// past the 50% floor and an extreme one goes negative. This documents the
// current grading curve rather than asserting it is desirable.
func TestPointsOvertimeDecayIsUnclamped(t *testing.T) {
	late := engine.PointsInput{Accuracy: 1, TimeTakenMs: 45000, TimeLimitSec: 30}
	if got := engine.Points(late); got != 250 {
		t.Fatalf("50%% overtime answer = %d, want 250", got)
	}

	veryLate := engine.PointsInput{Accuracy: 1, TimeTakenMs: 90000, TimeLimitSec: 30}
	if got := engine.Points(veryLate); got != -500 {
		t.Fatalf("200%% overtime answer = %d, want -500", got)
	}
}

func TestBasePoints(t *testing.T) {
	if got := engine.BasePoints(false); got != 1000 {
		t.Fatalf("BasePoints(false) = %d, want 1000", got)
	}
	if got := engine.BasePoints(true); got != 2000 {
		t.Fatalf("BasePoints(true) = %d, want 2000", got)
	}
}
