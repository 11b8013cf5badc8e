package beat

import "math"

// Grade is the timing quality of a beat-significant action.
type Grade int

const (
	GradeMiss Grade = iota
	GradeGood
	GradePerfect
)

func (g Grade) String() string {
	switch g {
	case GradePerfect:
		return "perfect"
	case GradeGood:
		return "good"
	default:
		return "miss"
	}
}

func (g Grade) velocity() float64 {
	switch g {
	case GradePerfect:
		return 1
	case GradeGood:
		return 0.8
	default:
		return 0.5
	}
}

// Judgement labels shown to the player.
const (
	LabelOnFire  = "ON FIRE!"
	LabelPerfect = "PERFECT"
	LabelGood    = "GOOD"
	LabelMiss    = "MISS"
)

// Windows are the grading thresholds in milliseconds from the nearest beat.
type Windows struct {
	PerfectMs float64
	GoodMs    float64
}

// DefaultWindows returns 100 ms perfect and 200 ms good.
func DefaultWindows() Windows {
	return Windows{PerfectMs: 100, GoodMs: 200}
}

// Timing is a snapshot of the clock in milliseconds.
type Timing struct {
	NowMs      float64
	LastBeatMs float64
	IntervalMs float64
}

// DistanceMs returns the distance to the nearest beat.
func (t Timing) DistanceMs() float64 {
	if t.IntervalMs <= 0 {
		return 0
	}
	e := math.Mod(t.NowMs-t.LastBeatMs, t.IntervalMs)
	if e < 0 {
		e += t.IntervalMs
	}
	return math.Min(e, t.IntervalMs-e)
}

// CheckTiming grades t. Both window edges are inclusive.
func CheckTiming(t Timing, w Windows) Grade {
	d := t.DistanceMs()
	switch {
	case d <= w.PerfectMs:
		return GradePerfect
	case d <= w.GoodMs:
		return GradeGood
	default:
		return GradeMiss
	}
}

// Points converts a grade and the resulting streak into score.
func Points(g Grade, streak int) int {
	pts := 2
	switch g {
	case GradePerfect:
		pts = 10
	case GradeGood:
		pts = 5
	}
	if streak >= 3 {
		pts += streak
	}
	return pts
}

// Label returns the feedback text for a grade and streak.
func Label(g Grade, streak int) string {
	switch {
	case g == GradePerfect && streak >= 5:
		return LabelOnFire
	case g == GradePerfect:
		return LabelPerfect
	case g == GradeGood:
		return LabelGood
	default:
		return LabelMiss
	}
}

// Judgement is the result of grading one jump.
type Judgement struct {
	Grade      Grade
	Streak     int
	Points     int
	Label      string
	DistanceMs float64
}

// Evaluator grades jumps and keeps streak, multiplier and accuracy.
type Evaluator struct {
	windows Windows
	rate    float64

	streak     int
	bestStreak int
	hits       int
	total      int
	multiplier float64
}

// NewEvaluator creates an evaluator. rate is the multiplier smoothing
// rate per second; non-positive selects 4.
func NewEvaluator(w Windows, rate float64) *Evaluator {
	if rate <= 0 {
		rate = 4
	}
	return &Evaluator{windows: w, rate: rate, multiplier: 1}
}

// OnPlayerJump grades a jump and updates streak and counters.
func (e *Evaluator) OnPlayerJump(t Timing) Judgement {
	g := CheckTiming(t, e.windows)
	e.total++
	switch g {
	case GradePerfect:
		e.streak++
		e.hits++
	case GradeGood:
		if e.streak > 0 {
			e.streak--
		}
		e.hits++
	default:
		e.streak = 0
	}
	if e.streak > e.bestStreak {
		e.bestStreak = e.streak
	}
	return Judgement{
		Grade:      g,
		Streak:     e.streak,
		Points:     Points(g, e.streak),
		Label:      Label(g, e.streak),
		DistanceMs: t.DistanceMs(),
	}
}

// Update moves the multiplier toward its target. Call once per frame.
func (e *Evaluator) Update(dt float64) {
	target := 1.0
	if e.streak > 0 {
		target = 1 + math.Min(float64(e.streak)*0.1, 0.5)
	}
	e.multiplier += (target - e.multiplier) * (1 - math.Exp(-e.rate*dt))
	if e.multiplier < 1 {
		e.multiplier = 1
	}
}

// Multiplier returns the smoothed rhythm multiplier, always >= 1.
func (e *Evaluator) Multiplier() float64 {
	return e.multiplier
}

// Streak returns the current consecutive streak.
func (e *Evaluator) Streak() int {
	return e.streak
}

// BestStreak returns the longest streak since the last reset.
func (e *Evaluator) BestStreak() int {
	return e.bestStreak
}

// Counts returns hits and total attempts.
func (e *Evaluator) Counts() (hits, total int) {
	return e.hits, e.total
}

// AccuracyPercent returns hits/total*100, or 0 before the first jump.
func (e *Evaluator) AccuracyPercent() float64 {
	if e.total == 0 {
		return 0
	}
	return float64(e.hits) / float64(e.total) * 100
}

// Reset clears every counter.
func (e *Evaluator) Reset() {
	e.streak = 0
	e.bestStreak = 0
	e.hits = 0
	e.total = 0
	e.multiplier = 1
}

// MasteryGrade maps an accuracy percentage to a letter grade.
func MasteryGrade(accuracy float64) string {
	switch {
	case accuracy >= 95:
		return "S"
	case accuracy >= 85:
		return "A"
	case accuracy >= 70:
		return "B"
	case accuracy >= 50:
		return "C"
	default:
		return "D"
	}
}
