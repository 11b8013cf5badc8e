package beat

import (
	"math"
	"testing"

	"github.com/vovakirdan/beat-runner/internal/audio"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.BaseBPM = 120 // 0.5 s beats, 0.125 s steps
	return cfg
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestClockSchedulesPatternAhead(t *testing.T) {
	mc := audio.NewManualClock(0)
	rec := audio.NewRecorder()
	c := NewClock(testConfig(), mc, rec, nil)
	c.Start()

	if n := c.Tick(); n != 1 {
		t.Fatalf("first Tick() scheduled %d steps, expected 1", n)
	}
	pads := rec.ByLayer(audio.LayerPad)
	if len(pads) != 1 || pads[0].Time != 0 || pads[0].Step != 0 {
		t.Errorf("pad events = %+v, expected one at t=0 step 0", pads)
	}

	mc.Advance(0.05)
	c.Tick()
	if c.BeatIndex() != 2 {
		t.Errorf("BeatIndex() = %d, expected 2", c.BeatIndex())
	}
	if !approx(c.NextEventTime(), 0.25) {
		t.Errorf("NextEventTime() = %v, expected 0.25", c.NextEventTime())
	}
}

func TestClockStoppedDoesNothing(t *testing.T) {
	c := NewClock(testConfig(), audio.NewManualClock(0), nil, nil)
	if n := c.Tick(); n != 0 {
		t.Errorf("Tick() on stopped clock scheduled %d steps", n)
	}
}

func TestClockCatchUpAfterStall(t *testing.T) {
	mc := audio.NewManualClock(0)
	rec := audio.NewRecorder()
	c := NewClock(testConfig(), mc, rec, nil)
	c.Start()
	c.Tick()

	before := len(rec.Events())
	mc.Advance(2.0)
	n := c.Tick()
	now := mc.Now()

	if n > 2 {
		t.Errorf("resumed Tick() scheduled %d steps, expected skip-ahead", n)
	}
	if c.NextEventTime() < now {
		t.Errorf("NextEventTime() = %v is behind now %v", c.NextEventTime(), now)
	}
	if c.NextEventTime()-now > testConfig().ScheduleAhead+c.SixteenthInterval() {
		t.Errorf("NextEventTime() = %v is too far ahead of now %v", c.NextEventTime(), now)
	}
	for _, ev := range rec.Events()[before:] {
		if ev.Time < now {
			t.Errorf("replayed stale event at %v", ev.Time)
		}
	}
}

func TestClockSkipAheadRealignsBeatGrid(t *testing.T) {
	mc := audio.NewManualClock(0)
	c := NewClock(testConfig(), mc, nil, nil)
	c.Start()
	c.Tick()

	mc.Advance(2.0 + c.SixteenthInterval()/3)
	n := c.Tick()
	now := mc.Now()

	if !approx(c.LastBeatTime(), now) {
		t.Errorf("LastBeatTime() = %v, expected the resume time %v", c.LastBeatTime(), now)
	}
	if phase := c.BeatPhaseAt(now); !approx(phase, 0) {
		t.Errorf("BeatPhaseAt(now) = %v, expected 0 on the new grid", phase)
	}
	if n != 1 {
		t.Fatalf("Tick() scheduled %d steps, expected 1", n)
	}
	if idx := c.BeatIndex(); idx%StepsPerBeat != 1 {
		t.Errorf("BeatIndex() = %d, expected the step after a beat", idx)
	}
}

func TestClockCatchUpIsBounded(t *testing.T) {
	cfg := testConfig()
	cfg.StallThreshold = 100
	mc := audio.NewManualClock(0)
	c := NewClock(cfg, mc, nil, nil)
	c.Start()
	c.Tick()

	mc.Advance(10)
	if n := c.Tick(); n != cfg.MaxCatchUp {
		t.Errorf("Tick() scheduled %d steps, expected cap %d", n, cfg.MaxCatchUp)
	}
}

func TestClockBeatPhaseDeterministic(t *testing.T) {
	mc := audio.NewManualClock(0)
	c := NewClock(testConfig(), mc, nil, nil)
	c.Start()
	c.Tick()

	tests := []struct {
		now      float64
		expected float64
	}{
		{0, 0},
		{0.125, 0.25},
		{0.25, 0.5},
		{0.5, 0},
		{0.75, 0.5},
		{10.375, 0.75},
	}
	for _, tc := range tests {
		a := c.BeatPhaseAt(tc.now)
		b := c.BeatPhaseAt(tc.now)
		if a != b {
			t.Errorf("BeatPhaseAt(%v) not pure: %v vs %v", tc.now, a, b)
		}
		if !approx(a, tc.expected) {
			t.Errorf("BeatPhaseAt(%v) = %v, expected %v", tc.now, a, tc.expected)
		}
	}
}

func TestClockLastBeatPromotion(t *testing.T) {
	mc := audio.NewManualClock(0)
	c := NewClock(testConfig(), mc, nil, nil)
	c.Start()

	for i := 0; i < 30; i++ {
		mc.Advance(0.025)
		c.Tick()
	}
	// now = 0.75; beats at 0 and 0.5 have passed, 1.0 is still ahead
	if !approx(c.LastBeatTime(), 0.5) {
		t.Errorf("LastBeatTime() = %v, expected 0.5", c.LastBeatTime())
	}
}

func TestClockTempo(t *testing.T) {
	c := NewClock(testConfig(), audio.NewManualClock(0), nil, nil)

	for i := 0; i < 4; i++ {
		c.TriggerJump(Judgement{Grade: GradeGood})
	}
	if c.Tempo() != 122 {
		t.Errorf("Tempo() = %v after 4 jumps, expected 122", c.Tempo())
	}

	c.SetSpeedMultiplier(10)
	if c.SpeedMultiplier() != 3 {
		t.Errorf("SpeedMultiplier() = %v, expected clamp to 3", c.SpeedMultiplier())
	}
	c.SetSpeedMultiplier(0.1)
	if c.SpeedMultiplier() != 0.5 {
		t.Errorf("SpeedMultiplier() = %v, expected clamp to 0.5", c.SpeedMultiplier())
	}

	c.SetSpeedMultiplier(1)
	for i := 0; i < 500; i++ {
		c.TriggerJump(Judgement{})
	}
	if c.Tempo() != 180 {
		t.Errorf("Tempo() = %v, expected MaxBPM 180", c.Tempo())
	}
}

func TestClockTempoChangeOnlyAffectsFutureSteps(t *testing.T) {
	mc := audio.NewManualClock(0)
	rec := audio.NewRecorder()
	c := NewClock(testConfig(), mc, rec, nil)
	c.Start()
	c.Tick()

	cursor := c.NextEventTime()
	for i := 0; i < 20; i++ {
		c.TriggerJump(Judgement{})
	}
	if c.NextEventTime() != cursor {
		t.Fatalf("tempo change moved the cursor from %v to %v", cursor, c.NextEventTime())
	}

	mc.Advance(0.05)
	c.Tick()
	if !approx(c.NextEventTime(), cursor+c.SixteenthInterval()) {
		t.Errorf("NextEventTime() = %v, expected %v", c.NextEventTime(), cursor+c.SixteenthInterval())
	}
	if arps := rec.ByLayer(audio.LayerArp); arps[0].Time != 0 {
		t.Errorf("already scheduled event moved to %v", arps[0].Time)
	}
}

func TestClockTriggerJumpLayers(t *testing.T) {
	tests := []struct {
		name   string
		j      Judgement
		layers []audio.Layer
	}{
		{
			name:   "perfect with streak",
			j:      Judgement{Grade: GradePerfect, Streak: 3, Label: LabelPerfect},
			layers: []audio.Layer{audio.LayerKick, audio.LayerSnare, audio.LayerHiHat, audio.LayerBass, audio.LayerMelody},
		},
		{
			name:   "good",
			j:      Judgement{Grade: GradeGood, Streak: 1, Label: LabelGood},
			layers: []audio.Layer{audio.LayerKick, audio.LayerBass, audio.LayerMelody},
		},
		{
			name:   "miss",
			j:      Judgement{Grade: GradeMiss, Label: LabelMiss},
			layers: []audio.Layer{audio.LayerKick, audio.LayerBass},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mc := audio.NewManualClock(3)
			rec := audio.NewRecorder()
			c := NewClock(testConfig(), mc, rec, nil)
			c.TriggerJump(tc.j)

			evs := rec.Events()
			if len(evs) != len(tc.layers) {
				t.Fatalf("emitted %d events, expected %d", len(evs), len(tc.layers))
			}
			for i, ev := range evs {
				if ev.Layer != tc.layers[i] {
					t.Errorf("event %d layer = %v, expected %v", i, ev.Layer, tc.layers[i])
				}
				if ev.Time != 3 || ev.Step != -1 {
					t.Errorf("event %d not immediate: %+v", i, ev)
				}
			}
		})
	}
}

func TestClockSinkFailureDoesNotChangeState(t *testing.T) {
	run := func(sink audio.Sink) *Clock {
		mc := audio.NewManualClock(0)
		c := NewClock(testConfig(), mc, sink, nil)
		c.Start()
		for i := 0; i < 40; i++ {
			mc.Advance(0.025)
			c.Tick()
			if i%7 == 0 {
				c.TriggerJump(Judgement{Grade: GradePerfect, Streak: i % 6})
			}
		}
		return c
	}

	ok := run(audio.NewRecorder())
	failing := run(audio.SinkFunc(func(audio.Event) error { return audio.ErrDropped }))

	if ok.NextEventTime() != failing.NextEventTime() ||
		ok.BeatIndex() != failing.BeatIndex() ||
		ok.LastBeatTime() != failing.LastBeatTime() ||
		ok.Tempo() != failing.Tempo() {
		t.Error("clock state diverged when the sink failed")
	}
	if failing.Dropped() == 0 {
		t.Error("Dropped() = 0, expected refused events to be counted")
	}
}

func TestClockReset(t *testing.T) {
	mc := audio.NewManualClock(0)
	c := NewClock(testConfig(), mc, nil, nil)
	c.Start()
	for i := 0; i < 10; i++ {
		mc.Advance(0.03)
		c.Tick()
		c.TriggerJump(Judgement{})
	}
	c.SetSpeedMultiplier(2)

	c.Reset()
	if c.Tempo() != 120 || c.BeatIndex() != 0 || c.JumpCount() != 0 {
		t.Errorf("Reset() left tempo=%v beat=%d jumps=%d", c.Tempo(), c.BeatIndex(), c.JumpCount())
	}
	if c.NextEventTime() != mc.Now() || c.LastBeatTime() != mc.Now() {
		t.Errorf("Reset() did not rebase the cursor to now")
	}
}
