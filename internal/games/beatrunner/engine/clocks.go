package engine

// SimulationClock drives the physics at a fixed frame rate.
type SimulationClock struct {
	dt      float64
	running bool
	frames  int
	elapsed float64
}

// NewSimulationClock creates a stopped clock at rate frames per second.
func NewSimulationClock(rate int) *SimulationClock {
	if rate <= 0 {
		rate = 60
	}
	return &SimulationClock{dt: 1 / float64(rate)}
}

// Start resumes frame stepping.
func (c *SimulationClock) Start() { c.running = true }

// Stop suspends frame stepping.
func (c *SimulationClock) Stop() { c.running = false }

// Running reports whether Step advances.
func (c *SimulationClock) Running() bool { return c.running }

// Reset zeroes the frame counter. The running flag is left as is.
func (c *SimulationClock) Reset() {
	c.frames = 0
	c.elapsed = 0
}

// Step advances one frame and returns its duration, or false while stopped.
func (c *SimulationClock) Step() (float64, bool) {
	if !c.running {
		return 0, false
	}
	c.frames++
	c.elapsed += c.dt
	return c.dt, true
}

// DT returns the fixed frame duration in seconds.
func (c *SimulationClock) DT() float64 { return c.dt }

// Frames returns frames stepped since the last reset.
func (c *SimulationClock) Frames() int { return c.frames }

// Elapsed returns simulated seconds since the last reset.
func (c *SimulationClock) Elapsed() float64 { return c.elapsed }

// AudioScheduleClock fires the beat scheduler at a fixed interval,
// independent of the frame rate.
type AudioScheduleClock struct {
	interval float64
	running  bool
	acc      float64
	ticks    int
}

// NewAudioScheduleClock creates a stopped clock firing every interval seconds.
func NewAudioScheduleClock(interval float64) *AudioScheduleClock {
	if interval <= 0 {
		interval = 0.025
	}
	return &AudioScheduleClock{interval: interval}
}

// Start resumes firing.
func (c *AudioScheduleClock) Start() { c.running = true }

// Stop cancels firing and drops any partial interval.
func (c *AudioScheduleClock) Stop() {
	c.running = false
	c.acc = 0
}

// Running reports whether the clock fires.
func (c *AudioScheduleClock) Running() bool { return c.running }

// Reset zeroes the accumulator and tick counter.
func (c *AudioScheduleClock) Reset() {
	c.acc = 0
	c.ticks = 0
}

// Interval returns the firing period in seconds.
func (c *AudioScheduleClock) Interval() float64 { return c.interval }

// Advance accumulates dt and returns how many ticks became due.
func (c *AudioScheduleClock) Advance(dt float64) int {
	if !c.running || dt <= 0 {
		return 0
	}
	c.acc += dt
	n := 0
	for c.acc >= c.interval {
		c.acc -= c.interval
		n++
	}
	return n
}

// fire counts one delivered tick.
func (c *AudioScheduleClock) fire() bool {
	if !c.running {
		return false
	}
	c.ticks++
	return true
}

// Ticks returns ticks delivered since the last reset.
func (c *AudioScheduleClock) Ticks() int { return c.ticks }
