package levels

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/beat-runner/internal/config"
	"github.com/vovakirdan/beat-runner/internal/core"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner/platform"
)

// EndlessID is the level id used for generated runs.
const EndlessID = "endless"

// kindTier unlocks a platform kind once the difficulty level reaches minLevel.
type kindTier struct {
	kind     platform.Kind
	minLevel float64
	weight   int
}

// Teleporters and secrets need hand placement and are never generated.
var kindTiers = []kindTier{
	{platform.KindSolid, 0, 10},
	{platform.KindBounce, 0, 2},
	{platform.KindCrumble, 0, 2},
	{platform.KindIce, 0.1, 2},
	{platform.KindConveyor, 0.2, 2},
	{platform.KindPhase, 0.25, 2},
	{platform.KindGlass, 0.3, 2},
	{platform.KindCloud, 0.35, 2},
	{platform.KindWind, 0.4, 1},
	{platform.KindSpeedBoost, 0.4, 1},
	{platform.KindGlitch, 0.55, 1},
	{platform.KindLightning, 0.65, 1},
}

// Generator places platforms ahead of the camera for endless mode.
// The same seed produces the same course for the same sequence of calls.
type Generator struct {
	cfg    config.EndlessConfig
	rng    *rand.Rand
	tuning *platform.Tuning

	nextID int
	nextX  float64
	lastY  float64
}

// NewGenerator creates a generator whose first platform starts at startX with
// its top at startY.
func NewGenerator(seed int64, cfg config.EndlessConfig, tn *platform.Tuning, startX, startY float64) *Generator {
	return &Generator{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		tuning: tn,
		nextX:  startX,
		lastY:  startY,
	}
}

// Level returns the opening stretch of an endless run as a level.
func (g *Generator) Level(spawnX float64) Level {
	lvl := Level{
		ID:     EndlessID,
		Name:   "Endless",
		SpawnX: spawnX,
		SpawnY: g.lastY - 40,
		GoalX:  math.Inf(1),
	}
	// A long safe runway before the first gap.
	lvl.Placements = append(lvl.Placements, Placement{
		Kind: platform.KindSolid,
		Box:  core.AABB{X: g.nextX, Y: g.lastY, W: 480, H: 32},
	})
	g.nextX += 480
	g.nextID = 1
	return lvl
}

// Frontier is the x where the next platform will start.
func (g *Generator) Frontier() float64 {
	return g.nextX
}

// Extend creates platforms until the frontier passes untilX. difficulty is
// in [0, 1] and widens gaps, narrows platforms and unlocks harder kinds.
func (g *Generator) Extend(untilX, difficulty float64) []*platform.Platform {
	difficulty = math.Max(0, math.Min(1, difficulty))

	var out []*platform.Platform
	for g.nextX < untilX {
		gapSpan := (g.cfg.MaxGap - g.cfg.MinGap) * (0.3 + 0.7*difficulty)
		gap := g.cfg.MinGap + g.rng.Float64()*gapSpan

		widthSpan := (g.cfg.MaxWidth - g.cfg.MinWidth) * (1 - 0.6*difficulty)
		width := g.cfg.MaxWidth - g.rng.Float64()*widthSpan

		dy := -g.cfg.MaxRise + g.rng.Float64()*(g.cfg.MaxRise+g.cfg.MaxDrop)
		y := math.Max(g.cfg.MinY, math.Min(g.cfg.MaxY, g.lastY+dy))

		kind := g.pickKind(difficulty)
		h := 16.0
		if kind == platform.KindSolid {
			h = 32
		}

		p := platform.New(g.nextID, kind, core.AABB{X: g.nextX + gap, Y: y, W: width, H: h}, g.tuning)
		g.nextID++
		if kind == platform.KindConveyor || kind == platform.KindWind {
			if g.rng.Intn(2) == 0 {
				p.Direction = -1
			}
		}
		if difficulty > 0.5 && kind == platform.KindSolid && g.rng.Intn(3) == 0 {
			p.Motion = platform.Motion{
				Pattern:   platform.MotionVertical,
				Amplitude: 20 + 20*difficulty,
				Speed:     1 + g.rng.Float64(),
			}
		}
		out = append(out, p)

		if difficulty > 0.4 && kind == platform.KindSolid && width >= 160 && g.rng.Intn(4) == 0 {
			spike := platform.New(g.nextID, platform.KindSpike,
				core.AABB{X: g.nextX + gap + width/2 - 12, Y: y - 16, W: 24, H: 16}, g.tuning)
			g.nextID++
			spike.Motion = p.Motion
			out = append(out, spike)
		}

		g.nextX += gap + width
		g.lastY = y
	}
	return out
}

func (g *Generator) pickKind(difficulty float64) platform.Kind {
	total := 0
	for _, t := range kindTiers {
		if difficulty >= t.minLevel {
			total += t.weight
		}
	}
	n := g.rng.Intn(total)
	for _, t := range kindTiers {
		if difficulty < t.minLevel {
			continue
		}
		if n < t.weight {
			return t.kind
		}
		n -= t.weight
	}
	return platform.KindSolid
}
