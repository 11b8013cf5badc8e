package beatrunner

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/beat-runner/internal/beat"
	"github.com/vovakirdan/beat-runner/internal/core"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner/engine"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner/platform"
)

// Visual characters for rendering
const (
	PlayerChar = '█'
	GoalChar   = '┃'
	FlagChar   = '⚑'
	FadedChar  = '░'
	ShakeChar  = '▒'
)

type glyph struct {
	r     rune
	color core.Color
}

var kindGlyphs = map[platform.Kind]glyph{
	platform.KindSolid:       {'█', core.ColorWhite},
	platform.KindBounce:      {'▀', core.ColorBrightGreen},
	platform.KindCrumble:     {'▓', core.ColorOrange},
	platform.KindIce:         {'▔', core.ColorBrightCyan},
	platform.KindLava:        {'≈', core.ColorRed},
	platform.KindPhase:       {'▚', core.ColorMagenta},
	platform.KindConveyor:    {'»', core.ColorYellow},
	platform.KindGravityWell: {'◎', core.ColorBlue},
	platform.KindSticky:      {'▄', core.ColorGreen},
	platform.KindGlass:       {'▭', core.ColorCyan},
	platform.KindWind:        {'~', core.ColorBrightWhite},
	platform.KindLightning:   {'ϟ', core.ColorBrightYellow},
	platform.KindCloud:       {'☁', core.ColorBrightWhite},
	platform.KindTeleporter:  {'◈', core.ColorBrightMagenta},
	platform.KindSpeedBoost:  {'»', core.ColorBrightGreen},
	platform.KindWall:        {'▌', core.ColorGray},
	platform.KindSecret:      {'?', core.ColorBrightBlue},
	platform.KindGlitch:      {'▞', core.ColorBrightRed},
	platform.KindSpike:       {'▲', core.ColorBrightRed},
}

// view maps world units to screen cells.
type view struct {
	cameraX float64
	top     float64 // world y at screen row 1
	rows    int
}

func newView(s engine.Snapshot, worldBottom float64, screenH int) view {
	rows := screenH - 2 // HUD row and beat bar
	top := math.Max(0, worldBottom-float64(rows*engine.UnitsPerRow))
	return view{cameraX: s.CameraX, top: top, rows: rows}
}

func (v view) col(x float64) int {
	return int(math.Floor((x - v.cameraX) / engine.UnitsPerColumn))
}

func (v view) row(y float64) int {
	return 1 + int(math.Floor((y-v.top)/engine.UnitsPerRow))
}

// cells returns the inclusive cell span of a box. Every box covers at least one cell.
func (v view) cells(b core.AABB) (x0, y0, x1, y1 int) {
	x0, y0 = v.col(b.X), v.row(b.Y)
	x1 = v.col(b.Right() - 0.001)
	y1 = v.row(b.Bottom() - 0.001)
	return x0, y0, core.Max(x0, x1), core.Max(y0, y1)
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.engine == nil {
		g.drawCenteredMessage(dst, "NO LEVELS", fmt.Sprint(g.loadErr))
		return
	}

	s := g.engine.Snapshot()
	v := newView(s, g.cfg.Physics.WorldBottom, dst.Height())

	if !s.Endless {
		g.drawGoal(dst, v, s.GoalX)
	}
	for _, pv := range s.Platforms {
		drawPlatform(dst, v, pv)
	}
	drawPlayer(dst, v, s)
	g.drawHUD(dst, s)
	drawBeatBar(dst, s)

	if s.Judgement != nil {
		drawJudgement(dst, s.Judgement)
	}

	switch s.Status {
	case engine.StatusPaused:
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	case engine.StatusDead:
		r := g.engine.Result()
		g.drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Score: %d  Grade: %s  |  Press R to restart", r.Score, r.Grade))
	case engine.StatusWon:
		r := g.engine.Result()
		sub := fmt.Sprintf("Score: %d  Accuracy: %.0f%%  Grade: %s  |  R to replay", r.Score, r.Accuracy, r.Grade)
		if g.hasNextLevel() {
			sub += "  Enter for next"
		}
		g.drawCenteredMessage(dst, "LEVEL COMPLETE", sub)
	}
}

func drawPlatform(dst *core.Screen, v view, pv platform.Visual) {
	gl, ok := kindGlyphs[pv.Kind]
	if !ok {
		gl = kindGlyphs[platform.KindSolid]
	}
	r, c := gl.r, gl.color

	switch {
	case pv.Alpha < 0.05:
		return
	case pv.Alpha < 0.6 || !pv.Collidable:
		r, c = FadedChar, core.ColorGray
	case pv.Shake > 0 || pv.Cracks > 0:
		r = ShakeChar
	}
	if pv.Active {
		c = core.ColorBrightYellow
	}
	if pv.Pulse > 0.5 && !pv.Deadly {
		c = brighten(c)
	}

	x0, y0, x1, y1 := v.cells(pv.Box)
	for y := core.Max(y0, 1); y <= y1 && y <= v.rows; y++ {
		for x := x0; x <= x1; x++ {
			dst.SetColored(x, y, r, c)
		}
	}
}

func drawPlayer(dst *core.Screen, v view, s engine.Snapshot) {
	p := s.Player
	color := core.ColorBrightCyan
	switch {
	case p.Dead:
		color = core.ColorRed
	case p.DoubleJumps > 0:
		color = core.ColorBrightMagenta
	case s.Multiplier >= 1.3:
		color = core.ColorBrightYellow
	}

	x0, y0, x1, y1 := v.cells(p.Bounds())
	for y := core.Max(y0, 1); y <= y1 && y <= v.rows; y++ {
		for x := x0; x <= x1; x++ {
			dst.SetColored(x, y, PlayerChar, color)
		}
	}
	eye := x1
	if p.Facing < 0 {
		eye = x0
	}
	if y0 >= 1 && y0 <= v.rows {
		dst.SetColored(eye, y0, '▪', core.ColorBlue)
	}
}

func (g *Game) drawGoal(dst *core.Screen, v view, goalX float64) {
	x := v.col(goalX)
	if x < 0 || x >= dst.Width() {
		return
	}
	for y := 1; y <= v.rows; y++ {
		dst.SetColored(x, y, GoalChar, core.ColorGreen)
	}
	dst.SetColored(x, 1, FlagChar, core.ColorBrightGreen)
}

func (g *Game) drawHUD(dst *core.Screen, s engine.Snapshot) {
	left := fmt.Sprintf(" %s  Score: %d  Streak: %d  x%.1f ", s.LevelName, s.Score, s.Streak, s.Multiplier)
	right := fmt.Sprintf(" %3.0f BPM  %3.0f%% ", s.Tempo, s.Accuracy)
	dst.DrawTextColored(0, 0, left, core.ColorBrightWhite)
	dst.DrawTextColored(dst.Width()-len(right), 0, right, core.ColorCyan)
}

// drawBeatBar shows the beat phase as a marker sweeping the bottom row.
func drawBeatBar(dst *core.Screen, s engine.Snapshot) {
	y := dst.Height() - 1
	w := core.Min(dst.Width()-2, 32)
	if w <= 0 {
		return
	}
	x0 := (dst.Width() - w) / 2
	dst.DrawTextColored(x0-1, y, "["+strings.Repeat("·", w)+"]", core.ColorGray)
	dst.SetColored(x0, y, '♪', core.ColorBrightYellow)
	pos := int(s.BeatPhase * float64(w))
	if pos >= w {
		pos = w - 1
	}
	dst.SetColored(x0+pos, y, '●', core.ColorBrightCyan)
}

func drawJudgement(dst *core.Screen, j *beat.Judgement) {
	color := core.ColorGray
	switch j.Grade {
	case beat.GradePerfect:
		color = core.ColorBrightYellow
	case beat.GradeGood:
		color = core.ColorBrightGreen
	}
	if j.Label == beat.LabelOnFire {
		color = core.ColorOrange
	}
	text := j.Label
	if j.Points > 0 {
		text = fmt.Sprintf("%s +%d", j.Label, j.Points)
	}
	dst.DrawTextColored((dst.Width()-len(text))/2, 2, text, color)
}

func brighten(c core.Color) core.Color {
	switch c {
	case core.ColorRed:
		return core.ColorBrightRed
	case core.ColorGreen:
		return core.ColorBrightGreen
	case core.ColorYellow:
		return core.ColorBrightYellow
	case core.ColorBlue:
		return core.ColorBrightBlue
	case core.ColorMagenta:
		return core.ColorBrightMagenta
	case core.ColorCyan:
		return core.ColorBrightCyan
	case core.ColorWhite:
		return core.ColorBrightWhite
	default:
		return c
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(len(title), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	dst.DrawTextColored(boxX+(boxW-len(title))/2, boxY+1, title, core.ColorBrightWhite)
	dst.DrawText(boxX+(boxW-len([]rune(subtitle)))/2, boxY+3, subtitle)
}
