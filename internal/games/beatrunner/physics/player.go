package physics

import "github.com/vovakirdan/beat-runner/internal/core"

// Player is the runner's body and its transient modifiers.
type Player struct {
	X, Y   float64
	VX, VY float64
	Width  float64
	Height float64

	Grounded   bool
	Coyote     float64
	JumpBuffer float64
	// Jumping lasts from a jump until release, apex or the next landing.
	Jumping bool
	// Facing is -1 or 1.
	Facing int

	OnIce           bool
	LowGravityTimer float64
	BoostTimer      float64
	DoubleJumps     int
	DoubleJumpTimer float64

	Dead       bool
	DeathCause string
}

// Bounds returns the player's box.
func (p *Player) Bounds() core.AABB {
	return core.AABB{X: p.X, Y: p.Y, W: p.Width, H: p.Height}
}

// Side is the face of a platform the player collided with.
type Side int

const (
	SideNone Side = iota
	SideTop
	SideBottom
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "none"
	}
}

// penetrationSide picks the platform face with the smallest overlap.
// Ties go to the vertical faces.
func penetrationSide(player, plat core.AABB) Side {
	side := SideTop
	best := player.Bottom() - plat.Y
	for _, c := range []struct {
		side    Side
		overlap float64
	}{
		{SideBottom, plat.Bottom() - player.Y},
		{SideLeft, player.Right() - plat.X},
		{SideRight, plat.Right() - player.X},
	} {
		if c.overlap < best {
			side, best = c.side, c.overlap
		}
	}
	return side
}
