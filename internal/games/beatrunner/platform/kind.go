// Package platform implements the per-type platform state machines and the
// summaries the resolver and renderer read from them.
package platform

import "strings"

// Kind is the closed set of platform types.
type Kind int

const (
	KindSolid Kind = iota
	KindBounce
	KindCrumble
	KindIce
	KindLava
	KindPhase
	KindConveyor
	KindGravityWell
	KindSticky
	KindGlass
	KindWind
	KindLightning
	KindCloud
	KindTeleporter
	KindSpeedBoost
	KindWall
	KindSecret
	KindGlitch
	KindSpike
	kindCount
)

var kindNames = [kindCount]string{
	"solid", "bounce", "crumble", "ice", "lava", "phase", "conveyor",
	"gravity-well", "sticky", "glass", "wind", "lightning", "cloud",
	"teleporter", "speed-boost", "wall", "secret", "glitch", "spike",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return kindNames[KindSolid]
	}
	return kindNames[k]
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// ParseKind maps a level-file type name to a Kind. Unknown names fall back
// to KindSolid and report false.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", "-")
	switch s {
	case "gravitywell", "gravity":
		return KindGravityWell, true
	case "speedboost", "boost":
		return KindSpeedBoost, true
	}
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return KindSolid, false
}

// Deadly reports kinds that kill on any contact, always.
func (k Kind) Deadly() bool {
	return k == KindLava || k == KindSpike
}
