// Package levels loads Beat Runner level files and generates endless runs.
// This package depends on platform and beat but neither depends on levels.
package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vovakirdan/beat-runner/internal/beat"
	"github.com/vovakirdan/beat-runner/internal/core"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner/levels/formats"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner/platform"
)

//go:embed data
var embedded embed.FS

// Placement is one resolved platform record.
type Placement struct {
	Kind      platform.Kind
	Box       core.AABB
	Motion    platform.Motion
	Direction float64
	TargetX   float64
	TargetY   float64
}

// Level represents a complete level definition.
type Level struct {
	ID         string
	Name       string
	Tempo      float64
	Pattern    beat.Pattern
	SpawnX     float64
	SpawnY     float64
	GoalX      float64
	Placements []Placement
	// Warnings lists recoverable problems such as unknown platform types.
	Warnings []string
	Metadata map[string]string
	FilePath string
}

// Build creates fresh platforms for a run. IDs follow file order.
func (l *Level) Build(tn *platform.Tuning) []*platform.Platform {
	out := make([]*platform.Platform, 0, len(l.Placements))
	for i, pl := range l.Placements {
		p := platform.New(i, pl.Kind, pl.Box, tn)
		p.Motion = pl.Motion
		if pl.Direction != 0 {
			p.Direction = pl.Direction
		}
		p.TargetX, p.TargetY = pl.TargetX, pl.TargetY
		out = append(out, p)
	}
	return out
}

// Loader handles loading levels from a file system.
type Loader struct {
	FS fs.FS
	// Root prefixes FilePath for levels read from disk.
	Root string
	// OnSkip is called for files that fail to load. May be nil.
	OnSkip func(path string, err error)
}

// NewLoader creates a loader over fsys.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{FS: fsys}
}

// NewDirLoader creates a loader for a directory on disk.
func NewDirLoader(root string) *Loader {
	return &Loader{FS: os.DirFS(root), Root: root}
}

// Embedded returns a loader for the built-in levels.
func Embedded() *Loader {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(fmt.Sprintf("levels: embedded data: %v", err))
	}
	return &Loader{FS: sub}
}

// LoadAll recursively scans and loads all level files.
// Invalid files are skipped. Levels are sorted by ID.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level

	err := fs.WalkDir(l.FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !isSupportedExtension(strings.ToLower(path.Ext(p))) {
			return nil
		}

		level, err := l.LoadFile(p)
		if err != nil {
			if l.OnSkip != nil {
				l.OnSkip(p, err)
			}
			return nil
		}
		levels = append(levels, level)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking levels: %w", err)
	}

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})
	return levels, nil
}

// LoadFile loads a single level file, relative to the loader's file system.
func (l *Loader) LoadFile(p string) (Level, error) {
	data, err := fs.ReadFile(l.FS, p)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", p, err)
	}

	parsed, err := parseByExtension(data, strings.ToLower(path.Ext(p)))
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", p, err)
	}

	level, err := resolve(parsed)
	if err != nil {
		return Level{}, fmt.Errorf("resolving file %s: %w", p, err)
	}
	level.FilePath = p
	if l.Root != "" {
		level.FilePath = filepath.Join(l.Root, filepath.FromSlash(p))
	}
	return level, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}
	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("level not found: %s", id)
}

// ListIDs returns all level IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

func resolve(f formats.Level) (Level, error) {
	pattern, err := beat.NewPattern(f.Pattern.Scale, f.Pattern.Pad, f.Pattern.Arp, f.Pattern.Bass)
	if err != nil {
		return Level{}, err
	}

	lvl := Level{
		ID:       f.ID,
		Name:     f.Name,
		Tempo:    f.Tempo,
		Pattern:  pattern,
		SpawnX:   f.Spawn.X,
		SpawnY:   f.Spawn.Y,
		GoalX:    f.GoalX,
		Metadata: f.Metadata,
	}
	if lvl.Name == "" {
		lvl.Name = lvl.ID
	}

	for i, rp := range f.Platforms {
		kind, ok := platform.ParseKind(rp.Type)
		if !ok {
			lvl.Warnings = append(lvl.Warnings, fmt.Sprintf("platform %d: unknown type %q, using solid", i, rp.Type))
		}
		pl := Placement{
			Kind:      kind,
			Box:       core.AABB{X: rp.X, Y: rp.Y, W: rp.W, H: rp.H},
			Direction: rp.Direction,
		}
		if rp.Motion != nil {
			pl.Motion = platform.Motion{
				Pattern:   platform.ParseMotionPattern(rp.Motion.Pattern),
				Amplitude: rp.Motion.Amplitude,
				Speed:     rp.Motion.Speed,
				Phase:     rp.Motion.Phase,
			}
		}
		if rp.Target != nil {
			pl.TargetX, pl.TargetY = rp.Target.X, rp.Target.Y
		} else if kind == platform.KindTeleporter {
			lvl.Warnings = append(lvl.Warnings, fmt.Sprintf("platform %d: teleporter without target", i))
			pl.TargetX, pl.TargetY = rp.X, rp.Y
		}
		lvl.Placements = append(lvl.Placements, pl)
	}
	return lvl, nil
}

func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

func parseByExtension(data []byte, ext string) (formats.Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	case ".toml":
		return formats.ParseTOML(data)
	default:
		return formats.Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
