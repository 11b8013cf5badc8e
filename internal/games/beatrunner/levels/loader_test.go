package levels

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/vovakirdan/beat-runner/internal/config"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner/platform"
)

func TestEmbeddedLevels(t *testing.T) {
	loader := Embedded()
	var skipped []string
	loader.OnSkip = func(path string, err error) {
		skipped = append(skipped, path+": "+err.Error())
	}

	levels, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(skipped) > 0 {
		t.Fatalf("embedded files skipped: %v", skipped)
	}
	if len(levels) < 3 {
		t.Fatalf("expected at least 3 embedded levels, got %d", len(levels))
	}
	for i := 1; i < len(levels); i++ {
		if levels[i-1].ID >= levels[i].ID {
			t.Errorf("levels not sorted: %s before %s", levels[i-1].ID, levels[i].ID)
		}
	}

	seen := map[platform.Kind]bool{}
	for _, lvl := range levels {
		if len(lvl.Warnings) > 0 {
			t.Errorf("level %s has warnings: %v", lvl.ID, lvl.Warnings)
		}
		for _, pl := range lvl.Placements {
			seen[pl.Kind] = true
		}
	}
	for _, k := range platform.Kinds() {
		if !seen[k] {
			t.Errorf("no embedded level uses %s", k)
		}
	}
}

func TestLoadByIDAndListIDs(t *testing.T) {
	loader := Embedded()

	ids, err := loader.ListIDs()
	if err != nil {
		t.Fatalf("ListIDs() error = %v", err)
	}
	if len(ids) == 0 || ids[0] != "01-first-steps" {
		t.Errorf("ListIDs() = %v", ids)
	}

	lvl, err := loader.LoadByID("03-sky")
	if err != nil {
		t.Fatalf("LoadByID() error = %v", err)
	}
	if lvl.Tempo != 100 {
		t.Errorf("Tempo = %v, expected 100", lvl.Tempo)
	}
	if lvl.Pattern.Scale[1] != 2 {
		t.Errorf("pattern scale not loaded: %v", lvl.Pattern.Scale)
	}

	if _, err := loader.LoadByID("missing"); err == nil {
		t.Error("expected error for missing level")
	}
}

func TestUnknownTypeFallsBackToSolid(t *testing.T) {
	fsys := fstest.MapFS{
		"odd.yaml": {Data: []byte(`
id: odd
goal_x: 500
platforms:
  - {type: trampoline, x: 0, y: 300, w: 100, h: 16}
  - {type: teleporter, x: 200, y: 300, w: 60, h: 16}
`)},
		"broken.yaml": {Data: []byte("id: [")},
		"notes.txt":   {Data: []byte("ignored")},
	}
	loader := NewLoader(fsys)
	var skipped []string
	loader.OnSkip = func(path string, err error) { skipped = append(skipped, path) }

	levels, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(levels) != 1 {
		t.Fatalf("expected 1 level, got %d", len(levels))
	}
	if len(skipped) != 1 || skipped[0] != "broken.yaml" {
		t.Errorf("skipped = %v, expected [broken.yaml]", skipped)
	}

	lvl := levels[0]
	if lvl.Placements[0].Kind != platform.KindSolid {
		t.Errorf("unknown type resolved to %s, expected solid", lvl.Placements[0].Kind)
	}
	if len(lvl.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", lvl.Warnings)
	}
	if lvl.Name != "odd" {
		t.Errorf("Name = %q, expected id fallback", lvl.Name)
	}
}

func TestBadPatternIsRejected(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.yaml": {Data: []byte(`
id: bad
goal_x: 500
pattern: {pad: [1, 2, 3]}
platforms:
  - {type: solid, x: 0, y: 300, w: 100, h: 16}
`)},
	}
	if _, err := NewLoader(fsys).LoadFile("bad.yaml"); err == nil {
		t.Error("expected error for short pad pattern")
	}
}

func TestDirLoaderFilePath(t *testing.T) {
	dir := t.TempDir()
	data := []byte("id: disk\ngoal_x: 300\nplatforms: [{type: ice, x: 0, y: 300, w: 100, h: 16}]\n")
	if err := os.MkdirAll(filepath.Join(dir, "pack"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pack", "disk.yml"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	lvl, err := NewDirLoader(dir).LoadByID("disk")
	if err != nil {
		t.Fatalf("LoadByID() error = %v", err)
	}
	if want := filepath.Join(dir, "pack", "disk.yml"); lvl.FilePath != want {
		t.Errorf("FilePath = %q, expected %q", lvl.FilePath, want)
	}
}

func TestBuild(t *testing.T) {
	lvl, err := Embedded().LoadByID("02-hazards")
	if err != nil {
		t.Fatalf("LoadByID() error = %v", err)
	}
	tn := platform.DefaultTuning()

	plats := lvl.Build(&tn)
	if len(plats) != len(lvl.Placements) {
		t.Fatalf("Build() returned %d platforms, expected %d", len(plats), len(lvl.Placements))
	}
	for i, p := range plats {
		if p.ID != i {
			t.Errorf("platform %d has ID %d", i, p.ID)
		}
		if p.Bounds() != lvl.Placements[i].Box {
			t.Errorf("platform %d bounds = %+v", i, p.Bounds())
		}
	}

	again := lvl.Build(&tn)
	if again[0] == plats[0] {
		t.Error("Build() must create fresh platforms")
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	cfg := config.DefaultBeatRunnerConfig().Endless
	tn := platform.DefaultTuning()

	run := func() []*platform.Platform {
		g := NewGenerator(42, cfg, &tn, 0, 300)
		g.Level(40)
		out := g.Extend(3000, 0.2)
		return append(out, g.Extend(6000, 0.9)...)
	}
	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("runs differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Bounds() != b[i].Bounds() {
			t.Fatalf("platform %d differs: %+v vs %+v", i, a[i].Bounds(), b[i].Bounds())
		}
	}
}

func TestGeneratorBounds(t *testing.T) {
	cfg := config.DefaultBeatRunnerConfig().Endless
	tn := platform.DefaultTuning()
	g := NewGenerator(7, cfg, &tn, 0, 300)
	lvl := g.Level(40)
	if len(lvl.Placements) != 1 || lvl.Placements[0].Kind != platform.KindSolid {
		t.Fatalf("opening runway = %+v", lvl.Placements)
	}

	prevRight := lvl.Placements[0].Box.Right()
	prevY := lvl.Placements[0].Box.Y
	for _, p := range g.Extend(20000, 1) {
		b := p.Bounds()
		if p.Kind == platform.KindSpike {
			continue
		}
		gap := b.X - prevRight
		if gap < cfg.MinGap || gap > cfg.MaxGap {
			t.Errorf("gap %.1f outside [%v, %v]", gap, cfg.MinGap, cfg.MaxGap)
		}
		if b.W < cfg.MinWidth || b.W > cfg.MaxWidth {
			t.Errorf("width %.1f outside [%v, %v]", b.W, cfg.MinWidth, cfg.MaxWidth)
		}
		if b.Y < cfg.MinY || b.Y > cfg.MaxY {
			t.Errorf("y %.1f outside [%v, %v]", b.Y, cfg.MinY, cfg.MaxY)
		}
		if prevY-b.Y > cfg.MaxRise+1e-9 {
			t.Errorf("rise %.1f exceeds %v", prevY-b.Y, cfg.MaxRise)
		}
		if p.Kind == platform.KindTeleporter || p.Kind == platform.KindSecret || p.Kind == platform.KindLava {
			t.Errorf("generated %s", p.Kind)
		}
		prevRight = b.Right()
		prevY = b.Y
	}
	if g.Frontier() < 20000 {
		t.Errorf("Frontier() = %v, expected >= 20000", g.Frontier())
	}
}

func TestGeneratorEasyUsesEarlyKinds(t *testing.T) {
	cfg := config.DefaultBeatRunnerConfig().Endless
	tn := platform.DefaultTuning()
	g := NewGenerator(1, cfg, &tn, 0, 300)
	for _, p := range g.Extend(30000, 0) {
		switch p.Kind {
		case platform.KindSolid, platform.KindBounce, platform.KindCrumble:
		default:
			t.Fatalf("difficulty 0 generated %s", p.Kind)
		}
	}
}
