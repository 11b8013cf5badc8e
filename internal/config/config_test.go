package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parseBeatRunner(defaultBeatRunnerYAML)
	if err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultBeatRunnerConfig()) {
		t.Errorf("embedded defaults drifted from DefaultBeatRunnerConfig():\n%+v\n%+v", cfg, DefaultBeatRunnerConfig())
	}
}

func TestLoadBeatRunnerCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	data := []byte("beat:\n  base_bpm: 140\nrhythm_lock:\n  enabled: true\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadBeatRunner(path)
	if err != nil {
		t.Fatalf("LoadBeatRunner() error = %v", err)
	}
	if cfg.Beat.BaseBPM != 140 || !cfg.RhythmLock.Enabled {
		t.Errorf("overrides not applied: bpm=%v lock=%v", cfg.Beat.BaseBPM, cfg.RhythmLock.Enabled)
	}
	if cfg.Physics.Gravity != DefaultBeatRunnerConfig().Physics.Gravity {
		t.Errorf("partial file lost defaults: gravity=%v", cfg.Physics.Gravity)
	}
}

func TestLoadBeatRunnerErrors(t *testing.T) {
	if _, err := LoadBeatRunner(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("beat: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBeatRunner(path); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		in       string
		expected DifficultyPreset
		wantErr  bool
	}{
		{"easy", DifficultyEasy, false},
		{"HARD", DifficultyHard, false},
		{"", DifficultyNormal, false},
		{"fixed", DifficultyFixed, false},
		{"nightmare", "", true},
	}
	for _, tc := range tests {
		got, err := ParsePreset(tc.in)
		if (err != nil) != tc.wantErr || got != tc.expected {
			t.Errorf("ParsePreset(%q) = (%q, %v)", tc.in, got, err)
		}
	}
}

func TestApplyBeatRunnerPreset(t *testing.T) {
	cfg := DefaultBeatRunnerConfig()
	ApplyBeatRunnerPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset left progression enabled")
	}

	cfg = DefaultBeatRunnerConfig()
	ApplyBeatRunnerPreset(&cfg, DifficultyHard)
	if cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("InitialLevel = %v, expected 0.7", cfg.Difficulty.InitialLevel)
	}
	if cfg.Timing.PerfectWindowMs >= DefaultBeatRunnerConfig().Timing.PerfectWindowMs {
		t.Error("hard preset did not tighten the perfect window")
	}
}

func TestDifficultyManager(t *testing.T) {
	cfg := DefaultBeatRunnerConfig().Difficulty
	dm := NewDifficultyManager(cfg)

	if got := dm.Level(0, 0); got != 0 {
		t.Errorf("Level(0, 0) = %v, expected 0", got)
	}
	if got := dm.Level(0, cfg.Progression.MaxAt/2); got != 0.5 {
		t.Errorf("Level at half time = %v, expected 0.5", got)
	}
	if got := dm.Level(0, cfg.Progression.MaxAt*3); got != 1 {
		t.Errorf("Level past max = %v, expected 1", got)
	}
	if got := dm.Speed(1, 0, cfg.Progression.MaxAt); got != 1.5 {
		t.Errorf("Speed at max = %v, expected 1.5", got)
	}

	dm.SetEnabled(false)
	dm.SetInitialLevel(0.4)
	if got := dm.Level(0, cfg.Progression.MaxAt); got != 0.4 {
		t.Errorf("disabled Level = %v, expected initial 0.4", got)
	}
}
