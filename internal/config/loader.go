package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the config file name looked up in every search location.
const ConfigFile = "beatrunner.yaml"

// LoadBeatRunner loads the runner configuration. Files may be partial;
// missing keys keep their default values.
// Search order: customPath -> ~/.beatrunner/configs/beatrunner.yaml -> ./configs/beatrunner.yaml -> embedded default
func LoadBeatRunner(customPath string) (BeatRunnerConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultBeatRunnerConfig(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseBeatRunner(data)
		if err != nil {
			return DefaultBeatRunnerConfig(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(ConfigFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parseBeatRunner(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", ConfigFile)); err == nil {
		if cfg, err := parseBeatRunner(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parseBeatRunner(defaultBeatRunnerYAML)
	if err != nil {
		return DefaultBeatRunnerConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func parseBeatRunner(data []byte) (BeatRunnerConfig, error) {
	cfg := DefaultBeatRunnerConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultBeatRunnerConfig(), err
	}
	return cfg, nil
}

// HomeDir returns ~/.beatrunner, or empty if home is unavailable.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".beatrunner")
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	dir := HomeDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "configs", filename)
}

// ApplyBeatRunnerPreset modifies the config based on a difficulty preset.
func ApplyBeatRunnerPreset(cfg *BeatRunnerConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust timing windows based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Timing.PerfectWindowMs = 130
		cfg.Timing.GoodWindowMs = 250
		cfg.Physics.CoyoteTime = 0.15
	case DifficultyHard:
		cfg.Timing.PerfectWindowMs = 70
		cfg.Timing.GoodWindowMs = 150
		cfg.Physics.CoyoteTime = 0.07
	}
}
