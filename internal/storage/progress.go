package storage

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// AppName is the gdata application directory for progress data.
const AppName = "beatrunner"

const progressObject = "progress"

// PropStore is the object/property subset of *gdata.Manager used here.
type PropStore interface {
	ObjectPropExists(objectKey, propKey string) bool
	LoadObjectProp(objectKey, propKey string) ([]byte, error)
	SaveObjectProp(objectKey, propKey string, data []byte) error
}

// LevelProgress is what the player achieved on one campaign level.
type LevelProgress struct {
	LevelID   string `yaml:"level_id"`
	Unlocked  bool   `yaml:"unlocked"`
	Completed bool   `yaml:"completed"`
	BestScore int    `yaml:"best_score"`
	BestGrade string `yaml:"best_grade,omitempty"`
	Plays     int    `yaml:"plays"`
}

// Progress tracks unlocked levels and per-level mastery.
type Progress struct {
	props PropStore
}

// OpenProgress opens the per-user progress store for appName.
func OpenProgress(appName string) (*Progress, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open progress store: %w", err)
	}
	return NewProgress(m), nil
}

// NewProgress wraps an existing property store.
func NewProgress(props PropStore) *Progress {
	return &Progress{props: props}
}

func levelProp(levelID string) string {
	return "level_" + levelID
}

// Level returns the stored progress for a level. Unknown levels are zero.
func (p *Progress) Level(levelID string) (LevelProgress, error) {
	lp := LevelProgress{LevelID: levelID}
	if !p.props.ObjectPropExists(progressObject, levelProp(levelID)) {
		return lp, nil
	}
	data, err := p.props.LoadObjectProp(progressObject, levelProp(levelID))
	if err != nil {
		return lp, fmt.Errorf("storage: cannot load progress for %s: %w", levelID, err)
	}
	if err := yaml.Unmarshal(data, &lp); err != nil {
		return LevelProgress{LevelID: levelID}, fmt.Errorf("storage: corrupt progress for %s: %w", levelID, err)
	}
	lp.LevelID = levelID
	return lp, nil
}

func (p *Progress) save(lp LevelProgress) error {
	data, err := yaml.Marshal(lp)
	if err != nil {
		return fmt.Errorf("storage: cannot encode progress: %w", err)
	}
	if err := p.props.SaveObjectProp(progressObject, levelProp(lp.LevelID), data); err != nil {
		return fmt.Errorf("storage: cannot save progress for %s: %w", lp.LevelID, err)
	}
	return nil
}

// Unlocked reports whether levelID can be played. The first level of
// order is always unlocked.
func (p *Progress) Unlocked(order []string, levelID string) bool {
	if len(order) > 0 && order[0] == levelID {
		return true
	}
	lp, err := p.Level(levelID)
	return err == nil && lp.Unlocked
}

// Unlock marks a level playable.
func (p *Progress) Unlock(levelID string) error {
	lp, err := p.Level(levelID)
	if err != nil {
		return err
	}
	if lp.Unlocked {
		return nil
	}
	lp.Unlocked = true
	return p.save(lp)
}

// RecordRun updates best score and grade for a finished run. A won run
// completes the level and unlocks next when next is not empty.
func (p *Progress) RecordRun(levelID string, score int, grade string, won bool, next string) error {
	lp, err := p.Level(levelID)
	if err != nil {
		return err
	}
	lp.Unlocked = true
	lp.Plays++
	if score > lp.BestScore {
		lp.BestScore = score
	}
	if won {
		lp.Completed = true
		if GradeRank(grade) > GradeRank(lp.BestGrade) {
			lp.BestGrade = grade
		}
	}
	if err := p.save(lp); err != nil {
		return err
	}
	if won && next != "" {
		return p.Unlock(next)
	}
	return nil
}

// GradeRank orders mastery grades. Unknown grades rank 0.
func GradeRank(grade string) int {
	switch grade {
	case "S":
		return 5
	case "A":
		return 4
	case "B":
		return 3
	case "C":
		return 2
	case "D":
		return 1
	default:
		return 0
	}
}
