package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/beat-runner/internal/config"
	"github.com/vovakirdan/beat-runner/internal/core"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner"
	"github.com/vovakirdan/beat-runner/internal/registry"
	"github.com/vovakirdan/beat-runner/internal/storage"
)

// BeatRunnerMode represents the selected game mode.
type BeatRunnerMode int

const (
	BeatRunnerModeCampaign BeatRunnerMode = iota
	BeatRunnerModeEndless
)

// BeatRunnerSelection holds the user's selection from the Beat Runner menu.
type BeatRunnerSelection struct {
	Mode       BeatRunnerMode
	LevelID    string // Empty starts from the first level
	Difficulty string // Empty keeps the config file settings
}

// GameID returns the registry id for the selected mode.
func (s BeatRunnerSelection) GameID() string {
	if s.Mode == BeatRunnerModeEndless {
		return beatrunner.EndlessID
	}
	return beatrunner.CampaignID
}

// selectable is implemented by games that take a per-instance level and preset.
type selectable interface {
	Select(levelID, preset string)
}

// Configure applies the selection to a game created for it.
func (s BeatRunnerSelection) Configure(game registry.Game) {
	if g, ok := game.(selectable); ok {
		g.Select(s.LevelID, s.Difficulty)
	}
}

// levelEntry is one row of the level picker.
type levelEntry struct {
	ID       string
	Name     string
	Tempo    float64
	Unlocked bool
	Grade    string
	Best     int
}

var difficultyChoices = []string{
	"",
	string(config.DifficultyEasy),
	string(config.DifficultyNormal),
	string(config.DifficultyHard),
	string(config.DifficultyFixed),
}

const (
	modeRowCampaign = iota
	modeRowEndless
	modeRowLevels
	modeRowDifficulty
	modeRowCount
)

// BeatRunnerModeModel lets users choose mode, level and difficulty.
type BeatRunnerModeModel struct {
	cursor        int
	levelCursor   int
	difficulty    int
	inLevelSelect bool
	levels        []levelEntry
	width         int
	height        int
	keyMapper     *KeyMapper
	selection     BeatRunnerSelection
	choosing      bool
	quitting      bool
	back          bool
	embedded      bool // Selection and back leave the program running
}

// NewBeatRunnerModeModel creates a new mode selection model. progress may be nil,
// in which case every level is playable.
func NewBeatRunnerModeModel(progress *storage.Progress, width, height int) BeatRunnerModeModel {
	return BeatRunnerModeModel{
		levels:    loadLevelEntries(progress),
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		choosing:  true,
	}
}

func loadLevelEntries(progress *storage.Progress) []levelEntry {
	lvls, err := beatrunner.LevelLoader().LoadAll()
	if err != nil {
		log.Warn("could not load levels", "error", err)
		return nil
	}

	order := make([]string, len(lvls))
	for i, l := range lvls {
		order[i] = l.ID
	}

	entries := make([]levelEntry, len(lvls))
	for i, l := range lvls {
		e := levelEntry{ID: l.ID, Name: l.Name, Tempo: l.Tempo, Unlocked: true}
		if progress != nil {
			e.Unlocked = progress.Unlocked(order, l.ID)
			if lp, err := progress.Level(l.ID); err == nil {
				e.Grade = lp.BestGrade
				e.Best = lp.BestScore
			}
		}
		entries[i] = e
	}
	return entries
}

// Init initializes the model.
func (m BeatRunnerModeModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m BeatRunnerModeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		action := m.keyMapper.MapKeyToMenuAction(msg)
		if m.inLevelSelect {
			return m.handleLevelSelectKey(action)
		}
		return m.handleModeSelectKey(action)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m BeatRunnerModeModel) handleModeSelectKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < modeRowCount-1 {
			m.cursor++
		}
	case MenuActionLeft:
		if m.cursor == modeRowDifficulty {
			m.difficulty = (m.difficulty + len(difficultyChoices) - 1) % len(difficultyChoices)
		}
	case MenuActionRight:
		if m.cursor == modeRowDifficulty {
			m.difficulty = (m.difficulty + 1) % len(difficultyChoices)
		}
	case MenuActionSelect:
		switch m.cursor {
		case modeRowCampaign:
			m.choose(BeatRunnerModeCampaign, "")
			return m, m.done()
		case modeRowEndless:
			m.choose(BeatRunnerModeEndless, "")
			return m, m.done()
		case modeRowLevels:
			if len(m.levels) > 0 {
				m.inLevelSelect = true
				m.levelCursor = 0
			}
		case modeRowDifficulty:
			m.difficulty = (m.difficulty + 1) % len(difficultyChoices)
		}
	case MenuActionBack:
		m.back = true
		return m, m.done()
	}
	return m, nil
}

func (m BeatRunnerModeModel) handleLevelSelectKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.levelCursor > 0 {
			m.levelCursor--
		}
	case MenuActionDown:
		if m.levelCursor < len(m.levels)-1 {
			m.levelCursor++
		}
	case MenuActionSelect:
		if e := m.levels[m.levelCursor]; e.Unlocked {
			m.choose(BeatRunnerModeCampaign, e.ID)
			return m, m.done()
		}
	case MenuActionBack:
		m.inLevelSelect = false
	}
	return m, nil
}

// done ends a standalone program once the menu has an answer.
func (m BeatRunnerModeModel) done() tea.Cmd {
	if m.embedded {
		return nil
	}
	return tea.Quit
}

func (m *BeatRunnerModeModel) choose(mode BeatRunnerMode, levelID string) {
	m.choosing = false
	m.selection = BeatRunnerSelection{
		Mode:       mode,
		LevelID:    levelID,
		Difficulty: difficultyChoices[m.difficulty],
	}
}

// View renders the mode/level selection.
func (m BeatRunnerModeModel) View() string {
	if m.quitting {
		return ""
	}
	if m.inLevelSelect {
		return m.viewLevelSelect()
	}
	return m.viewModeSelect()
}

func difficultyLabel(d string) string {
	if d == "" {
		return "config"
	}
	return d
}

func (m BeatRunnerModeModel) viewModeSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("B E A T   R U N N E R", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select game mode:", m.width))
	b.WriteString("\n\n")

	rows := []string{
		fmt.Sprintf("Campaign (%d levels)", len(m.levels)),
		"Endless Mode",
		"Select Level...",
		fmt.Sprintf("Difficulty: < %s >", difficultyLabel(difficultyChoices[m.difficulty])),
	}
	for i, row := range rows {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+row, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Left/Right: Difficulty  |  Esc: Back  |  Q: Quit", m.width))
	return b.String()
}

func (m BeatRunnerModeModel) viewLevelSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("SELECT LEVEL", m.width))
	b.WriteString("\n\n")

	for i, e := range m.levels {
		cursor := "  "
		if i == m.levelCursor {
			cursor = "> "
		}
		status := "[locked]"
		if e.Unlocked {
			grade := e.Grade
			if grade == "" {
				grade = "-"
			}
			status = fmt.Sprintf("%3.0f BPM  best %d  grade %s", e.Tempo, e.Best, grade)
		}
		line := fmt.Sprintf("%s%2d. %-18s %s", cursor, i+1, e.Name, status)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))
	return b.String()
}

// Selected returns the selection, or nil if still choosing.
func (m BeatRunnerModeModel) Selected() *BeatRunnerSelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsChoosing returns true if still in selection mode.
func (m BeatRunnerModeModel) IsChoosing() bool {
	return m.choosing
}

// IsQuitting returns true if user wants to quit.
func (m BeatRunnerModeModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m BeatRunnerModeModel) WantsBack() bool {
	return m.back
}

// RunBeatRunnerModeSelector runs the mode selection and returns the selection.
func RunBeatRunnerModeSelector(progress *storage.Progress, cfg core.RuntimeConfig) (*BeatRunnerSelection, error) {
	model := NewBeatRunnerModeModel(progress, cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(BeatRunnerModeModel)
	if !ok || m.IsQuitting() || m.WantsBack() {
		return nil, nil
	}
	return m.Selected(), nil
}
