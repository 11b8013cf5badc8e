// Package tui provides the Bubble Tea integration for Beat Runner.
// It handles the terminal UI loop, input mapping, and game orchestration.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// ScheduleTickMsg triggers one audio scheduler tick for a loop generation.
type ScheduleTickMsg struct {
	Gen uint64
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// scheduleCmd returns a command that sends a ScheduleTickMsg for gen after interval.
func scheduleCmd(gen uint64, interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = 25 * time.Millisecond
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return ScheduleTickMsg{Gen: gen}
	})
}
