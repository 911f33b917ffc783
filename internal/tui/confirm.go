package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Confirmer запрашивает у пользователя подтверждение действия.
// Если действие подтверждено, возвращаемая команда отдает onConfirm.
// При отказе команда не должна отдавать onConfirm.
type Confirmer interface {
	Confirm(prompt string, onConfirm tea.Msg) tea.Cmd
}

// ConfirmFunc - синхронное подтверждение: функция сразу возвращает ответ.
type ConfirmFunc func(prompt string) bool

// Confirm реализует Confirmer.
func (f ConfirmFunc) Confirm(prompt string, onConfirm tea.Msg) tea.Cmd {
	if !f(prompt) {
		return nil
	}
	return func() tea.Msg { return onConfirm }
}

// confirmRequestMsg открывает модальный диалог подтверждения.
type confirmRequestMsg struct {
	prompt    string
	onConfirm tea.Msg
}

// dialogConfirmer спрашивает подтверждение в модальном окне TUI.
type dialogConfirmer struct{}

func (dialogConfirmer) Confirm(prompt string, onConfirm tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return confirmRequestMsg{prompt: prompt, onConfirm: onConfirm}
	}
}

var confirmBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("204")).
	Padding(0, 1)

// updateConfirmDialog обрабатывает клавиши, пока открыт диалог.
// Все остальные клавиши поглощаются.
func (m *model) updateConfirmDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y", keyEnter:
		onConfirm := m.confirm.onConfirm
		m.confirm = nil
		return m, func() tea.Msg { return onConfirm }
	case "n", keyEsc:
		m.confirm = nil
		return m, nil
	}
	return m, nil
}

// viewConfirmDialog отображает диалог подтверждения.
func (m *model) viewConfirmDialog() string {
	return confirmBoxStyle.Render(m.confirm.prompt + "\n\n[y] Yes   [n] No")
}
