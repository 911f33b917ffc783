package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// focusable - поле ввода, которое может получать и терять фокус.
// Подходят *textinput.Model и *textarea.Model.
type focusable interface {
	Focus() tea.Cmd
	Blur()
}

// moveFocus циклически сдвигает фокус на delta полей.
func moveFocus(fields []focusable, focused *int, delta int) tea.Cmd {
	n := len(fields)
	if n == 0 {
		return nil
	}
	fields[*focused].Blur()
	*focused = ((*focused+delta)%n + n) % n
	return fields[*focused].Focus()
}

// handleFieldsKeys обрабатывает Tab, Shift+Tab и Enter в группе полей.
// Enter переводит фокус на следующее поле, на последнем поле вызывает onSubmit.
// Возвращает команду и флаг, указывающий, была ли клавиша обработана.
func handleFieldsKeys(
	keyMsg tea.KeyMsg,
	fields []focusable,
	focused *int,
	onSubmit func() tea.Cmd,
) (tea.Cmd, bool) {
	switch keyMsg.String() {
	case keyTab:
		return moveFocus(fields, focused, 1), true
	case keyShiftTab:
		return moveFocus(fields, focused, -1), true
	case keyEnter:
		if *focused < len(fields)-1 {
			return moveFocus(fields, focused, 1), true
		}
		return onSubmit(), true
	default:
		return nil, false
	}
}

// inputFields возвращает указатели на поля ввода формы.
func inputFields(inputs []textinput.Model) []focusable {
	fields := make([]focusable, len(inputs))
	for i := range inputs {
		fields[i] = &inputs[i]
	}
	return fields
}

// handleCredentialsInput обрабатывает ввод на экранах входа и регистрации:
// переключение фокуса, отправку по Enter на последнем поле и возврат по Esc.
func (m *model) handleCredentialsInput(
	msg tea.Msg,
	form *credentialsForm,
	onSubmit func() tea.Cmd,
) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == keyEsc {
			for i := range form.inputs {
				form.inputs[i].Blur()
			}
			return m, m.navigate("/")
		}
		if form.submitting {
			return m, nil
		}
		if cmd, handled := handleFieldsKeys(keyMsg, inputFields(form.inputs), &form.focused, onSubmit); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	form.inputs[form.focused], cmd = form.inputs[form.focused].Update(msg)
	return m, cmd
}
