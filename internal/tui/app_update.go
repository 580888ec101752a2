package tui

import (
	"fmt"

	"todolists/internal/model"
	"todolists/internal/mutate"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case savedMsg:
		if msg.seq == m.saveSeq {
			m.saving = false
		}
		if msg.err != nil {
			m.saveErr = msg.err
			m.flash = nil
			m.fail(fmt.Errorf("save failed: %w", msg.err))
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode != modeNormal {
			return m.updateInput(msg)
		}
		m.flash = nil
		switch m.view {
		case viewTodos:
			return m.updateTodos(msg)
		default:
			return m.updateLists(msg)
		}
	}
	return m, nil
}

func (m appModel) updateLists(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		m.listCursor = clamp(m.listCursor-1, len(m.doc.Lists))
	case "down", "j":
		m.listCursor = clamp(m.listCursor+1, len(m.doc.Lists))
	case "enter", "right", "l":
		if idx := m.selectedList(); idx >= 0 {
			m.view = viewTodos
			m.listIdx = idx
			m.todoCursor = 0
		}
	case "a":
		return m.startInput(modeAddList, "", mutate.MaxListNameLen)
	case "r":
		if l := m.selectedListValue(); l != nil {
			return m.startInput(modeRenameList, l.Name, mutate.MaxListNameLen)
		}
	case "d":
		idx := m.selectedList()
		if idx < 0 {
			return m, nil
		}
		removed, err := mutate.DeleteList(m.doc, idx)
		if err != nil {
			m.fail(err)
			return m, nil
		}
		m.clampCursors()
		m.success(fmt.Sprintf("The list %s has been deleted", removed.Name))
		cmd := m.save()
		return m, cmd
	}
	return m, nil
}

func (m appModel) selectedListValue() *model.List {
	idx := m.selectedList()
	if idx < 0 {
		return nil
	}
	return &m.doc.Lists[idx]
}

func (m appModel) updateTodos(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := m.currentList()
	if l == nil {
		m.view = viewLists
		m.clampCursors()
		return m, nil
	}
	n := len(l.Todos)

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "backspace", "left", "h":
		m.view = viewLists
		m.followList(m.listIdx)
	case "up", "k":
		m.todoCursor = clamp(m.todoCursor-1, n)
	case "down", "j":
		m.todoCursor = clamp(m.todoCursor+1, n)
	case " ", "x":
		idx := m.selectedTodo()
		if idx < 0 {
			return m, nil
		}
		if err := mutate.SetTodoCompleted(l, idx, !l.Todos[idx].Completed); err != nil {
			m.fail(err)
			return m, nil
		}
		m.followTodo(idx)
		m.success("The todo has been updated")
		cmd := m.save()
		return m, cmd
	case "d":
		idx := m.selectedTodo()
		if idx < 0 {
			return m, nil
		}
		if err := mutate.DeleteTodo(l, idx); err != nil {
			m.fail(err)
			return m, nil
		}
		m.clampCursors()
		m.success("The todo has been deleted")
		cmd := m.save()
		return m, cmd
	case "c":
		mutate.CompleteAll(l)
		m.success("All todos have been completed")
		cmd := m.save()
		return m, cmd
	case "a":
		return m.startInput(modeAddTodo, "", mutate.MaxTodoNameLen)
	case "e", "r":
		return m.startInput(modeRenameList, l.Name, mutate.MaxListNameLen)
	}
	return m, nil
}

func (m appModel) startInput(mode inputMode, value string, limit int) (tea.Model, tea.Cmd) {
	m.mode = mode
	// One past the limit so an over-long name reaches validation and its message.
	m.input.CharLimit = limit + 1
	m.input.SetValue(value)
	m.input.CursorEnd()
	switch mode {
	case modeAddTodo:
		m.input.Placeholder = "Something to do"
	default:
		m.input.Placeholder = "List name"
	}
	cmd := m.input.Focus()
	return m, cmd
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		return m.submitInput()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitInput applies the pending edit. On a validation error the input stays
// open with the error on the status line.
func (m appModel) submitInput() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	var err error

	switch m.mode {
	case modeAddList:
		if _, err = mutate.CreateList(m.doc, value); err == nil {
			m.followList(len(m.doc.Lists) - 1)
			m.success("A new list has been added")
		}
	case modeRenameList:
		idx := m.listIdx
		if m.view == viewLists {
			idx = m.selectedList()
		}
		err = mutate.RenameList(m.doc, idx, value)
		if err == nil {
			m.followList(idx)
			m.success("The list name has been changed")
		}
	case modeAddTodo:
		l := m.currentList()
		if l == nil {
			err = fmt.Errorf("list %d no longer exists", m.listIdx)
			break
		}
		if _, err = mutate.AddTodo(l, value); err == nil {
			m.followTodo(len(l.Todos) - 1)
			m.success("You have successfully added a todo to " + l.Name)
		}
	}

	if err != nil {
		m.fail(err)
		return m, nil
	}
	m.mode = modeNormal
	m.input.Blur()
	m.input.SetValue("")
	cmd := m.save()
	return m, cmd
}
