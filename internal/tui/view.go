package tui

import (
	"fmt"
	"strings"

	"todolists/internal/model"
	"todolists/internal/statusutil"

	xansi "github.com/charmbracelet/x/ansi"
)

const defaultWidth = 80

func (m appModel) View() string {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}

	var b strings.Builder
	switch m.view {
	case viewTodos:
		m.viewTodos(&b, w)
	default:
		m.viewLists(&b, w)
	}

	b.WriteString("\n")
	if m.mode != modeNormal {
		b.WriteString(m.input.View() + "\n")
	}
	b.WriteString(m.statusLine(w) + "\n")
	b.WriteString(styleMuted.Render(m.helpLine()))
	return b.String()
}

func (m appModel) viewLists(b *strings.Builder, w int) {
	b.WriteString(styleTitle.Render("Todo lists") + "\n\n")
	order := m.listOrder()
	if len(order) == 0 {
		b.WriteString(styleMuted.Render("You don't have any lists yet. Press a to create one.") + "\n")
		return
	}
	for pos, it := range order {
		l := it.Value
		count := fmt.Sprintf(" %d/%d", statusutil.IncompleteCount(l), len(l.Todos))
		name := xansi.Truncate(l.Name, w-xansi.StringWidth(count)-4, "…")
		if statusutil.IsListComplete(l) {
			name = styleDone.Render(name)
		}
		b.WriteString(m.row(pos == m.listCursor, name+styleMuted.Render(count)) + "\n")
	}
}

func (m appModel) viewTodos(b *strings.Builder, w int) {
	l := m.currentList()
	if l == nil {
		b.WriteString(styleMuted.Render("This list no longer exists.") + "\n")
		return
	}
	header := xansi.Truncate(l.Name, w-20, "…")
	b.WriteString(styleTitle.Render(header) + styleMuted.Render(fmt.Sprintf("  %d of %d left", statusutil.IncompleteCount(*l), len(l.Todos))) + "\n\n")

	order := statusutil.TodoDisplayOrder(l.Todos)
	if len(order) == 0 {
		b.WriteString(styleMuted.Render("No todos yet. Press a to add one.") + "\n")
		return
	}
	for pos, it := range order {
		box := "[ ] "
		name := xansi.Truncate(it.Value.Name, w-8, "…")
		if it.Value.Completed {
			box = "[x] "
			name = styleDone.Render(name)
		}
		b.WriteString(m.row(pos == m.todoCursor, box+name) + "\n")
	}
}

func (m appModel) row(selected bool, s string) string {
	if selected {
		return styleSelected.Render("> " + s)
	}
	return "  " + s
}

func (m appModel) statusLine(w int) string {
	if m.flash == nil {
		if m.saving {
			return styleMuted.Render("saving…")
		}
		return ""
	}
	msg := xansi.Truncate(m.flash.Message, w, "…")
	if m.flash.Kind == model.FlashError {
		return styleError.Render(msg)
	}
	return styleSuccess.Render(msg)
}

func (m appModel) helpLine() string {
	switch {
	case m.mode != modeNormal:
		return "enter save • esc cancel"
	case m.view == viewTodos:
		return "↑/↓ move • space toggle • a add • d delete • c complete all • e rename list • esc back • q quit"
	default:
		return "↑/↓ move • enter open • a add • r rename • d delete • q quit"
	}
}
