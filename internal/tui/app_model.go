package tui

import (
	"context"

	"todolists/internal/model"
	"todolists/internal/mutate"
	"todolists/internal/statusutil"
	"todolists/internal/store"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type appModel struct {
	ctx       context.Context
	st        store.SessionStore
	sessionID string
	doc       *model.Document

	view view
	// listIdx is the stored index of the list open in viewTodos.
	listIdx int
	// Cursors are positions in display order, not stored indexes.
	listCursor int
	todoCursor int

	mode  inputMode
	input textinput.Model

	// flash is shown on the status line until the next key press.
	flash *model.Flash

	saveSeq int
	saving  bool
	saveErr error

	width  int
	height int
}

func newAppModel(ctx context.Context, st store.SessionStore, sessionID string, doc *model.Document) appModel {
	if doc == nil {
		doc = model.NewDocument()
	}
	m := appModel{
		ctx:       ctx,
		st:        st,
		sessionID: sessionID,
		doc:       doc,
	}
	m.input = textinput.New()
	m.input.CharLimit = mutate.MaxListNameLen
	m.input.Width = 40
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) listOrder() []statusutil.Indexed[model.List] {
	return statusutil.ListDisplayOrder(m.doc.Lists)
}

func (m appModel) currentList() *model.List {
	l, err := mutate.FindList(m.doc, m.listIdx)
	if err != nil {
		return nil
	}
	return l
}

func (m appModel) todoOrder() []statusutil.Indexed[model.Todo] {
	l := m.currentList()
	if l == nil {
		return nil
	}
	return statusutil.TodoDisplayOrder(l.Todos)
}

// selectedList returns the stored index under the cursor, or -1.
func (m appModel) selectedList() int {
	order := m.listOrder()
	if m.listCursor < 0 || m.listCursor >= len(order) {
		return -1
	}
	return order[m.listCursor].Index
}

func (m appModel) selectedTodo() int {
	order := m.todoOrder()
	if m.todoCursor < 0 || m.todoCursor >= len(order) {
		return -1
	}
	return order[m.todoCursor].Index
}

// followList moves the cursor to wherever stored index idx now displays.
func (m *appModel) followList(idx int) {
	for pos, it := range m.listOrder() {
		if it.Index == idx {
			m.listCursor = pos
			return
		}
	}
	m.clampCursors()
}

func (m *appModel) followTodo(idx int) {
	for pos, it := range m.todoOrder() {
		if it.Index == idx {
			m.todoCursor = pos
			return
		}
	}
	m.clampCursors()
}

func (m *appModel) clampCursors() {
	m.listCursor = clamp(m.listCursor, len(m.doc.Lists))
	m.todoCursor = clamp(m.todoCursor, len(m.todoOrder()))
}

func clamp(cur, n int) int {
	if cur >= n {
		cur = n - 1
	}
	if cur < 0 {
		cur = 0
	}
	return cur
}

func (m *appModel) success(msg string) {
	m.flash = &model.Flash{Kind: model.FlashSuccess, Message: msg}
}

func (m *appModel) fail(err error) {
	m.flash = &model.Flash{Kind: model.FlashError, Message: mutate.Message(err)}
}

// save persists a snapshot of the document; the result arrives as savedMsg.
// Notices live in m.flash here, so a flash loaded from the store is not
// written back for the web UI to show again.
func (m *appModel) save() tea.Cmd {
	m.saveSeq++
	m.saving = true
	seq := m.saveSeq
	ctx, st, id, snapshot := m.ctx, m.st, m.sessionID, m.doc.Clone()
	snapshot.Flash = nil
	return func() tea.Msg {
		return savedMsg{seq: seq, err: st.Put(ctx, id, snapshot)}
	}
}
