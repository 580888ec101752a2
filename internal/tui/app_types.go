package tui

type view int

const (
	viewLists view = iota
	viewTodos
)

type inputMode int

const (
	modeNormal inputMode = iota
	modeAddList
	modeRenameList
	modeAddTodo
)

type savedMsg struct {
	seq int
	err error
}
