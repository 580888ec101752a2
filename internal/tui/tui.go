package tui

import (
	"context"
	"errors"

	"todolists/internal/model"
	"todolists/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Run opens an interactive editor for one session document. An unknown
// session id starts an empty document, saved on the first change.
func Run(ctx context.Context, st store.SessionStore, sessionID string) error {
	doc, err := st.Get(ctx, sessionID)
	if errors.Is(err, store.ErrSessionNotFound) {
		doc = model.NewDocument()
	} else if err != nil {
		return err
	}

	applyColorProfilePreference()

	m := newAppModel(ctx, st, sessionID, doc)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(appModel); ok && fm.saveErr != nil {
		return fm.saveErr
	}
	return nil
}
