package cli

import (
	"strings"

	"todolists/internal/store"
	"todolists/internal/tui"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Edit one session's lists in an interactive terminal UI",
		Long: strings.TrimSpace(`
Edit one session's lists and todos in an interactive terminal UI.

Every change is saved back to the session store immediately, so a browser
holding the same session sees it on its next request. Without --session a
new session id is generated and printed.
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(sessionID)
			if id == "" {
				id = uuid.NewString()
				app.logger.Info("starting new session", "session", id)
			}

			st, err := app.openStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			if strings.EqualFold(app.cfg.Store, store.BackendMemory) {
				app.logger.Warn("memory store: changes are lost when the TUI exits (use --store sqlite)")
			}
			if err := tui.Run(cmd.Context(), st, id); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "Session id to edit (see: todolists sessions list)")
	return cmd
}
