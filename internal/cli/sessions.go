package cli

import (
	"errors"
	"os"
	"strings"
	"time"

	"todolists/internal/publish"
	"todolists/internal/store"

	"github.com/spf13/cobra"
)

func newSessionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session"},
		Short:   "Inspect and manage stored session documents",
	}
	cmd.AddCommand(newSessionsListCmd(app))
	cmd.AddCommand(newSessionsShowCmd(app))
	cmd.AddCommand(newSessionsImportCmd(app))
	cmd.AddCommand(newSessionsDeleteCmd(app))
	cmd.AddCommand(newSessionsPruneCmd(app))
	cmd.AddCommand(newSessionsExportCmd(app))
	return cmd
}

func newSessionsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			infos, err := st.List(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			var hints []string
			if len(infos) > 0 {
				hints = append(hints, "todolists sessions show "+infos[0].ID)
			}
			return writeData(cmd, app, infos, hints...)
		},
	}
}

func newSessionsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print one session's lists and todos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			doc, err := st.Get(cmd.Context(), id)
			if errors.Is(err, store.ErrSessionNotFound) {
				return writeErr(cmd, errNotFound("session", id))
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeData(cmd, app, doc, "todolists tui --session "+id)
		},
	}
}

func newSessionsImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <session-id> <file.json>",
		Short: "Replace a session's document with a validated JSON file",
		Long: strings.TrimSpace(`
Replace a session's document with the contents of a JSON file.

The file must match the document schema (lists of {name, todos}) and every
list and todo name must pass the same length and uniqueness rules as the web
UI. Nothing is written when validation fails.
`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if id == "" {
				return writeErr(cmd, errors.New("sessions import: empty session id"))
			}
			b, err := os.ReadFile(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			doc, err := store.ParseDocument(b)
			if err != nil {
				return writeErr(cmd, err)
			}

			st, err := app.openStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			if err := st.Put(cmd.Context(), id, doc); err != nil {
				return writeErr(cmd, err)
			}
			app.logger.Info("imported session", "session", id, "lists", len(doc.Lists))
			return writeData(cmd, app, map[string]any{"id": id, "lists": len(doc.Lists)})
		},
	}
}

func newSessionsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			err = st.Delete(cmd.Context(), id)
			if errors.Is(err, store.ErrSessionNotFound) {
				return writeErr(cmd, errNotFound("session", id))
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeData(cmd, app, map[string]any{"id": id, "deleted": true})
		},
	}
}

func newSessionsPruneCmd(app *App) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete sessions not updated within --older-than",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return writeErr(cmd, errors.New("sessions prune: --older-than must be positive"))
			}
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			cutoff := time.Now().Add(-olderThan)
			n, err := st.Prune(cmd.Context(), cutoff)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.logger.Info("pruned sessions", "removed", n, "cutoff", cutoff.UTC().Format(time.RFC3339))
			return writeData(cmd, app, map[string]any{"removed": n, "cutoff": cutoff.UTC().Format(time.RFC3339)})
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 720*time.Hour, "Remove sessions idle for longer than this")
	return cmd
}

func newSessionsExportCmd(app *App) *cobra.Command {
	var to string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Write a session's lists as markdown files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			doc, err := st.Get(cmd.Context(), id)
			if errors.Is(err, store.ErrSessionNotFound) {
				return writeErr(cmd, errNotFound("session", id))
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := publish.WriteSession(id, doc, to, publish.WriteOptions{Overwrite: overwrite})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeData(cmd, app, res)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Output directory (required)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
