package cli

import (
	"fmt"

	"todolists/internal/docs"
	"todolists/internal/format"

	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show reference pages (routes, sessions, import format, TUI keys)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeData(cmd, app, map[string]any{"topics": docs.Topics()}, "todolists docs web --format markdown")
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run: todolists docs)", topic))
			}

			switch {
			case raw || app.Format == format.Text:
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			case app.Format == format.Markdown:
				return format.WriteMarkdown(cmd.OutOrStdout(), body, app.PrettyJSON)
			default:
				return writeData(cmd, app, map[string]any{"topic": topic, "markdown": body})
			}
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no envelope)")
	return cmd
}
