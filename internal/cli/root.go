package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"todolists/internal/config"
	"todolists/internal/format"
	"todolists/internal/logging"
	"todolists/internal/store"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type App struct {
	ConfigPath string
	Store      string
	DataDir    string
	LogLevel   string
	PrettyJSON bool
	Format     string

	cfg    config.Config
	logger *log.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "todolists",
		Short:        "Session-backed todo lists: web server, TUI and session admin",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Serve the web UI, keeping sessions in SQLite
  todolists --store sqlite --data-dir ./data web

  # Inspect stored sessions
  todolists --store sqlite --data-dir ./data sessions list --format text

  # Edit one session's lists in the terminal
  todolists --store sqlite --data-dir ./data tui --session <id>
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("TODOLISTS_CONFIG", ""), "Config file (.toml, .yaml or .yml)")
	cmd.PersistentFlags().StringVar(&app.Store, "store", envOr("TODOLISTS_STORE", ""), "Session store backend (memory|sqlite)")
	cmd.PersistentFlags().StringVar(&app.DataDir, "data-dir", envOr("TODOLISTS_DATA_DIR", ""), "Directory for the SQLite database and cookie secret")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("TODOLISTS_LOG_LEVEL", ""), "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output; styled markdown")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TODOLISTS_FORMAT", "json"), "Output format ("+strings.Join(format.Formats, "|")+")")

	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newSessionsCmd(app))
	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// init resolves configuration once per invocation. Flags win over the
// environment, which wins over the config file.
func (app *App) init(cmd *cobra.Command) error {
	f, err := format.Normalize(app.Format)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.Format = f

	cfg, err := config.Load(app.ConfigPath, func(c *config.Config) {
		if v := strings.TrimSpace(app.Store); v != "" {
			c.Store = v
		}
		if v := strings.TrimSpace(app.DataDir); v != "" {
			c.DataDir = v
		}
		if v := strings.TrimSpace(app.LogLevel); v != "" {
			c.LogLevel = v
		}
	})
	if err != nil {
		return writeErr(cmd, err)
	}
	app.cfg = cfg
	app.logger = logging.New(cmd.ErrOrStderr(), logging.Options{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		Timestamp: true,
	})
	return nil
}

func (app *App) openStore(ctx context.Context) (store.SessionStore, error) {
	st, err := store.Open(ctx, app.cfg.Store, app.cfg.DataDir)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(app.cfg.Store, store.BackendMemory) {
		app.logger.Debug("using in-memory session store; nothing is persisted")
	}
	return st, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

// writeData wraps data in the {"data", "_hints"} envelope for the machine
// formats; text and markdown get the bare value.
func writeData(cmd *cobra.Command, app *App, data any, hints ...string) error {
	switch app.Format {
	case format.JSON, format.EDN:
		if hints == nil {
			hints = []string{}
		}
		return writeOut(cmd, app, map[string]any{"data": data, "_hints": hints})
	default:
		return writeOut(cmd, app, data)
	}
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
