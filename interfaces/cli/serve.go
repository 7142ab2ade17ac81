package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/signal/application"
	"github.com/felixgeelhaar/signal/infrastructure/config"
	"github.com/felixgeelhaar/signal/infrastructure/logging"
	"github.com/felixgeelhaar/signal/infrastructure/mcp"
	"github.com/felixgeelhaar/signal/infrastructure/registry"
	"github.com/felixgeelhaar/signal/infrastructure/storage/filesystem"
)

// serveToolsOptions holds options for the serve-tools command.
type serveToolsOptions struct {
	settingsPath string
}

// newServeToolsCmd creates the serve-tools command.
func (a *App) newServeToolsCmd() *cobra.Command {
	opts := &serveToolsOptions{}

	cmd := &cobra.Command{
		Use:   "serve-tools",
		Short: "Expose signal's tools over MCP on stdin/stdout",
		Long: `Run an MCP server exposing signal's own tools (submit_report and the
workspace file tools) over stdio, so other agent runtimes can use them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serveTools(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.settingsPath, "settings", "c", "", "Path to settings file (optional)")

	return cmd
}

// serveTools runs the stdio tool server until the context is cancelled.
func (a *App) serveTools(cmd *cobra.Command, opts *serveToolsOptions) error {
	settings, err := config.Load(opts.settingsPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	logging.Init(logging.Config{
		Level:  settings.Logging.Level,
		Format: settings.Logging.Format,
	})

	store, err := filesystem.NewReportStore(settings.Reports.Dir())
	if err != nil {
		return err
	}

	reg := registry.NewInMemory()
	submit, err := application.NewSubmitReportTool(store)
	if err != nil {
		return fmt.Errorf("build submit_report tool: %w", err)
	}
	if err := reg.Register(submit); err != nil {
		return fmt.Errorf("register submit_report tool: %w", err)
	}

	workspaceTools, err := application.NewWorkspaceTools(settings.Reports.DataDir)
	if err != nil {
		return fmt.Errorf("build workspace tools: %w", err)
	}
	for _, t := range workspaceTools {
		if err := reg.Register(t); err != nil {
			return fmt.Errorf("register %s: %w", t.Name(), err)
		}
	}

	srv := mcp.NewToolServer(mcp.ToolServerConfig{
		Name:         "signal",
		Version:      Version,
		Registry:     reg,
		Instructions: "Call submit_report with summary and details to persist a health report.",
	})

	logging.Info().Int("tools", len(reg.Names())).Msg("serving tools over stdio")
	return srv.ServeStdio(cmd.Context())
}
