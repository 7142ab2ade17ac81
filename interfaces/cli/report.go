package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/signal/application"
	"github.com/felixgeelhaar/signal/domain/policy"
	"github.com/felixgeelhaar/signal/infrastructure/anthropic"
	"github.com/felixgeelhaar/signal/infrastructure/config"
	"github.com/felixgeelhaar/signal/infrastructure/logging"
	"github.com/felixgeelhaar/signal/infrastructure/mcp"
	"github.com/felixgeelhaar/signal/infrastructure/observability"
	"github.com/felixgeelhaar/signal/infrastructure/registry"
	"github.com/felixgeelhaar/signal/infrastructure/resilience"
	"github.com/felixgeelhaar/signal/infrastructure/storage/filesystem"
)

// reportOptions holds options for the report command.
type reportOptions struct {
	settingsPath string
	model        string
	timeout      time.Duration
	prompt       string
}

// newReportCmd creates the report command.
func (a *App) newReportCmd() *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report [prompt]",
		Short: "Run a monitoring session and generate a health report",
		Long: `Run an agent session against Datadog and write the resulting report
to the reports directory.

Credentials come from the environment: DD_API_KEY, DD_APPLICATION_KEY and
ANTHROPIC_API_KEY are required.

Examples:
  # Report on the last 24 hours (the default prompt)
  signal report

  # Focus the session
  signal report "Report on error rates in the checkout service"

  # With a settings file and a hard timeout
  signal report -c signal-settings.yaml --timeout 10m`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.prompt = resolvePrompt(args)
			return a.runReport(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.settingsPath, "settings", "c", "", "Path to settings file (optional)")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model identifier (overrides settings)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Session timeout")

	return cmd
}

// resolvePrompt picks the positional prompt argument, falling back to the
// default prompt when none is supplied.
func resolvePrompt(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return application.DefaultPrompt
}

// runReport wires the full stack and runs one session.
func (a *App) runReport(ctx context.Context, opts *reportOptions) error {
	settings, err := config.Load(opts.settingsPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	logging.Init(logging.Config{
		Level:  settings.Logging.Level,
		Format: settings.Logging.Format,
	})

	creds, err := config.LoadCredentials()
	if err != nil {
		return err
	}

	provider, err := a.newProvider(settings)
	if err != nil {
		return fmt.Errorf("set up tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.Flush(flushCtx); err != nil {
			logging.Warn().Err(err).Msg("trace flush failed")
		}
		if err := provider.Shutdown(flushCtx); err != nil {
			logging.Warn().Err(err).Msg("trace shutdown failed")
		}
	}()

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

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

	// The agent reads previous reports and keeps notes in the data dir.
	workspaceTools, err := application.NewWorkspaceTools(settings.Reports.DataDir)
	if err != nil {
		return fmt.Errorf("build workspace tools: %w", err)
	}
	for _, t := range workspaceTools {
		if err := reg.Register(t); err != nil {
			return fmt.Errorf("register %s: %w", t.Name(), err)
		}
	}

	// Datadog queries are idempotent reads; transient transport failures are
	// retried instead of surfacing to the agent.
	executor := resilience.NewDefaultExecutor()
	ddClient := mcp.NewHTTPClient(settings.Datadog.MCPServerURL,
		mcp.WithDatadogCredentials(creds.DatadogAPIKey, creds.DatadogApplicationKey),
		mcp.WithClientInfo("signal", Version),
		mcp.WithToolWrapper(executor.Wrap),
	)
	if err := ddClient.Connect(ctx); err != nil {
		return fmt.Errorf("connect to Datadog MCP server: %w", err)
	}
	if err := mcp.ImportTools(ctx, ddClient, reg, mcp.DatadogNamespace); err != nil {
		return fmt.Errorf("import Datadog tools: %w", err)
	}

	model := settings.Agent.Model
	if opts.model != "" {
		model = opts.model
	}

	filter := policy.NewToolFilter(settings.Agent.AllowedTools...)
	sess := anthropic.NewFromAPIKey(creds.AnthropicAPIKey, reg,
		anthropic.WithModel(model),
		anthropic.WithMaxTokens(settings.Agent.MaxTokens),
		anthropic.WithSystemPrompt(application.SystemPrompt),
		anthropic.WithToolFilter(filter),
	)

	runner := application.NewRunner(sess, application.WithDisplay(a.stdout))
	generator := application.NewGenerator(runner, application.NewReplayEmitter(provider.Tracer()), provider.Tracer())

	if _, err := generator.Generate(ctx, opts.prompt); err != nil {
		return fmt.Errorf("session failed: %w", err)
	}
	return nil
}

// newProvider builds the tracing provider from the telemetry settings.
func (a *App) newProvider(settings config.Settings) (*observability.Provider, error) {
	opts := []observability.Option{
		observability.WithServiceName("signal"),
		observability.WithServiceVersion(Version),
	}
	switch settings.Telemetry.Exporter {
	case string(observability.ExporterOTLP):
		opts = append(opts, observability.WithOTLP(settings.Telemetry.Endpoint))
		if settings.Telemetry.Insecure {
			opts = append(opts, observability.WithInsecure())
		}
	case string(observability.ExporterStdout):
		opts = append(opts, observability.WithStdoutExporter())
	case "", string(observability.ExporterNoop):
		return observability.NewNoopProvider(), nil
	default:
		return nil, fmt.Errorf("unknown telemetry exporter %q", settings.Telemetry.Exporter)
	}
	return observability.New(opts...)
}
