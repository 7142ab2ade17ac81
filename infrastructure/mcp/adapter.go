package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/signal/domain/tool"
	"github.com/felixgeelhaar/signal/infrastructure/logging"
)

// DatadogNamespace is the prefix under which remote Datadog tools are
// registered, e.g. "search_logs" becomes "mcp__datadog__search_logs".
const DatadogNamespace = "mcp__datadog__"

// proxyCaller executes a remote tool by its bare name.
type proxyCaller func(ctx context.Context, name string, input json.RawMessage) (tool.Result, error)

// proxyTool wraps a remote MCP tool as a domain tool. The registered name
// carries the namespace prefix; calls go out with the remote name.
type proxyTool struct {
	def       ToolDef
	namespace string
	caller    proxyCaller
}

func newProxyTool(def ToolDef, namespace string, caller proxyCaller) *proxyTool {
	return &proxyTool{
		def:       def,
		namespace: namespace,
		caller:    caller,
	}
}

func (t *proxyTool) Name() string {
	return t.namespace + t.def.Name
}

func (t *proxyTool) Description() string {
	return t.def.Description
}

func (t *proxyTool) InputSchema() tool.Schema {
	if len(t.def.InputSchema) == 0 {
		return tool.EmptySchema()
	}
	return tool.NewSchema(t.def.InputSchema)
}

func (t *proxyTool) Execute(ctx context.Context, input json.RawMessage) (tool.Result, error) {
	return t.caller(ctx, t.def.Name, input)
}

var _ tool.Tool = (*proxyTool)(nil)

// ImportTools registers every tool the client advertises into the registry
// under the given namespace. Name collisions are skipped with a warning.
func ImportTools(ctx context.Context, client *HTTPClient, registry tool.Registry, namespace string) error {
	tools, err := client.Tools(ctx, namespace)
	if err != nil {
		return fmt.Errorf("import tools: %w", err)
	}

	for _, t := range tools {
		if err := registry.Register(t); err != nil {
			logging.Warn().Str("tool", t.Name()).Err(err).Msg("skipping tool registration")
			continue
		}
	}

	logging.Info().Int("count", len(tools)).Str("namespace", namespace).Msg("imported remote tools")
	return nil
}
