// Package mcp provides Model Context Protocol integration: an HTTP client
// for remote MCP tool servers (Datadog) and a stdio server exposing signal's
// own tools.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/felixgeelhaar/signal/domain/tool"
)

var (
	// ErrNotConnected indicates the client has not completed the handshake.
	ErrNotConnected = errors.New("client not connected")

	// ErrAlreadyConnected indicates a second Connect on the same client.
	ErrAlreadyConnected = errors.New("client already connected")

	// ErrConnectionFailed indicates the MCP handshake failed. Callers treat
	// this as fatal at startup.
	ErrConnectionFailed = errors.New("connection failed")
)

// protocolVersion is the MCP protocol revision this client speaks.
const protocolVersion = "2024-11-05"

// Datadog credential headers sent with every request.
const (
	HeaderDatadogAPIKey         = "DD-API-KEY"
	HeaderDatadogApplicationKey = "DD-APPLICATION-KEY"
)

// ToolDef represents a tool definition advertised by an MCP server.
type ToolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

// ToolResult represents the result of a remote tool call.
type ToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// Content represents one content item in an MCP response.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ServerInfo contains metadata about an MCP server.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// JSON-RPC types for MCP communication.
type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type initParams struct {
	ProtocolVersion string     `json:"protocolVersion"`
	Capabilities    struct{}   `json:"capabilities"`
	ClientInfo      ServerInfo `json:"clientInfo"`
}

type initResult struct {
	ProtocolVersion string     `json:"protocolVersion"`
	ServerInfo      ServerInfo `json:"serverInfo"`
}

type listToolsResult struct {
	Tools []ToolDef `json:"tools"`
}

type callToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPDoer overrides the HTTP client used for requests.
func WithHTTPDoer(doer *http.Client) ClientOption {
	return func(c *HTTPClient) {
		if doer != nil {
			c.httpClient = doer
		}
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) ClientOption {
	return func(c *HTTPClient) {
		c.headers[key] = value
	}
}

// WithDatadogCredentials sets the Datadog authentication headers.
func WithDatadogCredentials(apiKey, applicationKey string) ClientOption {
	return func(c *HTTPClient) {
		c.headers[HeaderDatadogAPIKey] = apiKey
		c.headers[HeaderDatadogApplicationKey] = applicationKey
	}
}

// WithClientInfo sets the client identity sent during the handshake.
func WithClientInfo(name, version string) ClientOption {
	return func(c *HTTPClient) {
		c.info = ServerInfo{Name: name, Version: version}
	}
}

// WithToolWrapper wraps every proxied tool, e.g. with a resilience executor.
func WithToolWrapper(wrap func(tool.Tool) tool.Tool) ClientOption {
	return func(c *HTTPClient) {
		c.wrap = wrap
	}
}

// HTTPClient consumes tools from a remote MCP server over HTTP. Each JSON-RPC
// request is a single POST carrying the configured credential headers.
type HTTPClient struct {
	url        string
	httpClient *http.Client
	headers    map[string]string
	info       ServerInfo
	wrap       func(tool.Tool) tool.Tool

	reqID      atomic.Int64
	mu         sync.RWMutex
	connected  bool
	serverInfo *ServerInfo
}

// NewHTTPClient creates a client for the MCP server at url.
func NewHTTPClient(url string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		url:        url,
		httpClient: http.DefaultClient,
		headers:    make(map[string]string),
		info:       ServerInfo{Name: "signal", Version: "1.0.0"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect performs the MCP initialize handshake.
func (c *HTTPClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return ErrAlreadyConnected
	}

	params := initParams{
		ProtocolVersion: protocolVersion,
		ClientInfo:      c.info,
	}
	resp, err := c.call(ctx, "initialize", params)
	if err != nil {
		return fmt.Errorf("%w: initialize: %v", ErrConnectionFailed, err)
	}

	var result initResult
	if err := json.Unmarshal(resp, &result); err != nil {
		return fmt.Errorf("%w: parse initialize result: %v", ErrConnectionFailed, err)
	}

	c.serverInfo = &result.ServerInfo
	c.connected = true
	return nil
}

// ServerInfo returns the remote server identity after Connect.
func (c *HTTPClient) ServerInfo() *ServerInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverInfo
}

// ListTools returns the tools advertised by the server.
func (c *HTTPClient) ListTools(ctx context.Context) ([]ToolDef, error) {
	if !c.isConnected() {
		return nil, ErrNotConnected
	}

	resp, err := c.call(ctx, "tools/list", struct{}{})
	if err != nil {
		return nil, err
	}

	var result listToolsResult
	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("parse list tools result: %w", err)
	}
	return result.Tools, nil
}

// CallTool executes a named tool on the server.
func (c *HTTPClient) CallTool(ctx context.Context, name string, arguments json.RawMessage) (*ToolResult, error) {
	if !c.isConnected() {
		return nil, ErrNotConnected
	}

	resp, err := c.call(ctx, "tools/call", callToolParams{
		Name:      name,
		Arguments: arguments,
	})
	if err != nil {
		return nil, err
	}

	var result ToolResult
	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("parse call tool result: %w", err)
	}
	return &result, nil
}

// Tools returns all server tools as domain tools under the given namespace
// prefix. Tool calls go back through this client with the bare remote name.
func (c *HTTPClient) Tools(ctx context.Context, namespace string) ([]tool.Tool, error) {
	defs, err := c.ListTools(ctx)
	if err != nil {
		return nil, err
	}

	tools := make([]tool.Tool, len(defs))
	for i, def := range defs {
		var t tool.Tool = newProxyTool(def, namespace, c.caller())
		if c.wrap != nil {
			t = c.wrap(t)
		}
		tools[i] = t
	}
	return tools, nil
}

func (c *HTTPClient) caller() proxyCaller {
	return func(ctx context.Context, name string, input json.RawMessage) (tool.Result, error) {
		result, err := c.CallTool(ctx, name, input)
		if err != nil {
			return tool.Result{}, err
		}

		if result.IsError {
			if len(result.Content) > 0 {
				return tool.NewErrorResult(errors.New(result.Content[0].Text)), nil
			}
			return tool.NewErrorResult(errors.New("tool execution failed")), nil
		}

		if len(result.Content) > 0 {
			return tool.NewTextResult(result.Content[0].Text), nil
		}
		return tool.NewResult(json.RawMessage(`{}`)), nil
	}
}

func (c *HTTPClient) isConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// call performs one JSON-RPC round trip. Server-level errors come back as Go
// errors carrying the RPC message.
func (c *HTTPClient) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	paramsBytes, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal params: %w", err)
	}

	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.reqID.Add(1),
		Method:  method,
		Params:  paramsBytes,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range c.headers {
		httpReq.Header.Set(key, value)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", method, httpResp.StatusCode)
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", method, err)
	}

	var resp rpcResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", method, err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%s: %s (code %d)", method, resp.Error.Message, resp.Error.Code)
	}

	return resp.Result, nil
}
