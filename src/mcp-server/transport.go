// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	jsonrpcInternal "github.com/H0llyW00dzZ/gramps-mcp/src/internal/helper/jsonrpc"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	mcptransport "github.com/modelcontextprotocol/go-sdk/mcp"
)

// jsonRPCError represents a JSON-RPC 2.0 error object
type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// jsonRPCResponse represents a JSON-RPC 2.0 response object
type jsonRPCResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      any           `json:"id"`
	Result  any           `json:"result,omitempty"`
	Error   *jsonRPCError `json:"error,omitempty"`
}

// InMemoryTransport implements the official MCP SDK's transport interface on
// top of a [mark3labs/mcp-go] in-process client. It lets agent frameworks
// that speak the official SDK (like Google ADK) call the genealogy tools
// without spawning a subprocess.
//
// [mark3labs/mcp-go]: https://pkg.go.dev/github.com/mark3labs/mcp-go
type InMemoryTransport struct {
	client     *client.Client // mark3labs in-process client
	started    bool
	mu         sync.Mutex
	recvCh     chan []byte // channel for receiving messages (ReadMessage)
	sendCh     chan []byte // channel for sending messages (WriteMessage)
	ctx        context.Context
	cancel     context.CancelFunc
	sem        chan struct{}  // Semaphore to limit concurrency
	shutdownWg sync.WaitGroup // WaitGroup for in-flight request handlers
	processWg  sync.WaitGroup // WaitGroup for message processing loop
}

// NewInMemoryTransport creates a new in-memory transport. The returned
// transport is not usable until ConnectServer attaches an MCP server to it.
func NewInMemoryTransport(ctx context.Context) *InMemoryTransport {
	ctx, cancel := context.WithCancel(ctx)
	return &InMemoryTransport{
		recvCh: make(chan []byte, 1),
		sendCh: make(chan []byte, 1),
		ctx:    ctx,
		cancel: cancel,
		sem:    make(chan struct{}, 100), // Limit to 100 concurrent requests
	}
}

// SendJSONRPCNotification sends a JSON-RPC notification to the receive
// channel. This is useful for streaming progress or other server-initiated
// events.
func (t *InMemoryTransport) SendJSONRPCNotification(method string, params any) {
	notification := map[string]any{
		"jsonrpc": mcp.JSONRPC_VERSION,
		"method":  method,
		"params":  params,
	}
	t.sendResponse(notification)
}

// ReadMessage blocks until a message is available or the transport context is
// cancelled, in which case it reports io.EOF like a closed pipe would.
func (t *InMemoryTransport) ReadMessage() ([]byte, error) {
	select {
	case msg := <-t.recvCh:
		return msg, nil
	case <-t.ctx.Done():
		return nil, io.EOF
	}
}

// WriteMessage enqueues a JSON-RPC message for processing.
func (t *InMemoryTransport) WriteMessage(data []byte) error {
	if err := t.ctx.Err(); err != nil {
		return err
	}
	select {
	case t.sendCh <- data:
		return nil
	case <-t.ctx.Done():
		return t.ctx.Err()
	}
}

// Close cancels the transport context and waits for the processing loop and
// any in-flight request handlers to drain. Channels are left open; the
// context cancellation makes the goroutines exit cleanly.
func (t *InMemoryTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	t.processWg.Wait()
	t.shutdownWg.Wait()

	t.started = false
	return nil
}

// Connect implements the official SDK's transport interface by wrapping this
// transport in a connection.
func (t *InMemoryTransport) Connect(ctx context.Context) (mcptransport.Connection, error) {
	return &bridgeConnection{transport: t}, nil
}

// ConnectServer connects a mark3labs MCP server to this transport using an
// in-process client. Server-initiated notifications are forwarded to the
// receive channel so the other side of the bridge sees them.
func (t *InMemoryTransport) ConnectServer(ctx context.Context, srv *server.MCPServer) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return fmt.Errorf("transport already connected")
	}

	c, err := client.NewInProcessClient(srv)
	if err != nil {
		return fmt.Errorf("failed to create in-process client: %w", err)
	}
	t.client = c

	t.client.OnNotification(func(n mcp.JSONRPCNotification) {
		t.SendJSONRPCNotification(n.Method, n.Params)
	})

	if err := t.client.Start(t.ctx); err != nil {
		return fmt.Errorf("failed to start client: %w", err)
	}

	t.processWg.Add(1)
	go t.processMessages()

	t.started = true
	return nil
}

// processMessages drains the send channel and handles each message in its own
// goroutine, bounded by the semaphore, so a slow traversal never blocks
// notifications or concurrent requests.
func (t *InMemoryTransport) processMessages() {
	defer t.processWg.Done()

	for {
		select {
		case <-t.ctx.Done():
			return
		case data := <-t.sendCh:
			select {
			case t.sem <- struct{}{}:
				t.shutdownWg.Add(1)
				go func(data []byte) {
					defer func() {
						<-t.sem
						t.shutdownWg.Done()
					}()
					t.handleMessage(data)
				}(data)
			case <-t.ctx.Done():
				return
			}
		}
	}
}

// handleMessage decodes one JSON-RPC message, dispatches it against the
// in-process client, and sends back a response when the message carries an
// id. JSON-RPC 2.0: a server MUST NOT reply to a notification.
func (t *InMemoryTransport) handleMessage(data []byte) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.sendResponse(jsonRPCResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      nil,
			Error:   &jsonRPCError{Code: -32700, Message: "Parse error"},
		})
		return
	}

	// Normalize request keys to handle both lowercase and capitalized
	req := jsonrpcInternal.Map(raw)
	id := req["id"]

	method, ok := req["method"].(string)
	if !ok {
		if id != nil {
			t.sendResponse(jsonRPCResponse{
				JSONRPC: mcp.JSONRPC_VERSION,
				ID:      id,
				Error: &jsonRPCError{
					Code:    -32600,
					Message: fmt.Sprintf("invalid method: expected string, got %T", req["method"]),
				},
			})
		}
		return
	}

	// Notifications that require no action in this bridge
	if method == "notifications/initialized" {
		return
	}

	result, err := t.dispatch(method, req)
	if id == nil {
		return
	}

	resp := jsonRPCResponse{JSONRPC: mcp.JSONRPC_VERSION, ID: id}
	if err != nil {
		code := -32603
		if strings.Contains(err.Error(), "invalid") || strings.Contains(err.Error(), "missing params") {
			code = -32602
		}
		resp.Error = &jsonRPCError{Code: code, Message: err.Error()}
	} else {
		resp.Result = result
	}
	t.sendResponse(resp)
}

// dispatch routes one JSON-RPC method to the in-process client.
func (t *InMemoryTransport) dispatch(method string, req map[string]any) (any, error) {
	if t.client == nil {
		return nil, fmt.Errorf("transport not connected")
	}

	switch method {
	case string(mcp.MethodInitialize):
		return t.dispatchInitialize(req, method)
	case string(mcp.MethodPing):
		if err := t.client.Ping(t.ctx); err != nil {
			return nil, err
		}
		return map[string]any{}, nil
	case string(mcp.MethodToolsList):
		return t.client.ListTools(t.ctx, mcp.ListToolsRequest{})
	case string(mcp.MethodToolsCall):
		return t.dispatchToolCall(req, method)
	case string(mcp.MethodResourcesList):
		listReq := mcp.ListResourcesRequest{}
		if params, ok := req["params"].(map[string]any); ok {
			if cursor, err := getOptionalStringParam(params, method, "cursor"); err == nil {
				listReq.Params.Cursor = mcp.Cursor(cursor)
			}
		}
		return t.client.ListResources(t.ctx, listReq)
	case string(mcp.MethodResourcesRead):
		return t.dispatchResourceRead(req, method)
	case string(mcp.MethodPromptsList):
		listReq := mcp.ListPromptsRequest{}
		if params, ok := req["params"].(map[string]any); ok {
			if cursor, err := getOptionalStringParam(params, method, "cursor"); err == nil {
				listReq.Params.Cursor = mcp.Cursor(cursor)
			}
		}
		return t.client.ListPrompts(t.ctx, listReq)
	case string(mcp.MethodPromptsGet):
		return t.dispatchPromptGet(req, method)
	default:
		return nil, fmt.Errorf("method not supported: %s", method)
	}
}

// dispatchInitialize handles the initialize handshake, preserving the
// client's declared capabilities.
func (t *InMemoryTransport) dispatchInitialize(req map[string]any, method string) (any, error) {
	params, err := getParams(req, method)
	if err != nil {
		return nil, err
	}
	protocolVersion, err := getStringParam(params, method, "protocolVersion")
	if err != nil {
		return nil, err
	}

	var capabilities mcp.ClientCapabilities
	if caps, ok := params["capabilities"]; ok {
		_ = jsonrpcInternal.UnmarshalFromMap(caps, &capabilities)
	}

	resp, err := t.client.Initialize(t.ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: protocolVersion,
			Capabilities:    capabilities,
		},
	})
	if err != nil {
		if mcp.IsUnsupportedProtocolVersion(err) {
			return nil, fmt.Errorf("unsupported protocol version: %w", err)
		}
		return nil, err
	}
	return resp, nil
}

// dispatchToolCall handles tools/call.
func (t *InMemoryTransport) dispatchToolCall(req map[string]any, method string) (any, error) {
	params, err := getParams(req, method)
	if err != nil {
		return nil, err
	}
	name, err := getStringParam(params, method, "name")
	if err != nil {
		return nil, err
	}
	args, err := getMapParam(params, method, "arguments")
	if err != nil {
		return nil, err
	}

	return t.client.CallTool(t.ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	})
}

// dispatchResourceRead handles resources/read.
func (t *InMemoryTransport) dispatchResourceRead(req map[string]any, method string) (any, error) {
	params, err := getParams(req, method)
	if err != nil {
		return nil, err
	}
	uri, err := getStringParam(params, method, "uri")
	if err != nil {
		return nil, err
	}

	return t.client.ReadResource(t.ctx, mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: uri},
	})
}

// dispatchPromptGet handles prompts/get.
func (t *InMemoryTransport) dispatchPromptGet(req map[string]any, method string) (any, error) {
	params, err := getParams(req, method)
	if err != nil {
		return nil, err
	}
	name, err := getStringParam(params, method, "name")
	if err != nil {
		return nil, err
	}

	var arguments map[string]string
	if args, ok := params["arguments"].(map[string]any); ok {
		arguments = make(map[string]string, len(args))
		for k, v := range args {
			arguments[k] = fmt.Sprint(v)
		}
	}

	return t.client.GetPrompt(t.ctx, mcp.GetPromptRequest{
		Params: mcp.GetPromptParams{
			Name:      name,
			Arguments: arguments,
		},
	})
}

// sendResponse marshals and sends a JSON-RPC response to the receive channel,
// dropping it if the transport is shutting down.
func (t *InMemoryTransport) sendResponse(resp any) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	select {
	case t.recvCh <- data:
	case <-t.ctx.Done():
	}
}

// bridgeConnection adapts InMemoryTransport to the official SDK's connection
// interface.
type bridgeConnection struct {
	transport *InMemoryTransport
}

// Read implements [mcptransport.Connection.Read].
func (c *bridgeConnection) Read(ctx context.Context) (jsonrpc.Message, error) {
	data, err := c.transport.ReadMessage()
	if err != nil {
		return nil, err
	}

	msg, err := jsonrpc.DecodeMessage(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode JSON-RPC message: %w", err)
	}
	return msg, nil
}

// Write implements [mcptransport.Connection.Write].
func (c *bridgeConnection) Write(ctx context.Context, msg jsonrpc.Message) error {
	data, err := jsonrpc.EncodeMessage(msg)
	if err != nil {
		return err
	}
	return c.transport.WriteMessage(data)
}

// Close implements [mcptransport.Connection.Close].
func (c *bridgeConnection) Close() error {
	return c.transport.Close()
}

// SessionID implements [mcptransport.Connection.SessionID].
func (c *bridgeConnection) SessionID() string {
	return "in-memory-transport"
}

// TransportBuilder helps construct in-memory MCP transports for embedding
// the genealogy server in agent frameworks without a subprocess.
type TransportBuilder struct {
	serverBuilder *ServerBuilder
}

// NewTransportBuilder creates a new transport builder.
func NewTransportBuilder() *TransportBuilder {
	return &TransportBuilder{
		serverBuilder: NewServerBuilder(),
	}
}

// WithConfig sets the server configuration.
func (tb *TransportBuilder) WithConfig(config *Config) *TransportBuilder {
	tb.serverBuilder.WithConfig(config)
	return tb
}

// WithVersion sets the server version.
func (tb *TransportBuilder) WithVersion(version string) *TransportBuilder {
	tb.serverBuilder.WithVersion(version)
	return tb
}

// WithBackend sets the record store backend.
func (tb *TransportBuilder) WithBackend(backend *Backend) *TransportBuilder {
	tb.serverBuilder.WithBackend(backend)
	return tb
}

// WithTools adds tool definitions that don't require the backend.
func (tb *TransportBuilder) WithTools(tools ...ToolDefinition) *TransportBuilder {
	tb.serverBuilder.WithTools(tools...)
	return tb
}

// WithDefaultTools adds the full set of genealogy tools.
func (tb *TransportBuilder) WithDefaultTools() *TransportBuilder {
	tb.serverBuilder.WithDefaultTools()
	return tb
}

// BuildInMemoryTransport builds the MCP server and connects it to a fresh
// in-memory transport. The returned transport satisfies the official SDK's
// transport interface and can be handed to toolset constructors directly.
func (tb *TransportBuilder) BuildInMemoryTransport(ctx context.Context) (*InMemoryTransport, error) {
	srv, err := tb.serverBuilder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build server: %w", err)
	}

	transport := NewInMemoryTransport(ctx)
	if err := transport.ConnectServer(ctx, srv); err != nil {
		return nil, fmt.Errorf("failed to connect server to transport: %w", err)
	}

	return transport, nil
}
