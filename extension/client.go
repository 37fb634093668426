// Package extension implements the editor-side client shell for the GraphQL
// language server. It launches the configured server process once,
// communicates via JSON-RPC 2.0 over stdio, and forwards server-pushed
// notifications to UI widgets: an output channel for log text, a progress
// reporter keyed by loading token, an inline decoration renderer, and
// per-document tag lists for quick-pick commands.
package extension

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"

	"encoding/json/jsontext"
	json "encoding/json/v2"

	"github.com/google/uuid"

	"github.com/gqlgo/gqlc/config"
)

// Client manages the single language server process and the UI widgets fed
// by its notifications.
type Client struct {
	cfg       *config.ServerConfig
	workspace string

	output      OutputChannel
	progress    ProgressReporter
	decorations DecorationRenderer

	cmd     *exec.Cmd
	conn    *JSONRPCConn
	started bool
	mu      sync.Mutex

	nextID  atomic.Int64
	pending map[int]chan *JSONRPCMessage
	pendMu  sync.Mutex

	loading map[string]struct{} // progress tokens begun but not yet completed
	loadMu  sync.Mutex

	tags  map[string][]string // URI -> tag quick-pick entries
	tagMu sync.RWMutex

	done chan struct{} // closed when readLoop exits
}

// NewClient creates a client for the given server config and workspace.
// The UI widgets may be nil, in which case their notifications are dropped.
func NewClient(cfg *config.ServerConfig, workspace string, output OutputChannel, progress ProgressReporter, decorations DecorationRenderer) *Client {
	return &Client{
		cfg:         cfg,
		workspace:   workspace,
		output:      output,
		progress:    progress,
		decorations: decorations,
		pending:     make(map[int]chan *JSONRPCMessage),
		loading:     make(map[string]struct{}),
		tags:        make(map[string][]string),
		done:        make(chan struct{}),
	}
}

// Start spawns the language server process and performs the initialize
// handshake. The server is started at most once; later calls are no-ops.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return nil
	}

	if _, err := exec.LookPath(c.cfg.Command[0]); err != nil {
		return fmt.Errorf("language server binary not found: %s", c.cfg.Command[0])
	}

	cmd := exec.CommandContext(ctx, c.cfg.Command[0], c.cfg.Command[1:]...)
	cmd.Dir = c.workspace
	cmd.Stderr = os.Stderr // let server stderr pass through for debugging

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start process: %w", err)
	}

	c.cmd = cmd
	c.conn = NewJSONRPCConn(stdioPipe{stdin: stdin, stdout: stdout})
	c.done = make(chan struct{})

	// Start the read loop before sending initialize.
	go c.readLoop(c.conn)

	if err := c.initialize(ctx, c.conn); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("initialize: %w", err)
	}

	c.started = true
	slog.Info("language server started", "command", c.cfg.Command[0], "pid", cmd.Process.Pid, "workspace", c.workspace)
	return nil
}

// Stop performs a graceful shutdown (shutdown request + exit notification)
// and kills the process if it does not exit within the configured timeout.
func (c *Client) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return nil
	}

	slog.Info("language server stopping", "command", c.cfg.Command[0])

	shutdownCtx, cancel := context.WithTimeout(ctx, c.cfg.ShutdownTimeout)
	defer cancel()

	if c.conn != nil {
		if _, err := c.call(shutdownCtx, c.conn, "shutdown", nil); err != nil {
			slog.Warn("shutdown request failed", "error", err)
		}
		_ = c.conn.Notify("exit", nil)
		_ = c.conn.Close()
	}

	if cmd := c.cmd; cmd != nil && cmd.Process != nil {
		exited := make(chan error, 1)
		go func() { exited <- cmd.Wait() }()
		select {
		case <-exited:
		case <-shutdownCtx.Done():
			slog.Warn("language server did not exit gracefully, killing")
			_ = cmd.Process.Kill()
		}
	}

	// Wait for readLoop to finish before dropping the connection, so the
	// loop never observes a nil conn.
	<-c.done

	c.started = false
	c.conn = nil
	c.cmd = nil

	slog.Info("language server stopped")
	return nil
}

// ExecuteCommand sends a workspace/executeCommand request. A fresh workDone
// token is begun before the request so the server's loading notifications
// for the command resolve against it.
func (c *Client) ExecuteCommand(ctx context.Context, command string, arguments ...any) (jsontext.Value, error) {
	conn := c.connection()
	if conn == nil {
		return nil, fmt.Errorf("execute command %s: language server is not running", command)
	}

	token := uuid.NewString()
	c.beginLoading(token, command)

	params := map[string]any{
		"command":       command,
		"arguments":     arguments,
		"workDoneToken": token,
	}

	result, err := c.call(ctx, conn, "workspace/executeCommand", params)
	if err != nil {
		c.completeLoading(token)
		return nil, fmt.Errorf("execute command %s: %w", command, err)
	}

	return result, nil
}

// Tags returns a copy of the quick-pick tag list last loaded for uri.
func (c *Client) Tags(uri string) []string {
	c.tagMu.RLock()
	defer c.tagMu.RUnlock()

	tags, ok := c.tags[uri]
	if !ok {
		return nil
	}

	cp := make([]string, len(tags))
	copy(cp, tags)
	return cp
}

// IsLoading reports whether the token has been begun and not yet completed.
func (c *Client) IsLoading(token string) bool {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	_, ok := c.loading[token]
	return ok
}

// --- Internal methods ---

// connection snapshots the current conn so callers never race with Stop.
func (c *Client) connection() *JSONRPCConn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

// initialize performs the initialize/initialized handshake.
func (c *Client) initialize(ctx context.Context, conn *JSONRPCConn) error {
	params := map[string]any{
		"processId": os.Getpid(),
		"rootUri":   "file://" + c.workspace,
		"capabilities": map[string]any{
			"workspace": map[string]any{
				"executeCommand": map[string]any{},
			},
		},
	}

	if _, err := c.call(ctx, conn, "initialize", params); err != nil {
		return fmt.Errorf("initialize request: %w", err)
	}

	if err := conn.Notify("initialized", map[string]any{}); err != nil {
		return fmt.Errorf("initialized notification: %w", err)
	}

	return nil
}

// call sends a JSON-RPC request on conn and waits for the response.
func (c *Client) call(ctx context.Context, conn *JSONRPCConn, method string, params any) (jsontext.Value, error) {
	id := int(c.nextID.Add(1))
	ch := make(chan *JSONRPCMessage, 1)

	c.pendMu.Lock()
	c.pending[id] = ch
	c.pendMu.Unlock()

	defer func() {
		c.pendMu.Lock()
		delete(c.pending, id)
		c.pendMu.Unlock()
	}()

	if err := conn.Send(id, method, params); err != nil {
		return nil, fmt.Errorf("send %s: %w", method, err)
	}

	select {
	case msg := <-ch:
		if msg.Error != nil {
			return nil, msg.Error
		}
		return msg.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, fmt.Errorf("connection closed")
	}
}

// readLoop continuously reads messages from conn, which it owns for its
// whole lifetime regardless of what Stop does to the client fields.
// Responses are dispatched to pending callers; notifications are forwarded
// to the UI widgets.
func (c *Client) readLoop(conn *JSONRPCConn) {
	defer close(c.done)

	for {
		msg, err := conn.ReadMessage()
		if err != nil {
			// Connection closed — normal during shutdown.
			return
		}

		if msg.ID != nil {
			c.pendMu.Lock()
			ch, ok := c.pending[*msg.ID]
			c.pendMu.Unlock()
			if ok {
				ch <- msg
			}
			continue
		}

		switch msg.Method {
		case "window/logMessage":
			c.handleLogMessage(msg.Params)
		case "gql/loadingStart":
			c.handleLoadingStart(msg.Params)
		case "gql/loadingComplete":
			c.handleLoadingComplete(msg.Params)
		case "gql/engineDecorations":
			c.handleEngineDecorations(msg.Params)
		case "gql/tagsLoaded":
			c.handleTagsLoaded(msg.Params)
		default:
			slog.Debug("notification ignored", "method", msg.Method)
		}
	}
}

// handleLogMessage appends the message text verbatim to the output channel.
func (c *Client) handleLogMessage(raw jsontext.Value) {
	var params logMessageParams
	if err := json.Unmarshal(raw, &params); err != nil {
		slog.Warn("failed to unmarshal logMessage", "error", err)
		return
	}

	if c.output != nil {
		c.output.Append(params.Message)
	}
}

func (c *Client) handleLoadingStart(raw jsontext.Value) {
	var params loadingParams
	if err := json.Unmarshal(raw, &params); err != nil {
		slog.Warn("failed to unmarshal loadingStart", "error", err)
		return
	}

	c.beginLoading(params.Token, params.Message)
}

func (c *Client) handleLoadingComplete(raw jsontext.Value) {
	var params loadingParams
	if err := json.Unmarshal(raw, &params); err != nil {
		slog.Warn("failed to unmarshal loadingComplete", "error", err)
		return
	}

	c.completeLoading(params.Token)
}

func (c *Client) handleEngineDecorations(raw jsontext.Value) {
	var params engineDecorationsParams
	if err := json.Unmarshal(raw, &params); err != nil {
		slog.Warn("failed to unmarshal engineDecorations", "error", err)
		return
	}

	if c.decorations != nil {
		c.decorations.Render(params.Decorations)
	}
}

// handleTagsLoaded replaces the tag list for the notification's URI.
func (c *Client) handleTagsLoaded(raw jsontext.Value) {
	var params tagsLoadedParams
	if err := json.Unmarshal(raw, &params); err != nil {
		slog.Warn("failed to unmarshal tagsLoaded", "error", err)
		return
	}

	c.tagMu.Lock()
	c.tags[params.URI] = params.Tags
	c.tagMu.Unlock()
}

// beginLoading registers the token and starts a progress indicator for it.
func (c *Client) beginLoading(token, message string) {
	c.loadMu.Lock()
	c.loading[token] = struct{}{}
	c.loadMu.Unlock()

	if c.progress != nil {
		c.progress.Begin(token, message)
	}
}

// completeLoading resolves the token. Completing a token that was never
// begun is a no-op.
func (c *Client) completeLoading(token string) {
	c.loadMu.Lock()
	_, ok := c.loading[token]
	if ok {
		delete(c.loading, token)
	}
	c.loadMu.Unlock()

	if ok && c.progress != nil {
		c.progress.End(token)
	}
}

// stdioPipe combines a stdin (writer) and stdout (reader) into an io.ReadWriteCloser.
type stdioPipe struct {
	stdin  io.WriteCloser
	stdout io.ReadCloser
}

func (p stdioPipe) Read(b []byte) (int, error)  { return p.stdout.Read(b) }
func (p stdioPipe) Write(b []byte) (int, error) { return p.stdin.Write(b) }
func (p stdioPipe) Close() error {
	_ = p.stdin.Close()
	return p.stdout.Close()
}
