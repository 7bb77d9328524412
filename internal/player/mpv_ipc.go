package player

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/PizzaHomicide/kagami/internal/log"
)

var logger = log.Component("mpv")

// ErrNotConnected is returned for commands issued while there is no IPC connection to mpv
var ErrNotConnected = errors.New("not connected to mpv")

// MPVEvent is a single message from mpv: either an event or the reply to a command
type MPVEvent struct {
	Event     string          `json:"event,omitempty"`
	ID        int             `json:"id,omitempty"`   // Observer id for property-change events
	Name      string          `json:"name,omitempty"` // Property name for property-change events
	Data      json.RawMessage `json:"data,omitempty"`
	Reason    string          `json:"reason,omitempty"` // end-file reason
	FileError string          `json:"file_error,omitempty"`
	RequestID int             `json:"request_id,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type mpvCommand struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id"`
}

type pendingCommand struct {
	name  string
	reply chan MPVEvent // nil for commands nobody waits on
}

// MPVIPCClient provides communication with a running mpv instance
type MPVIPCClient struct {
	socketPath string

	mu      sync.Mutex
	conn    net.Conn
	nextID  int
	pending map[int]pendingCommand

	events    chan MPVEvent
	stop      chan struct{} // closed by Close
	done      chan struct{} // closed when the reader exits
	closeOnce sync.Once
}

// NewMPVIPCClient creates a new mpv IPC client
func NewMPVIPCClient(socketPath string) *MPVIPCClient {
	return &MPVIPCClient{
		socketPath: socketPath,
		pending:    make(map[int]pendingCommand),
		events:     make(chan MPVEvent, 100),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// DefaultSocketPath returns a per process socket path for mpv IPC communication
func DefaultSocketPath() string {
	name := fmt.Sprintf("kagami-mpv-%d", os.Getpid())

	if runtime.GOOS == "windows" {
		// Windows uses named pipes instead of unix sockets
		return `\\.\pipe\` + name
	}

	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return filepath.Join(runtimeDir, name+".sock")
	}
	return filepath.Join(os.TempDir(), name+".sock")
}

// Connect establishes a connection with mpv
func (c *MPVIPCClient) Connect(ctx context.Context) error {
	logger.Debug("Connecting to mpv IPC", "path", c.socketPath)
	conn, err := dial(ctx, c.socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect to mpv at %s: %w", c.socketPath, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case <-c.stop:
		_ = conn.Close()
		return ErrNotConnected
	default:
	}
	c.conn = conn

	go c.readEvents(conn)
	return nil
}

// WaitForConnection attempts to connect to mpv with retries while mpv creates its socket
func (c *MPVIPCClient) WaitForConnection(ctx context.Context, maxAttempts int, retryDelay time.Duration) error {
	logger.Debug("Waiting for mpv to create socket", "socket_path", c.socketPath, "max_attempts", maxAttempts)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if socketReady(c.socketPath) {
			err := c.Connect(ctx)
			if err == nil {
				logger.Info("Successfully connected to mpv", "attempt", attempt)
				return nil
			}
			logger.Debug("Failed to connect to mpv", "attempt", attempt, "error", err)
		} else {
			logger.Debug("mpv socket does not exist yet", "attempt", attempt, "path", c.socketPath)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
			// Continue and retry
		}
	}

	return fmt.Errorf("failed to connect to mpv after %d attempts", maxAttempts)
}

// Connected reports whether the connection is up
func (c *MPVIPCClient) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return false
	}
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

// Close closes the connection to mpv.  The events channel is closed once the reader has stopped.
func (c *MPVIPCClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.stop)

		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()

		if conn == nil {
			close(c.events)
			return
		}
		err = conn.Close()
		<-c.done
	})
	return err
}

// readEvents continuously reads messages from mpv, routing replies to their waiting command and everything else to
// the events channel
func (c *MPVIPCClient) readEvents(conn net.Conn) {
	defer close(c.events)
	defer close(c.done)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		logger.Trace("Raw mpv message", "data", string(line))

		var event MPVEvent
		if err := json.Unmarshal(line, &event); err != nil {
			logger.Error("Failed to unmarshal mpv message", "error", err)
			continue
		}

		if event.Event == "" {
			c.resolve(event)
			continue
		}

		select {
		case c.events <- event:
		case <-c.stop:
			return
		}
	}

	if err := scanner.Err(); err != nil {
		select {
		case <-c.stop:
		default:
			logger.Error("Error reading from mpv socket", "error", err)
		}
	}

	logger.Debug("mpv event reader stopped")
}

func (c *MPVIPCClient) resolve(reply MPVEvent) {
	c.mu.Lock()
	cmd, ok := c.pending[reply.RequestID]
	delete(c.pending, reply.RequestID)
	c.mu.Unlock()

	if !ok {
		logger.Debug("Reply for unknown mpv request", "request_id", reply.RequestID)
		return
	}
	if cmd.reply != nil {
		cmd.reply <- reply
		return
	}
	if reply.Error != "success" {
		logger.Warn("mpv command failed", "command", cmd.name, "error", reply.Error)
	}
}

// Events returns the channel for mpv events.  It is closed when the connection ends.
func (c *MPVIPCClient) Events() <-chan MPVEvent {
	return c.events
}

// SendCommand sends a command to mpv without waiting for the reply.  A failure reported by mpv is logged.
func (c *MPVIPCClient) SendCommand(cmd ...any) error {
	_, _, err := c.send(cmd, false)
	return err
}

// Command sends a command to mpv and waits for its reply, returning the reply data
func (c *MPVIPCClient) Command(ctx context.Context, cmd ...any) (json.RawMessage, error) {
	id, reply, err := c.send(cmd, true)
	if err != nil {
		return nil, err
	}

	select {
	case r := <-reply:
		if r.Error != "success" {
			return nil, fmt.Errorf("mpv command %v failed: %s", cmd[0], r.Error)
		}
		return r.Data, nil
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, ctx.Err()
	case <-c.done:
		return nil, ErrNotConnected
	}
}

func (c *MPVIPCClient) send(cmd []any, wait bool) (int, chan MPVEvent, error) {
	if len(cmd) == 0 {
		return 0, nil, errors.New("empty mpv command")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return 0, nil, ErrNotConnected
	}
	select {
	case <-c.done:
		return 0, nil, ErrNotConnected
	default:
	}

	c.nextID++
	id := c.nextID

	data, err := json.Marshal(mpvCommand{Command: cmd, RequestID: id})
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal command: %w", err)
	}

	pc := pendingCommand{name: fmt.Sprint(cmd[0])}
	if wait {
		pc.reply = make(chan MPVEvent, 1)
	}
	c.pending[id] = pc

	if _, err := c.conn.Write(append(data, '\n')); err != nil {
		delete(c.pending, id)
		return 0, nil, fmt.Errorf("failed to send command: %w", err)
	}

	return id, pc.reply, nil
}

// ObserveProperty starts observing an mpv property.  Changes arrive as property-change events carrying id.
func (c *MPVIPCClient) ObserveProperty(id int, name string) error {
	return c.SendCommand("observe_property", id, name)
}

// SetProperty sets an mpv property without waiting for the reply
func (c *MPVIPCClient) SetProperty(name string, value any) error {
	return c.SendCommand("set_property", name, value)
}
