package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/wlmaker/internal/compositor"
	"github.com/1broseidon/wlmaker/internal/runtimepath"
	"github.com/1broseidon/wlmaker/internal/wlmtk"
)

// Executor runs fn on the goroutine that owns the compositor and returns
// its result.
type Executor interface {
	Do(fn func(*compositor.Compositor) (any, error)) (any, error)
}

// ServerOptions configure a Server.
type ServerOptions struct {
	// SocketPath defaults to runtimepath.SocketPath().
	SocketPath string
	Backend    string
	// Reload re-reads the configuration and applies it.
	Reload func() error
	Logger *slog.Logger
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	exec         Executor
	reload       func() error
	backend      string
	log          *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(exec Executor, opts ServerOptions) (*Server, error) {
	socketPath := opts.SocketPath
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		exec:       exec,
		reload:     opts.Reload,
		backend:    opts.Backend,
		log:        logger.With("component", "ipc"),
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.log.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.log.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.log.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.log.Error("failed to marshal response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.log.Warn("failed to send response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.log.Debug("IPC request", "command", req.Command)

	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetOutputs:
		return s.run(func(c *compositor.Compositor) (any, error) {
			return OutputsData{Outputs: c.Status().Outputs}, nil
		})
	case CommandListPanels:
		return s.run(func(c *compositor.Compositor) (any, error) {
			return PanelsData{Panels: c.Panels()}, nil
		})
	case CommandListWorkspaces:
		return s.run(func(c *compositor.Compositor) (any, error) {
			return WorkspacesData{Workspaces: c.Workspaces()}, nil
		})
	case CommandSwitchWorkspace:
		return s.handleSwitchWorkspace(req.Payload)
	case CommandListWindows:
		return s.run(func(c *compositor.Compositor) (any, error) {
			return WindowsData{Windows: c.Windows()}, nil
		})
	case CommandGetWindow:
		var p WindowRef
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return s.run(func(c *compositor.Compositor) (any, error) {
			return c.Window(p.Window)
		})
	case CommandCreateWindow:
		var opts compositor.WindowOptions
		if err := decodePayload(req.Payload, &opts); err != nil {
			return NewErrorResponse(err.Error())
		}
		return s.run(func(c *compositor.Compositor) (any, error) {
			return c.CreateWindow(opts)
		})
	case CommandWindowOp:
		var p WindowOpPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return s.run(func(c *compositor.Compositor) (any, error) {
			return applyWindowOp(c, p)
		})
	case CommandPointer:
		return s.handlePointer(req.Payload)
	case CommandKey:
		var p KeyPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return s.run(func(c *compositor.Compositor) (any, error) {
			return KeyData{Consumed: c.Key(p.Keysym, p.Pressed, p.Modifiers)}, nil
		})
	case CommandLock:
		return s.run(func(c *compositor.Compositor) (any, error) {
			return nil, c.Lock()
		})
	case CommandUnlock:
		return s.run(func(c *compositor.Compositor) (any, error) {
			return nil, c.Unlock()
		})
	case CommandDropLock:
		return s.run(func(c *compositor.Compositor) (any, error) {
			return nil, c.DropLock()
		})
	case CommandListActions:
		resp, _ := NewOKResponse(ActionsData{Actions: compositor.Actions()})
		return resp
	case CommandRunAction:
		var p ActionPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return s.run(func(c *compositor.Compositor) (any, error) {
			return nil, c.RunAction(p.Action)
		})
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// run executes fn on the compositor goroutine and wraps the result.
func (s *Server) run(fn func(*compositor.Compositor) (any, error)) *Response {
	data, err := s.exec.Do(fn)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func decodePayload(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func (s *Server) handleReload() *Response {
	s.log.Info("IPC: received RELOAD command")
	if s.reload == nil {
		return NewErrorResponse("reload is not supported")
	}
	if err := s.reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	s.log.Info("IPC: config reloaded")

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleGetStatus() *Response {
	data, err := s.exec.Do(func(c *compositor.Compositor) (any, error) {
		return c.Status(), nil
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	status := StatusData{
		Status:        data.(compositor.Status),
		Backend:       s.backend,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleSwitchWorkspace(payload json.RawMessage) *Response {
	var p SwitchWorkspacePayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	return s.run(func(c *compositor.Compositor) (any, error) {
		switch p.Direction {
		case "":
			if p.Workspace == "" {
				return nil, fmt.Errorf("workspace or direction is required")
			}
			if err := c.SwitchWorkspace(p.Workspace); err != nil {
				return nil, err
			}
		case "next":
			c.NextWorkspace()
		case "previous", "prev":
			c.PreviousWorkspace()
		default:
			return nil, fmt.Errorf("unknown direction %q", p.Direction)
		}
		return WorkspacesData{Workspaces: c.Workspaces()}, nil
	})
}

func (s *Server) handlePointer(payload json.RawMessage) *Response {
	var p PointerPayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	button, err := ParseButton(p.Button)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return s.run(func(c *compositor.Compositor) (any, error) {
		var consumed bool
		switch p.Op {
		case PointerMotion:
			consumed = c.PointerMotion(p.X, p.Y)
		case PointerButton:
			consumed = c.PointerButton(button, p.Pressed)
		case PointerClick:
			consumed = c.PointerClick(button)
		case PointerAxis:
			consumed = c.PointerAxis(p.Horizontal, p.Delta)
		default:
			return nil, fmt.Errorf("unknown pointer op %q", p.Op)
		}
		return PointerData{Consumed: consumed, State: c.PointerState().String()}, nil
	})
}

// ParseButton accepts left, right, middle or a numeric input event code.
// An empty name means left.
func ParseButton(name string) (uint32, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "left":
		return wlmtk.ButtonLeft, nil
	case "right":
		return wlmtk.ButtonRight, nil
	case "middle":
		return wlmtk.ButtonMiddle, nil
	}
	n, err := strconv.ParseUint(name, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("unknown button %q", name)
	}
	return uint32(n), nil
}

func applyWindowOp(c *compositor.Compositor, p WindowOpPayload) (compositor.WindowInfo, error) {
	ref := p.Window
	switch p.Op {
	case OpClose:
		return c.CloseWindow(ref, p.Force)
	case OpActivate:
		return c.ActivateWindow(ref)
	case OpMove:
		return c.MoveWindow(ref, p.X, p.Y)
	case OpResize:
		return c.ResizeWindow(ref, p.Width, p.Height)
	case OpMaximize, OpUnmaximize:
		return c.SetMaximized(ref, p.Op == OpMaximize)
	case OpFullscreen, OpUnfullscreen:
		return c.SetFullscreen(ref, p.Op == OpFullscreen)
	case OpShade, OpUnshade:
		return c.SetShaded(ref, p.Op == OpShade)
	case OpMinimize:
		return c.MinimizeWindow(ref)
	case OpRestore:
		return c.RestoreWindow(ref)
	case OpTitle:
		return c.SetTitle(ref, p.Title)
	case OpDecorate, OpUndecorate:
		return c.SetDecorated(ref, p.Op == OpDecorate)
	case OpSend:
		return c.SendToWorkspace(ref, p.Workspace)
	case OpMenuOpen, OpMenuClose:
		return c.OpenMenu(ref, p.Op == OpMenuOpen)
	default:
		return compositor.WindowInfo{}, fmt.Errorf("unknown window op %q (want one of %s)", p.Op, strings.Join(WindowOps, ", "))
	}
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
