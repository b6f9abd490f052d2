package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/wlmaker/internal/compositor"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload          CommandType = "RELOAD"
	CommandGetStatus       CommandType = "GET_STATUS"
	CommandGetOutputs      CommandType = "GET_OUTPUTS"
	CommandListPanels      CommandType = "LIST_PANELS"
	CommandListWorkspaces  CommandType = "LIST_WORKSPACES"
	CommandSwitchWorkspace CommandType = "SWITCH_WORKSPACE"
	CommandListWindows     CommandType = "LIST_WINDOWS"
	CommandGetWindow       CommandType = "GET_WINDOW"
	CommandCreateWindow    CommandType = "CREATE_WINDOW"
	CommandWindowOp        CommandType = "WINDOW_OP"
	CommandPointer         CommandType = "POINTER"
	CommandKey             CommandType = "KEY"
	CommandLock            CommandType = "LOCK"
	CommandUnlock          CommandType = "UNLOCK"
	CommandDropLock        CommandType = "DROP_LOCK"
	CommandListActions     CommandType = "LIST_ACTIONS"
	CommandRunAction       CommandType = "RUN_ACTION"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	compositor.Status
	Backend       string `json:"backend"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DaemonRunning bool   `json:"daemon_running"`
}

type OutputsData struct {
	Outputs []compositor.OutputInfo `json:"outputs"`
}

type PanelsData struct {
	Panels []compositor.PanelInfo `json:"panels"`
}

type WorkspacesData struct {
	Workspaces []compositor.WorkspaceInfo `json:"workspaces"`
}

type WindowsData struct {
	Windows []compositor.WindowInfo `json:"windows"`
}

type ActionsData struct {
	Actions []compositor.Action `json:"actions"`
}

// SwitchWorkspacePayload selects a workspace by name or index, or steps
// with Direction "next" or "previous".
type SwitchWorkspacePayload struct {
	Workspace string `json:"workspace,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// WindowRef names a window: "active", a full id or a unique id prefix.
type WindowRef struct {
	Window string `json:"window"`
}

// Window operations accepted by WINDOW_OP.
const (
	OpClose        = "close"
	OpActivate     = "activate"
	OpMove         = "move"
	OpResize       = "resize"
	OpMaximize     = "maximize"
	OpUnmaximize   = "unmaximize"
	OpFullscreen   = "fullscreen"
	OpUnfullscreen = "unfullscreen"
	OpShade        = "shade"
	OpUnshade      = "unshade"
	OpMinimize     = "minimize"
	OpRestore      = "restore"
	OpTitle        = "title"
	OpDecorate     = "decorate"
	OpUndecorate   = "undecorate"
	OpSend         = "send"
	OpMenuOpen     = "menu-open"
	OpMenuClose    = "menu-close"
)

// WindowOps lists the operations WINDOW_OP understands.
var WindowOps = []string{
	OpClose, OpActivate, OpMove, OpResize,
	OpMaximize, OpUnmaximize, OpFullscreen, OpUnfullscreen,
	OpShade, OpUnshade, OpMinimize, OpRestore,
	OpTitle, OpDecorate, OpUndecorate, OpSend,
	OpMenuOpen, OpMenuClose,
}

type WindowOpPayload struct {
	Window    string `json:"window"`
	Op        string `json:"op"`
	X         int    `json:"x,omitempty"`
	Y         int    `json:"y,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Title     string `json:"title,omitempty"`
	Workspace string `json:"workspace,omitempty"`
	Force     bool   `json:"force,omitempty"`
}

// Pointer operations accepted by POINTER.
const (
	PointerMotion = "motion"
	PointerButton = "button"
	PointerClick  = "click"
	PointerAxis   = "axis"
)

type PointerPayload struct {
	Op         string  `json:"op"`
	X          float64 `json:"x,omitempty"`
	Y          float64 `json:"y,omitempty"`
	Button     string  `json:"button,omitempty"` // left, right, middle
	Pressed    bool    `json:"pressed,omitempty"`
	Horizontal bool    `json:"horizontal,omitempty"`
	Delta      float64 `json:"delta,omitempty"`
}

type PointerData struct {
	Consumed bool   `json:"consumed"`
	State    string `json:"state"`
}

type KeyPayload struct {
	Keysym    uint32 `json:"keysym"`
	Pressed   bool   `json:"pressed"`
	Modifiers uint32 `json:"modifiers,omitempty"`
}

type KeyData struct {
	Consumed bool `json:"consumed"`
}

type ActionPayload struct {
	Action compositor.Action `json:"action"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
