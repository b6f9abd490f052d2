package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/wlmaker/internal/compositor"
	"github.com/1broseidon/wlmaker/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithPath(socketPath)
}

// NewClientWithPath creates a client for an explicit socket path.
func NewClientWithPath(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends cmd with an optional payload and decodes the response data
// into a T.
func call[T any](c *Client, cmd CommandType, payload any) (*T, error) {
	req := &Request{Command: cmd}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = raw
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var out T
	if len(resp.Data) == 0 {
		return &out, nil
	}
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return &out, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	return call[StatusData](c, CommandGetStatus, nil)
}

func (c *Client) GetOutputs() (*OutputsData, error) {
	return call[OutputsData](c, CommandGetOutputs, nil)
}

func (c *Client) ListPanels() (*PanelsData, error) {
	return call[PanelsData](c, CommandListPanels, nil)
}

func (c *Client) ListWorkspaces() (*WorkspacesData, error) {
	return call[WorkspacesData](c, CommandListWorkspaces, nil)
}

// SwitchWorkspace selects a workspace by name or index.
func (c *Client) SwitchWorkspace(ref string) (*WorkspacesData, error) {
	return call[WorkspacesData](c, CommandSwitchWorkspace, SwitchWorkspacePayload{Workspace: ref})
}

// StepWorkspace moves to the "next" or "previous" workspace.
func (c *Client) StepWorkspace(direction string) (*WorkspacesData, error) {
	return call[WorkspacesData](c, CommandSwitchWorkspace, SwitchWorkspacePayload{Direction: direction})
}

func (c *Client) ListWindows() (*WindowsData, error) {
	return call[WindowsData](c, CommandListWindows, nil)
}

func (c *Client) GetWindow(ref string) (*compositor.WindowInfo, error) {
	return call[compositor.WindowInfo](c, CommandGetWindow, WindowRef{Window: ref})
}

func (c *Client) CreateWindow(opts compositor.WindowOptions) (*compositor.WindowInfo, error) {
	return call[compositor.WindowInfo](c, CommandCreateWindow, opts)
}

// WindowOp applies one of WindowOps to a window and returns its new state.
func (c *Client) WindowOp(op WindowOpPayload) (*compositor.WindowInfo, error) {
	return call[compositor.WindowInfo](c, CommandWindowOp, op)
}

func (c *Client) Pointer(p PointerPayload) (*PointerData, error) {
	return call[PointerData](c, CommandPointer, p)
}

func (c *Client) Key(k KeyPayload) (*KeyData, error) {
	return call[KeyData](c, CommandKey, k)
}

func (c *Client) Lock() error {
	_, err := c.sendRequest(&Request{Command: CommandLock})
	return err
}

func (c *Client) Unlock() error {
	_, err := c.sendRequest(&Request{Command: CommandUnlock})
	return err
}

// DropLock simulates the lock holder going away.
func (c *Client) DropLock() error {
	_, err := c.sendRequest(&Request{Command: CommandDropLock})
	return err
}

func (c *Client) ListActions() (*ActionsData, error) {
	return call[ActionsData](c, CommandListActions, nil)
}

func (c *Client) RunAction(action compositor.Action) error {
	_, err := call[struct{}](c, CommandRunAction, ActionPayload{Action: action})
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
