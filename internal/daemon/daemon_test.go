package daemon

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/1broseidon/wlmaker/internal/compositor"
	"github.com/1broseidon/wlmaker/internal/config"
	"github.com/1broseidon/wlmaker/internal/ipc"
	"github.com/1broseidon/wlmaker/internal/platform"
	"github.com/1broseidon/wlmaker/internal/wlmtk"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startLoop(t *testing.T) *Loop {
	t.Helper()
	c, err := compositor.New(config.DefaultConfig(), compositor.WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("compositor: %v", err)
	}
	l := NewLoop(c, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Serve(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		c.Close()
	})
	return l
}

func TestLoop_DoReturnsResult(t *testing.T) {
	l := startLoop(t)

	v, err := l.Do(func(c *compositor.Compositor) (any, error) {
		return c.Status().Workspace, nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if v != "Main" {
		t.Fatalf("Do = %v, want Main", v)
	}

	want := errors.New("boom")
	if _, err := l.Do(func(*compositor.Compositor) (any, error) { return nil, want }); !errors.Is(err, want) {
		t.Fatalf("Do error = %v, want %v", err, want)
	}
}

func TestLoop_PanicBecomesError(t *testing.T) {
	l := startLoop(t)

	_, err := l.Do(func(*compositor.Compositor) (any, error) { panic("bad") })
	if err == nil || !strings.Contains(err.Error(), "bad") {
		t.Fatalf("expected panic error, got %v", err)
	}

	// The loop keeps serving after a panic.
	if _, err := l.Do(func(*compositor.Compositor) (any, error) { return nil, nil }); err != nil {
		t.Fatalf("Do after panic: %v", err)
	}
}

func TestLoop_ClosedRejectsWork(t *testing.T) {
	l := startLoop(t)
	l.Close()

	if _, err := l.Do(func(*compositor.Compositor) (any, error) { return nil, nil }); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if l.Post(func(*compositor.Compositor) {}) {
		t.Fatal("expected Post to fail after Close")
	}
}

type fakePublisher struct {
	*platform.HeadlessBackend
	published atomic.Int32
	names     []string
	current   int
}

func (p *fakePublisher) PublishDesktops(names []string, current int) error {
	p.published.Add(1)
	p.names = names
	p.current = current
	return nil
}

func TestReconciler_AppliesDisplayChanges(t *testing.T) {
	l := startLoop(t)
	backend := &fakePublisher{HeadlessBackend: platform.NewHeadlessBackend([]platform.Display{
		{Name: "A", Bounds: platform.Rect{Width: 1280, Height: 800}, Usable: platform.Rect{Width: 1280, Height: 800}},
	})}
	r := NewReconciler(ReconcilerConfig{Logger: discardLogger()}, backend, l)

	r.ReconcileNow()
	if backend.published.Load() != 1 {
		t.Fatalf("expected desktops published once, got %d", backend.published.Load())
	}
	if len(backend.names) != 2 || backend.current != 0 {
		t.Fatalf("unexpected desktops %v current %d", backend.names, backend.current)
	}

	// Nothing changed: no second publish.
	r.ReconcileNow()
	if backend.published.Load() != 1 {
		t.Fatalf("expected no republish, got %d", backend.published.Load())
	}

	backend.SetDisplays([]platform.Display{
		{Name: "A", Bounds: platform.Rect{Width: 1920, Height: 1080}, Usable: platform.Rect{Y: 30, Width: 1920, Height: 1050}},
		{Name: "B", Bounds: platform.Rect{X: 1920, Width: 1280, Height: 1024}},
	})
	r.ReconcileNow()

	v, err := l.Do(func(c *compositor.Compositor) (any, error) { return c.Outputs(), nil })
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	outputs := v.([]wlmtk.Output)
	if len(outputs) != 2 {
		t.Fatalf("expected 2 outputs, got %+v", outputs)
	}
	if outputs[0].Box.Y != 30 || outputs[0].Box.Height != 1050 {
		t.Fatalf("expected usable area for A, got %+v", outputs[0].Box)
	}
	if outputs[1].Box.X != 1920 || outputs[1].Box.Width != 1280 {
		t.Fatalf("expected bounds for B, got %+v", outputs[1].Box)
	}

	if _, err := l.Do(func(c *compositor.Compositor) (any, error) { return nil, c.SwitchWorkspace("Other") }); err != nil {
		t.Fatalf("switch: %v", err)
	}
	r.ReconcileNow()
	if backend.published.Load() != 2 || backend.current != 1 {
		t.Fatalf("expected republish with current 1, got %d/%d", backend.published.Load(), backend.current)
	}
}

func TestReconciler_ReconcileNowWhileServing(t *testing.T) {
	l := startLoop(t)
	small := []platform.Display{{Name: "A", Bounds: platform.Rect{Width: 800, Height: 600}}}
	large := []platform.Display{{Name: "A", Bounds: platform.Rect{Width: 1920, Height: 1080}}}
	backend := &fakePublisher{HeadlessBackend: platform.NewHeadlessBackend(small)}
	r := NewReconciler(ReconcilerConfig{Interval: time.Millisecond, Logger: discardLogger()}, backend, l)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Serve(ctx)
		close(done)
	}()

	for i := 0; i < 50; i++ {
		if i%2 == 0 {
			backend.SetDisplays(large)
		} else {
			backend.SetDisplays(small)
		}
		r.ReconcileNow()
	}
	cancel()
	<-done

	backend.SetDisplays(large)
	r.ReconcileNow()
	v, err := l.Do(func(c *compositor.Compositor) (any, error) { return c.Outputs(), nil })
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	outputs := v.([]wlmtk.Output)
	if len(outputs) != 1 || outputs[0].Box.Width != 1920 {
		t.Fatalf("expected the last display layout applied, got %+v", outputs)
	}
	if backend.published.Load() < 1 || len(backend.names) != 2 {
		t.Fatalf("expected desktops published, got %d %v", backend.published.Load(), backend.names)
	}
}

func TestSanitizeError(t *testing.T) {
	ctx := context.Background()
	if err := sanitizeError(ctx, nil); err != nil {
		t.Fatalf("nil error changed to %v", err)
	}
	plain := errors.New("plain")
	if err := sanitizeError(ctx, plain); err != plain {
		t.Fatalf("plain error changed to %v", err)
	}
	err := sanitizeError(ctx, context.Canceled)
	if errors.Is(err, context.Canceled) {
		t.Fatal("a service's own context error must not look like a shutdown")
	}
	err = sanitizeError(ctx, errors.Join(context.Canceled, suture.ErrDoNotRestart))
	if !errors.Is(err, suture.ErrDoNotRestart) {
		t.Fatalf("expected ErrDoNotRestart kept, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := sanitizeError(cancelled, plain); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected ctx error once cancelled, got %v", err)
	}
}

func TestConfigWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: info\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	reloads := make(chan struct{}, 4)
	w := NewConfigWatcher(func() []string { return []string{path} }, func() error {
		reloads <- struct{}{}
		return nil
	}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Serve(ctx)

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	if err := os.WriteFile(path, []byte("log_level: debug\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-reloads:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a reload after writing the config")
	}
	select {
	case <-reloads:
		t.Fatal("expected writes to be debounced into one reload")
	case <-time.After(2 * watchDebounce):
	}
}

func TestDaemon_ServesIPCAndReloads(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("backend: headless\nworkspaces:\n  - name: One\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	backend := platform.NewHeadlessBackend([]platform.Display{
		{Name: "HEADLESS-1", Bounds: platform.Rect{Width: 1024, Height: 768}, Usable: platform.Rect{Width: 1024, Height: 768}},
	})
	socket := filepath.Join(dir, "wlmaker.sock")
	d, err := New(Options{ConfigPath: cfgPath, SocketPath: socket, Logger: discardLogger(), Backend: backend})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errC := make(chan error, 1)
	go func() { errC <- d.Run(ctx) }()
	defer func() {
		cancel()
		if err := <-errC; err != nil {
			t.Errorf("Run: %v", err)
		}
	}()

	client := ipc.NewClientWithPath(socket)
	var st *ipc.StatusData
	deadline := time.Now().Add(3 * time.Second)
	for {
		st, err = client.GetStatus()
		if err == nil || time.Now().After(deadline) {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if st.Backend != "headless" || st.Workspace != "One" {
		t.Fatalf("unexpected status %+v", st)
	}
	if len(st.Outputs) != 1 || st.Outputs[0].Box.Width != 1024 {
		t.Fatalf("expected backend display as output, got %+v", st.Outputs)
	}

	if err := os.WriteFile(cfgPath, []byte("backend: headless\nworkspaces:\n  - name: One\n  - name: Two\n"), 0644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := client.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	ws, err := client.ListWorkspaces()
	if err != nil {
		t.Fatalf("ListWorkspaces: %v", err)
	}
	if len(ws.Workspaces) != 2 || ws.Workspaces[1].Name != "Two" {
		t.Fatalf("expected reloaded workspaces, got %+v", ws.Workspaces)
	}

	if err := os.WriteFile(cfgPath, []byte("backend: bogus\n"), 0644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := client.Reload(); err == nil {
		t.Fatal("expected reload of an invalid config to fail")
	}
	if got := d.Config().Workspaces; len(got) != 2 {
		t.Fatalf("expected previous config kept, got %+v", got)
	}
}
