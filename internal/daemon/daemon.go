package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/1broseidon/wlmaker/internal/compositor"
	"github.com/1broseidon/wlmaker/internal/config"
	"github.com/1broseidon/wlmaker/internal/hotkeys"
	"github.com/1broseidon/wlmaker/internal/ipc"
	"github.com/1broseidon/wlmaker/internal/platform"
	"github.com/1broseidon/wlmaker/internal/runtimepath"
)

// Options configure a Daemon. Zero values select the defaults.
type Options struct {
	ConfigPath string
	SocketPath string
	Logger     *slog.Logger
	// Backend replaces the backend selected by the config.
	Backend platform.Backend
}

// Daemon wires the compositor to its backend, the IPC server, hotkeys,
// the output reconciler and the config watcher.
type Daemon struct {
	configPath string
	logger     *slog.Logger
	backend    platform.Backend
	comp       *compositor.Compositor
	loop       *Loop
	server     *ipc.Server
	reconciler *Reconciler
	watcher    *ConfigWatcher
	hotkeys    *hotkeys.Handler

	mu    sync.Mutex
	cfg   *config.Config
	files []string
}

type eventLooper interface {
	EventLoop()
}

func New(opts Options) (*Daemon, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	path := opts.ConfigPath
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := res.Config

	backend := opts.Backend
	if backend == nil {
		backend, err = platform.Open(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open backend: %w", err)
		}
	}

	comp, err := compositor.New(cfg, compositor.WithLogger(logger.With("component", "compositor")))
	if err != nil {
		backend.Close()
		return nil, err
	}
	if displays, err := backend.Displays(); err != nil {
		logger.Warn("failed to query displays, using configured outputs", "error", err)
	} else if outputs := OutputsFromDisplays(displays); len(outputs) > 0 {
		comp.SetOutputs(outputs)
	}

	d := &Daemon{
		configPath: path,
		logger:     logger,
		backend:    backend,
		comp:       comp,
		cfg:        cfg,
		files:      res.Files,
	}
	d.loop = NewLoop(comp, logger.With("component", "loop"))

	d.server, err = ipc.NewServer(d.loop, ipc.ServerOptions{
		SocketPath: opts.SocketPath,
		Backend:    backend.Name(),
		Reload:     d.Reload,
		Logger:     logger,
	})
	if err != nil {
		comp.Close()
		backend.Close()
		return nil, err
	}

	d.reconciler = NewReconciler(ReconcilerConfig{
		Interval: time.Duration(cfg.ReconcileIntervalMS) * time.Millisecond,
		Logger:   logger.With("component", "reconciler"),
	}, backend, d.loop)
	d.watcher = NewConfigWatcher(d.watchedFiles, d.Reload, logger.With("component", "watcher"))

	d.hotkeys = hotkeys.NewHandler(backend, d.dispatchAction, logger.With("component", "hotkeys"))
	if d.hotkeys != nil {
		n := d.hotkeys.RegisterAll(cfg.Hotkeys)
		logger.Info("hotkeys registered", "count", n)
	}

	return d, nil
}

// Loop returns the event loop that owns the compositor.
func (d *Daemon) Loop() *Loop {
	return d.loop
}

// SocketPath returns the IPC socket the daemon listens on.
func (d *Daemon) SocketPath() string {
	return d.server.SocketPath()
}

// Config returns the config currently applied.
func (d *Daemon) Config() *config.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

func (d *Daemon) dispatchAction(a compositor.Action) {
	d.loop.Post(func(c *compositor.Compositor) {
		if err := c.RunAction(a); err != nil {
			d.logger.Warn("action failed", "action", a, "error", err)
		}
	})
}

func (d *Daemon) watchedFiles() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	files := append([]string{d.configPath}, d.files...)
	return files
}

// Reload re-reads the config file and applies it. An invalid config is
// rejected and the running one kept.
func (d *Daemon) Reload() error {
	res, err := config.LoadFromPath(d.configPath)
	if err != nil {
		return err
	}
	if _, err := d.loop.Do(func(c *compositor.Compositor) (any, error) {
		return nil, c.ApplyConfig(res.Config)
	}); err != nil {
		return err
	}

	d.mu.Lock()
	d.cfg = res.Config
	d.files = res.Files
	d.mu.Unlock()

	if d.hotkeys != nil {
		d.hotkeys.UnregisterAll()
		d.hotkeys.RegisterAll(res.Config.Hotkeys)
	}
	d.reconciler.ReconcileNow()
	d.logger.Info("config reloaded", "path", d.configPath)
	return nil
}

// Run serves until ctx is cancelled, then shuts everything down.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.server.Start(); err != nil {
		return err
	}
	defer d.server.Stop()

	if pidPath, err := runtimepath.PIDPath(); err == nil {
		if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())+"\n"), 0600); err != nil {
			d.logger.Warn("failed to write pid file", "path", pidPath, "error", err)
		} else {
			defer os.Remove(pidPath)
		}
	}

	super := newSupervisor(d.logger)
	addService(super, d.loop)
	addService(super, d.reconciler)
	addService(super, d.watcher)
	if el, ok := d.backend.(eventLooper); ok {
		addService(super, newServiceFunc("x11-events", func(ctx context.Context) error {
			done := make(chan struct{})
			go func() {
				el.EventLoop()
				close(done)
			}()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-done:
				return errors.New("x11 event loop exited")
			}
		}))
	}

	d.logger.Info("wlmaker daemon started",
		"backend", d.backend.Name(),
		"socket", d.server.SocketPath(),
		"config", d.configPath)

	err := super.Serve(ctx)
	d.shutdown()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (d *Daemon) shutdown() {
	d.loop.Close()
	if d.hotkeys != nil {
		d.hotkeys.UnregisterAll()
	}
	d.comp.Close()
	d.backend.Close()
	d.logger.Info("wlmaker daemon stopped")
}
