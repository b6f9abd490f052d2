package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/phsym/console-slog"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/wlmaker/internal/config"
	"github.com/1broseidon/wlmaker/internal/daemon"
	"github.com/1broseidon/wlmaker/internal/ipc"
	"github.com/1broseidon/wlmaker/internal/tui"
)

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}
	os.Exit(run(os.Args[1], os.Args[2:]))
}

func run(cmd string, args []string) int {
	switch cmd {
	case "daemon":
		return runDaemon(args)
	case "status":
		return runStatus(args)
	case "outputs":
		return runOutputs(args)
	case "panels":
		return runPanels(args)
	case "workspace":
		return runWorkspace(args)
	case "window":
		return runWindow(args)
	case "pointer":
		return runPointer(args)
	case "key":
		return runKey(args)
	case "lock":
		return runLock(args, "lock")
	case "unlock":
		return runLock(args, "unlock")
	case "drop-lock":
		return runLock(args, "drop-lock")
	case "action":
		return runAction(args)
	case "reload":
		return runReload(args)
	case "config":
		return runConfig(args)
	case "tui":
		return runTUI(args)
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printMainUsage(os.Stderr)
		return 2
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wlmaker <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the wlmaker daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  outputs             List outputs and their usable areas")
	fmt.Fprintln(w, "  panels              List layer panels")
	fmt.Fprintln(w, "  reload              Reload the daemon configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  workspace list      List workspaces")
	fmt.Fprintln(w, "  workspace switch    Switch to a workspace by name or index")
	fmt.Fprintln(w, "  workspace next      Switch to the next workspace")
	fmt.Fprintln(w, "  workspace prev      Switch to the previous workspace")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  window list         List windows")
	fmt.Fprintln(w, "  window show         Show one window")
	fmt.Fprintln(w, "  window create       Create a window")
	fmt.Fprintln(w, "  window <op>         close, activate, move, resize, maximize, fullscreen, ...")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  pointer             Inject pointer motion, buttons and scrolling")
	fmt.Fprintln(w, "  key                 Inject a key event")
	fmt.Fprintln(w, "  lock                Lock the session")
	fmt.Fprintln(w, "  unlock              Unlock the session")
	fmt.Fprintln(w, "  drop-lock           Drop the lock surface; the session stays locked")
	fmt.Fprintln(w, "  action              List or run a named action")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open interactive inspector")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'wlmaker <command> --help' for command-specific options.")
}

func newLogger(level slog.Leveler) *slog.Logger {
	return slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level:   level,
		NoColor: !term.IsTerminal(int(os.Stderr.Fd())),
	}))
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/wlmaker/config.yaml)")
	socket := fs.String("socket", "", "IPC socket path (default: $XDG_RUNTIME_DIR/wlmaker.sock)")
	debug := fs.Bool("debug", false, "Enable debug logging")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wlmaker daemon [--path PATH] [--socket PATH] [--debug]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the compositor daemon in the foreground.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	level := new(slog.LevelVar)
	if *debug {
		level.Set(slog.LevelDebug)
	}
	logger := newLogger(level)
	slog.SetDefault(logger)

	d, err := daemon.New(daemon.Options{
		ConfigPath: *path,
		SocketPath: *socket,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to start daemon", "error", err)
		return 1
	}
	if !*debug {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(d.Config().LogLevel)); err == nil {
			level.Set(lvl)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := d.Run(ctx); err != nil {
		logger.Error("daemon failed", "error", err)
		return 1
	}
	return 0
}

// parseNoArgs parses flags for commands without positional arguments.
func parseNoArgs(fs *flag.FlagSet, args []string, usage string) (ok bool, rc int) {
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: "+usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return false, 0
		}
		return false, 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", fs.Name())
		fs.Usage()
		return false, 2
	}
	return true, 0
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "Print JSON")
	if ok, rc := parseNoArgs(fs, args, "wlmaker status [--json]"); !ok {
		return rc
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(status)
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("backend:        %s\n", status.Backend)
	fmt.Printf("workspace:      %s\n", status.Workspace)
	fmt.Printf("workspaces:     %d\n", len(status.Workspaces))
	fmt.Printf("outputs:        %d\n", len(status.Outputs))
	fmt.Printf("windows:        %d\n", status.Windows)
	fmt.Printf("panels:         %d\n", status.Panels)
	fmt.Printf("locked:         %v\n", status.Locked)
	fmt.Printf("buffer_cache:   %d hits, %d misses\n", status.BufferHits, status.BufferMisses)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	if ok, rc := parseNoArgs(fs, args, "wlmaker reload"); !ok {
		return rc
	}
	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config reloaded")
	return 0
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  wlmaker config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  wlmaker config print [--path PATH] [--defaults]")
		fmt.Fprintln(os.Stderr, "  wlmaker config explain [--path PATH] <yaml.path>")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/wlmaker/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/wlmaker/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			for _, f := range res.Files {
				fmt.Printf("# loaded: %s\n", f)
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/wlmaker/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: wlmaker tui")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive inspector for the running daemon.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  tab, 1-3   Switch between windows, workspaces and outputs")
		fmt.Fprintln(os.Stderr, "  j/k, ↑/↓   Navigate")
		fmt.Fprintln(os.Stderr, "  Enter      Activate window / switch workspace")
		fmt.Fprintln(os.Stderr, "  n          Create a window")
		fmt.Fprintln(os.Stderr, "  m/f/s      Toggle maximize / fullscreen / shade")
		fmt.Fprintln(os.Stderr, "  i/r        Minimize / restore")
		fmt.Fprintln(os.Stderr, "  x          Close window")
		fmt.Fprintln(os.Stderr, "  R          Reload daemon config")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C  Quit")
		return 0
	}
	if ok, rc := parseNoArgs(fs, args, "wlmaker tui"); !ok {
		return rc
	}

	if err := tui.Run(ipc.NewClient()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
