package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/1broseidon/wlmaker/internal/compositor"
	"github.com/1broseidon/wlmaker/internal/ipc"
)

func printWorkspaceUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  wlmaker workspace list [--json]")
	fmt.Fprintln(os.Stderr, "  wlmaker workspace switch <name|index>")
	fmt.Fprintln(os.Stderr, "  wlmaker workspace next")
	fmt.Fprintln(os.Stderr, "  wlmaker workspace prev")
}

func runWorkspace(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printWorkspaceUsage()
		return 2
	}

	client := ipc.NewClient()
	var (
		data *ipc.WorkspacesData
		err  error
	)
	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		asJSON := fs.Bool("json", false, "Print JSON")
		if ok, rc := parseNoArgs(fs, args[1:], "wlmaker workspace list [--json]"); !ok {
			return rc
		}
		data, err = client.ListWorkspaces()
		if err == nil && *asJSON {
			return printJSON(data)
		}
	case "switch":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "switch requires <name|index>")
			return 2
		}
		data, err = client.SwitchWorkspace(args[1])
	case "next":
		data, err = client.StepWorkspace("next")
	case "prev", "previous":
		data, err = client.StepWorkspace("previous")
	default:
		fmt.Fprintf(os.Stderr, "Unknown workspace subcommand: %s\n", args[0])
		printWorkspaceUsage()
		return 2
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	for _, ws := range data.Workspaces {
		mark := " "
		if ws.Current {
			mark = "*"
		}
		fmt.Printf("%s %d  %-16s %d windows\n", mark, ws.Index, ws.Name, ws.Windows)
	}
	return 0
}

func runOutputs(args []string) int {
	fs := flag.NewFlagSet("outputs", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "Print JSON")
	if ok, rc := parseNoArgs(fs, args, "wlmaker outputs [--json]"); !ok {
		return rc
	}
	data, err := ipc.NewClient().GetOutputs()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(data)
	}
	for _, o := range data.Outputs {
		fmt.Printf("%-16s box %-20s usable %s\n", o.Name, formatRect(o.Box), formatRect(o.Usable))
	}
	return 0
}

func runPanels(args []string) int {
	fs := flag.NewFlagSet("panels", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "Print JSON")
	if ok, rc := parseNoArgs(fs, args, "wlmaker panels [--json]"); !ok {
		return rc
	}
	data, err := ipc.NewClient().ListPanels()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(data)
	}
	for _, p := range data.Panels {
		out := p.Output
		if !p.Attached {
			out = "(detached)"
		}
		fmt.Printf("%-12s %-10s %-12s %-16s %s\n", p.Name, p.Layer, p.Workspace, out, formatRect(p.Box))
	}
	return 0
}

func formatRect(r compositor.Rect) string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

func printWindowUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  wlmaker window list [--json]")
	fmt.Fprintln(os.Stderr, "  wlmaker window show <ref>")
	fmt.Fprintln(os.Stderr, "  wlmaker window create [--title T] [--width W] [--height H] [--x X] [--y Y]")
	fmt.Fprintln(os.Stderr, "                        [--workspace WS] [--output NAME] [--undecorated] [--properties P,...]")
	fmt.Fprintln(os.Stderr, "  wlmaker window close [--force] <ref>")
	fmt.Fprintln(os.Stderr, "  wlmaker window move <ref> <x> <y>")
	fmt.Fprintln(os.Stderr, "  wlmaker window resize <ref> <width> <height>")
	fmt.Fprintln(os.Stderr, "  wlmaker window title <ref> <text>")
	fmt.Fprintln(os.Stderr, "  wlmaker window send <ref> <workspace>")
	fmt.Fprintln(os.Stderr, "  wlmaker window <op> <ref>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintf(os.Stderr, "Ops: %s\n", strings.Join(ipc.WindowOps, ", "))
	fmt.Fprintln(os.Stderr, "A <ref> is \"active\", a window id or a unique id prefix.")
}

func runWindow(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printWindowUsage()
		return 2
	}
	switch args[0] {
	case "list":
		return runWindowList(args[1:])
	case "show":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "show requires <ref>")
			return 2
		}
		info, err := ipc.NewClient().GetWindow(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return printJSON(info)
	case "create":
		return runWindowCreate(args[1:])
	}
	return runWindowOp(args[0], args[1:])
}

func runWindowList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "Print JSON")
	if ok, rc := parseNoArgs(fs, args, "wlmaker window list [--json]"); !ok {
		return rc
	}
	data, err := ipc.NewClient().ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(data)
	}
	for _, w := range data.Windows {
		mark := " "
		if w.Activated {
			mark = "*"
		}
		fmt.Printf("%s %s  %-12s %-20s %s\n", mark, shortID(w.ID), w.Workspace, formatRect(w.Box), w.Title)
	}
	return 0
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// intFlag records an optional integer flag; nil means unset.
func intFlag(fs *flag.FlagSet, name, usage string) **int {
	var target *int
	fs.Func(name, usage, func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		target = &n
		return nil
	})
	return &target
}

func runWindowCreate(args []string) int {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	title := fs.String("title", "", "Window title")
	width := fs.Int("width", 0, "Content width (default from config)")
	height := fs.Int("height", 0, "Content height (default from config)")
	x := intFlag(fs, "x", "Left edge (default: cascade)")
	y := intFlag(fs, "y", "Top edge (default: cascade)")
	workspace := fs.String("workspace", "", "Workspace name or index (default: current)")
	output := fs.String("output", "", "Output to place the window on")
	undecorated := fs.Bool("undecorated", false, "Create without server-side decorations")
	properties := fs.String("properties", "", "Comma-separated window properties")
	if ok, rc := parseNoArgs(fs, args, "wlmaker window create [options]"); !ok {
		return rc
	}

	opts := compositor.WindowOptions{
		Title:     *title,
		Width:     *width,
		Height:    *height,
		X:         *x,
		Y:         *y,
		Workspace: *workspace,
		Output:    *output,
	}
	if *undecorated {
		decorated := false
		opts.Decorated = &decorated
	}
	if *properties != "" {
		for _, p := range strings.Split(*properties, ",") {
			if p = strings.TrimSpace(p); p != "" {
				opts.Properties = append(opts.Properties, p)
			}
		}
	}

	info, err := ipc.NewClient().CreateWindow(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(info.ID)
	return 0
}

// windowOpArgs lists the positional arguments each op takes after <ref>.
var windowOpArgs = map[string][]string{
	ipc.OpMove:   {"x", "y"},
	ipc.OpResize: {"width", "height"},
	ipc.OpTitle:  {"text"},
	ipc.OpSend:   {"workspace"},
}

func runWindowOp(op string, args []string) int {
	known := false
	for _, o := range ipc.WindowOps {
		if o == op {
			known = true
			break
		}
	}
	if !known {
		fmt.Fprintf(os.Stderr, "Unknown window subcommand: %s\n", op)
		printWindowUsage()
		return 2
	}

	fs := flag.NewFlagSet(op, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	force := false
	if op == ipc.OpClose {
		fs.BoolVar(&force, "force", false, "Close even when the window refuses")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	extra := windowOpArgs[op]
	if fs.NArg() != 1+len(extra) {
		fmt.Fprintf(os.Stderr, "%s requires <ref>", op)
		for _, a := range extra {
			fmt.Fprintf(os.Stderr, " <%s>", a)
		}
		fmt.Fprintln(os.Stderr)
		return 2
	}

	p := ipc.WindowOpPayload{Window: fs.Arg(0), Op: op, Force: force}
	switch op {
	case ipc.OpMove, ipc.OpResize:
		a, err1 := strconv.Atoi(fs.Arg(1))
		b, err2 := strconv.Atoi(fs.Arg(2))
		if err1 != nil || err2 != nil {
			fmt.Fprintf(os.Stderr, "%s: expected integers, got %q %q\n", op, fs.Arg(1), fs.Arg(2))
			return 2
		}
		if op == ipc.OpMove {
			p.X, p.Y = a, b
		} else {
			p.Width, p.Height = a, b
		}
	case ipc.OpTitle:
		p.Title = fs.Arg(1)
	case ipc.OpSend:
		p.Workspace = fs.Arg(1)
	}

	info, err := ipc.NewClient().WindowOp(p)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if op != ipc.OpClose {
		fmt.Printf("%s %s\n", shortID(info.ID), formatRect(info.Box))
	}
	return 0
}
