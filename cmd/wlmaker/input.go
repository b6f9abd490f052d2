package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/1broseidon/wlmaker/internal/compositor"
	"github.com/1broseidon/wlmaker/internal/ipc"
)

func printPointerUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  wlmaker pointer motion <x> <y>")
	fmt.Fprintln(os.Stderr, "  wlmaker pointer button <left|right|middle|code> <down|up>")
	fmt.Fprintln(os.Stderr, "  wlmaker pointer click [left|right|middle|code]")
	fmt.Fprintln(os.Stderr, "  wlmaker pointer axis [--horizontal] <delta>")
}

func runPointer(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printPointerUsage()
		return 2
	}

	p := ipc.PointerPayload{Op: args[0]}
	rest := args[1:]
	switch args[0] {
	case ipc.PointerMotion:
		if len(rest) != 2 {
			fmt.Fprintln(os.Stderr, "motion requires <x> <y>")
			return 2
		}
		x, err1 := strconv.ParseFloat(rest[0], 64)
		y, err2 := strconv.ParseFloat(rest[1], 64)
		if err1 != nil || err2 != nil {
			fmt.Fprintf(os.Stderr, "motion: invalid coordinates %q %q\n", rest[0], rest[1])
			return 2
		}
		p.X, p.Y = x, y
	case ipc.PointerButton:
		if len(rest) != 2 {
			fmt.Fprintln(os.Stderr, "button requires <button> <down|up>")
			return 2
		}
		if _, err := ipc.ParseButton(rest[0]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		p.Button = rest[0]
		switch rest[1] {
		case "down", "press":
			p.Pressed = true
		case "up", "release":
		default:
			fmt.Fprintf(os.Stderr, "button: expected down or up, got %q\n", rest[1])
			return 2
		}
	case ipc.PointerClick:
		if len(rest) > 1 {
			fmt.Fprintln(os.Stderr, "click takes at most one button")
			return 2
		}
		if len(rest) == 1 {
			if _, err := ipc.ParseButton(rest[0]); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 2
			}
			p.Button = rest[0]
		}
	case ipc.PointerAxis:
		fs := flag.NewFlagSet("axis", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		horizontal := fs.Bool("horizontal", false, "Scroll horizontally")
		if err := fs.Parse(rest); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "axis requires <delta>")
			return 2
		}
		delta, err := strconv.ParseFloat(fs.Arg(0), 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "axis: invalid delta %q\n", fs.Arg(0))
			return 2
		}
		p.Horizontal = *horizontal
		p.Delta = delta
	default:
		fmt.Fprintf(os.Stderr, "Unknown pointer subcommand: %s\n", args[0])
		printPointerUsage()
		return 2
	}

	data, err := ipc.NewClient().Pointer(p)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("consumed: %v\nstate: %s\n", data.Consumed, data.State)
	return 0
}

func runKey(args []string) int {
	fs := flag.NewFlagSet("key", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	release := fs.Bool("release", false, "Send a key release instead of a press")
	mods := fs.Uint("mods", 0, "Modifier mask")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wlmaker key [--release] [--mods N] <keysym>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "The keysym is numeric, e.g. 0xff1b for Escape.")
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
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	keysym, err := strconv.ParseUint(fs.Arg(0), 0, 32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid keysym %q\n", fs.Arg(0))
		return 2
	}

	data, err := ipc.NewClient().Key(ipc.KeyPayload{
		Keysym:    uint32(keysym),
		Pressed:   !*release,
		Modifiers: uint32(*mods),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("consumed: %v\n", data.Consumed)
	return 0
}

func runLock(args []string, cmd string) int {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	if ok, rc := parseNoArgs(fs, args, "wlmaker "+cmd); !ok {
		return rc
	}

	client := ipc.NewClient()
	var err error
	switch cmd {
	case "lock":
		err = client.Lock()
	case "unlock":
		err = client.Unlock()
	case "drop-lock":
		err = client.DropLock()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runAction(args []string) int {
	if len(args) != 1 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  wlmaker action list")
		fmt.Fprintln(os.Stderr, "  wlmaker action <name>")
		return 2
	}

	client := ipc.NewClient()
	if args[0] == "list" {
		data, err := client.ListActions()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		for _, a := range data.Actions {
			fmt.Println(a)
		}
		return 0
	}

	if err := client.RunAction(compositor.Action(args[0])); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
