package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/1broseidon/winstate/internal/ipc"
)

func printWindowUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  winstate window open [flags]")
	fmt.Fprintln(w, "  winstate window list")
	fmt.Fprintln(w, "  winstate window get <id>")
	fmt.Fprintln(w, "  winstate window update <id> [flags]")
	fmt.Fprintln(w, "  winstate window close <id>")
	fmt.Fprintln(w, "  winstate window command <id> <action>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'winstate window <command> --help' for command-specific options.")
}

func runWindow(args []string) int {
	if len(args) == 0 {
		printWindowUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printWindowUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "open":
		return runWindowOpen(client, args[1:])
	case "list":
		return runWindowList(client, args[1:])
	case "get":
		return runWindowGet(client, args[1:])
	case "update":
		return runWindowUpdate(client, args[1:])
	case "close":
		return runWindowClose(client, args[1:])
	case "command":
		return runWindowCommand(client, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown window command: %s\n\n", args[0])
		printWindowUsage(os.Stderr)
		return 2
	}
}

// updateFlags registers the shared desired-state flags and returns a builder
// that collects only the flags the user actually set.
func updateFlags(fs *flag.FlagSet) func() ipc.WindowUpdate {
	title := fs.String("title", "", "Window title")
	mode := fs.String("mode", "", "Window mode: windowed, borderless, fullscreen, sized_fullscreen")
	width := fs.Float64("width", 0, "Logical width")
	height := fs.Float64("height", 0, "Logical height")
	x := fs.Int("x", 0, "Outer X position in pixels (with --y)")
	y := fs.Int("y", 0, "Outer Y position in pixels (with --x)")
	decorations := fs.Bool("decorations", true, "Window decorations")
	resizable := fs.Bool("resizable", true, "User resizing")
	visible := fs.Bool("visible", true, "Window visibility")
	level := fs.String("level", "", "Stacking level: normal, always_on_top, always_on_bottom")
	theme := fs.String("theme", "", "Theme: system, light, dark")
	class := fs.String("class", "", "Window class")
	cursorVisible := fs.Bool("cursor-visible", true, "Cursor visibility")
	cursorGrab := fs.String("cursor-grab", "", "Cursor grab: none, confined, locked")

	return func() ipc.WindowUpdate {
		var u ipc.WindowUpdate
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "title":
				u.Title = title
			case "mode":
				u.Mode = mode
			case "width":
				u.Width = width
			case "height":
				u.Height = height
			case "x":
				u.X = x
			case "y":
				u.Y = y
			case "decorations":
				u.Decorations = decorations
			case "resizable":
				u.Resizable = resizable
			case "visible":
				u.Visible = visible
			case "level":
				u.Level = level
			case "theme":
				u.Theme = theme
			case "class":
				u.Class = class
			case "cursor-visible":
				u.CursorVisible = cursorVisible
			case "cursor-grab":
				u.CursorGrab = cursorGrab
			}
		})
		return u
	}
}

func runWindowOpen(client *ipc.Client, args []string) int {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winstate window open [flags]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open a new managed window. Unset flags keep their defaults.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	build := updateFlags(fs)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "window open takes no arguments")
		fs.Usage()
		return 2
	}

	id, err := client.OpenWindow(build())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("id: %d\n", id)
	return 0
}

func runWindowList(client *ipc.Client, args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stdout, "Usage: winstate window list")
		return 0
	}
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "window list takes no arguments")
		return 2
	}

	data, err := client.ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, w := range data.Windows {
		fmt.Printf("%d: %q %s %dx%d visible=%v\n", w.ID, w.Title, w.Mode, w.Width, w.Height, w.Visible)
	}
	return 0
}

func parseWindowID(fs *flag.FlagSet, name string) (uint64, bool) {
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "window %s requires <id>\n", name)
		fs.Usage()
		return 0, false
	}
	id, err := strconv.ParseUint(fs.Arg(0), 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid window id %q\n", fs.Arg(0))
		return 0, false
	}
	return id, true
}

func runWindowGet(client *ipc.Client, args []string) int {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winstate window get <id>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the desired state of a window and, when the daemon has")
		fmt.Fprintln(os.Stderr, "synchronized it, the last state applied to the native window.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	id, ok := parseWindowID(fs, "get")
	if !ok {
		return 2
	}

	info, err := client.GetWindow(id)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("id:      %d\n", info.ID)
	fmt.Printf("title:   %q\n", info.Title)
	fmt.Printf("mode:    %s\n", info.Mode)
	fmt.Printf("size:    %dx%d (scale %.2f)\n", info.Width, info.Height, info.ScaleFactor)
	fmt.Printf("class:   %s\n", info.Class)
	fmt.Printf("visible: %v\n", info.Visible)
	fmt.Printf("focused: %v\n", info.Focused)
	if info.Synced != nil {
		fmt.Printf("synced:  %q %s %dx%d\n", info.Synced.Title, info.Synced.Mode, info.Synced.Width, info.Synced.Height)
	} else {
		fmt.Println("synced:  (not yet created)")
	}
	return 0
}

func runWindowUpdate(client *ipc.Client, args []string) int {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winstate window update <id> [flags]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Update the desired state of a window. Only the flags given change;")
		fmt.Fprintln(os.Stderr, "the daemon applies the difference on its next cycle.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	build := updateFlags(fs)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	id, ok := parseWindowID(fs, "update")
	if !ok {
		return 2
	}

	if err := client.UpdateWindow(id, build()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runWindowClose(client *ipc.Client, args []string) int {
	fs := flag.NewFlagSet("close", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winstate window close <id>")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	id, ok := parseWindowID(fs, "close")
	if !ok {
		return 2
	}

	if err := client.CloseWindow(id); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runWindowCommand(client *ipc.Client, args []string) int {
	fs := flag.NewFlagSet("command", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winstate window command <id> <action>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Actions: maximize, unmaximize, minimize, restore, focus")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	id, ok := parseWindowID(fs, "command")
	if !ok {
		return 2
	}
	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "window command requires <action>")
		fs.Usage()
		return 2
	}

	if err := client.CommandWindow(id, fs.Arg(1)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
