package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/whiteboard/internal/config"
	"github.com/example/whiteboard/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	config      *config.Config
	themeName   string
	renderer    string
	desktop     bool
	saveAlerts  bool
	clearAlerts bool
	undoAlerts  bool
	copyAlerts  bool
	activeTheme *theme.Theme
	stdout      io.Writer
	stdin       io.Reader
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:      flag.NewFlagSet("whiteboard", flag.ExitOnError),
		program: "whiteboard",
		config:  cfg,
		stdout:  os.Stdout,
		stdin:   os.Stdin,
	}
	r.fs.BoolVar(&r.desktop, "notify", cfg.Notify.Desktop, "show desktop notifications")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "announce saved exports")
	r.fs.BoolVar(&r.clearAlerts, "notify-clear", cfg.Notify.Clear, "announce cleared canvases")
	r.fs.BoolVar(&r.undoAlerts, "notify-undo", cfg.Notify.Undo, "announce undo results")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "announce clipboard copies")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (light, chalkboard or a .theme file)")
	r.fs.StringVar(&r.renderer, "renderer", "", "drawing backend (raster, gg)")
	r.fs.Usage = usageFunc(r)
	return r
}

// loadTheme resolves the theme from the flag, then the config.
func (r *root) loadTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = r.config.Theme
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		t = theme.Default()
	}
	return t
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	r.activeTheme = r.loadTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "window":
		cmd, err = parseWindowCmd(subArgs, r)
	case "serve":
		cmd, err = parseServeCmd(subArgs, r)
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r)
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "colors":
		cmd, err = parseColorsCmd(subArgs, r)
	case "widths":
		cmd, err = parseWidthsCmd(subArgs, r)
	case "tools":
		cmd, err = parseToolsCmd(subArgs, r)
	case "themes":
		cmd, err = parseThemesCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
