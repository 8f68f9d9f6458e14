package main

import (
	"flag"

	"github.com/example/whiteboard/internal/appstate"
)

// Canvas size used by the window when the configuration leaves it unset.
const (
	defaultWindowWidth  = 1024
	defaultWindowHeight = 768
)

type windowCmd struct {
	*root
	fs     *flag.FlagSet
	width  int
	height int
	title  string
}

func newFlagSet(r *root, name string) *flag.FlagSet {
	program := "whiteboard"
	if r != nil {
		program = r.program
	}
	return flag.NewFlagSet(program+" "+name, flag.ExitOnError)
}

func parseWindowCmd(args []string, r *root) (*windowCmd, error) {
	fs := newFlagSet(r, "window")
	cmd := &windowCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.IntVar(&cmd.width, "width", 0, "canvas width in pixels (default from config)")
	fs.IntVar(&cmd.height, "height", 0, "canvas height in pixels (default from config)")
	fs.StringVar(&cmd.title, "title", "", "window title")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *windowCmd) Run() error {
	o := sessionOptions{width: c.width, height: c.height}
	if o.width <= 0 && c.config.Board.Width <= 0 {
		o.width = defaultWindowWidth
	}
	if o.height <= 0 && c.config.Board.Height <= 0 {
		o.height = defaultWindowHeight
	}
	sess, err := c.newSession(o)
	if err != nil {
		return err
	}
	opts := []appstate.Option{appstate.WithTheme(c.activeTheme)}
	if c.title != "" {
		opts = append(opts, appstate.WithTitle(c.title))
	}
	appstate.New(sess, opts...).Run()
	return nil
}

func (c *windowCmd) Program() string        { return c.fs.Name() }
func (c *windowCmd) FlagSet() *flag.FlagSet { return c.fs }
func (c *windowCmd) Template() string       { return "window.txt" }
