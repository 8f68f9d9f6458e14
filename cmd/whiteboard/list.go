package main

import (
	"flag"
	"fmt"
	"image/color"

	"github.com/example/whiteboard/internal/board"
	"github.com/example/whiteboard/internal/theme"
)

// listCmd prints one of the fixed choice lists.
type listCmd struct {
	*root
	fs       *flag.FlagSet
	template string
	run      func(c *listCmd) error
}

func parseListCmd(args []string, r *root, name string, run func(c *listCmd) error) (*listCmd, error) {
	fs := newFlagSet(r, name)
	cmd := &listCmd{root: r, fs: fs, template: name + ".txt", run: run}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *listCmd) Run() error             { return c.run(c) }
func (c *listCmd) Program() string        { return c.fs.Name() }
func (c *listCmd) FlagSet() *flag.FlagSet { return c.fs }
func (c *listCmd) Template() string       { return c.template }

func parseColorsCmd(args []string, r *root) (*listCmd, error) {
	return parseListCmd(args, r, "colors", runColors)
}

func parseWidthsCmd(args []string, r *root) (*listCmd, error) {
	return parseListCmd(args, r, "widths", runWidths)
}

func parseToolsCmd(args []string, r *root) (*listCmd, error) {
	return parseListCmd(args, r, "tools", runTools)
}

func parseThemesCmd(args []string, r *root) (*listCmd, error) {
	return parseListCmd(args, r, "themes", runThemes)
}

func marker(selected bool) string {
	if selected {
		return "*"
	}
	return " "
}

func runColors(c *listCmd) error {
	applyPalette(c.activeTheme)
	var current color.RGBA
	if ink, err := board.ParseColor(c.config.Board.Color); err == nil {
		current = ink
		board.EnsurePaletteColor(ink, "")
	}
	palette := board.PaletteColors()
	if len(palette) == 0 {
		fmt.Fprintln(c.stdout, "no colors available")
		return nil
	}
	fmt.Fprintln(c.stdout, "available palette colors (* marks the configured color):")
	for idx, entry := range palette {
		hex := board.HexColor(entry.Color)
		name := entry.Name
		if name == "" {
			name = hex
		}
		block := fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", entry.Color.R, entry.Color.G, entry.Color.B)
		fmt.Fprintf(c.stdout, "%s %2d: %-12s %s %s\n", marker(entry.Color == current), idx, name, hex, block)
	}
	return nil
}

func runWidths(c *listCmd) error {
	fmt.Fprintln(c.stdout, "available stroke widths (* marks the configured width):")
	for _, width := range board.Widths() {
		fmt.Fprintf(c.stdout, "%s %3dpx\n", marker(width == c.config.Board.BrushWidth), width)
	}
	fmt.Fprintf(c.stdout, "any width from %d to %d is accepted\n", board.MinWidth, board.MaxWidth)
	return nil
}

func runTools(c *listCmd) error {
	current, _ := board.ParseTool(c.config.Board.Tool)
	fmt.Fprintln(c.stdout, "available tools (* marks the configured tool):")
	for _, t := range board.Tools() {
		fmt.Fprintf(c.stdout, "%s %s\n", marker(t == current), t)
	}
	return nil
}

func runThemes(c *listCmd) error {
	active := ""
	if c.activeTheme != nil {
		active = c.activeTheme.Name
	}
	names := theme.NewLoader().Names()
	if len(names) == 0 {
		fmt.Fprintln(c.stdout, "no themes available")
		return nil
	}
	fmt.Fprintln(c.stdout, "available themes (* marks the active theme):")
	for _, name := range names {
		fmt.Fprintf(c.stdout, "%s %s\n", marker(name == active), name)
	}
	return nil
}
