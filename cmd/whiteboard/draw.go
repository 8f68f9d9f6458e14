package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/whiteboard/internal/export"
	"github.com/example/whiteboard/internal/script"
	"github.com/example/whiteboard/internal/session"
)

// commandList collects repeated -e flags.
type commandList []string

func (c *commandList) String() string { return strings.Join(*c, "; ") }

func (c *commandList) Set(v string) error {
	*c = append(*c, v)
	return nil
}

// drawCmd replays a drawing script against a fresh board.
type drawCmd struct {
	*root
	fs     *flag.FlagSet
	execs  commandList
	output string
	dir    string
	width  int
	height int
	script string
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := newFlagSet(r, "draw")
	cmd := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.Var(&cmd.execs, "e", "execute a command before the script (may be specified multiple times)")
	fs.StringVar(&cmd.output, "o", "", "write the final board to this file (.png or .pdf)")
	fs.StringVar(&cmd.dir, "dir", "", "directory for save commands (default from config)")
	fs.IntVar(&cmd.width, "width", 0, "canvas width in pixels (default from config)")
	fs.IntVar(&cmd.height, "height", 0, "canvas height in pixels (default from config)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch fs.NArg() {
	case 0:
		if len(cmd.execs) == 0 {
			return nil, &UsageError{of: cmd}
		}
	case 1:
		cmd.script = fs.Arg(0)
	default:
		return nil, &UsageError{of: cmd}
	}
	if cmd.output != "" {
		if _, err := outputFormat(cmd.output); err != nil {
			return nil, err
		}
	}
	return cmd, nil
}

// outputFormat picks the export format from a file extension.
func outputFormat(path string) (export.Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("output %q needs a .png or .pdf extension", path)
	}
	return export.ParseFormat(ext)
}

func (c *drawCmd) Run() error {
	sess, err := c.newSession(sessionOptions{width: c.width, height: c.height, exportDir: c.dir})
	if err != nil {
		return err
	}
	in := script.New(sess, c.stdout)
	for _, line := range c.execs {
		if err := in.Exec(line); err != nil {
			if errors.Is(err, script.ErrQuit) {
				return c.writeOutput(sess)
			}
			return err
		}
	}
	if c.script != "" {
		var r io.Reader = c.stdin
		if c.script != "-" {
			f, err := os.Open(c.script)
			if err != nil {
				return fmt.Errorf("open script: %w", err)
			}
			defer f.Close()
			r = f
		}
		if err := in.Run(r); err != nil {
			return fmt.Errorf("%s: %w", c.script, err)
		}
	}
	sess.Board().PointerUp()
	return c.writeOutput(sess)
}

func (c *drawCmd) writeOutput(sess *session.Session) error {
	if c.output == "" {
		return nil
	}
	format, err := outputFormat(c.output)
	if err != nil {
		return err
	}
	_, _, data, err := sess.Export(format)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := os.WriteFile(c.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c.output, err)
	}
	fmt.Fprintf(c.stdout, "wrote %s\n", c.output)
	return nil
}

func (c *drawCmd) Program() string        { return c.fs.Name() }
func (c *drawCmd) FlagSet() *flag.FlagSet { return c.fs }
func (c *drawCmd) Template() string       { return "draw.txt" }
