package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/example/whiteboard/internal/script"
)

type interactiveCmd struct {
	*root
	fs     *flag.FlagSet
	execs  commandList
	width  int
	height int
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := newFlagSet(r, "interactive")
	cmd := &interactiveCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.Var(&cmd.execs, "e", "execute a command before the prompt (may be specified multiple times)")
	fs.IntVar(&cmd.width, "width", 0, "canvas width in pixels (default from config)")
	fs.IntVar(&cmd.height, "height", 0, "canvas height in pixels (default from config)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *interactiveCmd) Run() error {
	sess, err := c.newSession(sessionOptions{width: c.width, height: c.height})
	if err != nil {
		return err
	}
	in := script.New(sess, c.stdout)
	defer sess.Board().PointerUp()

	for _, line := range c.execs {
		if err := in.Exec(line); err != nil {
			if errors.Is(err, script.ErrQuit) {
				return nil
			}
			fmt.Fprintln(os.Stderr, err)
		}
	}

	fmt.Fprintln(c.stdout, "Enter commands (type 'help' for a list, 'exit' to quit)")
	scanner := bufio.NewScanner(c.stdin)
	for {
		fmt.Fprint(c.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		if err := in.Exec(scanner.Text()); err != nil {
			if errors.Is(err, script.ErrQuit) {
				return nil
			}
			fmt.Fprintln(os.Stderr, err)
		}
	}
	return scanner.Err()
}

func (c *interactiveCmd) Program() string        { return c.fs.Name() }
func (c *interactiveCmd) FlagSet() *flag.FlagSet { return c.fs }
func (c *interactiveCmd) Template() string       { return "interactive.txt" }
