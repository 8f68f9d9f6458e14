package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/whiteboard/internal/server"
	"github.com/example/whiteboard/internal/session"
)

type serveCmd struct {
	*root
	fs     *flag.FlagSet
	addr   string
	width  int
	height int
}

func parseServeCmd(args []string, r *root) (*serveCmd, error) {
	fs := newFlagSet(r, "serve")
	cmd := &serveCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	addr := ""
	if r != nil && r.config != nil {
		addr = r.config.Server.Addr
	}
	fs.StringVar(&cmd.addr, "addr", addr, "listen address")
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

func (c *serveCmd) Run() error {
	sess, err := c.newSession(sessionOptions{width: c.width, height: c.height})
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := session.NewLoop(sess)
	go loop.Run(ctx)
	return server.New(loop).ListenAndServe(ctx, c.addr)
}

func (c *serveCmd) Program() string        { return c.fs.Name() }
func (c *serveCmd) FlagSet() *flag.FlagSet { return c.fs }
func (c *serveCmd) Template() string       { return "serve.txt" }
