package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/whiteboard/internal/config"
)

type configCmd struct {
	*root
	fs *flag.FlagSet
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := newFlagSet(r, "config")
	c := &configCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *configCmd) Run() error {
	switch sub := c.fs.Arg(0); sub {
	case "print":
		fmt.Fprint(c.stdout, c.config.String())
		return nil
	case "path":
		path := config.NewLoader(version, configPathOverride).GetConfigPath()
		if path == "" {
			path = "(none, using defaults)"
		}
		fmt.Fprintln(c.stdout, path)
		return nil
	case "save":
		return c.runSave()
	default:
		return fmt.Errorf("unknown config command: %s", sub)
	}
}

func (c *configCmd) runSave() error {
	loader := config.NewLoader(version, configPathOverride)
	path := loader.GetConfigPath()
	if path == "" {
		path = loader.SavePath()
	}
	if path == "" {
		return fmt.Errorf("no configuration path available")
	}
	if err := c.config.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
	return nil
}

func (c *configCmd) Program() string        { return c.fs.Name() }
func (c *configCmd) FlagSet() *flag.FlagSet { return c.fs }
func (c *configCmd) Template() string       { return "config.txt" }
