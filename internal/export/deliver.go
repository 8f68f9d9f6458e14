package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/whiteboard/internal/clipboard"
)

// Delivery hands an encoded export to its destination.
type Delivery interface {
	Deliver(name string, data []byte) error
}

// DeliveryFunc adapts a function to Delivery.
type DeliveryFunc func(name string, data []byte) error

func (f DeliveryFunc) Deliver(name string, data []byte) error { return f(name, data) }

// Dir writes exports into a directory, creating it when needed.
type Dir struct {
	Path string
}

// Target is where name will be written.
func (d Dir) Target(name string) string {
	dir := d.Path
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, filepath.Base(name))
}

func (d Dir) Deliver(name string, data []byte) error {
	path := d.Target(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Clipboard publishes PNG exports to the system clipboard.
type Clipboard struct{}

func (Clipboard) Deliver(name string, data []byte) error {
	if !strings.EqualFold(filepath.Ext(name), ".png") {
		return fmt.Errorf("clipboard only accepts png exports, got %s", name)
	}
	if err := clipboard.WritePNG(data); err != nil {
		return fmt.Errorf("copy PNG to clipboard: %w", err)
	}
	return nil
}
