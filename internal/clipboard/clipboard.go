// Package clipboard publishes exported images to the system clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"os"
)

var (
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	errNotPNG    = errors.New("clipboard data is not a PNG image")
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func checkPNG(data []byte) error {
	if !bytes.HasPrefix(data, pngMagic) {
		return errNotPNG
	}
	return nil
}

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}
