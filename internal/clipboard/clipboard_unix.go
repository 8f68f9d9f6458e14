//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
)

func ensureInit() error {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		initErr = clipboard.Init()
	})
	return initErr
}

// WritePNG publishes already encoded PNG bytes as the clipboard image.
func WritePNG(data []byte) error {
	if err := checkPNG(data); err != nil {
		return err
	}
	if err := ensureInit(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}
