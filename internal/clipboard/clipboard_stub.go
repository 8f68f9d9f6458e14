//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import "fmt"

// WritePNG is unsupported on this platform.
func WritePNG(data []byte) error {
	if err := checkPNG(data); err != nil {
		return err
	}
	return fmt.Errorf("clipboard image operations are not supported on this platform")
}
