package theme

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strconv"
	"strings"
)

var rgbaType = reflect.TypeOf(color.RGBA{})

// Parse reads a theme definition from an io.Reader.
// The format is one key-value pair per line: Key: #RRGGBB or #RRGGBBAA.
// Repeated "Swatch: Name #RRGGBB" lines build the palette in order.
func Parse(r io.Reader) (*Theme, error) {
	t := Default() // Start with defaults
	scanner := bufio.NewScanner(r)

	val := reflect.ValueOf(t).Elem()

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") || strings.HasPrefix(text, "//") {
			continue
		}

		key, value, ok := strings.Cut(text, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch {
		case strings.EqualFold(key, "Name"):
			t.Name = value
			continue
		case strings.EqualFold(key, "Swatch"):
			sw, err := parseSwatch(value)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			t.Palette = append(t.Palette, sw)
			continue
		}

		field := fieldByName(val, key)
		if !field.IsValid() || field.Type() != rgbaType {
			continue // Unknown field, ignore for forward compatibility
		}
		col, err := ParseColor(value)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid color for key %s: %w", line, key, err)
		}
		field.Set(reflect.ValueOf(col))
	}

	return t, scanner.Err()
}

func fieldByName(val reflect.Value, key string) reflect.Value {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		if strings.EqualFold(typ.Field(i).Name, key) {
			return val.Field(i)
		}
	}
	return reflect.Value{}
}

func parseSwatch(s string) (Swatch, error) {
	i := strings.LastIndexByte(s, ' ')
	if i < 0 {
		return Swatch{}, fmt.Errorf("swatch %q needs a name and a colour", s)
	}
	name := strings.TrimSpace(s[:i])
	col, err := ParseColor(strings.TrimSpace(s[i+1:]))
	if err != nil {
		return Swatch{}, fmt.Errorf("swatch %q: %w", name, err)
	}
	return Swatch{Name: name, Color: col}, nil
}

// ParseColor parses #RRGGBB or #RRGGBBAA. The alpha byte is straight; the
// result is premultiplied.
func ParseColor(s string) (color.RGBA, error) {
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("color must start with #")
	}
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{
			R: uint8(val >> 16),
			G: uint8((val >> 8) & 0xFF),
			B: uint8(val & 0xFF),
			A: 255,
		}, nil
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBAModel.Convert(color.NRGBA{
			R: uint8(val >> 24),
			G: uint8((val >> 16) & 0xFF),
			B: uint8((val >> 8) & 0xFF),
			A: uint8(val & 0xFF),
		}).(color.RGBA), nil
	}
	return color.RGBA{}, fmt.Errorf("invalid hex length")
}

// Hex formats c as #RRGGBB, or #RRGGBBAA when translucent.
func Hex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02X%02X%02X%02X", n.R, n.G, n.B, n.A)
}
