// Package export encodes whiteboard frames and delivers the resulting files.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// ErrUnknownFormat is returned for export formats that have no encoder.
var ErrUnknownFormat = errors.New("unknown export format")

// Format names an export encoding.
type Format string

const (
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// Formats lists the supported encodings.
func Formats() []Format { return []Format{FormatPNG, FormatPDF} }

// ParseFormat normalises s, accepting an optional leading dot.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	switch f {
	case FormatPNG, FormatPDF:
		return f, nil
	case "":
		return FormatPNG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Encoder writes a frame as a file of one format.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
	Extension() string
	ContentType() string
}

// EncoderFor returns the encoder for f. Created stamps formats that carry
// document metadata.
func EncoderFor(f Format, created time.Time) (Encoder, error) {
	switch f {
	case FormatPNG, "":
		return PNG{}, nil
	case FormatPDF:
		return PDF{Created: created}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// Filename is the suggested name for an export made at ts.
func Filename(ts time.Time, ext string) string {
	return fmt.Sprintf("whiteboard-%d.%s", ts.UnixMilli(), strings.TrimPrefix(ext, "."))
}

// PNG encodes frames losslessly. Output depends only on the pixels.
type PNG struct{}

func (PNG) Encode(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	return enc.Encode(w, img)
}

func (PNG) Extension() string   { return "png" }
func (PNG) ContentType() string { return "image/png" }

// PDF places the frame on a single page of the same size in points.
type PDF struct {
	Created time.Time
	Title   string
}

func (p PDF) Encode(w io.Writer, img image.Image) error {
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("pdf: empty frame")
	}
	var raster bytes.Buffer
	if err := (PNG{}).Encode(&raster, img); err != nil {
		return fmt.Errorf("pdf: embed frame: %w", err)
	}
	wd, ht := float64(b.Dx()), float64(b.Dy())
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	created := p.Created
	if created.IsZero() {
		created = time.Unix(0, 0).UTC()
	}
	doc.SetCreationDate(created)
	doc.SetModificationDate(created)
	title := p.Title
	if title == "" {
		title = "Whiteboard"
	}
	doc.SetTitle(title, true)
	doc.SetCreator("whiteboard", true)
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("frame", opts, &raster)
	doc.ImageOptions("frame", 0, 0, wd, ht, false, opts, 0, "")
	if err := doc.Error(); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return doc.Output(w)
}

func (PDF) Extension() string   { return "pdf" }
func (PDF) ContentType() string { return "application/pdf" }
