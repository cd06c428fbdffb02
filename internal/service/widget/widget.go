package widget

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	"github.com/oshokin/photo-frame/internal/domain/frame"
	"github.com/oshokin/photo-frame/internal/logger"
	"github.com/oshokin/photo-frame/internal/repository/resource"
)

// Source provides the cached background image.
type Source interface {
	Get(ctx context.Context) (image.Image, error)
}

// Widget is a photo frame ready to be rendered.
type Widget struct {
	// Background is the cached image, nil when nothing is cached.
	Background image.Image
}

// placeholderColor fills widgets without a background.
//
//nolint:gochecknoglobals // Read-only color.
var placeholderColor = color.NRGBA{R: 0x1c, G: 0x1c, B: 0x1e, A: 0xff}

// Build creates a widget from the cached image. A missing image is not an
// error: the widget is rendered with a placeholder background.
func Build(ctx context.Context, source Source) (*Widget, error) {
	img, err := source.Get(ctx)

	switch {
	case err == nil:
		return &Widget{Background: img}, nil
	case errors.Is(err, resource.ErrNotFound):
		logger.Info(ctx, "No cached image, using placeholder background")
		return &Widget{}, nil
	default:
		return nil, fmt.Errorf("load background: %w", err)
	}
}

// Image draws the widget at the size of family. The background fills the
// widget and is cropped around its center to keep the aspect ratio.
func (w *Widget) Image(family frame.Family) image.Image {
	size := family.Size()
	dst := image.NewNRGBA(image.Rect(0, 0, size.Width, size.Height))

	if w.Background == nil || w.Background.Bounds().Empty() {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(placeholderColor), image.Point{}, draw.Src)
		return dst
	}

	src := w.Background.Bounds()
	draw.CatmullRom.Scale(dst, dst.Bounds(), w.Background, coverRect(src, dst.Bounds()), draw.Src, nil)

	return dst
}

// Render writes the widget as PNG at the size of family.
func (w *Widget) Render(family frame.Family, out io.Writer) error {
	if err := png.Encode(out, w.Image(family)); err != nil {
		return fmt.Errorf("encode widget: %w", err)
	}

	return nil
}

// coverRect returns the largest centered part of src with the aspect ratio of
// dst. The crop is never thinner than one pixel.
func coverRect(src, dst image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	dw, dh := dst.Dx(), dst.Dy()

	// Compare sw/sh with dw/dh without floating point.
	if sw*dh > dw*sh {
		width := max(1, sh*dw/dh)
		x := src.Min.X + (sw-width)/2

		return image.Rect(x, src.Min.Y, x+width, src.Max.Y)
	}

	height := max(1, sw*dh/dw)
	y := src.Min.Y + (sh-height)/2

	return image.Rect(src.Min.X, y, src.Max.X, y+height)
}
