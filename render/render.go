// Package render paints funcplot plots onto raster images with
// github.com/gogpu/gg.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/tiff"

	"github.com/twpayne/go-funcplot"
)

// ErrUnknownFormat is returned when encoding to an unsupported image format.
var ErrUnknownFormat = errors.New("unknown image format")

// A Format is an image encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatTIFF Format = "tiff"
)

// ParseFormat returns the Format named by s. The empty string is PNG.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatPNG:
		return FormatPNG, nil
	case FormatTIFF, "tif":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("%s: %w", s, ErrUnknownFormat)
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatTIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}

// A Style sets the colors, widths, and font size used when painting.
type Style struct {
	Background gg.RGBA
	Grid       gg.RGBA
	Label      gg.RGBA
	Curve      gg.RGBA
	GridWidth  float64
	CurveWidth float64
	FontSize   float64
}

// DefaultStyle returns a white background, light gray grid lines, dark gray
// labels, and a blue curve.
func DefaultStyle() Style {
	return Style{
		Background: gg.White,
		Grid:       gg.Hex("#ccc"),
		Label:      gg.Hex("#333"),
		Curve:      gg.Hex("#00f"),
		GridWidth:  0.5,
		CurveWidth: 2,
		FontSize:   10,
	}
}

// A Renderer paints plots. It is safe for concurrent use.
type Renderer struct {
	style      Style
	fontSource *text.FontSource
	logger     *slog.Logger
}

// An Option sets an option on a Renderer.
type Option func(*Renderer)

// WithStyle sets the style.
func WithStyle(style Style) Option {
	return func(r *Renderer) {
		r.style = style
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// New returns a new Renderer with the given options.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		style:  DefaultStyle(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(r)
	}
	fontSource, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, err
	}
	r.fontSource = fontSource
	return r, nil
}

// Draw paints plot onto dc: background, grid, labels, and then the curve.
func (r *Renderer) Draw(dc *gg.Context, plot *funcplot.Plot) error {
	dc.ClearWithColor(r.style.Background)
	if err := r.drawGrid(dc, plot.Grid); err != nil {
		return err
	}
	if err := r.drawSegments(dc, plot.Segments); err != nil {
		return err
	}
	r.logger.Debug("drew plot",
		slog.Int("width", plot.Extent.Width),
		slog.Int("height", plot.Extent.Height),
		slog.Int("segments", len(plot.Segments)),
		slog.Int("invalidSamples", plot.Stats.Invalid),
		slog.Int("offRangeSamples", plot.Stats.OffRange),
	)
	return nil
}

// Image returns plot painted onto a new image of plot's extent.
func (r *Renderer) Image(plot *funcplot.Plot) (image.Image, error) {
	dc := gg.NewContext(plot.Extent.Width, plot.Extent.Height)
	defer func() {
		_ = dc.Close()
	}()
	if err := r.Draw(dc, plot); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// Encode paints plot and writes it to w in format.
func (r *Renderer) Encode(w io.Writer, plot *funcplot.Plot, format Format) error {
	img, err := r.Image(plot)
	if err != nil {
		return err
	}
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{
			Compression: tiff.Deflate,
			Predictor:   true,
		})
	default:
		return fmt.Errorf("%s: %w", format, ErrUnknownFormat)
	}
}

// drawGrid strokes the zero lines and the tick lines and writes the tick
// labels.
func (r *Renderer) drawGrid(dc *gg.Context, grid *funcplot.Grid) error {
	width, height := float64(dc.Width()), float64(dc.Height())
	dc.SetFont(r.fontSource.Face(r.style.FontSize))
	dc.SetLineWidth(r.style.GridWidth)

	if grid.YZeroVisible {
		if err := r.strokeLine(dc, 0, grid.YZeroPixel, width, grid.YZeroPixel); err != nil {
			return err
		}
	}
	for _, tick := range grid.XTicks {
		if err := r.strokeLine(dc, tick.Pixel, 0, tick.Pixel, height); err != nil {
			return err
		}
		r.drawLabel(dc, tick)
	}

	if grid.XZeroVisible {
		if err := r.strokeLine(dc, grid.XZeroPixel, 0, grid.XZeroPixel, height); err != nil {
			return err
		}
	}
	for _, tick := range grid.YTicks {
		if err := r.strokeLine(dc, 0, tick.Pixel, width, tick.Pixel); err != nil {
			return err
		}
		r.drawLabel(dc, tick)
	}

	return nil
}

func (r *Renderer) strokeLine(dc *gg.Context, x0, y0, x1, y1 float64) error {
	dc.SetColor(r.style.Grid.Color())
	dc.MoveTo(x0, y0)
	dc.LineTo(x1, y1)
	return dc.Stroke()
}

func (r *Renderer) drawLabel(dc *gg.Context, tick funcplot.Tick) {
	if !tick.Labeled {
		return
	}
	dc.SetColor(r.style.Label.Color())
	dc.DrawString(tick.Label, tick.LabelAt.X, tick.LabelAt.Y)
}

// drawSegments strokes all segments as a single path with one subpath per
// segment.
func (r *Renderer) drawSegments(dc *gg.Context, segments []funcplot.Segment) error {
	if len(segments) == 0 {
		return nil
	}
	dc.SetColor(r.style.Curve.Color())
	dc.SetLineWidth(r.style.CurveWidth)
	for _, segment := range segments {
		dc.MoveTo(segment[0].X, segment[0].Y)
		for _, point := range segment[1:] {
			dc.LineTo(point.X, point.Y)
		}
	}
	return dc.Stroke()
}
