package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/twpayne/go-funcplot"
	"github.com/twpayne/go-funcplot/expression"
	"github.com/twpayne/go-funcplot/render"
)

func run() error {
	xMin := flag.Float64("xmin", -10, "minimum x")
	xMax := flag.Float64("xmax", 10, "maximum x")
	yMin := flag.Float64("ymin", -10, "minimum y")
	yMax := flag.Float64("ymax", 10, "maximum y")
	width := flag.Int("width", 600, "width in pixels")
	height := flag.Int("height", 400, "height in pixels")
	samples := flag.Int("samples", 0, "sampling steps, 0 for two per pixel column")
	output := flag.String("o", "plot.png", "output file, .png or .tiff")
	logLevel := flag.String("log-level", os.Getenv("FUNCPLOT_LOG_LEVEL"), "log level")
	flag.Parse()

	if flag.NArg() != 1 {
		return errors.New("syntax: funcplot [flags] expression")
	}

	level := slog.LevelInfo
	if *logLevel != "" {
		if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
			return err
		}
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	format, err := render.ParseFormat(strings.TrimPrefix(filepath.Ext(*output), "."))
	if err != nil {
		return err
	}

	e, err := expression.Compile(flag.Arg(0))
	if err != nil {
		return err
	}

	plot, err := funcplot.NewPlot(
		e,
		funcplot.Viewport{XMin: *xMin, XMax: *xMax, YMin: *yMin, YMax: *yMax},
		funcplot.Extent{Width: *width, Height: *height},
		funcplot.WithTracerOptions(funcplot.WithSampleCount(*samples)),
	)
	if err != nil {
		return err
	}
	logger.Debug("traced",
		slog.String("expr", e.String()),
		slog.Int("segments", plot.Stats.Segments),
		slog.Int("invalidSamples", plot.Stats.Invalid),
		slog.Int("offRangeSamples", plot.Stats.OffRange),
	)

	renderer, err := render.New(render.WithLogger(logger))
	if err != nil {
		return err
	}

	file, err := os.Create(*output)
	if err != nil {
		return err
	}
	if err := renderer.Encode(file, plot, format); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	logger.Info("wrote plot", slog.String("output", *output))

	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
