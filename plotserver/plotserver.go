// Package plotserver serves plots of user-supplied expressions over HTTP.
package plotserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/maypok86/otter/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/twpayne/go-funcplot"
	"github.com/twpayne/go-funcplot/expression"
	"github.com/twpayne/go-funcplot/render"
)

var (
	plotCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "funcplot_plot_cache_hits_total",
		Help: "The total number of hits on the plot cache",
	})
	plotCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "funcplot_plot_cache_misses_total",
		Help: "The total number of misses on the plot cache",
	})
	plotCacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "funcplot_plot_cache_evictions_total",
		Help: "The total number of evictions from the plot cache",
	})
	badRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "funcplot_bad_requests_total",
		Help: "The total number of rejected plot requests",
	})
	samples = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "funcplot_samples_total",
		Help: "The total number of function samples by outcome",
	}, []string{"outcome"})
)

var (
	// ErrBadRequest is matched by every error caused by invalid user input.
	ErrBadRequest = errors.New("bad request")

	ErrNoEquation    = errors.New("please enter an equation")
	ErrInvalidRange  = errors.New("invalid range values, please enter numbers")
	ErrMinNotLessMax = errors.New("min values must be less than max values for ranges")
)

// A Request is a plot request.
type Request struct {
	Expression string
	Viewport   funcplot.Viewport
	Format     render.Format
}

// ParseRequest parses a Request from query parameters expr, xmin, xmax, ymin,
// ymax, and format.
func ParseRequest(values url.Values) (Request, error) {
	request := Request{
		Expression: values.Get("expr"),
	}
	if request.Expression == "" {
		return Request{}, fmt.Errorf("%w: %w", ErrBadRequest, ErrNoEquation)
	}
	for _, bound := range []struct {
		name  string
		value *float64
	}{
		{"xmin", &request.Viewport.XMin},
		{"xmax", &request.Viewport.XMax},
		{"ymin", &request.Viewport.YMin},
		{"ymax", &request.Viewport.YMax},
	} {
		value, err := strconv.ParseFloat(values.Get(bound.name), 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			return Request{}, fmt.Errorf("%w: %w: %s", ErrBadRequest, ErrInvalidRange, bound.name)
		}
		*bound.value = value
	}
	if err := request.Viewport.Validate(); err != nil {
		return Request{}, fmt.Errorf("%w: %w: %w", ErrBadRequest, ErrMinNotLessMax, err)
	}
	format, err := render.ParseFormat(values.Get("format"))
	if err != nil {
		return Request{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	request.Format = format
	return request, nil
}

// A Server renders plots and caches the encoded images.
type Server struct {
	extent              funcplot.Extent
	sampleCount         int
	cacheSize           int
	expressionCacheSize int
	logger              *slog.Logger
	renderer            *render.Renderer
	plotCache           *lru.Cache[Request, []byte]
	expressionCache     *otter.Cache[string, *expression.Expression]
}

// An Option sets an option on a Server.
type Option func(*Server)

// WithCacheSize sets the number of encoded plots kept in memory.
func WithCacheSize(cacheSize int) Option {
	return func(s *Server) {
		s.cacheSize = cacheSize
	}
}

// WithExpressionCacheSize sets the number of compiled expressions kept in
// memory.
func WithExpressionCacheSize(expressionCacheSize int) Option {
	return func(s *Server) {
		s.expressionCacheSize = expressionCacheSize
	}
}

// WithExtent sets the size of the plots in pixels.
func WithExtent(extent funcplot.Extent) Option {
	return func(s *Server) {
		s.extent = extent
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRenderer sets the renderer.
func WithRenderer(renderer *render.Renderer) Option {
	return func(s *Server) {
		s.renderer = renderer
	}
}

// WithSampleCount sets the number of sampling steps across each plot. Zero
// selects two per pixel column.
func WithSampleCount(sampleCount int) Option {
	return func(s *Server) {
		s.sampleCount = sampleCount
	}
}

// New returns a new Server with the given options.
func New(options ...Option) (*Server, error) {
	s := &Server{
		extent:              funcplot.Extent{Width: 600, Height: 400},
		cacheSize:           256,
		expressionCacheSize: 1024,
		logger:              slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(s)
	}

	if err := s.extent.Validate(); err != nil {
		return nil, err
	}
	if s.sampleCount < 0 {
		return nil, &funcplot.ConfigurationError{Field: "sampleCount", Value: s.sampleCount, Reason: "must not be negative"}
	}

	if s.renderer == nil {
		renderer, err := render.New(render.WithLogger(s.logger))
		if err != nil {
			return nil, err
		}
		s.renderer = renderer
	}

	var err error
	s.plotCache, err = lru.NewWithEvict(s.cacheSize, func(key Request, value []byte) {
		plotCacheEvictions.Inc()
		s.logger.Debug("evicted plot", slog.String("expr", key.Expression))
	})
	if err != nil {
		return nil, err
	}

	s.expressionCache, err = otter.New(&otter.Options[string, *expression.Expression]{
		MaximumSize: s.expressionCacheSize,
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Plot returns the encoded image for request, using the cache if possible.
func (s *Server) Plot(ctx context.Context, request Request) ([]byte, error) {
	if data, ok := s.plotCache.Get(request); ok {
		plotCacheHits.Inc()
		return data, nil
	}
	plotCacheMisses.Inc()

	evaluator, err := s.compileCached(ctx, request.Expression)
	if err != nil {
		return nil, err
	}

	plot, err := funcplot.NewPlot(evaluator, request.Viewport, s.extent,
		funcplot.WithTracerOptions(funcplot.WithSampleCount(s.sampleCount)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	validSamples := plot.Stats.Samples - plot.Stats.Invalid - plot.Stats.OffRange
	samples.WithLabelValues("valid").Add(float64(validSamples))
	samples.WithLabelValues("invalid").Add(float64(plot.Stats.Invalid))
	samples.WithLabelValues("off_range").Add(float64(plot.Stats.OffRange))

	var buffer bytes.Buffer
	if err := s.renderer.Encode(&buffer, plot, request.Format); err != nil {
		return nil, err
	}
	data := buffer.Bytes()
	s.plotCache.Add(request, data)
	return data, nil
}

// compileCached returns the compiled expression for source using the
// expression cache.
func (s *Server) compileCached(ctx context.Context, source string) (*expression.Expression, error) {
	e, err := s.expressionCache.Get(ctx, source, otter.LoaderFunc[string, *expression.Expression](s.compile))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return e, nil
}

func (s *Server) compile(_ context.Context, source string) (*expression.Expression, error) {
	return expression.Compile(source)
}

// Handler returns an http.Handler serving GET /plot.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /plot", s.handlePlot)
	return mux
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	request, err := ParseRequest(r.URL.Query())
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	data, err := s.Plot(r.Context(), request)
	switch {
	case errors.Is(err, ErrBadRequest):
		s.badRequest(w, r, err)
		return
	case err != nil:
		s.logger.Error("plot failed", slog.String("expr", request.Expression), slog.Any("err", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", request.Format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("write failed", slog.Any("err", err))
		return
	}
	s.logger.Info("plot",
		slog.String("expr", request.Expression),
		slog.Any("viewport", request.Viewport),
		slog.String("format", string(request.Format)),
		slog.Duration("duration", time.Since(start)),
	)
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	badRequests.Inc()
	s.logger.Warn("bad request", slog.String("query", r.URL.RawQuery), slog.Any("err", err))
	http.Error(w, err.Error(), http.StatusBadRequest)
}
