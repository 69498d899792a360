package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/twpayne/go-funcplot"
	"github.com/twpayne/go-funcplot/plotserver"
)

func envInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func envString(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func run() error {
	addr := flag.String("addr", envString("FUNCPLOT_ADDR", ":8080"), "listen address")
	cacheSize := flag.Int("cache-size", envInt("FUNCPLOT_CACHE_SIZE", 256), "number of cached plots")
	width := flag.Int("width", 600, "plot width in pixels")
	height := flag.Int("height", 400, "plot height in pixels")
	samples := flag.Int("samples", 0, "sampling steps, 0 for two per pixel column")
	logLevel := flag.String("log-level", envString("FUNCPLOT_LOG_LEVEL", "info"), "log level")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	s, err := plotserver.New(
		plotserver.WithCacheSize(*cacheSize),
		plotserver.WithExtent(funcplot.Extent{Width: *width, Height: *height}),
		plotserver.WithLogger(logger),
		plotserver.WithSampleCount(*samples),
	)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/plot", s.Handler())
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", *addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
