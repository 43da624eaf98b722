package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// ServerConfig captures the listener settings for Serve.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// Ready, when set, receives the bound address once the listener is open.
	Ready func(addr string)
}

// Serve runs handler until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, cfg ServerConfig, handler http.Handler) error {
	if ctx == nil {
		return errors.New("api: context is nil")
	}
	if cfg.Addr == "" {
		return errors.New("api: addr is required")
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}
	server := &http.Server{
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
	if cfg.Ready != nil {
		cfg.Ready(listener.Addr().String())
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) || err == nil {
			return nil
		}
		return err
	}
}
