package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

const SHUTDOWN_TIMEOUT = 5 * time.Second

type PrayerHttpServer struct {
	router    *Router
	muxRouter *mux.Router
	address   string
}

func NewPrayerHttpServer(router *Router, muxRouter *mux.Router, address string) *PrayerHttpServer {
	return &PrayerHttpServer{
		router:    router,
		muxRouter: muxRouter,
		address:   address,
	}
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *PrayerHttpServer) Start(ctx context.Context) error {
	s.router.RegisterRoutes()

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.muxRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", s.address).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down the server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("server exiting")
	return nil
}
