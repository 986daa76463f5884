package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eviterin/thegate/internal/constants"
	"github.com/eviterin/thegate/internal/logging"
	"github.com/eviterin/thegate/internal/service"
)

const shutdownTimeout = 5 * time.Second

// serve runs the HTTP server and the block producer until ctx is done or
// either of them fails.
func serve(ctx context.Context, addr string, handler http.Handler, svc *service.Authority) error {
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		svc.Run(ctx)
		return nil
	})
	g.Go(func() error {
		logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
