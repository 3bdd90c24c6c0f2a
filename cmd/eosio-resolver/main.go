// Command eosio-resolver serves did:eosio resolution over HTTP.
//
// Given DIDs as arguments it resolves them once, prints the resolution
// results as JSON and exits non-zero if any resolution failed.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/pilacorp/go-did-eosio/config"
	"github.com/pilacorp/go-did-eosio/resolver"
	"github.com/pilacorp/go-did-eosio/server"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	logger := cfg.Logger(os.Stderr)

	opts, err := cfg.ResolverOptions(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure resolver")
	}
	res, err := resolver.New(opts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create resolver")
	}

	if len(os.Args) > 1 {
		os.Exit(resolveOnce(res, os.Args[1:], os.Stdout))
	}

	serve(cfg, res, logger)
}

func resolveOnce(res *resolver.Resolver, dids []string, out io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	code := 0
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	for _, result := range res.ResolveAll(ctx, dids) {
		if result.Failed() {
			code = 1
		}
		if err := enc.Encode(result); err != nil {
			return 1
		}
	}
	return code
}

func serve(cfg *config.Config, res *resolver.Resolver, logger zerolog.Logger) {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(res, server.WithLogger(logger)).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("eosio-resolver starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		logger.Info().Msg("shutdown complete")
	}
}
