package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vocalize-ai/hrscreen/internal/dotenv"
	"github.com/vocalize-ai/hrscreen/pkg/agent/config"
	"github.com/vocalize-ai/hrscreen/pkg/agent/store"
	"github.com/vocalize-ai/hrscreen/pkg/agent/tools"
	"github.com/vocalize-ai/hrscreen/pkg/gateway/live"
	"github.com/vocalize-ai/hrscreen/pkg/llm/gemini"
)

type serverDeps struct {
	loadConfig   func() (config.Config, error)
	signalNotify func(chan<- os.Signal, ...os.Signal)
	signalStop   func(chan<- os.Signal)
}

func defaultServerDeps() serverDeps {
	return serverDeps{
		loadConfig: config.LoadFromEnv,
		signalNotify: func(c chan<- os.Signal, sig ...os.Signal) {
			signal.Notify(c, sig...)
		},
		signalStop: signal.Stop,
	}
}

func runServer(ctx context.Context, logger *slog.Logger, deps serverDeps) error {
	if deps.loadConfig == nil {
		return errors.New("missing loadConfig dependency")
	}
	if deps.signalNotify == nil || deps.signalStop == nil {
		return errors.New("missing signal dependency")
	}
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := deps.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	model, err := gemini.New(ctx, cfg.GeminiAPIKey, gemini.WithSearchModel(cfg.SearchModel))
	if err != nil {
		return fmt.Errorf("create model client: %w", err)
	}

	srv := &live.Server{
		Config:     cfg,
		Chat:       model,
		Structured: model,
		Searcher:   model,
		Documents:  tools.NewFSStore(cfg.InputDocumentsDir, tools.PlainPDFExtractor{}),
		Metrics:    live.NewMetrics("hrscreen"),
		Logger:     logger,
	}

	if cfg.PostgresDSN != "" {
		st, err := store.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		srv.Store = st
	} else {
		logger.Warn("persistence disabled, calls cannot resume after disconnect")
	}

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Routes(),
	}

	logger.Info("starting gateway", "addr", cfg.Addr, "interview_model", cfg.InterviewModel)

	listenErrCh := make(chan error, 1)
	go func() {
		err := httpSrv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErrCh <- err
			return
		}
		listenErrCh <- nil
	}()

	sigCh := make(chan os.Signal, 1)
	deps.signalNotify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer deps.signalStop(sigCh)

	select {
	case err := <-listenErrCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	if err := <-listenErrCh; err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	logger.Info("gateway stopped")
	return nil
}

func runMain(ctx context.Context, stderr io.Writer, deps serverDeps) int {
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	if err := dotenv.LoadFile(".env"); err != nil {
		fmt.Fprintf(stderr, "hrscreen: %v\n", err)
		return 1
	}

	if err := runServer(ctx, logger, deps); err != nil {
		fmt.Fprintf(stderr, "hrscreen: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(runMain(context.Background(), os.Stderr, defaultServerDeps()))
}
