package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/api"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/carousel"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/config"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/log"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/modal"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/service"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/session"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	sessionStorage, err := storage.Open(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open session storage")
	}

	client := api.NewClient(cfg.API, log.For(logger, "api"))
	sessions := session.NewStore(client, sessionStorage, log.For(logger, "session"))
	client.SetCredentialSource(sessions)

	if err := sessions.Restore(); err != nil {
		logger.Warn().Err(err).Msg("session restore failed")
	}

	modals := modal.NewController(cfg.Modal.CloseDelay, modal.Hooks{
		LockScroll:   func() { logger.Debug().Msg("scroll locked") },
		UnlockScroll: func() { logger.Debug().Msg("scroll released") },
	}, log.For(logger, "modal"))

	auth := service.NewAuthFlow(sessions, client, modals, log.For(logger, "auth"))
	gate := session.NewGate(sessions, auth, log.For(logger, "gate"))

	reviews := service.NewReviewService(client, gate, modals, log.For(logger, "reviews"))
	orders := service.NewOrderService(client, gate, modals, log.For(logger, "orders"))
	manager := service.NewManagerService(client, log.For(logger, "manager"))

	feed := carousel.NewScheduler(cfg.Carousel, func(offset int, smooth bool) {
		logger.Debug().Int("offset", offset).Bool("smooth", smooth).Msg("carousel scroll")
	}, log.For(logger, "carousel"))

	ctx := context.Background()
	if err := reviews.FetchAll(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial fetch failed")
	} else {
		items := reviews.Reviews()
		if len(items) > cfg.Carousel.HomeLimit {
			items = items[:cfg.Carousel.HomeLimit]
		}
		feed.SetItems(items)
	}

	if err := orders.FetchServices(ctx); err != nil {
		logger.Warn().Err(err).Msg("services fetch failed")
	}

	if gate.CanManage() {
		logger.Info().Msg("manager navigation available")
		if err := manager.List(ctx); err != nil {
			logger.Warn().Err(err).Msg("manager orders unavailable")
		}
	}

	waitForShutdown(logger, feed, modals, reviews, sessionStorage)
}

func waitForShutdown(logger zerolog.Logger, feed *carousel.Scheduler, modals *modal.Controller, reviews *service.ReviewService, sessionStorage *storage.SessionStore) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	feed.Stop()
	modals.Stop()
	reviews.Close()

	if err := sessionStorage.Close(); err != nil {
		logger.Error().Err(err).Msg("session storage close error")
	}

	logger.Info().Msg("client exited cleanly")
}
