package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"akinator/internal/bootstrap"
	gameDelivery "akinator/internal/delivery/game"
	ownMiddleware "akinator/internal/middleware"
	"akinator/internal/repository"
	gameuc "akinator/internal/usecase/game"
)

type mainDeliveryHandler struct {
	game *gameDelivery.GameHandler
}

func main() {
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		panic("failed to setup configuration: " + err.Error())
	}

	logger, err := bootstrap.NewLogger(cfg.LogLevel, cfg.LogPath)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	storage, err := repository.OpenStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalw("Не удалось открыть хранилище базы знаний", "error", err)
	}
	defer storage.Close(context.Background())

	gameUC := gameuc.NewGameUseCase(storage.Store, logger, gameuc.Options{
		RecoverCorrupt: cfg.OnCorrupt == bootstrap.OnCorruptFresh,
		Seed:           cfg.Seed,
	})
	defer gameUC.Close()

	if _, err := gameUC.Load(ctx); err != nil {
		logger.Fatalw("Не удалось загрузить базу знаний", "error", err)
	}

	r := chi.NewRouter()
	handlers := &mainDeliveryHandler{game: gameDelivery.NewGameHandler(logger, gameUC)}
	handlers.Router(r, cfg.IsLocalCors)

	server := &http.Server{Addr: cfg.ServerPort, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Infof("Server is running on port %s", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalw("Failed to start server", "error", err)
	}
}

func (h *mainDeliveryHandler) Router(r *chi.Mux, isLocalCors bool) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h.game.Router(r)
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
}
