package main

import (
	"context"
	"fmt"
	"os"

	"github.com/peterh/liner"

	"akinator/internal/bootstrap"
	"akinator/internal/delivery/console"
	"akinator/internal/render"
	"akinator/internal/repository"
	gameuc "akinator/internal/usecase/game"
)

// the terminal belongs to the game, so logs go to a file by default
const defaultLogPath = "akinator.log"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		return fmt.Errorf("setup configuration: %w", err)
	}
	if cfg.LogPath == "" {
		cfg.LogPath = defaultLogPath
	}

	logger, err := bootstrap.NewLogger(cfg.LogLevel, cfg.LogPath)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storage, err := repository.OpenStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer storage.Close(context.Background())

	gameUC := gameuc.NewGameUseCase(storage.Store, logger, gameuc.Options{
		RecoverCorrupt: cfg.OnCorrupt == bootstrap.OnCorruptFresh,
		Seed:           cfg.Seed,
	})
	defer gameUC.Close()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	c := console.NewConsole(line, os.Stdout, gameUC,
		render.NewDumper(cfg.DumpDir, cfg.DotBinary, logger),
		console.Options{AtlasPath: cfg.AtlasPath, AtlasFont: cfg.AtlasFont},
		logger,
	)

	report, err := gameUC.Load(ctx)
	if err != nil {
		logger.Errorw("knowledge base unavailable", "error", err)
		return err
	}
	c.PrintLoadReport(report)

	return c.Run(ctx)
}
