package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/inarow-backend/internal/config"
	"github.com/rocketscienceinc/inarow-backend/internal/repository"
	"github.com/rocketscienceinc/inarow-backend/internal/repository/storage"
	"github.com/rocketscienceinc/inarow-backend/internal/usecase"
	"github.com/rocketscienceinc/inarow-backend/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisAddrString := conf.Redis.GetRedisAddr()
	if conf.Redis.Host == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	boardRepo := repository.NewBoardRepository(redisStorage, conf.Board.TTL)
	boardManager := usecase.NewBoardManager(logger, boardRepo, usecase.BoardDefaults{
		Width:     conf.Board.Width,
		Height:    conf.Board.Height,
		LineToWin: conf.Board.LineToWin,
		MaxCells:  conf.Board.MaxCells,
	})

	log.Info("Starting HTTP server", "port", conf.HTTPPort)

	if err = rest.New(logger, conf.HTTPPort, boardManager).Start(ctx); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}
