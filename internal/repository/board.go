package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/inarow-backend/internal/apperror"
	"github.com/rocketscienceinc/inarow-backend/internal/entity"
)

const boardKeyPrefix = "board:"

type BoardRepository interface {
	Create(ctx context.Context, id string, board *entity.Board) error
	CreateOrUpdate(ctx context.Context, id string, board *entity.Board) error
	GetByID(ctx context.Context, id string) (*entity.Board, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbBoard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBoardRepository - boards expire after ttl of inactivity; zero keeps them forever.
func NewBoardRepository(client *redis.Client, ttl time.Duration) BoardRepository {
	return &dbBoard{
		client: client,
		ttl:    ttl,
	}
}

// Create - stores a board only if the id is free.
func (that *dbBoard) Create(ctx context.Context, id string, board *entity.Board) error {
	boardJSON, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("could not marshal board: %w", err)
	}

	created, err := that.client.SetNX(ctx, boardKey(id), boardJSON, that.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}

	if !created {
		return fmt.Errorf("%w: %s", apperror.ErrBoardAlreadyExists, id)
	}

	return nil
}

func (that *dbBoard) CreateOrUpdate(ctx context.Context, id string, board *entity.Board) error {
	boardJSON, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("could not marshal board: %w", err)
	}

	if err = that.client.Set(ctx, boardKey(id), boardJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set board: %w", err)
	}

	return nil
}

func (that *dbBoard) GetByID(ctx context.Context, id string) (*entity.Board, error) {
	response, err := that.client.Get(ctx, boardKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrBoardNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get board by id: %w", err)
	}

	var board entity.Board
	if err = json.Unmarshal(response, &board); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board: %w", err)
	}

	return &board, nil
}

func (that *dbBoard) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, boardKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete board by id: %w", err)
	}

	if deleted == 0 {
		return apperror.ErrBoardNotFound
	}

	return nil
}

func boardKey(id string) string {
	return boardKeyPrefix + id
}
