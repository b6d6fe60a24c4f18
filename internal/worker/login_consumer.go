package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/abisalde/accounts-service/internal/auth/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type LoginRecorder interface {
	UpdateLastLogin(ctx context.Context, userID int64) error
}

// LastLoginWorker applies login events from the Redis stream to users.last_login_at.
type LastLoginWorker struct {
	redisClient *redis.Client
	recorder    LoginRecorder
	block       time.Duration
	lastID      string
}

func NewLastLoginWorker(redisClient *redis.Client, recorder LoginRecorder) *LastLoginWorker {
	return &LastLoginWorker{
		redisClient: redisClient,
		recorder:    recorder,
		block:       time.Second,
		lastID:      streamIDAt(time.Now()),
	}
}

// streamIDAt is a stream cursor just before t. Unlike "$" it stays fixed across
// empty reads, so events added between two polls are not skipped.
func streamIDAt(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli()-1, 10) + "-0"
}

func (w *LastLoginWorker) Start(ctx context.Context) {
	zap.L().Info("last login worker started", zap.String("stream", service.LoginStreamKey))
	for {
		select {
		case <-ctx.Done():
			zap.L().Info("last login worker shutting down")
			return
		default:
		}

		if _, err := w.Poll(ctx); err != nil {
			if ctx.Err() != nil {
				continue
			}
			zap.L().Error("error reading login stream", zap.Error(err))
			time.Sleep(time.Second)
		}
	}
}

// Poll blocks for one batch of events and returns how many were applied.
func (w *LastLoginWorker) Poll(ctx context.Context) (int, error) {
	streams, err := w.redisClient.XRead(ctx, &redis.XReadArgs{
		Streams: []string{service.LoginStreamKey, w.lastID},
		Block:   w.block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, stream := range streams {
		for _, msg := range stream.Messages {
			w.lastID = msg.ID

			eventString, ok := msg.Values["event"].(string)
			if !ok {
				zap.L().Warn("login event without payload", zap.String("id", msg.ID))
				continue
			}

			var loginEvent service.LoginEvent
			if err := json.Unmarshal([]byte(eventString), &loginEvent); err != nil {
				zap.L().Warn("failed to unmarshal login event", zap.String("id", msg.ID), zap.Error(err))
				continue
			}
			if loginEvent.EventType != service.LoginEventType {
				continue
			}

			if err := w.recorder.UpdateLastLogin(ctx, loginEvent.UserID); err != nil {
				zap.L().Error("failed to update last login", zap.Int64("user_id", loginEvent.UserID), zap.Error(err))
				continue
			}
			applied++
		}
	}
	return applied, nil
}
