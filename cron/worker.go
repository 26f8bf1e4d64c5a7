package cron

import (
	"context"
	"errors"
	"time"

	"marketplace/config"
	"marketplace/models"
	"marketplace/services/booking"
	"marketplace/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Deactivator switches a listing off.
type Deactivator interface {
	SetActive(ctx context.Context, itemType models.ItemType, vendorID, id string, active bool) (*models.ToggleResult, error)
}

// TaskRedisOpt is the asynq connection shared by the worker and the scheduler.
func TaskRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	}
}

// NewServeMux routes listing tasks to their handlers.
func NewServeMux(listings Deactivator, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeDeactivateListing, handleDeactivateTask(listings, logger))
	return mux
}

// InitExpiryWorker runs the listing expiry worker in the background and returns it for shutdown.
func InitExpiryWorker(listings Deactivator, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		TaskRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)
	mux := NewServeMux(listings, logger)

	go func() {
		logger.Info("Starting listing expiry worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil || errors.Is(err, asynq.ErrServerClosed) {
				return
			}
			logger.Error("Failed to start expiry worker", zap.Int("attempt", attempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("Max retry attempts reached for expiry worker")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handleDeactivateTask(listings Deactivator, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseDeactivatePayload(task)
		if err != nil {
			logger.Error("Invalid deactivate payload", zap.Error(err))
			return asynq.SkipRetry
		}

		res, err := listings.SetActive(ctx, p.ItemType, p.VendorID, p.ItemID, false)
		if errors.Is(err, booking.ErrListingNotFound) {
			logger.Warn("Listing to deactivate no longer exists", zap.String("itemId", p.ItemID))
			return nil
		}
		if err != nil {
			logger.Error("Failed to deactivate listing", zap.String("itemId", p.ItemID), zap.Error(err))
			return err
		}
		logger.Info("Listing deactivated",
			zap.String("itemType", string(res.ItemType)),
			zap.String("itemId", res.ID))
		return nil
	}
}
