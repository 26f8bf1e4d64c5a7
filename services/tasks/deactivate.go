package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketplace/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeDeactivateListing = "listing:deactivate"

// NewDeactivateTask builds a task that switches a listing off at fireAt. The task id is derived
// from the listing so a second schedule for the same listing is rejected by the queue.
func NewDeactivateTask(payload models.DeactivatePayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeDeactivateListing, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(DeactivateTaskID(payload)),
		asynq.MaxRetry(5),
	}
	return task, opts, nil
}

// DeactivateTaskID is the queue id of a listing's deactivation task.
func DeactivateTaskID(p models.DeactivatePayload) string {
	return fmt.Sprintf("deactivate:%s:%s:%s", p.ItemType, p.VendorID, p.ItemID)
}

// ParseDeactivatePayload decodes the payload of a deactivation task.
func ParseDeactivatePayload(task *asynq.Task) (models.DeactivatePayload, error) {
	var p models.DeactivatePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid deactivate payload: %w", err)
	}
	if p.ItemID == "" || p.VendorID == "" {
		return p, errors.New("deactivate payload is missing its listing")
	}
	return p, nil
}

// Scheduler queues listing deactivations.
type Scheduler interface {
	ScheduleDeactivation(ctx context.Context, payload models.DeactivatePayload, at time.Time) error
}

// AsynqScheduler enqueues deactivation tasks on Redis.
type AsynqScheduler struct {
	client *asynq.Client
	logger *zap.Logger
}

func NewAsynqScheduler(opt asynq.RedisClientOpt, logger *zap.Logger) *AsynqScheduler {
	return &AsynqScheduler{client: asynq.NewClient(opt), logger: logger}
}

func (s *AsynqScheduler) ScheduleDeactivation(ctx context.Context, payload models.DeactivatePayload, at time.Time) error {
	task, opts, err := NewDeactivateTask(payload, at)
	if err != nil {
		return err
	}
	info, err := s.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		s.logger.Debug("deactivation already scheduled", zap.String("taskId", DeactivateTaskID(payload)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue deactivation: %w", err)
	}
	s.logger.Info("deactivation scheduled",
		zap.String("taskId", info.ID),
		zap.String("itemType", string(payload.ItemType)),
		zap.Time("at", at))
	return nil
}

func (s *AsynqScheduler) Close() error {
	return s.client.Close()
}

// LogScheduler records deactivations without queueing them. Used with in-memory storage.
type LogScheduler struct {
	Logger *zap.Logger
}

func (s LogScheduler) ScheduleDeactivation(_ context.Context, payload models.DeactivatePayload, at time.Time) error {
	s.Logger.Info("deactivation not queued (no task broker)",
		zap.String("itemType", string(payload.ItemType)),
		zap.String("itemId", payload.ItemID),
		zap.Time("at", at))
	return nil
}
