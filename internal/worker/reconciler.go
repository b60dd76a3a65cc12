package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/meetbook/backend/internal/calendar"
	"github.com/meetbook/backend/pkg/queue"
)

// Reconciler drains calendar cleanup jobs: external events created for
// bookings whose local write failed. Deleting them brings the external
// calendar back in line with local state.
type Reconciler struct {
	cal    calendar.Service
	queue  *queue.Queue
	logger *zap.Logger
}

// NewReconciler creates a calendar reconciler.
func NewReconciler(cal calendar.Service, q *queue.Queue, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{cal: cal, queue: q, logger: logger}
}

// Process executes one cleanup job.
func (r *Reconciler) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeCalendarCleanup {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.CalendarCleanupPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := r.cal.DeleteEvent(ctx, payload.EventID); err != nil {
		return fmt.Errorf("delete event %s: %w", payload.EventID, err)
	}
	r.logger.Info("orphaned calendar event deleted",
		zap.String("event_id", payload.EventID),
		zap.String("room_id", payload.RoomID.String()),
		zap.String("reason", payload.Reason))
	return nil
}

// Run processes jobs until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("calendar reconciler stopping")
			return
		default:
		}

		job, err := r.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			r.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		if err := r.Process(ctx, job); err != nil {
			r.logger.Error("cleanup job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := r.queue.Retry(ctx, job); reErr != nil {
				r.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
		}
	}
}
