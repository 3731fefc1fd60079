package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-employee/internal/bootstrap"
	"go-employee/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

var fetchBackoff = time.Second

// ConsumeEmployeeLifecycle writes one audit entry per lifecycle event. Offsets
// are committed only after the entry is written; undecodable payloads are
// committed and skipped so they cannot block the partition.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	audit bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			select {
			case <-ctx.Done():
				log.Info("employee lifecycle consumer stopped")
				return
			case <-time.After(fetchBackoff):
			}
			continue
		}

		var event events.EmployeeLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employee lifecycle event failed",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		audit.Log(ctx, bootstrap.AuditLog{
			Action:  auditAction(event.EventType),
			Message: "employee lifecycle event received",
			Meta: map[string]any{
				"employee_id": event.EmployeeID,
				"email":       event.Email,
				"request_id":  event.RequestID,
				"occurred_at": event.OccurredAt.UTC().Format(time.RFC3339),
			},
		})

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
			continue
		}

		log.Debug("employee lifecycle event audited",
			zap.String("event_type", event.EventType),
			zap.String("employee_id", event.EmployeeID),
		)
	}
}

func auditAction(eventType string) string {
	switch eventType {
	case events.EmployeeCreated:
		return "EMPLOYEE_CREATED"
	case events.EmployeeUpdated:
		return "EMPLOYEE_UPDATED"
	case events.EmployeeDeleted:
		return "EMPLOYEE_DELETED"
	default:
		return "EMPLOYEE_UNKNOWN_EVENT"
	}
}
