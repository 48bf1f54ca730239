package service

import (
	"context"
	"time"

	"github.com/diagnosis/founder-playbook/pkg/events"
	"github.com/diagnosis/founder-playbook/pkg/logger"
)

// publish is fire-and-forget: a bus failure never fails the request.
func publish(ctx context.Context, bus events.Publisher, subject string, data any) {
	if bus == nil {
		return
	}
	if err := bus.Publish(ctx, subject, data); err != nil {
		logger.WarnContext(ctx, "Failed to publish event", "subject", subject, "error", err)
	}
}

func publishChange(ctx context.Context, bus events.Publisher, subject, entity string, id int64, action string) {
	publish(ctx, bus, subject, events.ChangeEvent{Entity: entity, ID: id, Action: action, At: time.Now()})
}
