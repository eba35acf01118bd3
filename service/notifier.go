package services

import (
	"context"
	"errors"

	"github.com/Itish41/portfolio-cms/models"
	log "github.com/sirupsen/logrus"
)

// Notifier publishes approval events. Delivery is best effort: the stored
// submission or decision stands even when notifying fails.
type Notifier interface {
	Notify(ctx context.Context, event models.ApprovalEvent) error
}

// LogNotifier writes events to the application log.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, event models.ApprovalEvent) error {
	log.WithFields(log.Fields{
		"type":       event.Type,
		"assignment": event.AssignmentID,
		"request":    event.RequestID,
		"status":     event.Status,
		"actor":      event.ActorID,
	}).Info("approval event")
	return nil
}

// MultiNotifier fans an event out to every notifier.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, event models.ApprovalEvent) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
