// Package events consumes the account service's user events.
package events

import (
	"context"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/tripcost/service-route/internal/platform/kafka"
)

// TopicUserEvents carries the account service's user lifecycle events.
const TopicUserEvents = "user.events"

// UserDeleted is emitted once an account has been removed.
const UserDeleted = "user.deleted"

// UserDeletedEvent is the payload of a user.deleted event.
type UserDeletedEvent struct {
	UserID uuid.UUID `json:"user_id"`
}

// UserPurger removes everything stored for a user. *application.CleanupService implements it.
type UserPurger interface {
	PurgeUser(ctx context.Context, userID uuid.UUID) error
}

// UserEventConsumer purges a user's journeys, vehicles and interest points when
// the account is deleted.
type UserEventConsumer struct {
	consumer *kafka.Consumer
	purger   UserPurger
	logger   *zap.Logger
}

// NewUserEventConsumer creates a new UserEventConsumer.
func NewUserEventConsumer(
	brokers []string,
	groupID string,
	purger UserPurger,
	logger *zap.Logger,
) *UserEventConsumer {
	return &UserEventConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, TopicUserEvents, logger),
		purger:   purger,
		logger:   logger,
	}
}

// Start begins consuming user events. This blocks until the context is cancelled.
func (c *UserEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *UserEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *UserEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from user topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // malformed messages are never retried
	}

	switch cloudEvent.Type {
	case UserDeleted:
		return c.handleUserDeleted(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled user event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *UserEventConsumer) handleUserDeleted(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt UserDeletedEvent
	if err := cloudEvent.ParseData(&evt); err != nil || evt.UserID == uuid.Nil {
		c.logger.Error("failed to parse UserDeletedEvent data",
			zap.String("event_id", cloudEvent.ID),
			zap.Error(err),
		)
		return nil
	}

	c.logger.Info("processing user deleted event", zap.String("user_id", evt.UserID.String()))

	if err := c.purger.PurgeUser(ctx, evt.UserID); err != nil {
		c.logger.Error("failed to purge user data",
			zap.String("user_id", evt.UserID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
