package notify

import (
	"context"
	"fmt"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/logger"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
)

// FCMPusher sends to a per-user topic the clients subscribe to after sign-in,
// so no device tokens are stored server-side.
type FCMPusher struct {
	client *messaging.Client
}

func NewFCMPusher(ctx context.Context, app *firebase.App) (*FCMPusher, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging client: %w", err)
	}
	return &FCMPusher{client: client}, nil
}

func UserTopic(userID string) string {
	return "user-" + userID
}

func (p *FCMPusher) Name() string { return "fcm" }

func (p *FCMPusher) Push(ctx context.Context, to *domain.User, n *domain.Notification) error {
	logger.ExternalServiceCall("fcm", "Send", "userID", to.ID, "notificationID", n.ID)
	_, err := p.client.Send(ctx, &messaging.Message{
		Topic: UserTopic(to.ID),
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Description,
		},
		Data: map[string]string{
			"notification_id": n.ID,
			"link":            n.Link,
		},
	})
	logger.ExternalServiceResult("fcm", "Send", err, "userID", to.ID)
	return err
}
