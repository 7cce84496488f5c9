package out

import (
	"context"

	"github.com/google/uuid"
)

type NotificationEvent string

const (
	NotificationReplacementOffered NotificationEvent = "reassignment.replacement_offered"
	NotificationNoReplacement      NotificationEvent = "reassignment.none_found"
	NotificationReassignConfirmed  NotificationEvent = "reassignment.confirmed"
	NotificationRefundRequested    NotificationEvent = "reassignment.refund_requested"
)

// NotifierPort - отправка уведомлений пользователям.
// Доставка уведомлений живет на стороне платформы.
type NotifierPort interface {
	Notify(ctx context.Context, userID uuid.UUID, event NotificationEvent, payload map[string]interface{}) error
}
