package domain

import "time"

type NotificationType string

const (
	NotificationRender   NotificationType = "render"
	NotificationChart    NotificationType = "chart"
	NotificationNavigate NotificationType = "navigate"
	NotificationAlert    NotificationType = "alert"
)

// ViewNotification is pushed to live dashboard clients whenever a page
// re-renders, a chart is drawn, the dashboard navigates or alerts.
type ViewNotification struct {
	Type      NotificationType `json:"type"`
	Page      string           `json:"page,omitempty"`
	Payload   any              `json:"payload,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}
