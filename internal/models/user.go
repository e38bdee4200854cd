// internal/models/user.go
package models

import "github.com/google/uuid"

// User is the notification recipient, owned by the auth subsystem and read
// here for delivery preferences only.
type User struct {
	ID                      uuid.UUID `json:"id"`
	Name                    string    `json:"name"`
	Email                   string    `json:"email"`
	NotificationsEnabled    bool      `json:"notificationsEnabled"`
	NotificationTimeMinutes *int      `json:"notificationTimeMinutes,omitempty"`
	Timezone                string    `json:"timezone,omitempty"`
}
