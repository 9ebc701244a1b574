package models

import "time"

// Notification types produced by the engine.
const (
	NotificationTypeExamConfirmed = "RESIT_EXAM_CONFIRMED"
)

// Notification is an event record handed to the external dispatcher for
// delivery. The engine only produces rows; delivery is someone else's problem.
type Notification struct {
	ID              int64     `json:"id" db:"id"`
	UserID          int64     `json:"userId" db:"user_id"`
	Type            string    `json:"type" db:"type"`
	Title           string    `json:"title" db:"title"`
	Message         string    `json:"message" db:"message"`
	RelatedEntityID int64     `json:"relatedEntityId" db:"related_entity_id"`
	IsRead          bool      `json:"isRead" db:"is_read"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}
