package models

import "time"

// Subscriber receives new-post notifications while Active. Unsubscribing only clears Active.
type Subscriber struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Email     string    `json:"email" gorm:"type:text;not null;uniqueIndex:idx_subscriber_email"`
	Active    bool      `json:"active" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
}
