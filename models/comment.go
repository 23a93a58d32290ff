package models

import "time"

// Comment is a reader comment on a post.
type Comment struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	PostID    int64     `json:"postId" gorm:"not null;index:idx_comment_post_id"`
	Author    string    `json:"author" gorm:"type:text;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
}
