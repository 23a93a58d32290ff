package models

import "time"

// DefaultCategory is assigned to posts published without one.
const DefaultCategory = "General"

// Post is a published blog article. Comments are owned by the post and removed with it.
type Post struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title         string    `json:"title" gorm:"type:text;not null"`
	Content       string    `json:"content" gorm:"type:text;not null"`
	Author        string    `json:"author" gorm:"type:text;not null"`
	Category      string    `json:"category" gorm:"type:text;not null;index:idx_post_category"`
	FeaturedImage *string   `json:"featuredImage,omitempty" gorm:"type:text"`
	Excerpt       *string   `json:"excerpt,omitempty" gorm:"type:text"`
	CreationDate  time.Time `json:"creationDate" gorm:"not null;index:idx_post_creation_date"`
	Likes         int64     `json:"likes" gorm:"not null"`
	Shares        int64     `json:"shares" gorm:"not null"`
	Comments      []Comment `json:"comments" gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
}
