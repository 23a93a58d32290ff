package database

import (
	"context"
	"errors"

	"github.com/rpupo63/personal-blog-backend/models"
	"gorm.io/gorm"
)

type CommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db}
}

// FindByPostID returns the comments of a post, newest first
func (r *CommentRepo) FindByPostID(ctx context.Context, postID int64) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := newestCommentsFirst(r.db.WithContext(ctx)).
		Where("post_id = ?", postID).
		Find(&comments).Error
	return comments, err
}

// FindByID returns a comment, or nil when it does not exist
func (r *CommentRepo) FindByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Add inserts a new comment into the database
func (r *CommentRepo) Add(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// Delete removes a comment by id
func (r *CommentRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Comment{}, id).Error
}
