package database

import (
	"context"
	"errors"
	"strings"

	"github.com/rpupo63/personal-blog-backend/models"
	"gorm.io/gorm"
)

type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *PostRepo) GetDB() *gorm.DB {
	return r.db
}

func newestCommentsFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

func (r *PostRepo) withComments(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Comments", newestCommentsFirst).
		Order("creation_date DESC").
		Order("id DESC")
}

// FindAll returns all posts, newest first, each with its comments newest first
func (r *PostRepo) FindAll(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.withComments(ctx).Find(&posts).Error
	return posts, err
}

// FindByID returns a post with its comments, or nil when it does not exist
func (r *PostRepo) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	err := r.withComments(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Exists reports whether a post with the given id is stored
func (r *PostRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// FindByCategory returns posts whose category matches case-insensitively
func (r *PostRepo) FindByCategory(ctx context.Context, category string) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.withComments(ctx).
		Where("LOWER(category) = ?", strings.ToLower(category)).
		Find(&posts).Error
	return posts, err
}

// Search matches the term against title, author, content and category
func (r *PostRepo) Search(ctx context.Context, term string) ([]*models.Post, error) {
	pattern := "%" + strings.ToLower(term) + "%"
	var posts []*models.Post
	err := r.withComments(ctx).
		Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(content) LIKE ? OR LOWER(category) LIKE ?",
			pattern, pattern, pattern, pattern).
		Find(&posts).Error
	return posts, err
}

// Categories returns the distinct categories in use, sorted
func (r *PostRepo) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

// Add inserts a new post into the database
func (r *PostRepo) Add(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Omit("Comments").Create(post).Error
}

// Update applies only the given columns to the post
func (r *PostRepo) Update(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Updates(fields).Error
}

// SetCounter overwrites a counter column. Callers compute the new value themselves.
func (r *PostRepo) SetCounter(ctx context.Context, id int64, column string, value int64) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Update(column, value).Error
}

// Delete removes a post and its comments in one transaction
func (r *PostRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}
