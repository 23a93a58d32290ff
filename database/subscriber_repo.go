package database

import (
	"context"
	"errors"

	"github.com/rpupo63/personal-blog-backend/models"
	"gorm.io/gorm"
)

type SubscriberRepo struct {
	db *gorm.DB
}

func NewSubscriberRepo(db *gorm.DB) *SubscriberRepo {
	return &SubscriberRepo{db}
}

// FindByEmail returns the subscriber regardless of its active flag, or nil
func (r *SubscriberRepo) FindByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	var subscriber models.Subscriber
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&subscriber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &subscriber, nil
}

// FindActive returns active subscribers, newest first
func (r *SubscriberRepo) FindActive(ctx context.Context) ([]*models.Subscriber, error) {
	var subscribers []*models.Subscriber
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at DESC").
		Order("id DESC").
		Find(&subscribers).Error
	return subscribers, err
}

// Add inserts a new subscriber into the database
func (r *SubscriberRepo) Add(ctx context.Context, subscriber *models.Subscriber) error {
	return r.db.WithContext(ctx).Create(subscriber).Error
}

// SetActive flips the active flag. Records are never hard-deleted.
func (r *SubscriberRepo) SetActive(ctx context.Context, email string, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Subscriber{}).
		Where("email = ?", email).
		Update("active", active).Error
}
