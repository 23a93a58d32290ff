package services

import (
	"context"
	"strings"
	"time"

	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rpupo63/personal-blog-backend/models"
	"github.com/rs/zerolog/log"
)

type SubscriberService struct {
	subscribers *database.SubscriberRepo
	posts       *database.PostRepo
	email       *EmailService
	now         func() time.Time
}

func NewSubscriberService(subscribers *database.SubscriberRepo, posts *database.PostRepo, email *EmailService) *SubscriberService {
	return &SubscriberService{subscribers: subscribers, posts: posts, email: email, now: time.Now}
}

func (s *SubscriberService) WithClock(now func() time.Time) *SubscriberService {
	s.now = now
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// List returns active subscribers, newest first.
func (s *SubscriberService) List(ctx context.Context) ([]*models.Subscriber, error) {
	subscribers, err := s.subscribers.FindActive(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "subscribers", err)
	}
	if subscribers == nil {
		subscribers = []*models.Subscriber{}
	}
	return subscribers, nil
}

// Subscribe creates a subscription, or reactivates one that was cancelled.
func (s *SubscriberService) Subscribe(ctx context.Context, email string) (*models.Subscriber, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, errs.NewMissingRequiredFieldError("email")
	}

	existing, err := s.subscribers.FindByEmail(ctx, email)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "subscriber", err)
	}

	if existing != nil {
		if existing.Active {
			return nil, errs.NewConflictError("Email already subscribed")
		}
		if err := s.subscribers.SetActive(ctx, email, true); err != nil {
			return nil, errs.NewDatabaseError("update", "subscriber", err)
		}
		existing.Active = true
		return existing, nil
	}

	subscriber := &models.Subscriber{
		Email:     email,
		Active:    true,
		CreatedAt: s.now().UTC(),
	}
	if err := s.subscribers.Add(ctx, subscriber); err != nil {
		return nil, errs.NewDatabaseError("create", "subscriber", err)
	}
	return subscriber, nil
}

// Unsubscribe deactivates the subscription. The record is kept.
func (s *SubscriberService) Unsubscribe(ctx context.Context, email string) (*models.Subscriber, error) {
	email = normalizeEmail(email)
	existing, err := s.subscribers.FindByEmail(ctx, email)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "subscriber", err)
	}
	if existing == nil {
		return nil, errs.NewNotFoundError("Email not found")
	}

	if err := s.subscribers.SetActive(ctx, email, false); err != nil {
		return nil, errs.NewDatabaseError("update", "subscriber", err)
	}
	existing.Active = false
	return existing, nil
}

// NotifyNewPost emails every active subscriber. Nothing is returned; failures are only logged.
func (s *SubscriberService) NotifyNewPost(ctx context.Context, post *models.Post) {
	subscribers, err := s.subscribers.FindActive(ctx)
	if err != nil {
		log.Error().Err(err).Int64("postId", post.ID).Msg("Failed to load subscribers for new post notification")
		return
	}
	if len(subscribers) == 0 {
		return
	}

	emails := make([]string, 0, len(subscribers))
	for _, sub := range subscribers {
		emails = append(emails, sub.Email)
	}
	s.email.NotifyNewPost(ctx, post, emails)
}

// SendPostByEmail sends one post to one address. Delivery failures are returned to the caller.
func (s *SubscriberService) SendPostByEmail(ctx context.Context, email string, postID int64) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errs.NewMissingRequiredFieldError("email")
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return errs.NewDatabaseError("find", "post", err)
	}
	if post == nil {
		return errs.NewNotFoundError("Post not found")
	}

	if err := s.email.SendPost(ctx, email, post); err != nil {
		return errs.NewDeliveryError(err)
	}
	return nil
}
