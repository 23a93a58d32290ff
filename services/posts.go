package services

import (
	"context"
	"strings"
	"time"

	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rpupo63/personal-blog-backend/models"
)

// NewPostNotifier is told about every successfully published post.
type NewPostNotifier interface {
	NotifyNewPost(ctx context.Context, post *models.Post)
}

type CreatePostInput struct {
	Title         string
	Content       string
	Author        string
	Category      string
	FeaturedImage *string
	Excerpt       *string
}

// UpdatePostInput carries only the fields to change; nil means leave as is.
type UpdatePostInput struct {
	Title         *string
	Content       *string
	Author        *string
	Category      *string
	FeaturedImage *string
	Excerpt       *string
}

type PostService struct {
	posts    *database.PostRepo
	notifier NewPostNotifier
	now      func() time.Time
}

func NewPostService(posts *database.PostRepo, notifier NewPostNotifier) *PostService {
	return &PostService{posts: posts, notifier: notifier, now: time.Now}
}

// WithClock replaces the time source used for creation timestamps.
func (s *PostService) WithClock(now func() time.Time) *PostService {
	s.now = now
	return s
}

func (s *PostService) List(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.posts.FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "posts", err)
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "post", err)
	}
	if post == nil {
		return nil, errs.NewNotFound("post")
	}
	return post, nil
}

// Create stores a new post and then notifies subscribers.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	required := []struct{ name, value string }{
		{"title", in.Title},
		{"content", in.Content},
		{"author", in.Author},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, errs.NewMissingRequiredFieldError(f.name)
		}
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.DefaultCategory
	}

	post := &models.Post{
		Title:         in.Title,
		Content:       in.Content,
		Author:        in.Author,
		Category:      category,
		FeaturedImage: in.FeaturedImage,
		Excerpt:       in.Excerpt,
		CreationDate:  s.now().UTC(),
	}
	if err := s.posts.Add(ctx, post); err != nil {
		return nil, errs.NewDatabaseError("create", "post", err)
	}
	post.Comments = []models.Comment{}

	if s.notifier != nil {
		s.notifier.NotifyNewPost(ctx, post)
	}
	return post, nil
}

func (s *PostService) Update(ctx context.Context, id int64, in UpdatePostInput) (*models.Post, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	nonEmpty := []struct {
		name   string
		column string
		value  *string
	}{
		{"title", "title", in.Title},
		{"content", "content", in.Content},
		{"author", "author", in.Author},
	}
	for _, f := range nonEmpty {
		if f.value == nil {
			continue
		}
		if strings.TrimSpace(*f.value) == "" {
			return nil, errs.NewInvalidFieldError(f.name, "must not be empty")
		}
		fields[f.column] = *f.value
	}
	if in.Category != nil {
		category := strings.TrimSpace(*in.Category)
		if category == "" {
			category = models.DefaultCategory
		}
		fields["category"] = category
	}
	if in.FeaturedImage != nil {
		fields["featured_image"] = *in.FeaturedImage
	}
	if in.Excerpt != nil {
		fields["excerpt"] = *in.Excerpt
	}

	if err := s.posts.Update(ctx, id, fields); err != nil {
		return nil, errs.NewDatabaseError("update", "post", err)
	}
	return s.Get(ctx, id)
}

func (s *PostService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return errs.NewDatabaseError("delete", "post", err)
	}
	return nil
}

// Like and Share read the current count and write it back plus one.
// Concurrent increments of the same post can be lost.
func (s *PostService) Like(ctx context.Context, id int64) (*models.Post, error) {
	return s.increment(ctx, id, "likes", func(p *models.Post) *int64 { return &p.Likes })
}

func (s *PostService) Share(ctx context.Context, id int64) (*models.Post, error) {
	return s.increment(ctx, id, "shares", func(p *models.Post) *int64 { return &p.Shares })
}

func (s *PostService) increment(ctx context.Context, id int64, column string, counter func(*models.Post) *int64) (*models.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c := counter(post)
	if err := s.posts.SetCounter(ctx, id, column, *c+1); err != nil {
		return nil, errs.NewDatabaseError("update", "post", err)
	}
	*c++
	return post, nil
}

func (s *PostService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.posts.Categories(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "categories", err)
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

func (s *PostService) ByCategory(ctx context.Context, category string) ([]*models.Post, error) {
	posts, err := s.posts.FindByCategory(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, errs.NewDatabaseError("list", "posts", err)
	}
	return posts, nil
}

// Search with an empty term returns every post.
func (s *PostService) Search(ctx context.Context, term string) ([]*models.Post, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.List(ctx)
	}
	posts, err := s.posts.Search(ctx, term)
	if err != nil {
		return nil, errs.NewDatabaseError("search", "posts", err)
	}
	return posts, nil
}
