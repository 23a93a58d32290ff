package services

import (
	"context"
	"strings"
	"time"

	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rpupo63/personal-blog-backend/models"
)

type CreateCommentInput struct {
	PostID  int64
	Author  string
	Content string
}

type CommentService struct {
	comments *database.CommentRepo
	posts    *database.PostRepo
	now      func() time.Time
}

func NewCommentService(comments *database.CommentRepo, posts *database.PostRepo) *CommentService {
	return &CommentService{comments: comments, posts: posts, now: time.Now}
}

func (s *CommentService) WithClock(now func() time.Time) *CommentService {
	s.now = now
	return s
}

// ListByPost returns the comments of a post, newest first. An unknown post yields an empty list.
func (s *CommentService) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	comments, err := s.comments.FindByPostID(ctx, postID)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "comments", err)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return comments, nil
}

func (s *CommentService) Get(ctx context.Context, id int64) (*models.Comment, error) {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "comment", err)
	}
	if comment == nil {
		return nil, errs.NewNotFound("comment")
	}
	return comment, nil
}

func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(in.Author) == "" {
		return nil, errs.NewMissingRequiredFieldError("author")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, errs.NewMissingRequiredFieldError("content")
	}

	exists, err := s.posts.Exists(ctx, in.PostID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "post", err)
	}
	if !exists {
		return nil, errs.NewNotFound("post")
	}

	comment := &models.Comment{
		PostID:    in.PostID,
		Author:    in.Author,
		Content:   in.Content,
		CreatedAt: s.now().UTC(),
	}
	if err := s.comments.Add(ctx, comment); err != nil {
		return nil, errs.NewDatabaseError("create", "comment", err)
	}
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return errs.NewDatabaseError("delete", "comment", err)
	}
	return nil
}
