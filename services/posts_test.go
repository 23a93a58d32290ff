package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rpupo63/personal-blog-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCreatePostDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.posts.Create(ctx, CreatePostInput{Title: "Hello", Content: "World", Author: "Ana"})
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Equal(t, models.DefaultCategory, first.Category)
	assert.Zero(t, first.Likes)
	assert.Zero(t, first.Shares)
	assert.NotNil(t, first.Comments)
	assert.Empty(t, first.Comments)
	assert.True(t, first.CreationDate.Equal(epoch))

	second, err := f.posts.Create(ctx, CreatePostInput{Title: "Again", Content: "More", Author: "Ana", Category: "Travel"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "Travel", second.Category)

	stored, err := f.posts.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", stored.Title)
	assert.Equal(t, models.DefaultCategory, stored.Category)
}

func TestCreatePostRequiresFields(t *testing.T) {
	f := newFixture(t)

	inputs := map[string]CreatePostInput{
		"title":   {Content: "c", Author: "a"},
		"content": {Title: "t", Content: "   ", Author: "a"},
		"author":  {Title: "t", Content: "c"},
	}
	for field, in := range inputs {
		t.Run(field, func(t *testing.T) {
			_, err := f.posts.Create(context.Background(), in)
			require.Error(t, err)
			assert.True(t, errs.IsValidation(err))

			var apiErr *errs.ApiErr
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, field, apiErr.Field)
		})
	}

	posts, err := f.posts.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestGetPostNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.posts.Get(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
	assert.Equal(t, "post not found", err.Error())
}

func TestUpdatePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createPost(t, "Draft")

	updated, err := f.posts.Update(ctx, id, UpdatePostInput{
		Title:         strPtr("Final"),
		Category:      strPtr("Go"),
		FeaturedImage: strPtr("/uploads/cover.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "Content of Draft", updated.Content)
	assert.Equal(t, "Go", updated.Category)
	require.NotNil(t, updated.FeaturedImage)
	assert.Equal(t, "/uploads/cover.png", *updated.FeaturedImage)

	updated, err = f.posts.Update(ctx, id, UpdatePostInput{Category: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCategory, updated.Category)

	_, err = f.posts.Update(ctx, id, UpdatePostInput{Title: strPtr("  ")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidField))

	_, err = f.posts.Update(ctx, id+100, UpdatePostInput{Title: strPtr("x")})
	assert.True(t, errs.IsNotFound(err))
}

func TestDeletePostRemovesComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createPost(t, "Doomed")

	comment, err := f.comments.Create(ctx, CreateCommentInput{PostID: id, Author: "Bo", Content: "Nice"})
	require.NoError(t, err)

	require.NoError(t, f.posts.Delete(ctx, id))

	_, err = f.posts.Get(ctx, id)
	assert.True(t, errs.IsNotFound(err))
	_, err = f.comments.Get(ctx, comment.ID)
	assert.True(t, errs.IsNotFound(err))

	err = f.posts.Delete(ctx, id)
	assert.True(t, errs.IsNotFound(err))
}

func TestLikeAndShare(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createPost(t, "Popular")

	post, err := f.posts.Like(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, post.Likes)

	post, err = f.posts.Like(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 2, post.Likes)
	assert.EqualValues(t, 0, post.Shares)

	post, err = f.posts.Share(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, post.Shares)
	assert.EqualValues(t, 2, post.Likes)

	_, err = f.posts.Like(ctx, id+100)
	assert.True(t, errs.IsNotFound(err))
}

// Increments are read-then-write, so concurrent likes may be lost but never invented.
func TestConcurrentLikesNeverOvercount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createPost(t, "Racy")

	const workers = 2
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.posts.Like(ctx, id); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	post, err := f.posts.Get(ctx, id)
	require.NoError(t, err)
	assert.LessOrEqual(t, post.Likes, int64(succeeded))
	if succeeded > 0 {
		assert.GreaterOrEqual(t, post.Likes, int64(1))
	}
}

func TestCategoriesAndSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	categories, err := f.posts.Categories(ctx)
	require.NoError(t, err)
	assert.NotNil(t, categories)
	assert.Empty(t, categories)

	_, err = f.posts.Create(ctx, CreatePostInput{Title: "Learning Rust", Content: "ownership", Author: "Ana", Category: "Programming"})
	require.NoError(t, err)
	_, err = f.posts.Create(ctx, CreatePostInput{Title: "Bread", Content: "flour", Author: "Bo", Category: "Cooking"})
	require.NoError(t, err)

	categories, err = f.posts.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cooking", "Programming"}, categories)

	byCategory, err := f.posts.ByCategory(ctx, " cooking ")
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Bread", byCategory[0].Title)

	found, err := f.posts.Search(ctx, "rust")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Learning Rust", found[0].Title)

	all, err := f.posts.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "Bread", all[0].Title, "newest first")
}

func TestCreatePostNotifiesSubscribers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.subscribers.Subscribe(ctx, "a@example.com")
	require.NoError(t, err)
	_, err = f.subscribers.Subscribe(ctx, "b@example.com")
	require.NoError(t, err)
	_, err = f.subscribers.Unsubscribe(ctx, "b@example.com")
	require.NoError(t, err)

	post, err := f.posts.Create(ctx, CreatePostInput{Title: "News", Content: "<p>Hi</p>", Author: "Ana"})
	require.NoError(t, err)

	sent := f.mailer.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "New Post: News", sent[0].Subject)
	assert.Equal(t, []string{"a@example.com"}, sent[0].To)
	assert.Equal(t, "blog@example.com", sent[0].From)
	assert.Contains(t, sent[0].HTML, BuildPostURL("https://blog.example.com", post.ID))
}

func TestCreatePostSurvivesNotificationFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mailer.err = errors.New("provider down")

	_, err := f.subscribers.Subscribe(ctx, "a@example.com")
	require.NoError(t, err)

	post, err := f.posts.Create(ctx, CreatePostInput{Title: "Still here", Content: "c", Author: "Ana"})
	require.NoError(t, err)

	_, err = f.posts.Get(ctx, post.ID)
	assert.NoError(t, err)
}

type recordingNotifier struct{ posts []*models.Post }

func (r *recordingNotifier) NotifyNewPost(_ context.Context, post *models.Post) {
	r.posts = append(r.posts, post)
}

func TestCreatePostCallsNotifierOnlyOnSuccess(t *testing.T) {
	f := newFixture(t)
	notifier := &recordingNotifier{}
	posts := NewPostService(f.db.PostRepo(), notifier)

	_, err := posts.Create(context.Background(), CreatePostInput{Title: "", Content: "c", Author: "a"})
	require.Error(t, err)
	assert.Empty(t, notifier.posts)

	post, err := posts.Create(context.Background(), CreatePostInput{Title: "t", Content: "c", Author: "a"})
	require.NoError(t, err)
	require.Len(t, notifier.posts, 1)
	assert.Equal(t, post.ID, notifier.posts[0].ID)
}
