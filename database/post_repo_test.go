package database

import (
	"context"
	"testing"
	"time"

	"github.com/rpupo63/personal-blog-backend/database/dbtest"
	"github.com/rpupo63/personal-blog-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func addPost(t *testing.T, repo *PostRepo, title, category string, created time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:        title,
		Content:      "Body of " + title,
		Author:       "Ana",
		Category:     category,
		CreationDate: created,
	}
	require.NoError(t, repo.Add(context.Background(), post))
	require.NotZero(t, post.ID)
	return post
}

func addComment(t *testing.T, repo *CommentRepo, postID int64, content string, created time.Time) *models.Comment {
	t.Helper()
	comment := &models.Comment{PostID: postID, Author: "Reader", Content: content, CreatedAt: created}
	require.NoError(t, repo.Add(context.Background(), comment))
	return comment
}

func TestPostRepoFindAllNewestFirst(t *testing.T) {
	db := New(dbtest.Open(t))
	ctx := context.Background()

	oldest := addPost(t, db.PostRepo(), "Oldest", "Go", epoch)
	newest := addPost(t, db.PostRepo(), "Newest", "Go", epoch.Add(2*time.Hour))
	middle := addPost(t, db.PostRepo(), "Middle", "Rust", epoch.Add(time.Hour))

	addComment(t, db.CommentRepo(), newest.ID, "first", epoch)
	addComment(t, db.CommentRepo(), newest.ID, "second", epoch.Add(time.Minute))

	posts, err := db.PostRepo().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []int64{newest.ID, middle.ID, oldest.ID}, []int64{posts[0].ID, posts[1].ID, posts[2].ID})

	require.Len(t, posts[0].Comments, 2)
	assert.Equal(t, "second", posts[0].Comments[0].Content)
	assert.Empty(t, posts[2].Comments)
}

func TestPostRepoFindByID(t *testing.T) {
	db := New(dbtest.Open(t))
	ctx := context.Background()

	post := addPost(t, db.PostRepo(), "Hello", "General", epoch)

	found, err := db.PostRepo().FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Hello", found.Title)
	assert.True(t, found.CreationDate.Equal(epoch))

	missing, err := db.PostRepo().FindByID(ctx, post.ID+100)
	require.NoError(t, err)
	assert.Nil(t, missing)

	exists, err := db.PostRepo().Exists(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = db.PostRepo().Exists(ctx, post.ID+100)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPostRepoDeleteRemovesComments(t *testing.T) {
	db := New(dbtest.Open(t))
	ctx := context.Background()

	doomed := addPost(t, db.PostRepo(), "Doomed", "General", epoch)
	kept := addPost(t, db.PostRepo(), "Kept", "General", epoch)
	c1 := addComment(t, db.CommentRepo(), doomed.ID, "one", epoch)
	c2 := addComment(t, db.CommentRepo(), doomed.ID, "two", epoch)
	other := addComment(t, db.CommentRepo(), kept.ID, "stays", epoch)

	require.NoError(t, db.PostRepo().Delete(ctx, doomed.ID))

	for _, id := range []int64{c1.ID, c2.ID} {
		c, err := db.CommentRepo().FindByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, c)
	}

	c, err := db.CommentRepo().FindByID(ctx, other.ID)
	require.NoError(t, err)
	assert.NotNil(t, c)

	gone, err := db.PostRepo().FindByID(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestPostRepoCategoriesAndSearch(t *testing.T) {
	db := New(dbtest.Open(t))
	ctx := context.Background()

	addPost(t, db.PostRepo(), "Learning Rust", "Programming", epoch)
	addPost(t, db.PostRepo(), "Sourdough", "Cooking", epoch.Add(time.Hour))
	addPost(t, db.PostRepo(), "Go tips", "Programming", epoch.Add(2*time.Hour))

	categories, err := db.PostRepo().Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cooking", "Programming"}, categories)

	programming, err := db.PostRepo().FindByCategory(ctx, "programming")
	require.NoError(t, err)
	require.Len(t, programming, 2)
	assert.Equal(t, "Go tips", programming[0].Title)

	found, err := db.PostRepo().Search(ctx, "RUST")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Learning Rust", found[0].Title)

	byCategory, err := db.PostRepo().Search(ctx, "cook")
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Sourdough", byCategory[0].Title)
}

func TestPostRepoUpdateAndCounters(t *testing.T) {
	db := New(dbtest.Open(t))
	ctx := context.Background()

	post := addPost(t, db.PostRepo(), "Draft", "General", epoch)

	require.NoError(t, db.PostRepo().Update(ctx, post.ID, map[string]any{"title": "Final"}))
	require.NoError(t, db.PostRepo().Update(ctx, post.ID, nil))
	require.NoError(t, db.PostRepo().SetCounter(ctx, post.ID, "likes", 7))

	found, err := db.PostRepo().FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", found.Title)
	assert.Equal(t, "Body of Draft", found.Content)
	assert.EqualValues(t, 7, found.Likes)
	assert.EqualValues(t, 0, found.Shares)
}
