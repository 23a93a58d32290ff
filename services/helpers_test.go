package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rpupo63/personal-blog-backend/database/dbtest"
	"gorm.io/gorm"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeMailer records messages and fails with err when set.
type fakeMailer struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.sent...)
}

// stepClock advances by one minute on every call.
func stepClock() func() time.Time {
	var mu sync.Mutex
	next := epoch
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(time.Minute)
		return now
	}
}

type fixture struct {
	gdb         *gorm.DB
	db          database.Database
	mailer      *fakeMailer
	posts       *PostService
	comments    *CommentService
	subscribers *SubscriberService
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	gdb := dbtest.Open(t)
	db := database.New(gdb)
	mailer := &fakeMailer{}
	email := NewEmailService(mailer, "blog@example.com", "https://blog.example.com")
	clock := stepClock()

	subscribers := NewSubscriberService(db.SubscriberRepo(), db.PostRepo(), email).WithClock(clock)
	return fixture{
		gdb:         gdb,
		db:          db,
		mailer:      mailer,
		posts:       NewPostService(db.PostRepo(), subscribers).WithClock(clock),
		comments:    NewCommentService(db.CommentRepo(), db.PostRepo()).WithClock(clock),
		subscribers: subscribers,
	}
}

func (f fixture) createPost(t *testing.T, title string) int64 {
	t.Helper()
	post, err := f.posts.Create(context.Background(), CreatePostInput{
		Title:   title,
		Content: "Content of " + title,
		Author:  "Ana",
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post.ID
}
