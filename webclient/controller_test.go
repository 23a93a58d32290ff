package webclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpupo63/personal-blog-backend/api"
	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rpupo63/personal-blog-backend/database/dbtest"
	"github.com/rpupo63/personal-blog-backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	clientPassword = "client-pw"
	serverPassword = "server-pw"
)

// scriptedPrompter answers prompts from queues. An empty password queue cancels.
type scriptedPrompter struct {
	passwords []string
	confirms  []bool

	passwordCalls int
	confirmCalls  int
}

func (p *scriptedPrompter) Password(string) (string, bool) {
	p.passwordCalls++
	if len(p.passwords) == 0 {
		return "", false
	}
	pw := p.passwords[0]
	p.passwords = p.passwords[1:]
	return pw, true
}

func (p *scriptedPrompter) Confirm(string) bool {
	p.confirmCalls++
	if len(p.confirms) == 0 {
		return false
	}
	ok := p.confirms[0]
	p.confirms = p.confirms[1:]
	return ok
}

func newBackend(t *testing.T, cfg map[string]string) *httptest.Server {
	t.Helper()

	db := database.New(dbtest.Open(t))
	store, err := services.NewLocalStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	admin := services.NewAdminService(services.AdminOptions{Password: serverPassword, Secret: "test-secret"})
	svc := services.New(db, services.NewEmailService(nil, "", ""), admin, store)

	server, err := api.NewServer(cfg, db, svc)
	require.NoError(t, err)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

type harness struct {
	ctx      context.Context
	client   *Client
	prompter *scriptedPrompter
	storage  *MemoryStorage
	c        *Controller
}

func newHarness(t *testing.T) harness {
	t.Helper()
	ts := newBackend(t, map[string]string{})
	client := NewClient(ts.URL, ts.Client())
	prompter := &scriptedPrompter{}
	storage := NewMemoryStorage()
	return harness{
		ctx:      context.Background(),
		client:   client,
		prompter: prompter,
		storage:  storage,
		c:        NewController(client, NewLocalGate(clientPassword), prompter, storage),
	}
}

func (h harness) seed(t *testing.T, titles ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(titles))
	for _, title := range titles {
		post, err := h.client.CreatePost(h.ctx, PostInput{Title: title, Content: "About " + title, Author: "Ana"})
		require.NoError(t, err)
		ids = append(ids, post.ID)
	}
	return ids
}

func (h harness) unlock(t *testing.T) {
	t.Helper()
	h.prompter.passwords = append(h.prompter.passwords, clientPassword)
	require.True(t, h.c.ToggleAdmin(h.ctx))
}

func TestStartShowsRecentPosts(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "One", "Two", "Three", "Four")

	h.c.Start(h.ctx, "")

	st := h.c.State()
	assert.Equal(t, ViewHome, st.View)
	assert.Len(t, st.Posts, 4)
	assert.False(t, st.Loading)

	doc := h.c.Document()
	assert.Equal(t, ViewHome, doc.Visible)
	assert.Equal(t, 3, strings.Count(doc.Fragments[PanelRecentPosts], `class="post-card"`))
	assert.Contains(t, doc.Fragments[PanelRecentPosts], "Four")
	assert.NotContains(t, doc.Fragments[PanelRecentPosts], ">One<")
}

func TestHomeUsesCacheWhenPopulated(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "Cached")
	h.c.Start(h.ctx, "#home")

	h.seed(t, "Added later")
	h.c.NavigateTo(h.ctx, ViewAllPosts, 0)

	assert.Len(t, h.c.State().Posts, 1)
	assert.Equal(t, "Showing 1 of 1 posts", h.c.Document().Fragments[PanelResultsCount])
}

func TestAdminGate(t *testing.T) {
	h := newHarness(t)
	h.c.Start(h.ctx, "")

	h.prompter.passwords = []string{"wrong"}
	h.c.NavigateTo(h.ctx, ViewCreatePost, 0)

	st := h.c.State()
	assert.Equal(t, ViewHome, st.View)
	assert.False(t, st.Admin)
	assert.Equal(t, MsgIncorrectPassword, st.Message)
	assert.Empty(t, h.storage.Get(AdminStorageKey))

	h.c.ClearMessage()
	h.c.NavigateTo(h.ctx, ViewCreatePost, 0)
	assert.Equal(t, ViewHome, h.c.State().View, "cancelled prompt")
	assert.Empty(t, h.c.State().Message)

	h.prompter.passwords = []string{clientPassword}
	h.c.NavigateTo(h.ctx, ViewCreatePost, 0)

	st = h.c.State()
	assert.Equal(t, ViewCreatePost, st.View)
	assert.True(t, st.Admin)
	assert.Equal(t, MsgAdminGranted, st.Message)
	assert.Equal(t, "authenticated", h.storage.Get(AdminStorageKey))
	assert.Contains(t, h.c.Document().Fragments[PanelPostForm], "Create New Post")

	calls := h.prompter.passwordCalls
	h.c.NavigateTo(h.ctx, ViewCreatePost, 0)
	assert.Equal(t, calls, h.prompter.passwordCalls, "no prompt once admin")
}

func TestStartRestoresAdmin(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.storage.Set(AdminStorageKey, "authenticated"))

	h.c.Start(h.ctx, "#create")

	assert.Equal(t, ViewCreatePost, h.c.State().View)
	assert.Zero(t, h.prompter.passwordCalls)
}

func TestToggleAdminLogout(t *testing.T) {
	h := newHarness(t)
	h.c.Start(h.ctx, "")
	h.unlock(t)
	h.c.NavigateTo(h.ctx, ViewCreatePost, 0)

	assert.True(t, h.c.ToggleAdmin(h.ctx), "declined logout keeps admin")

	h.prompter.confirms = []bool{true}
	assert.False(t, h.c.ToggleAdmin(h.ctx))

	st := h.c.State()
	assert.False(t, st.Admin)
	assert.Equal(t, ViewHome, st.View)
	assert.Equal(t, MsgLoggedOut, st.Message)
	assert.Empty(t, h.storage.Get(AdminStorageKey))
}

func TestCreateUpdateAndDeletePost(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "Existing")
	h.c.Start(h.ctx, "")
	h.unlock(t)
	h.c.NavigateTo(h.ctx, ViewCreatePost, 0)

	require.NoError(t, h.c.CreatePost(h.ctx, PostInput{Title: "Fresh", Content: "Line one\nLine two", Author: "Ana"}))

	st := h.c.State()
	require.NotNil(t, st.Current)
	assert.Equal(t, ViewPost, st.View)
	assert.Equal(t, st.Current.ID, st.PostID)
	assert.Equal(t, "Fresh", st.Posts[0].Title)
	assert.Equal(t, MsgPostCreated, st.Message)
	assert.Contains(t, h.c.Document().Fragments[PanelPostContent], "Line one<br>Line two")
	id := st.Current.ID

	h.c.NavigateTo(h.ctx, ViewEditPost, id)
	assert.Contains(t, h.c.Document().Fragments[PanelPostForm], `value="Fresh"`)

	require.NoError(t, h.c.UpdatePost(h.ctx, id, PostInput{Title: "Refreshed"}))
	st = h.c.State()
	assert.Equal(t, "Refreshed", st.Current.Title)
	assert.Equal(t, "Refreshed", st.Posts[0].Title)

	h.prompter.confirms = []bool{false}
	require.NoError(t, h.c.DeletePost(h.ctx, id))
	_, err := h.client.GetPost(h.ctx, id)
	require.NoError(t, err, "declined delete sends nothing")

	h.prompter.confirms = []bool{true}
	require.NoError(t, h.c.DeletePost(h.ctx, id))

	st = h.c.State()
	assert.Equal(t, ViewHome, st.View)
	assert.Len(t, st.Posts, 1)
	assert.Equal(t, MsgPostDeleted, st.Message)

	_, err = h.client.GetPost(h.ctx, id)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestCreatePostFailure(t *testing.T) {
	h := newHarness(t)
	h.c.Start(h.ctx, "")

	err := h.c.CreatePost(h.ctx, PostInput{Title: "No body"})
	require.Error(t, err)

	st := h.c.State()
	assert.Equal(t, MsgCreatePostFailed, st.Message)
	assert.Empty(t, st.Posts)
	assert.False(t, st.Loading)
}

func TestOpenMissingPostReturnsHome(t *testing.T) {
	h := newHarness(t)
	h.c.Start(h.ctx, "#post/999")

	st := h.c.State()
	assert.Equal(t, ViewHome, st.View)
	assert.Equal(t, MsgLoadPostFailed, st.Message)
}

func TestEditMissingPostReturnsHome(t *testing.T) {
	h := newHarness(t)
	h.c.Start(h.ctx, "")
	h.unlock(t)

	h.c.NavigateTo(h.ctx, ViewEditPost, 999)

	st := h.c.State()
	assert.Equal(t, ViewHome, st.View)
	assert.Equal(t, MsgLoadEditFailed, st.Message)
}

func TestPostDetailAlwaysRefetches(t *testing.T) {
	h := newHarness(t)
	ids := h.seed(t, "Original")
	h.c.Start(h.ctx, "")

	_, err := h.client.UpdatePost(h.ctx, ids[0], PostInput{Title: "Changed on server"})
	require.NoError(t, err)

	h.c.NavigateTo(h.ctx, ViewPost, ids[0])
	assert.Equal(t, "Changed on server", h.c.State().Current.Title)
	assert.Equal(t, "Original", h.c.State().Posts[0].Title)
}

func TestLikeAndShare(t *testing.T) {
	h := newHarness(t)
	ids := h.seed(t, "Likeable")
	h.c.Start(h.ctx, "")
	h.c.NavigateTo(h.ctx, ViewPost, ids[0])

	require.NoError(t, h.c.Like(h.ctx, ids[0]))
	require.NoError(t, h.c.Like(h.ctx, ids[0]))
	require.NoError(t, h.c.Share(h.ctx, ids[0]))

	st := h.c.State()
	assert.EqualValues(t, 2, st.Current.Likes)
	assert.EqualValues(t, 1, st.Current.Shares)
	assert.EqualValues(t, 2, st.Posts[0].Likes)
	assert.Contains(t, h.c.Document().Fragments[PanelPostContent], "2 likes")

	assert.Error(t, h.c.Like(h.ctx, 999))
	assert.Equal(t, MsgLikeFailed, h.c.State().Message)
}

func TestComments(t *testing.T) {
	h := newHarness(t)
	ids := h.seed(t, "Discussed")
	h.c.Start(h.ctx, "")
	h.c.NavigateTo(h.ctx, ViewPost, ids[0])
	assert.Contains(t, h.c.Document().Fragments[PanelComments], "No comments yet")

	require.NoError(t, h.c.AddComment(h.ctx, "Bo", "Great read"))
	st := h.c.State()
	require.Len(t, st.Comments, 1)
	assert.Equal(t, MsgCommentAdded, st.Message)
	assert.Contains(t, h.c.Document().Fragments[PanelComments], "Great read")

	commentID := st.Comments[0].ID
	h.prompter.confirms = []bool{false}
	require.NoError(t, h.c.DeleteComment(h.ctx, commentID))
	assert.Len(t, h.c.State().Comments, 1)

	h.prompter.confirms = []bool{true}
	require.NoError(t, h.c.DeleteComment(h.ctx, commentID))
	assert.Empty(t, h.c.State().Comments)
	assert.Equal(t, MsgCommentDeleted, h.c.State().Message)

	assert.Error(t, h.c.AddComment(h.ctx, "", "anonymous"))
	assert.Equal(t, MsgAddCommentFailed, h.c.State().Message)
}

func TestSubscribe(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.c.Subscribe(h.ctx, "reader@example.com"))
	assert.Equal(t, MsgSubscribed, h.c.State().Message)

	require.Error(t, h.c.Subscribe(h.ctx, "reader@example.com"))
	assert.Equal(t, "Email already subscribed", h.c.State().Message)
}

func TestSearchAndBack(t *testing.T) {
	h := newHarness(t)
	ids := h.seed(t, "Go Basics", "Rust Guide", "Bread")
	h.c.Start(h.ctx, "")

	h.c.NavigateTo(h.ctx, ViewAllPosts, 0)
	h.c.SetSearchTerm("rust")

	assert.Equal(t, []string{"Rust Guide"}, titles(h.c.VisiblePosts()))
	assert.Equal(t, "Showing 1 of 3 posts", h.c.Document().Fragments[PanelResultsCount])

	h.c.SetSearchTerm("")
	h.c.SetSort(SortTitle)
	assert.Equal(t, []string{"Bread", "Go Basics", "Rust Guide"}, titles(h.c.VisiblePosts()))

	h.c.NavigateTo(h.ctx, ViewPost, ids[0])
	h.c.Back(h.ctx)
	assert.Equal(t, ViewAllPosts, h.c.State().View)

	h.c.Back(h.ctx)
	assert.Equal(t, ViewHome, h.c.State().View)
}

func TestServerGate(t *testing.T) {
	ts := newBackend(t, map[string]string{"ADMIN_ENFORCE": "true"})
	client := NewClient(ts.URL, ts.Client())
	prompter := &scriptedPrompter{}
	storage := NewMemoryStorage()
	c := NewController(client, NewServerGate(client), prompter, storage)
	ctx := context.Background()
	c.Start(ctx, "")

	prompter.passwords = []string{"wrong"}
	assert.False(t, c.ToggleAdmin(ctx))
	assert.Equal(t, MsgIncorrectPassword, c.State().Message)

	prompter.passwords = []string{serverPassword}
	require.True(t, c.ToggleAdmin(ctx))
	assert.NotEmpty(t, storage.Get(AdminStorageKey))

	require.NoError(t, c.CreatePost(ctx, PostInput{Title: "Guarded", Content: "c", Author: "a"}))

	restored := NewClient(ts.URL, ts.Client())
	other := NewController(restored, NewServerGate(restored), &scriptedPrompter{}, storage)
	other.Start(ctx, "#create")
	assert.Equal(t, ViewCreatePost, other.State().View, "token restored from storage")

	prompter.confirms = []bool{true}
	assert.False(t, c.ToggleAdmin(ctx))
	assert.Error(t, c.CreatePost(ctx, PostInput{Title: "Rejected", Content: "c", Author: "a"}))
}
