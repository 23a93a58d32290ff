package webclient

import (
	"context"
	"errors"
	"sync"

	"github.com/rpupo63/personal-blog-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AdminStorageKey is where the admin credential is persisted.
const AdminStorageKey = "blogAdmin"

// User-facing messages.
const (
	MsgIncorrectPassword   = "Incorrect password"
	MsgAdminGranted        = "Admin access granted!"
	MsgAdminLoginFailed    = "Admin login failed. Please try again."
	MsgLoggedOut           = "Logged out from admin mode"
	MsgLoadPostsFailed     = "Failed to load posts. Please check your connection."
	MsgLoadPostFailed      = "Failed to load post."
	MsgLoadEditFailed      = "Failed to load post for editing."
	MsgPostCreated         = "Post created successfully!"
	MsgPostUpdated         = "Post updated successfully!"
	MsgPostDeleted         = "Post deleted successfully!"
	MsgCreatePostFailed    = "Failed to create post."
	MsgUpdatePostFailed    = "Failed to update post."
	MsgDeletePostFailed    = "Failed to delete post."
	MsgCommentAdded        = "Comment added!"
	MsgCommentDeleted      = "Comment deleted successfully!"
	MsgAddCommentFailed    = "Failed to add comment."
	MsgDeleteCommentFailed = "Failed to delete comment."
	MsgLikeFailed          = "Failed to like post."
	MsgShareFailed         = "Failed to share post."
	MsgSubscribed          = "Subscribed successfully!"
	MsgSubscribeFailed     = "Failed to subscribe."

	promptPassword       = "Enter admin password:"
	confirmDeletePost    = "Are you sure you want to delete this post?"
	confirmDeleteComment = "Are you sure you want to delete this comment?"
	confirmLogout        = "You are currently in admin mode. Do you want to logout?"
)

// Prompter asks the user for input. ok is false when the prompt was cancelled.
type Prompter interface {
	Password(prompt string) (password string, ok bool)
	Confirm(prompt string) bool
}

type route struct {
	view View
	id   int64
}

// Controller drives the client views. Calls are synchronous; a response that arrives after
// the user has navigated elsewhere still applies its result.
type Controller struct {
	api      *Client
	store    *Store
	gate     AdminGate
	prompter Prompter
	storage  LocalStorage
	logger   zerolog.Logger

	mu      sync.Mutex
	doc     Document
	history []route
}

func NewController(api *Client, gate AdminGate, prompter Prompter, storage LocalStorage) *Controller {
	c := &Controller{
		api:      api,
		store:    NewStore(State{}),
		gate:     gate,
		prompter: prompter,
		storage:  storage,
		logger:   log.With().Str("component", "webclient").Logger(),
	}
	c.store.Subscribe(c.redraw)
	return c
}

func (c *Controller) redraw(st State) {
	doc, err := Render(st)
	if err != nil {
		c.logger.Error().Err(err).Str("view", string(st.View)).Msg("Failed to render view")
	}
	c.mu.Lock()
	c.doc = doc
	c.mu.Unlock()
}

// Store exposes the state store so callers can observe it.
func (c *Controller) Store() *Store {
	return c.store
}

func (c *Controller) State() State {
	return c.store.State()
}

// Document is the most recently rendered frame.
func (c *Controller) Document() Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc
}

// Start restores a persisted admin credential and opens the view named by the location hash.
func (c *Controller) Start(ctx context.Context, hash string) {
	if credential := c.storage.Get(AdminStorageKey); credential != "" && c.gate.Restore(credential) {
		c.store.Update(func(s *State) { s.Admin = true })
	}
	view, id := ParseRoute(hash)
	c.NavigateTo(ctx, view, id)
}

func (c *Controller) showMessage(msg string) {
	if msg == "" {
		return
	}
	c.store.Update(func(s *State) { s.Message = msg })
}

// ClearMessage hides the transient message.
func (c *Controller) ClearMessage() {
	c.store.Update(func(s *State) { s.Message = "" })
}

// loading raises the loading flag and returns the function that lowers it.
func (c *Controller) loading() func() {
	c.store.Update(func(s *State) {
		s.inFlight++
		s.Loading = true
	})
	return func() {
		c.store.Update(func(s *State) {
			if s.inFlight > 0 {
				s.inFlight--
			}
			s.Loading = s.inFlight > 0
		})
	}
}

// NavigateTo switches views. Admin-only views prompt for the password first; a cancelled
// or rejected prompt leaves the current view in place.
func (c *Controller) NavigateTo(ctx context.Context, view View, id int64) {
	if view.adminOnly() && !c.State().Admin {
		if !c.requestAdmin(ctx) {
			return
		}
	}

	c.mu.Lock()
	c.history = append(c.history, route{view, id})
	c.mu.Unlock()

	c.store.Update(func(s *State) {
		s.View = view
		s.PostID = id
	})
	c.enter(ctx, view, id)
}

// Back returns to the previous view, or home when there is none.
func (c *Controller) Back(ctx context.Context) {
	c.mu.Lock()
	if len(c.history) > 0 {
		c.history = c.history[:len(c.history)-1]
	}
	prev := route{ViewHome, 0}
	if n := len(c.history); n > 0 {
		prev = c.history[n-1]
		c.history = c.history[:n-1]
	}
	c.mu.Unlock()

	c.NavigateTo(ctx, prev.view, prev.id)
}

func (c *Controller) enter(ctx context.Context, view View, id int64) {
	switch view {
	case ViewHome, ViewAllPosts:
		if len(c.State().Posts) == 0 {
			c.fetchPosts(ctx)
		}
	case ViewContact:
	case ViewPost:
		if id == 0 {
			c.NavigateTo(ctx, ViewHome, 0)
			return
		}
		c.fetchPost(ctx, id)
	case ViewCreatePost:
		c.store.Update(func(s *State) {
			s.Current = nil
			s.Comments = nil
		})
	case ViewEditPost:
		if id == 0 {
			c.NavigateTo(ctx, ViewHome, 0)
			return
		}
		c.loadForEdit(ctx, id)
	default:
		c.NavigateTo(ctx, ViewHome, 0)
	}
}

func (c *Controller) fetchPosts(ctx context.Context) {
	defer c.loading()()

	posts, err := c.api.ListPosts(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Error fetching posts")
		c.showMessage(MsgLoadPostsFailed)
		return
	}
	SortPosts(posts, SortRecent)
	c.store.Update(func(s *State) { s.Posts = posts })
}

// fetchPost always goes to the network; the list cache is not trusted for the detail view.
func (c *Controller) fetchPost(ctx context.Context, id int64) {
	defer c.loading()()

	post, err := c.api.GetPost(ctx, id)
	if err != nil {
		c.logger.Error().Err(err).Int64("postId", id).Msg("Error fetching post")
		c.showMessage(MsgLoadPostFailed)
		c.NavigateTo(ctx, ViewHome, 0)
		return
	}

	comments, err := c.api.ListComments(ctx, id)
	if err != nil {
		c.logger.Error().Err(err).Int64("postId", id).Msg("Error fetching comments")
		comments = []models.Comment{}
	}

	c.store.Update(func(s *State) {
		s.Current = post
		s.Comments = comments
	})
}

func (c *Controller) loadForEdit(ctx context.Context, id int64) {
	st := c.State()
	if i, ok := st.findPost(id); ok {
		post := st.Posts[i]
		c.store.Update(func(s *State) { s.Current = &post })
		return
	}

	defer c.loading()()
	post, err := c.api.GetPost(ctx, id)
	if err != nil {
		c.logger.Error().Err(err).Int64("postId", id).Msg("Error fetching post for edit")
		c.showMessage(MsgLoadEditFailed)
		c.NavigateTo(ctx, ViewHome, 0)
		return
	}
	c.store.Update(func(s *State) { s.Current = post })
}

func (c *Controller) requestAdmin(ctx context.Context) bool {
	password, ok := c.prompter.Password(promptPassword)
	if !ok {
		return false
	}

	credential, err := c.gate.Unlock(ctx, password)
	if err != nil {
		if errors.Is(err, ErrIncorrectPassword) {
			c.showMessage(MsgIncorrectPassword)
		} else {
			c.logger.Error().Err(err).Msg("Admin unlock failed")
			c.showMessage(MsgAdminLoginFailed)
		}
		return false
	}

	if err := c.storage.Set(AdminStorageKey, credential); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to persist admin flag")
	}
	c.store.Update(func(s *State) { s.Admin = true })
	c.showMessage(MsgAdminGranted)
	return true
}

// ToggleAdmin is the admin button: it logs in, or after confirmation logs out.
// It reports whether admin mode is active afterwards.
func (c *Controller) ToggleAdmin(ctx context.Context) bool {
	st := c.State()
	if !st.Admin {
		return c.requestAdmin(ctx)
	}

	if !c.prompter.Confirm(confirmLogout) {
		return true
	}
	if err := c.storage.Remove(AdminStorageKey); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to clear admin flag")
	}
	c.gate.Lock()
	c.store.Update(func(s *State) { s.Admin = false })
	c.showMessage(MsgLoggedOut)
	if st.View.adminOnly() {
		c.NavigateTo(ctx, ViewHome, 0)
	}
	return false
}

func (c *Controller) CreatePost(ctx context.Context, in PostInput) error {
	done := c.loading()
	post, err := c.api.CreatePost(ctx, in)
	done()
	if err != nil {
		c.logger.Error().Err(err).Msg("Error creating post")
		c.showMessage(MsgCreatePostFailed)
		return err
	}

	c.store.Update(func(s *State) {
		s.Posts = append([]models.Post{*post}, s.Posts...)
	})
	c.showMessage(MsgPostCreated)
	c.NavigateTo(ctx, ViewPost, post.ID)
	return nil
}

func (c *Controller) UpdatePost(ctx context.Context, id int64, in PostInput) error {
	done := c.loading()
	post, err := c.api.UpdatePost(ctx, id, in)
	done()
	if err != nil {
		c.logger.Error().Err(err).Int64("postId", id).Msg("Error updating post")
		c.showMessage(MsgUpdatePostFailed)
		return err
	}

	c.store.Update(func(s *State) {
		if i, ok := s.findPost(id); ok {
			s.Posts[i] = *post
		}
	})
	c.showMessage(MsgPostUpdated)
	c.NavigateTo(ctx, ViewPost, post.ID)
	return nil
}

// DeletePost asks for confirmation; declining makes no request.
func (c *Controller) DeletePost(ctx context.Context, id int64) error {
	if !c.prompter.Confirm(confirmDeletePost) {
		return nil
	}

	done := c.loading()
	err := c.api.DeletePost(ctx, id)
	done()
	if err != nil {
		c.logger.Error().Err(err).Int64("postId", id).Msg("Error deleting post")
		c.showMessage(MsgDeletePostFailed)
		return err
	}

	c.store.Update(func(s *State) {
		if i, ok := s.findPost(id); ok {
			s.Posts = append(s.Posts[:i], s.Posts[i+1:]...)
		}
		if s.Current != nil && s.Current.ID == id {
			s.Current = nil
			s.Comments = nil
		}
	})
	c.showMessage(MsgPostDeleted)
	c.NavigateTo(ctx, ViewHome, 0)
	return nil
}

// Like and Share copy the server's counts into the cache and the open post.
func (c *Controller) Like(ctx context.Context, id int64) error {
	done := c.loading()
	post, err := c.api.LikePost(ctx, id)
	done()
	if err != nil {
		c.logger.Error().Err(err).Int64("postId", id).Msg("Error liking post")
		c.showMessage(MsgLikeFailed)
		return err
	}
	c.applyCounters(post)
	return nil
}

func (c *Controller) Share(ctx context.Context, id int64) error {
	done := c.loading()
	post, err := c.api.SharePost(ctx, id)
	done()
	if err != nil {
		c.logger.Error().Err(err).Int64("postId", id).Msg("Error sharing post")
		c.showMessage(MsgShareFailed)
		return err
	}
	c.applyCounters(post)
	return nil
}

func (c *Controller) applyCounters(post *models.Post) {
	c.store.Update(func(s *State) {
		if i, ok := s.findPost(post.ID); ok {
			s.Posts[i].Likes = post.Likes
			s.Posts[i].Shares = post.Shares
		}
		if s.Current != nil && s.Current.ID == post.ID {
			s.Current.Likes = post.Likes
			s.Current.Shares = post.Shares
		}
	})
}

// AddComment comments on the open post and then reloads it.
func (c *Controller) AddComment(ctx context.Context, author, content string) error {
	postID := c.State().PostID

	done := c.loading()
	comment, err := c.api.CreateComment(ctx, postID, author, content)
	done()
	if err != nil {
		c.logger.Error().Err(err).Int64("postId", postID).Msg("Error adding comment")
		c.showMessage(MsgAddCommentFailed)
		return err
	}

	c.store.Update(func(s *State) {
		if i, ok := s.findPost(postID); ok {
			s.Posts[i].Comments = append([]models.Comment{*comment}, s.Posts[i].Comments...)
		}
	})
	c.showMessage(MsgCommentAdded)
	c.fetchPost(ctx, postID)
	return nil
}

// DeleteComment asks for confirmation; declining makes no request.
func (c *Controller) DeleteComment(ctx context.Context, commentID int64) error {
	if !c.prompter.Confirm(confirmDeleteComment) {
		return nil
	}
	postID := c.State().PostID

	done := c.loading()
	err := c.api.DeleteComment(ctx, commentID)
	done()
	if err != nil {
		c.logger.Error().Err(err).Int64("commentId", commentID).Msg("Error deleting comment")
		c.showMessage(MsgDeleteCommentFailed)
		return err
	}

	c.store.Update(func(s *State) {
		if i, ok := s.findPost(postID); ok {
			s.Posts[i].Comments = removeComment(s.Posts[i].Comments, commentID)
		}
		s.Comments = removeComment(s.Comments, commentID)
	})
	c.showMessage(MsgCommentDeleted)
	c.fetchPost(ctx, postID)
	return nil
}

func removeComment(comments []models.Comment, id int64) []models.Comment {
	kept := make([]models.Comment, 0, len(comments))
	for _, cm := range comments {
		if cm.ID != id {
			kept = append(kept, cm)
		}
	}
	return kept
}

// Subscribe signs an address up for new post emails.
func (c *Controller) Subscribe(ctx context.Context, email string) error {
	done := c.loading()
	_, err := c.api.Subscribe(ctx, email)
	done()
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
			c.showMessage(apiErr.Message)
		} else {
			c.showMessage(MsgSubscribeFailed)
		}
		return err
	}
	c.showMessage(MsgSubscribed)
	return nil
}

func (c *Controller) SetSearchTerm(term string) {
	c.store.Update(func(s *State) { s.Query.Term = term })
}

func (c *Controller) SetCategory(category string) {
	c.store.Update(func(s *State) { s.Query.Category = category })
}

func (c *Controller) SetSort(order SortOrder) {
	c.store.Update(func(s *State) { s.Query.Sort = order })
}

// VisiblePosts is the all-posts list after search, category and sort.
func (c *Controller) VisiblePosts() []models.Post {
	st := c.State()
	return FilterPosts(st.Posts, st.Query)
}
