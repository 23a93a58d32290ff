package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/personal-blog-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type postHandler struct {
	responder Responder
	logger    zerolog.Logger
	posts     *services.PostService
}

func newPostHandler(posts *services.PostService) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder: NewResponder(logger),
		logger:    logger,
		posts:     posts,
	}
}

// getAllPosts retrieves all posts with their comments
// @Summary Get all posts
// @Description Retrieves all posts newest first, each with its comments newest first
// @Tags Posts
// @Produce json
// @Success 200 {array} models.Post "List of posts"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching posts"
// @Router /api/posts [get]
func (h postHandler) getAllPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.posts.List(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, posts)
	}
}

// getPost retrieves a specific post by ID with its comments
// @Summary Get post
// @Tags Posts
// @Produce json
// @Param postID path int true "Post ID"
// @Success 200 {object} models.Post "Post details with comments"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid postID"
// @Failure 404 {object} ErrorResponse "Not Found - Post not found"
// @Router /api/posts/{postID} [get]
func (h postHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := idParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.posts.Get(r.Context(), postID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, post)
	}
}

// createPost publishes a new post and notifies subscribers
// @Summary Create post
// @Description Creates a post with zero likes and shares. Category defaults to "General".
// @Tags Posts
// @Accept json
// @Produce json
// @Param post body createPostRequest true "Post data"
// @Success 201 {object} models.Post "Created post"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid post data"
// @Router /api/posts [post]
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPostRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.posts.Create(r.Context(), services.CreatePostInput{
			Title:         req.Title,
			Content:       req.Content,
			Author:        req.Author,
			Category:      req.Category,
			FeaturedImage: req.FeaturedImage,
			Excerpt:       req.Excerpt,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Int64("postId", post.ID).Str("title", post.Title).Str("actor", actor(r.Context())).Msg("Post created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, post)
	}
}

// updatePost applies the provided fields to a post
// @Summary Update post
// @Tags Posts
// @Accept json
// @Produce json
// @Param postID path int true "Post ID"
// @Param post body updatePostRequest true "Fields to change"
// @Success 200 {object} models.Post "Updated post"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid post data"
// @Failure 404 {object} ErrorResponse "Not Found - Post not found"
// @Router /api/posts/{postID} [patch]
func (h postHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := idParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req updatePostRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.posts.Update(r.Context(), postID, services.UpdatePostInput{
			Title:         req.Title,
			Content:       req.Content,
			Author:        req.Author,
			Category:      req.Category,
			FeaturedImage: req.FeaturedImage,
			Excerpt:       req.Excerpt,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, post)
	}
}

// deletePost removes a post and its comments
// @Summary Delete post
// @Tags Posts
// @Produce json
// @Param postID path int true "Post ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse "Not Found - Post not found"
// @Router /api/posts/{postID} [delete]
func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := idParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.posts.Delete(r.Context(), postID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Int64("postId", postID).Str("actor", actor(r.Context())).Msg("Post deleted")
		h.responder.WriteSuccess(w, "Post deleted successfully")
	}
}

// likePost increments the like counter
// @Summary Like post
// @Tags Posts
// @Produce json
// @Param postID path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} ErrorResponse "Not Found - Post not found"
// @Router /api/posts/{postID}/like [post]
func (h postHandler) likePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := idParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.posts.Like(r.Context(), postID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, post)
	}
}

// sharePost increments the share counter
// @Summary Share post
// @Tags Posts
// @Produce json
// @Param postID path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} ErrorResponse "Not Found - Post not found"
// @Router /api/posts/{postID}/share [post]
func (h postHandler) sharePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := idParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.posts.Share(r.Context(), postID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, post)
	}
}

// getCategories lists the categories in use
// @Summary Get categories
// @Tags Posts
// @Produce json
// @Success 200 {array} string
// @Router /api/posts/categories [get]
func (h postHandler) getCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.posts.Categories(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, categories)
	}
}

// getPostsByCategory lists posts in one category, case-insensitively
// @Summary Get posts by category
// @Tags Posts
// @Produce json
// @Param category path string true "Category"
// @Success 200 {array} models.Post
// @Router /api/posts/category/{category} [get]
func (h postHandler) getPostsByCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.posts.ByCategory(r.Context(), chi.URLParam(r, "category"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, posts)
	}
}

// searchPosts matches searchTerm against title, author, content and category
// @Summary Search posts
// @Tags Posts
// @Produce json
// @Param searchTerm query string false "Text to look for"
// @Success 200 {array} models.Post
// @Router /api/posts/search [get]
func (h postHandler) searchPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.posts.Search(r.Context(), r.URL.Query().Get("searchTerm"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, posts)
	}
}
