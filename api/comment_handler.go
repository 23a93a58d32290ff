package api

import (
	"net/http"

	"github.com/rpupo63/personal-blog-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type commentHandler struct {
	responder Responder
	logger    zerolog.Logger
	comments  *services.CommentService
}

func newCommentHandler(comments *services.CommentService) commentHandler {
	logger := log.With().Str("handlerName", "commentHandler").Logger()

	return commentHandler{
		responder: NewResponder(logger),
		logger:    logger,
		comments:  comments,
	}
}

// getCommentsByPost lists the comments of a post, newest first
// @Summary Get comments for a post
// @Tags Comments
// @Produce json
// @Param postID path int true "Post ID"
// @Success 200 {array} models.Comment
// @Router /api/comments/post/{postID} [get]
func (h commentHandler) getCommentsByPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := idParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		comments, err := h.comments.ListByPost(r.Context(), postID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, comments)
	}
}

// getComment retrieves one comment
// @Summary Get comment
// @Tags Comments
// @Produce json
// @Param commentID path int true "Comment ID"
// @Success 200 {object} models.Comment
// @Failure 404 {object} ErrorResponse "Not Found - Comment not found"
// @Router /api/comments/{commentID} [get]
func (h commentHandler) getComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, err := idParam(r, "commentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		comment, err := h.comments.Get(r.Context(), commentID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, comment)
	}
}

// createComment adds a comment to an existing post
// @Summary Create comment
// @Tags Comments
// @Accept json
// @Produce json
// @Param comment body createCommentRequest true "Comment data"
// @Success 201 {object} models.Comment
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid comment data"
// @Failure 404 {object} ErrorResponse "Not Found - Post not found"
// @Router /api/comments [post]
func (h commentHandler) createComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCommentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		comment, err := h.comments.Create(r.Context(), services.CreateCommentInput{
			PostID:  req.PostID,
			Author:  req.Author,
			Content: req.Content,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, comment)
	}
}

// deleteComment removes a comment
// @Summary Delete comment
// @Tags Comments
// @Produce json
// @Param commentID path int true "Comment ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse "Not Found - Comment not found"
// @Router /api/comments/{commentID} [delete]
func (h commentHandler) deleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, err := idParam(r, "commentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.comments.Delete(r.Context(), commentID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Int64("commentId", commentID).Str("actor", actor(r.Context())).Msg("Comment deleted")
		h.responder.WriteSuccess(w, "Comment deleted successfully")
	}
}
