package api

import "time"

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	postHandler       postHandler
	commentHandler    commentHandler
	subscriberHandler subscriberHandler
	healthHandler     healthHandler
	fileHandler       fileHandler
	adminHandler      adminHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"post not found"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// SuccessResponse is returned by delete endpoints
type SuccessResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"Post deleted successfully"`
}

type createPostRequest struct {
	Title         string  `json:"title" validate:"required"`
	Content       string  `json:"content" validate:"required"`
	Author        string  `json:"author" validate:"required,max=200"`
	Category      string  `json:"category" validate:"max=100"`
	FeaturedImage *string `json:"featuredImage"`
	Excerpt       *string `json:"excerpt"`
}

// updatePostRequest fields left out of the body are not changed
type updatePostRequest struct {
	Title         *string `json:"title"`
	Content       *string `json:"content"`
	Author        *string `json:"author"`
	Category      *string `json:"category"`
	FeaturedImage *string `json:"featuredImage"`
	Excerpt       *string `json:"excerpt"`
}

type createCommentRequest struct {
	PostID  int64  `json:"postId" validate:"required,gt=0"`
	Author  string `json:"author" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

type subscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type sendEmailRequest struct {
	Email  string `json:"email" validate:"required,email"`
	PostID int64  `json:"postId" validate:"required,gt=0"`
}

type adminSessionRequest struct {
	Password string `json:"password" validate:"required"`
}

type adminSessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type healthResponse struct {
	Status    string `json:"status" example:"UP"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime,omitempty" example:"3h2m1s"`
}

type dbStatusResponse struct {
	Status    string `json:"status" example:"Connected"`
	Database  string `json:"database,omitempty" example:"PostgreSQL"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}
