package api

import (
	"time"

	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rpupo63/personal-blog-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, svc services.Services, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		postHandler:       newPostHandler(svc.Posts),
		commentHandler:    newCommentHandler(svc.Comments),
		subscriberHandler: newSubscriberHandler(svc.Subscribers),
		healthHandler:     newHealthHandler(db, startupTime),
		fileHandler:       newFileHandler(svc.Uploads),
		adminHandler:      newAdminHandler(svc.Admin),
	}
}
