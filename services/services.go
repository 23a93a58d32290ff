package services

import (
	"github.com/rpupo63/personal-blog-backend/database"
)

// Services bundles the workflows served by the api package.
type Services struct {
	Posts       *PostService
	Comments    *CommentService
	Subscribers *SubscriberService
	Admin       *AdminService
	Uploads     *UploadService
}

// New wires every workflow to the shared repositories. Publishing a post notifies
// subscribers through email.
func New(db database.Database, email *EmailService, admin *AdminService, store FileStore) Services {
	subscribers := NewSubscriberService(db.SubscriberRepo(), db.PostRepo(), email)
	return Services{
		Posts:       NewPostService(db.PostRepo(), subscribers),
		Comments:    NewCommentService(db.CommentRepo(), db.PostRepo()),
		Subscribers: subscribers,
		Admin:       admin,
		Uploads:     NewUploadService(store),
	}
}
