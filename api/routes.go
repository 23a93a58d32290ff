package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// setupHealthRoutes registers the unauthenticated probes
func setupHealthRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/health", handlers.healthHandler.health())
	r.Get("/db-status", handlers.healthHandler.dbStatus())
}

// setupAPIRoutes registers the /api surface. Writes go through requireAdmin, which is a
// pass-through unless admin enforcement is on.
func setupAPIRoutes(r chi.Router, handlers *routeHandlers, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/admin/session", handlers.adminHandler.createSession())

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", handlers.postHandler.getAllPosts())
			r.Get("/categories", handlers.postHandler.getCategories())
			r.Get("/category/{category}", handlers.postHandler.getPostsByCategory())
			r.Get("/search", handlers.postHandler.searchPosts())
			r.Get("/{postID}", handlers.postHandler.getPost())
			r.Post("/{postID}/like", handlers.postHandler.likePost())
			r.Post("/{postID}/share", handlers.postHandler.sharePost())

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Post("/", handlers.postHandler.createPost())
				r.Patch("/{postID}", handlers.postHandler.updatePost())
				r.Put("/{postID}", handlers.postHandler.updatePost())
				r.Delete("/{postID}", handlers.postHandler.deletePost())
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/post/{postID}", handlers.commentHandler.getCommentsByPost())
			r.Get("/{commentID}", handlers.commentHandler.getComment())
			r.Post("/", handlers.commentHandler.createComment())
			r.With(requireAdmin).Delete("/{commentID}", handlers.commentHandler.deleteComment())
		})

		r.Route("/subscribers", func(r chi.Router) {
			r.Get("/", handlers.subscriberHandler.getSubscribers())
			r.Post("/subscribe", handlers.subscriberHandler.subscribe())
			r.Delete("/unsubscribe/{email}", handlers.subscriberHandler.unsubscribe())
			r.Post("/send-email", handlers.subscriberHandler.sendEmail())
		})

		r.With(requireAdmin).Post("/files/upload", handlers.fileHandler.uploadFile())
	})
}

// setupUploadRoutes serves locally stored uploads back under /uploads/
func setupUploadRoutes(r chi.Router, dir string) {
	fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir)))
	r.Get("/uploads/*", fs.ServeHTTP)
}
