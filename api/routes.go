package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// setupPublicRoutes sets up the routes the public site reads from
func setupPublicRoutes(r chi.Router, handlers *routeHandlers, startupTime time.Time, responder Responder) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		responder.WriteJSON(w, map[string]any{
			"status":    "ok",
			"startedAt": startupTime.UTC(),
			"uptime":    time.Since(startupTime).Round(time.Second).String(),
		})
	})

	r.Get("/projects", handlers.projectHandler.getAllProjects())
	r.Get("/project/{projectID}", handlers.projectHandler.getProject())
	r.Get("/categories", handlers.categoryHandler.getCategories())
	r.Get("/main-images", handlers.imageHandler.getMainImages())
	r.Get("/about", handlers.aboutHandler.getAbout())
	r.Get("/background", handlers.siteHandler.getBackground())
	r.Get("/sitemap.xml", handlers.siteHandler.getSitemap())
}

// setupAdminRoutes sets up the admin login and every route behind it
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", handlers.authHandler.login())

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)
			setupAdminGroup(r, handlers)
		})
	})
}

func setupAdminGroup(r chi.Router, handlers *routeHandlers) {
	r.Post("/upload", handlers.uploadHandler.uploadFile())
	r.Post("/presign", handlers.uploadHandler.presignUpload())

	// Projects
	r.Post("/project", handlers.projectHandler.createProject())
	r.Put("/project/{projectID}", handlers.projectHandler.updateProject())
	r.Delete("/project/{projectID}", handlers.projectHandler.deleteProject())
	r.Get("/projects", handlers.projectHandler.getOrderedProjects())
	r.Post("/projects/move", handlers.projectHandler.moveProject())
	r.Put("/projects/order", handlers.projectHandler.setProjectOrder())

	// Project detail media
	r.Get("/project/{projectID}/media", handlers.mediaHandler.getMedia())
	r.Post("/project/{projectID}/media", handlers.mediaHandler.addMedia())
	r.Delete("/project/{projectID}/media/{index}", handlers.mediaHandler.removeMedia())
	r.Post("/project/{projectID}/media/move", handlers.mediaHandler.moveMedia())

	// Categories
	r.Post("/category", handlers.categoryHandler.createCategory())
	r.Put("/category/{categoryID}", handlers.categoryHandler.updateCategory())
	r.Delete("/category/{categoryID}", handlers.categoryHandler.deleteCategory())

	// Main slideshow
	r.Get("/main-images", handlers.imageHandler.getOrderedImages())
	r.Post("/main-image", handlers.imageHandler.addMainImage())
	r.Delete("/main-image/{imageID}", handlers.imageHandler.deleteMainImage())
	r.Post("/main-images/move", handlers.imageHandler.moveMainImage())
	r.Put("/main-images/order", handlers.imageHandler.setMainImageOrder())

	r.Put("/about", handlers.aboutHandler.updateAbout())
}
