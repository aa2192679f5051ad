package api

import (
	"github.com/rs/zerolog/log"

	"github.com/Chaeeun2/alolot/auth"
	"github.com/Chaeeun2/alolot/database"
	"github.com/Chaeeun2/alolot/services"
)

// handlerDeps carries the services shared by the handlers.
type handlerDeps struct {
	tokens      *auth.Service
	credentials auth.Credentials
	uploader    *services.Uploader
	sitemap     *services.SitemapGenerator
	palette     *services.PaletteProvider
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, deps handlerDeps) *routeHandlers {
	views := newOrderViews(database, log.With().Str("component", "orderViews").Logger())

	return &routeHandlers{
		authHandler:     newAuthHandler(deps.tokens, deps.credentials),
		projectHandler:  newProjectHandler(database.ProjectRepo(), database.CategoryRepo(), views),
		mediaHandler:    newMediaHandler(database.ProjectRepo(), views),
		categoryHandler: newCategoryHandler(database.CategoryRepo(), deps.palette),
		imageHandler:    newImageHandler(database.ImageRepo(), views),
		aboutHandler:    newAboutHandler(database.AboutRepo()),
		uploadHandler:   newUploadHandler(deps.uploader),
		siteHandler:     newSiteHandler(deps.sitemap, deps.palette),
	}
}
