package api

import (
	"github.com/Chaeeun2/alolot/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler     authHandler
	projectHandler  projectHandler
	mediaHandler    mediaHandler
	categoryHandler categoryHandler
	imageHandler    imageHandler
	aboutHandler    aboutHandler
	uploadHandler   uploadHandler
	siteHandler     siteHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"project not found"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// moveRequest is one drag-and-drop step.
type moveRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

// orderRequest replaces a whole ordering at once.
type orderRequest struct {
	IDs []string `json:"ids"`
}

// orderedView is the admin's optimistic view of an ordered collection.
type orderedView[T any] struct {
	Items []T    `json:"items"`
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

type projectCollection struct {
	Projects []models.Project `json:"projects"`
	Total    int              `json:"total"`
}

type imageCollection struct {
	Images []models.Image `json:"images"`
	Total  int            `json:"total"`
}

type mediaRequest struct {
	Type models.MediaType `json:"type"`
	URL  string           `json:"url"`
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	FileName string `json:"fileName"`
	URL      string `json:"url"`
}

type presignRequest struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
}

type backgroundResponse struct {
	Category string `json:"category"`
	Color    string `json:"color"`
}
