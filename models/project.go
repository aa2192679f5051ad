package models

import "time"

// CategoryRef is the denormalized copy of a category stored on a project.
type CategoryRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Project represents a portfolio entry with its detail media
type Project struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Detail         string        `json:"detail"`
	LinkURL        string        `json:"linkUrl,omitempty"`
	LinkButtonName string        `json:"linkButtonName,omitempty"`
	ThumbnailURL   string        `json:"thumbnailUrl"`
	MainImageURL   string        `json:"mainImageUrl"`
	DetailMedia    []MediaItem   `json:"detailMedia"`
	Categories     []CategoryRef `json:"categories"`
	Order          int           `json:"order"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt,omitempty"`
}

// HasCategory reports whether the project is tagged with the named category.
func (p Project) HasCategory(name string) bool {
	for _, c := range p.Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// StoredFileURLs returns every image URL the project references, thumbnail
// and main image first. Videos are external and never included.
func (p Project) StoredFileURLs() []string {
	var urls []string
	seen := make(map[string]bool)
	add := func(u string) {
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		urls = append(urls, u)
	}
	add(p.ThumbnailURL)
	add(p.MainImageURL)
	for _, m := range p.DetailMedia {
		if m.Type == MediaTypeImage {
			add(m.URL)
		}
	}
	return urls
}
