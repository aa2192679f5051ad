package models

// MediaType discriminates the entries of a project's detail media list.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// VideoPlatform is only set on video items.
type VideoPlatform string

const (
	VideoPlatformYouTube VideoPlatform = "youtube"
	VideoPlatformVimeo   VideoPlatform = "vimeo"
	VideoPlatformUnknown VideoPlatform = "unknown"
)

// MediaItem is one entry of an ordered media collection. Order is zero based
// and dense once the collection has been persisted.
type MediaItem struct {
	Type        MediaType     `json:"type"`
	URL         string        `json:"url"`
	Order       int           `json:"order"`
	Platform    VideoPlatform `json:"platform,omitempty"`
	OriginalURL string        `json:"originalUrl,omitempty"`
}

// ToRecord converts the item to the stored field layout.
func (m MediaItem) ToRecord() map[string]any {
	record := map[string]any{
		"type":  string(m.Type),
		"url":   m.URL,
		"order": m.Order,
	}
	if m.Type == MediaTypeVideo {
		if m.Platform != "" {
			record["platform"] = string(m.Platform)
		}
		if m.OriginalURL != "" {
			record["originalUrl"] = m.OriginalURL
		}
	}
	return record
}
