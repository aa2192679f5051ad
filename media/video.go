package media

import (
	"regexp"
	"strings"

	"github.com/Chaeeun2/alolot/errs"
	"github.com/Chaeeun2/alolot/models"
)

var (
	youtubeIDPattern = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)
	vimeoIDPattern   = regexp.MustCompile(`vimeo\.com/(?:.*/)?(\d+)`)
	youtubeHost      = regexp.MustCompile(`youtube\.com|youtu\.be`)
	vimeoHost        = regexp.MustCompile(`vimeo\.com`)
)

// DetectPlatform classifies a video URL by host.
func DetectPlatform(url string) models.VideoPlatform {
	switch {
	case youtubeHost.MatchString(url):
		return models.VideoPlatformYouTube
	case vimeoHost.MatchString(url):
		return models.VideoPlatformVimeo
	default:
		return models.VideoPlatformUnknown
	}
}

// IsValidVideoURL reports whether url points at a supported platform.
func IsValidVideoURL(url string) bool {
	return DetectPlatform(url) != models.VideoPlatformUnknown
}

// EmbedURL converts a watch or share URL to its embeddable player URL.
// URLs that already look embeddable are returned unchanged. The second
// result is false when no embed URL can be derived.
func EmbedURL(url string) (string, bool) {
	switch DetectPlatform(url) {
	case models.VideoPlatformYouTube:
		m := youtubeIDPattern.FindStringSubmatch(url)
		if m == nil {
			return "", false
		}
		return "https://www.youtube.com/embed/" + m[1], true
	case models.VideoPlatformVimeo:
		m := vimeoIDPattern.FindStringSubmatch(url)
		if m == nil {
			return "", false
		}
		return "https://player.vimeo.com/video/" + m[1], true
	}
	if strings.Contains(url, "embed") || strings.Contains(url, "player") {
		return url, true
	}
	return "", false
}

// NewVideoItem builds a video media item from a user supplied URL.
func NewVideoItem(rawURL string) (models.MediaItem, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return models.MediaItem{}, errs.NewMissingRequiredFieldError("url")
	}
	if !IsValidVideoURL(rawURL) {
		return models.MediaItem{}, errs.NewInvalidFieldError("url", "only YouTube and Vimeo links are supported")
	}
	embed, ok := EmbedURL(rawURL)
	if !ok {
		return models.MediaItem{}, errs.NewInvalidFieldError("url", "could not extract a video id")
	}
	return models.MediaItem{
		Type:        models.MediaTypeVideo,
		URL:         embed,
		Platform:    DetectPlatform(rawURL),
		OriginalURL: rawURL,
	}, nil
}
