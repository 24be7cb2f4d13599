package social

import "errors"

var (
	ErrNotConfigured = errors.New("VidNavigator API key not configured")
	ErrUnauthorized  = errors.New("VidNavigator rejected the API key")
	ErrPrivateVideo  = errors.New("video is private or unavailable")
	ErrInvalidURL    = errors.New("invalid video URL")
	ErrRateLimited   = errors.New("rate limited")
	ErrNetwork       = errors.New("network error")
	ErrUpstream      = errors.New("VidNavigator request failed")
)

// UserMessage returns the message shown to clients for a social adapter error.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotConfigured), errors.Is(err, ErrUnauthorized):
		return "VidNavigator API key not configured"
	case errors.Is(err, ErrPrivateVideo):
		return "This video is private or unavailable. Please use a public video URL."
	case errors.Is(err, ErrInvalidURL):
		return "Invalid video URL. Please check the link and try again."
	case errors.Is(err, ErrRateLimited):
		return "Too many requests. Please try again in a few moments."
	case errors.Is(err, ErrNetwork):
		return "Network error. Please check your connection and try again."
	default:
		return "Failed to fetch video transcript"
	}
}
