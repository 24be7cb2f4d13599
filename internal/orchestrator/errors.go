package orchestrator

import (
	"context"
	stderrors "errors"

	"github.com/socialchef/yeschef/internal/errors"
	"github.com/socialchef/yeschef/internal/services/captions"
	"github.com/socialchef/yeschef/internal/services/social"
	"github.com/socialchef/yeschef/internal/services/webpage"
)

const (
	transcriptFailureMessage = "Could not extract transcript from video - please try a different video"
	networkFailureMessage    = "Network error - please check your internet connection"
	timeoutMessage           = "Request timeout - please try again"
)

// MapError converts any pipeline error into the AppError sent to clients.
// Errors that already are AppErrors pass through unchanged.
func MapError(err error) *errors.AppError {
	if appErr, ok := errors.As(err); ok {
		return appErr
	}

	switch {
	case stderrors.Is(err, context.DeadlineExceeded), stderrors.Is(err, context.Canceled):
		return errors.NewTimeoutError(timeoutMessage, "REQUEST_TIMEOUT", err)

	case stderrors.Is(err, captions.ErrInvalidVideoID):
		e := errors.NewValidationError("Invalid YouTube URL or video ID", "INVALID_VIDEO_URL",
			"Paste a full YouTube, TikTok, Instagram or recipe page link.")
		e.Err = err
		return e

	case stderrors.Is(err, social.ErrNotConfigured), stderrors.Is(err, social.ErrUnauthorized):
		return errors.NewCredentialError(social.UserMessage(err), "SOCIAL_NOT_CONFIGURED", err)
	case social.IsUserError(err):
		e := errors.NewValidationError(social.UserMessage(err), "INVALID_SOCIAL_VIDEO", "Use a public video URL.")
		e.Err = err
		return e
	case stderrors.Is(err, social.ErrRateLimited):
		e := errors.NewRateLimitError(social.UserMessage(err), "SOCIAL_RATE_LIMITED", "Wait a minute before trying again.")
		e.Err = err
		return e
	case stderrors.Is(err, social.ErrNetwork):
		return errors.NewUnavailableError(social.UserMessage(err), "SOCIAL_UNREACHABLE", err)
	case stderrors.Is(err, social.ErrUpstream):
		return errors.NewTranscriptError(transcriptFailureMessage, "SOCIAL_TRANSCRIPT_FAILED", err)

	case stderrors.Is(err, webpage.ErrInvalidURL):
		e := errors.NewValidationError("Invalid recipe URL", "INVALID_PAGE_URL", "Paste a full http or https link.")
		e.Err = err
		return e
	case stderrors.Is(err, webpage.ErrPageStatus):
		return errors.NewTranscriptError("Could not read that recipe page - please check the link or try a different one", "PAGE_UNAVAILABLE", err)
	case stderrors.Is(err, webpage.ErrFetch):
		return errors.NewUnavailableError(networkFailureMessage, "PAGE_UNREACHABLE", err)
	case stderrors.Is(err, webpage.ErrNoContent), stderrors.Is(err, ErrNoContent):
		return errors.NewTranscriptError(transcriptFailureMessage, "NO_USABLE_CONTENT", err)
	}

	return errors.NewInternalError("Failed to process recipe request", err)
}
