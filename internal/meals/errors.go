package meals

import (
	"context"
	"errors"
	"net/http"

	"github.com/2beens/fitpulse/internal/imaging"
	"github.com/2beens/fitpulse/internal/recognition"
)

var (
	ErrPersistence     = errors.New("meal could not be saved")
	ErrStaleAnalysis   = errors.New("analysis superseded by a newer one")
	errUnknownAnalysis = errors.New("analysis failed")
)

// userError is what a caller is told about a failed analysis.
type userError struct {
	message   string
	retryable bool
	status    int
}

func toUserError(err error) userError {
	switch {
	case errors.Is(err, recognition.ErrServiceMisconfigured):
		return userError{"food recognition is currently unavailable", false, http.StatusServiceUnavailable}
	case errors.Is(err, recognition.ErrQuotaExceeded):
		return userError{"monthly photo analysis limit reached, it resets next month", false, http.StatusTooManyRequests}
	case errors.Is(err, recognition.ErrRateLimited):
		return userError{"food recognition is busy, try again in a moment", true, http.StatusTooManyRequests}
	case errors.Is(err, ErrNoFoodIdentified):
		return userError{ErrNoFoodIdentified.Error(), true, http.StatusUnprocessableEntity}
	case errors.Is(err, imaging.ErrUnsupportedImage), errors.Is(err, ErrEmptyPhoto):
		return userError{"photo must be a JPEG or PNG image", false, http.StatusBadRequest}
	case errors.Is(err, ErrStaleAnalysis):
		return userError{ErrStaleAnalysis.Error(), false, http.StatusConflict}
	case errors.Is(err, ErrPersistence):
		return userError{"meal analyzed, but saving it failed", true, http.StatusInternalServerError}
	case errors.Is(err, recognition.ErrTransientService), errors.Is(err, context.DeadlineExceeded):
		return userError{"food recognition failed, try again", true, http.StatusServiceUnavailable}
	default:
		return userError{errUnknownAnalysis.Error(), true, http.StatusInternalServerError}
	}
}
