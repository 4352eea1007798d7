package recognition

import "errors"

var (
	// ErrServiceMisconfigured means the recognition service rejected our credentials,
	// or none were configured. Retrying will not help until an operator fixes it.
	ErrServiceMisconfigured = errors.New("recognition service misconfigured")
	// ErrRateLimited is returned when the service answered 429.
	ErrRateLimited = errors.New("recognition service rate limited")
	// ErrTransientService covers transport failures and unexpected service answers.
	ErrTransientService = errors.New("recognition service unavailable")
	// ErrQuotaExceeded is returned before calling the service once the monthly quota is used up.
	ErrQuotaExceeded = errors.New("monthly recognition quota exceeded")
)
