package youtube

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
)

// Common YouTube API errors.
var (
	// ErrMissingAPIKey indicates no API key was configured.
	ErrMissingAPIKey = errors.New("youtube: missing API key")

	// ErrUnauthorized indicates an invalid API key.
	ErrUnauthorized = errors.New("youtube: unauthorised (invalid API key)")

	// ErrForbidden indicates the key may not call the API.
	ErrForbidden = errors.New("youtube: forbidden (API not enabled for key)")

	// ErrQuotaExceeded indicates the daily quota was used up.
	ErrQuotaExceeded = errors.New("youtube: quota exceeded")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("youtube: rate limit exceeded")
)

// quotaReasons are error reasons YouTube reports with 403 when out of quota.
var quotaReasons = map[string]bool{
	"quotaExceeded":      true,
	"dailyLimitExceeded": true,
	"rateLimitExceeded":  true,
}

// IsQuotaExceeded returns true if the error indicates an exhausted quota.
func IsQuotaExceeded(err error) bool {
	if errors.Is(err, ErrQuotaExceeded) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusForbidden {
		for _, item := range gerr.Errors {
			if quotaReasons[item.Reason] {
				return true
			}
		}
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests
	}
	return false
}

// WrapError converts a Google API error to a more specific error type.
// Every classified error also matches domain.ErrProviderUnavailable, and
// rate limits additionally match domain.ErrRateLimited.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}

	switch {
	case gerr.Code == http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, ErrUnauthorized)
	case IsQuotaExceeded(gerr):
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, ErrQuotaExceeded)
	case gerr.Code == http.StatusForbidden:
		return fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, ErrForbidden)
	case gerr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, ErrRateLimited)
	default:
		return fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}
}
