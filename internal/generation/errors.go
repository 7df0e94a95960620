package generation

import "errors"

// Pipeline outcomes. All of these are recovered at the HTTP boundary
// and turned into a {success:false, message} envelope; none crash the
// process.
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrPremiumRequired        = errors.New("premium subscription required")
	ErrQuotaExceeded          = errors.New("free usage limit reached")
	ErrInvalidInput           = errors.New("invalid input")
	ErrPayloadTooLarge        = errors.New("payload too large")
	ErrBackendUnavailable     = errors.New("generation backend unavailable")
)
