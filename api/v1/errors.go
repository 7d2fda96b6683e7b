package v1

var (
	// common errors
	ErrSuccess             = newError(0, "ok")
	ErrBadRequest          = newError(400, "bad request")
	ErrUnauthorized        = newError(401, "unauthorized")
	ErrForbidden           = newError(403, "forbidden")
	ErrNotFound            = newError(404, "not found")
	ErrInternalServerError = newError(500, "internal server error")

	// reservation errors, ordered the way the quota gate checks them
	ErrProviderNotAllowed     = newError(3001, "provider not allowed for this user")
	ErrInstanceTypeNotAllowed = newError(3002, "instance type not allowed for this user")
	ErrQuotaExceeded          = newError(3003, "quota exceeded")

	// catalog errors
	ErrProviderNotFound     = newError(3101, "provider not found")
	ErrProviderDisabled     = newError(3102, "provider is disabled")
	ErrRegionNotSupported   = newError(3103, "region not supported by provider")
	ErrInstanceTypeNotFound = newError(3104, "instance type not found in provider catalog")
	ErrInvalidCatalogEntry  = newError(3105, "invalid catalog entry")

	// lifecycle errors
	ErrInstanceNotFound  = newError(3201, "lab instance not found")
	ErrInvalidTransition = newError(3202, "action not valid for current instance state")
	ErrConflictingUpdate = newError(3203, "conflicting concurrent update, retry")
	ErrExtendLimit       = newError(3204, "extension limit reached")
	ErrStartFailed       = newError(3205, "instance failed to start")
)
