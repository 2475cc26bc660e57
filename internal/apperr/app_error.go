package apperr

import "github.com/tuanvumaihuynh/product-catalog/pkg/zerror"

const (
	ValidationErrorCode = "VALIDATION_FAILED"
)

var (
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")

	ImageRequiredErr = zerror.NewValidationFailed("IMAGE_REQUIRED", "image is required")
	InvalidImageErr  = zerror.NewValidationFailed("INVALID_IMAGE", "image must be a jpeg, png, gif or webp file")

	UnauthorizedErr       = zerror.NewUnauthorized("UNAUTHORIZED", "access denied, no token provided")
	InvalidTokenErr       = zerror.NewUnauthorized("INVALID_TOKEN", "invalid or expired token")
	InvalidCredentialsErr = zerror.NewUnauthorized("INVALID_CREDENTIALS", "invalid email or password")

	ProductNotFoundErr = zerror.NewNotFound("PRODUCT_NOT_FOUND", "product not found")
	AdminNotFoundErr   = zerror.NewNotFound("ADMIN_NOT_FOUND", "admin not found")
	RouteNotFoundErr   = zerror.NewNotFound("ROUTE_NOT_FOUND", "route not found")

	// EmailTakenErr is reported as a bad request rather than a conflict.
	EmailTakenErr = zerror.NewBadRequest("EMAIL_TAKEN", "admin with this email already exists")

	// SlugTakenErr is returned by the repository when a write hits the slug
	// unique constraint. Callers may regenerate the slug and retry.
	SlugTakenErr    = zerror.NewConflict("SLUG_TAKEN", "slug already in use")
	SlugConflictErr = zerror.NewConflict("SLUG_CONFLICT", "could not allocate a unique slug, retry the request")

	TooManyAttemptsErr = zerror.NewTooManyRequests("TOO_MANY_ATTEMPTS", "too many login attempts, try again later")
)
