// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess           = "success"
	KeyInternalError     = "error.internal"
	KeyValidationInvalid = "validation.invalid"
	KeyRateLimited       = "error.rate_limited"
	KeyCreated           = "common.created"
	KeyUpdated           = "common.updated"
	KeyDeleted           = "common.deleted"

	// Authentication
	KeyAuthRequired      = "auth.required"
	KeyAuthInvalidToken  = "auth.invalid_token"
	KeyAdminAccessDenied = "admin.access_denied"

	// Catalog
	KeyProductNotFound   = "product.not_found"
	KeySeriesNotFound    = "series.not_found"
	KeySeriesInUse       = "series.in_use"
	KeyAccessoryNotFound = "accessory.not_found"
	KeyAttributeNotFound = "attribute.not_found"
	KeyAttributeExists   = "attribute.exists"

	// Codes & labels
	KeyCodeNotFound  = "code.not_found"
	KeyLabelNotFound = "label.not_found"
	KeyLabelExists   = "label.exists"

	// Engagement
	KeyReviewNotFound      = "review.not_found"
	KeyReviewInvalidStatus = "review.invalid_status"
	KeyWishlistRemoved     = "wishlist.removed"

	// Settings & migrations
	KeySettingsSaved     = "settings.saved"
	KeyMigrationNotFound = "migration.not_found"

	// Uploads
	KeyUploadMissing     = "upload.missing"
	KeyUploadTooLarge    = "upload.too_large"
	KeyUploadInvalidType = "upload.invalid_type"

	// AI
	KeyChatApology      = "chat.apology"
	KeyAIUnavailable    = "ai.unavailable"
	KeyGenerationFailed = "ai.generation_failed"
)
