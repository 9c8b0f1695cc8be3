package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts and agents.
const (
	// Vault errors
	ErrVaultNotFound     = "VAULT_NOT_FOUND"
	ErrVaultNotSpecified = "VAULT_NOT_SPECIFIED"
	ErrConfigInvalid     = "CONFIG_INVALID"

	// Person errors
	ErrPersonNotFound  = "PERSON_NOT_FOUND"
	ErrPersonAmbiguous = "PERSON_AMBIGUOUS"

	// File errors
	ErrFileNotFound   = "FILE_NOT_FOUND"
	ErrFileExists     = "FILE_EXISTS"
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Import/export errors
	ErrParseFailed       = "PARSE_FAILED"
	ErrImportFailed      = "IMPORT_FAILED"
	ErrExportFailed      = "EXPORT_FAILED"
	ErrFormatUnsupported = "FORMAT_UNSUPPORTED"

	// Database errors
	ErrDatabaseError = "DATABASE_ERROR"

	// Validation errors
	ErrValidationFailed = "VALIDATION_FAILED"
	ErrInvalidValue     = "INVALID_VALUE"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnImportIssue   = "IMPORT_ISSUE"
	WarnExportDropped = "EXPORT_DROPPED"
	WarnSyncIssue     = "SYNC_ISSUE"
	WarnVaultFile     = "VAULT_FILE_ERROR"
)
