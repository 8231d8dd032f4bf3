package errors

// Category groups error codes by failure class.
type Category string

const (
	CategoryValidation Category = "Validation"
	CategoryStorage    Category = "Storage"
	CategoryProvider   Category = "Provider"
	CategoryFormat     Category = "Format"
	CategoryInternal   Category = "Internal"
)

// Error codes. Codes are stable identifiers; messages may change freely.
const (
	// CodeValidation covers empty title/content/tag name rejections.
	CodeValidation = "ERR_VALIDATION"

	// CodeNotFound covers update on a missing snippet id.
	// Delete of a missing id is intentionally not an error.
	CodeNotFound = "ERR_NOT_FOUND"

	// CodeRecordNotSaved covers inserts where no row id could be assigned.
	CodeRecordNotSaved = "ERR_RECORD_NOT_SAVED"

	// CodeProviderUnavailable covers the embedding endpoint being down,
	// disabled, timed out, or returning garbage. Never surfaced to the
	// interactive caller; always degrades to a fallback.
	CodeProviderUnavailable = "ERR_PROVIDER_UNAVAILABLE"

	// CodeFormat covers corrupt import documents.
	CodeFormat = "ERR_FORMAT"

	// CodeUnsupportedVersion covers import documents with a version the
	// current build does not understand.
	CodeUnsupportedVersion = "ERR_UNSUPPORTED_VERSION"

	// CodeInternal covers unexpected internal failures.
	CodeInternal = "ERR_INTERNAL"
)

// categoryFromCode derives the category from a code.
func categoryFromCode(code string) Category {
	switch code {
	case CodeValidation:
		return CategoryValidation
	case CodeNotFound, CodeRecordNotSaved:
		return CategoryStorage
	case CodeProviderUnavailable:
		return CategoryProvider
	case CodeFormat, CodeUnsupportedVersion:
		return CategoryFormat
	default:
		return CategoryInternal
	}
}
