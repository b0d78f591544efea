package errors

import (
	"strings"
	"unicode"
)

// Limits applied to user-supplied identifiers and filter tokens.
const (
	MaxConceptIDLength = 256
	MaxFilterTokens    = 100
	MaxTokenLength     = 256
)

// ValidateConceptID validates a concept ID supplied by a user, for example
// as a path endpoint. It does not check that the concept exists.
//
// The validation rules:
//   - No empty IDs
//   - No control characters
//   - Maximum length of 256 characters
func ValidateConceptID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidConcept, "concept ID cannot be empty")
	}

	if len(id) > MaxConceptIDLength {
		return New(ErrCodeInvalidConcept, "concept ID too long (max %d characters)", MaxConceptIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConcept, "concept ID contains invalid control characters")
		}
	}

	return nil
}

// ValidateFilterTokens validates object or attribute tokens for the
// recoloring filter. Blank tokens are allowed and ignored by the filter.
func ValidateFilterTokens(tokens []string) error {
	if len(tokens) > MaxFilterTokens {
		return New(ErrCodeInvalidInput, "too many filter tokens (max %d)", MaxFilterTokens)
	}

	for _, tok := range tokens {
		if len(tok) > MaxTokenLength {
			return New(ErrCodeInvalidInput, "filter token too long (max %d characters)", MaxTokenLength)
		}
		if strings.ContainsRune(tok, '\x00') {
			return New(ErrCodeInvalidInput, "filter token contains a null byte")
		}
	}

	return nil
}

// ValidateDimensions validates layout dimensions.
//
// Validation rules:
//   - Width, height and padding must not be negative
//   - Padding must leave room for nodes on both sides
//   - Min spacing must not exceed max spacing
//
// Zero values are allowed and mean "use the default".
func ValidateDimensions(width, height, padding, minSpacing, maxSpacing float64) error {
	if width < 0 || height < 0 || padding < 0 || minSpacing < 0 || maxSpacing < 0 {
		return New(ErrCodeInvalidConfig, "layout dimensions must not be negative")
	}

	if width > 0 && padding > 0 && 2*padding >= width {
		return New(ErrCodeInvalidConfig, "padding %.0f leaves no room in width %.0f", padding, width)
	}

	if minSpacing > 0 && maxSpacing > 0 && minSpacing > maxSpacing {
		return New(ErrCodeInvalidConfig, "min spacing %.0f exceeds max spacing %.0f", minSpacing, maxSpacing)
	}

	return nil
}
