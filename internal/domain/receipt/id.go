package receipt

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/receiptly/backend/internal/domain/shared"
)

// receiptIDPattern matches identifiers of the form RCP-XXXXXXXX where X is
// an uppercase hex digit.
var receiptIDPattern = regexp.MustCompile(`^RCP-[0-9A-F]{8}$`)

// NewID generates a fresh receipt identifier (RCP- followed by the first
// eight hex characters of a UUID, uppercased).
func NewID() string {
	return "RCP-" + strings.ToUpper(uuid.NewString()[:8])
}

// ValidateID checks that id is a well-formed receipt identifier.
func ValidateID(id string) error {
	if !receiptIDPattern.MatchString(id) {
		return shared.NewDomainError("INVALID_INPUT", "Invalid receipt ID format: "+id)
	}
	return nil
}

// IsValidID reports whether id is a well-formed receipt identifier.
func IsValidID(id string) bool {
	return receiptIDPattern.MatchString(id)
}
