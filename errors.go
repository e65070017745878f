package x402

import (
	"errors"
	"fmt"
	"regexp"
)

// Sentinel errors for the server-side wire model. Client-signing errors
// (invalid signature, invalid nonce, and the like) are deliberately absent:
// the server never evaluates scheme-specific payment data itself, the
// facilitator does.
var (
	// ErrMalformedHeader indicates the X-PAYMENT header is missing, not valid
	// base64, or not valid JSON once decoded.
	ErrMalformedHeader = errors.New("malformed X-PAYMENT header")

	// ErrUnsupportedVersion indicates an x402 protocol version other than 1.
	ErrUnsupportedVersion = errors.New("unsupported x402 version")

	// ErrInvalidAmount indicates maxAmountRequired is not a canonical
	// non-negative decimal integer string.
	ErrInvalidAmount = errors.New("invalid amount")
)

func errRequired(field string) error {
	return fmt.Errorf("%s is required", field)
}

var amountPattern = regexp.MustCompile(`^(0|[1-9][0-9]*)$`)

// validateAmount checks that amount is a canonical non-negative decimal
// integer: no sign, no fractional part, no leading zeros except the literal "0".
func validateAmount(amount string) error {
	if !amountPattern.MatchString(amount) {
		return fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	return nil
}
