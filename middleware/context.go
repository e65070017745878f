// Package middleware implements the x402 payment interceptor: the state
// machine that gates a protected handler behind facilitator verification and
// settlement. The core is a plain func(http.Handler) http.Handler, usable
// directly as chi middleware; middleware/ginx402 adapts it for gin.
package middleware

import (
	"context"

	x402 "github.com/lattice-works/x402gateway"
)

type contextKey string

// PaymentContextKey is the request-context key under which PaymentState is
// stored once a request has passed verification.
const PaymentContextKey contextKey = "x402_payment"

// PaymentState is the {requirement, header, payload} triple attached to a
// request's context after Verify succeeds, for handlers that want to inspect
// the payer or the requirement that was satisfied.
type PaymentState struct {
	Requirement x402.PaymentRequirement
	Header      string
	Payload     x402.PaymentPayload
}

// FromContext retrieves the PaymentState a successful verification attached
// to ctx, if any.
func FromContext(ctx context.Context) (PaymentState, bool) {
	state, ok := ctx.Value(PaymentContextKey).(PaymentState)
	return state, ok
}

// PaymentMetadata is the per-route payment annotation attached at route
// registration time. A zero-value PaymentMetadata (empty Price and
// PriceCalculatorRef) means the route carries no payment gate.
type PaymentMetadata struct {
	Price              string
	PayTo              string
	Description        string
	PriceCalculatorRef string
}

// protected reports whether m names either a static price or a calculator.
func (m PaymentMetadata) protected() bool {
	return m.Price != "" || m.PriceCalculatorRef != ""
}
