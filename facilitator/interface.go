// Package facilitator defines the contract for verifying and settling x402
// payments against a trusted external facilitator service, and provides an
// HTTP implementation of it.
package facilitator

import (
	"context"

	x402 "github.com/lattice-works/x402gateway"
)

// Interface is the facilitator contract the middleware package depends on.
// The HTTP Client in this package is the only production implementation;
// tests supply fakes.
type Interface interface {
	// Verify checks a payment authorization without executing it.
	Verify(ctx context.Context, payload x402.PaymentPayload, requirement x402.PaymentRequirement) (*VerifyResponse, error)

	// Settle executes a previously verified payment.
	Settle(ctx context.Context, payload x402.PaymentPayload, requirement x402.PaymentRequirement) (*x402.SettlementResponse, error)

	// Supported lists the (scheme, network) kinds the facilitator can handle.
	Supported(ctx context.Context) (*SupportedResponse, error)
}

// VerifyResponse is the facilitator's answer to /verify.
type VerifyResponse struct {
	IsValid       bool   `json:"isValid"`
	InvalidReason string `json:"invalidReason,omitempty"`
	Payer         string `json:"payer"`
}

// SupportedResponse lists the kinds a facilitator currently supports.
type SupportedResponse struct {
	Kinds []x402.Kind `json:"kinds"`
}

// request is the envelope shared by /verify and /settle.
type request struct {
	X402Version         int                     `json:"x402Version"`
	PaymentPayload      x402.PaymentPayload     `json:"paymentPayload"`
	PaymentRequirements x402.PaymentRequirement `json:"paymentRequirements"`
}
