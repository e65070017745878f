// Package x402 provides the wire model for the x402 HTTP 402 payment-mediation
// protocol: the payment requirement a server advertises, the payment payload a
// client replies with, and the settlement receipt a server attaches once a
// payment has cleared.
//
// The package is deliberately payload-agnostic: the Payload field of
// PaymentPayload is opaque JSON the server never inspects. Scheme-specific
// semantics (signature verification, on-chain settlement) belong to the
// facilitator, not this package.
package x402

import "encoding/json"

// PaymentRequirement defines a single acceptable payment method for a protected resource.
type PaymentRequirement struct {
	Scheme            string         `json:"scheme"`
	Network           string         `json:"network"`
	MaxAmountRequired string         `json:"maxAmountRequired"`
	Asset             string         `json:"asset"`
	PayTo             string         `json:"payTo"`
	Resource          string         `json:"resource"`
	Description       string         `json:"description"`
	MimeType          string         `json:"mimeType,omitempty"`
	OutputSchema      map[string]any `json:"outputSchema,omitempty"`
	MaxTimeoutSeconds int            `json:"maxTimeoutSeconds"`
	Extra             map[string]any `json:"extra,omitempty"`
}

// PaymentRequiredResponse is the JSON body of every 402 response.
type PaymentRequiredResponse struct {
	X402Version int                  `json:"x402Version"`
	Accepts     []PaymentRequirement `json:"accepts"`
	Error       string               `json:"error"`
}

// NewPaymentRequiredResponse builds the single-requirement 402 body this
// implementation always emits (see SPEC_FULL.md §9, "single accepts entry").
func NewPaymentRequiredResponse(requirement PaymentRequirement, reason string) PaymentRequiredResponse {
	return PaymentRequiredResponse{
		X402Version: 1,
		Accepts:     []PaymentRequirement{requirement},
		Error:       reason,
	}
}

// PaymentPayload is the client's proof-of-payment envelope, carried Base64-encoded
// in the X-PAYMENT request header.
type PaymentPayload struct {
	X402Version int             `json:"x402Version"`
	Scheme      string          `json:"scheme"`
	Network     string          `json:"network"`
	Payload     json.RawMessage `json:"payload"`
}

// SettlementResponse is the facilitator's answer to /settle.
type SettlementResponse struct {
	Success     bool   `json:"success"`
	ErrorReason string `json:"errorReason,omitempty"`
	Transaction string `json:"transaction"`
	Network     string `json:"network"`
	Payer       string `json:"payer"`
}

// SettlementResponseHeader is what the server attaches to a settled response in
// the X-PAYMENT-RESPONSE header. It is distinct from SettlementResponse: Success
// is always true when this type is emitted, and Transaction/Network are never
// null on the wire. NewSettlementResponseHeader is the single constructor so
// that guarantee has one author.
type SettlementResponseHeader struct {
	Success     bool   `json:"success"`
	Transaction string `json:"transaction"`
	Network     string `json:"network"`
	Payer       string `json:"payer"`
}

// NewSettlementResponseHeader builds the header payload from a successful
// SettlementResponse.
func NewSettlementResponseHeader(settlement SettlementResponse) SettlementResponseHeader {
	return SettlementResponseHeader{
		Success:     true,
		Transaction: settlement.Transaction,
		Network:     settlement.Network,
		Payer:       settlement.Payer,
	}
}

// Kind is the (scheme, network) capability tuple a facilitator enumerates at
// /supported.
type Kind struct {
	Scheme  string `json:"scheme"`
	Network string `json:"network"`
}

// Validate checks that a PaymentRequirement carries every field the protocol
// requires before it is handed to a client.
func (pr *PaymentRequirement) Validate() error {
	if pr.Scheme == "" {
		return errRequired("scheme")
	}
	if pr.Network == "" {
		return errRequired("network")
	}
	if err := validateAmount(pr.MaxAmountRequired); err != nil {
		return err
	}
	if pr.Asset == "" {
		return errRequired("asset")
	}
	if pr.PayTo == "" {
		return errRequired("payTo")
	}
	if pr.Resource == "" {
		return errRequired("resource")
	}
	if pr.MaxTimeoutSeconds <= 0 {
		return errRequired("maxTimeoutSeconds")
	}
	return nil
}
