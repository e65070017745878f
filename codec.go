package x402

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// DecodePaymentHeader decodes the X-PAYMENT request header: base64-standard
// bytes containing a UTF-8 JSON PaymentPayload.
func DecodePaymentHeader(header string) (PaymentPayload, error) {
	var payload PaymentPayload

	if header == "" {
		return payload, ErrMalformedHeader
	}

	decoded, err := base64.StdEncoding.DecodeString(header)
	if err != nil {
		return payload, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}

	if err := json.Unmarshal(decoded, &payload); err != nil {
		return payload, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}

	if payload.X402Version != 1 {
		return payload, fmt.Errorf("%w: %d", ErrUnsupportedVersion, payload.X402Version)
	}

	return payload, nil
}

// EncodeHeader serializes a PaymentPayload as UTF-8 JSON, base64-standard
// encoded, for use as an X-PAYMENT header value. json.Marshal never emits line
// breaks, so the result is safe to place directly in a header.
func (p PaymentPayload) EncodeHeader() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode payment payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// EncodeHeader serializes a SettlementResponseHeader for use as the
// X-PAYMENT-RESPONSE header value.
func (h SettlementResponseHeader) EncodeHeader() (string, error) {
	data, err := json.Marshal(h)
	if err != nil {
		return "", fmt.Errorf("encode settlement header: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeSettlementHeader is the inverse of SettlementResponseHeader.EncodeHeader,
// used by tests and by clients that want to parse X-PAYMENT-RESPONSE.
func DecodeSettlementHeader(header string) (SettlementResponseHeader, error) {
	var h SettlementResponseHeader

	decoded, err := base64.StdEncoding.DecodeString(header)
	if err != nil {
		return h, fmt.Errorf("decode settlement header: %w", err)
	}
	if err := json.Unmarshal(decoded, &h); err != nil {
		return h, fmt.Errorf("decode settlement header: %w", err)
	}
	return h, nil
}
