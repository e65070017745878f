package x402

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestPaymentPayloadRoundTrip(t *testing.T) {
	cases := []PaymentPayload{
		{
			X402Version: 1,
			Scheme:      "exact",
			Network:     "base-sepolia",
			Payload:     json.RawMessage(`{"signature":"0xabc"}`),
		},
		{
			X402Version: 1,
			Scheme:      "exact",
			Network:     "base-sepolia",
			Payload:     json.RawMessage(`{"note":"héllo wörld — 世界"}`),
		},
	}

	for _, p := range cases {
		header, err := p.EncodeHeader()
		if err != nil {
			t.Fatalf("EncodeHeader: %v", err)
		}

		got, err := DecodePaymentHeader(header)
		if err != nil {
			t.Fatalf("DecodePaymentHeader: %v", err)
		}

		if got.Scheme != p.Scheme || got.Network != p.Network || got.X402Version != p.X402Version {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, p)
		}
		if string(got.Payload) != string(p.Payload) {
			t.Fatalf("payload mismatch: got %s, want %s", got.Payload, p.Payload)
		}
	}
}

func TestDecodePaymentHeaderErrors(t *testing.T) {
	if _, err := DecodePaymentHeader(""); err == nil {
		t.Fatal("expected error for empty header")
	}
	if _, err := DecodePaymentHeader("not-base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}

	badJSON, err := (PaymentPayload{X402Version: 1}).EncodeHeader()
	if err != nil {
		t.Fatalf("EncodeHeader: %v", err)
	}
	_ = badJSON

	// base64 of `{"not":"json"}` — valid JSON object but missing
	// x402Version, which must be rejected as unsupported version (0).
	if _, err := DecodePaymentHeader("eyJub3QiOiJqc29uIn0="); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected unsupported version error, got %v", err)
	}
}

func TestSettlementResponseHeaderRoundTrip(t *testing.T) {
	settlement := SettlementResponse{
		Success:     true,
		Transaction: "0xTX",
		Network:     "base-sepolia",
		Payer:       "0xPayer",
	}

	header := NewSettlementResponseHeader(settlement)
	if !header.Success {
		t.Fatal("expected Success=true")
	}

	encoded, err := header.EncodeHeader()
	if err != nil {
		t.Fatalf("EncodeHeader: %v", err)
	}

	got, err := DecodeSettlementHeader(encoded)
	if err != nil {
		t.Fatalf("DecodeSettlementHeader: %v", err)
	}
	if got != header {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, header)
	}
}

func TestSettlementResponseHeaderNullNormalization(t *testing.T) {
	// A settlement with no transaction/network (e.g. a degenerate success)
	// must still normalize to empty strings, never null, on the wire.
	settlement := SettlementResponse{Success: true, Payer: "0xPayer"}
	header := NewSettlementResponseHeader(settlement)

	data, err := json.Marshal(header)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if raw["transaction"] != "" {
		t.Fatalf("expected empty string transaction, got %v", raw["transaction"])
	}
	if raw["network"] != "" {
		t.Fatalf("expected empty string network, got %v", raw["network"])
	}
}
