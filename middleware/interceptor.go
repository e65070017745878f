package middleware

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"

	x402 "github.com/lattice-works/x402gateway"
	"github.com/lattice-works/x402gateway/facilitator"
	"github.com/lattice-works/x402gateway/internal/metrics"
	"github.com/lattice-works/x402gateway/pricing"
)

// Config carries the shared, read-only state every protected route's
// interceptor draws on: the facilitator client, the price resolver, and the
// config-level defaults merged into every PaymentRequirement.
type Config struct {
	Facilitator facilitator.Interface
	Resolver    *pricing.Resolver

	Scheme            string
	Network           string
	Asset             string
	DefaultPayTo      string
	MimeType          string
	MaxTimeoutSeconds int

	Logger *slog.Logger
}

// Interceptor builds per-route middleware from a shared Config.
type Interceptor struct {
	cfg Config
	log *slog.Logger
}

// New builds an Interceptor. Safe for concurrent use across many routes.
func New(cfg Config) *Interceptor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Interceptor{cfg: cfg, log: logger}
}

// Wrap returns chi-compatible middleware gating next behind payment meta. A
// zero-value PaymentMetadata passes every request straight through.
func (ic *Interceptor) Wrap(meta PaymentMetadata) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ic.serve(meta, next, w, r)
		})
	}
}

func (ic *Interceptor) serve(meta PaymentMetadata, next http.Handler, w http.ResponseWriter, r *http.Request) {
	if !meta.protected() {
		next.ServeHTTP(w, r)
		return
	}

	var cachedBody []byte
	if ic.cfg.Resolver.ReadsBody(meta.PriceCalculatorRef) {
		data, err := cacheRequestBody(r)
		if err != nil {
			ic.log.Error("failed to cache request body for price calculator", "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		cachedBody = data
	}

	requirement, err := ic.buildRequirement(r, meta)
	if err != nil {
		ic.log.Error("failed to build payment requirement", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if err := requirement.Validate(); err != nil {
		ic.log.Error("built payment requirement failed validation", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if cachedBody != nil {
		resetRequestBody(r, cachedBody)
	}

	headerValue := r.Header.Get("X-PAYMENT")
	if headerValue == "" {
		ic.log.Info("no X-PAYMENT header", "path", r.URL.Path)
		respondPaymentRequired(w, requirement, "X-PAYMENT header is required")
		return
	}

	payload, err := x402.DecodePaymentHeader(headerValue)
	if err != nil {
		ic.log.Warn("malformed X-PAYMENT header", "error", err)
		respondPaymentRequired(w, requirement, "malformed X-PAYMENT header")
		return
	}

	verifyResp, err := ic.cfg.Facilitator.Verify(r.Context(), payload, requirement)
	if err != nil {
		ic.log.Error("facilitator verify failed", "error", err)
		http.Error(w, "payment verification unavailable", http.StatusInternalServerError)
		return
	}
	if !verifyResp.IsValid {
		ic.log.Warn("payment rejected at verify", "reason", verifyResp.InvalidReason)
		respondPaymentRequired(w, requirement, verifyResp.InvalidReason)
		return
	}

	state := PaymentState{Requirement: requirement, Header: headerValue, Payload: payload}
	r = r.WithContext(context.WithValue(r.Context(), PaymentContextKey, state))

	interceptor := &settlementInterceptor{w: w}
	next.ServeHTTP(interceptor, r)

	// The handler has returned (or hijacked the connection). Only now do we
	// know its intended status, so only now can settlement gate the commit:
	// nothing the handler buffered has reached the client yet.
	interceptor.commit(func() bool {
		return ic.settle(w, r, requirement, payload, verifyResp.Payer)
	})
}

func (ic *Interceptor) settle(w http.ResponseWriter, r *http.Request, requirement x402.PaymentRequirement, payload x402.PaymentPayload, payer string) bool {
	settlement, err := ic.cfg.Facilitator.Settle(r.Context(), payload, requirement)
	if err != nil {
		ic.log.Error("facilitator settle failed", "error", err)
		metrics.SettlementsTotal.WithLabelValues("error").Inc()
		respondPaymentRequired(w, requirement, "settlement error: "+err.Error())
		return false
	}

	if !settlement.Success {
		ic.log.Warn("settlement unsuccessful", "reason", settlement.ErrorReason)
		metrics.SettlementsTotal.WithLabelValues("rejected").Inc()
		respondPaymentRequired(w, requirement, settlement.ErrorReason)
		return false
	}

	header := x402.NewSettlementResponseHeader(*settlement)
	if header.Payer == "" {
		header.Payer = payer
	}
	encoded, err := header.EncodeHeader()
	if err != nil {
		ic.log.Warn("failed to encode settlement header", "error", err)
	} else {
		w.Header().Set("X-PAYMENT-RESPONSE", encoded)
		w.Header().Set("Access-Control-Expose-Headers", "X-PAYMENT-RESPONSE")
	}

	metrics.SettlementsTotal.WithLabelValues("ok").Inc()
	ic.log.Info("payment settled", "transaction", settlement.Transaction, "payer", payer)
	return true
}

func (ic *Interceptor) buildRequirement(r *http.Request, meta PaymentMetadata) (x402.PaymentRequirement, error) {
	amount, err := ic.cfg.Resolver.Resolve(r, meta.Price, meta.PriceCalculatorRef)
	if err != nil {
		return x402.PaymentRequirement{}, err
	}

	payTo := meta.PayTo
	if payTo == "" {
		payTo = ic.cfg.DefaultPayTo
	}

	description := meta.Description
	if description == "" {
		description = "Payment required for " + r.URL.Path
	}

	return x402.PaymentRequirement{
		Scheme:            ic.cfg.Scheme,
		Network:           ic.cfg.Network,
		MaxAmountRequired: amount,
		Asset:             ic.cfg.Asset,
		PayTo:             payTo,
		Resource:          resourceURL(r),
		Description:       description,
		MimeType:          ic.cfg.MimeType,
		MaxTimeoutSeconds: ic.cfg.MaxTimeoutSeconds,
	}, nil
}

func resourceURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.RequestURI
}

func respondPaymentRequired(w http.ResponseWriter, requirement x402.PaymentRequirement, reason string) {
	body := x402.NewPaymentRequiredResponse(requirement, reason)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusPaymentRequired)
	_ = json.NewEncoder(w).Encode(body)
}

// settlementInterceptor buffers a handler's entire response in memory
// instead of forwarding it to the real http.ResponseWriter as it is written.
// Nothing the handler produces is observable by the client until commit
// runs, which happens once the handler has fully returned and its final
// status is known. This lets a failed settlement discard a buffered 2xx
// wholesale and substitute a 402, rather than relying on catching the
// handler at its very first Write/WriteHeader call.
type settlementInterceptor struct {
	w        http.ResponseWriter
	buf      bytes.Buffer
	status   int
	hijacked bool
}

func (i *settlementInterceptor) Header() http.Header {
	return i.w.Header()
}

func (i *settlementInterceptor) Write(b []byte) (int, error) {
	if i.status == 0 {
		i.status = http.StatusOK
	}
	return i.buf.Write(b)
}

func (i *settlementInterceptor) WriteHeader(statusCode int) {
	if i.status == 0 {
		i.status = statusCode
	}
}

// Flush is a no-op: buffered bytes aren't released to the client until
// commit, so there is nothing yet to flush.
func (i *settlementInterceptor) Flush() {}

// Hijack hands the caller the real connection directly. A hijacked
// connection bypasses the ResponseWriter entirely, so commit skips it: no
// settlement is attempted and nothing buffered is written.
func (i *settlementInterceptor) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := i.w.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijacking not supported")
	}
	conn, rw, err := hijacker.Hijack()
	if err == nil {
		i.hijacked = true
	}
	return conn, rw, err
}

// Push implements http.Pusher. Pushed resources are independent of the
// buffered main response, so pushes pass straight through.
func (i *settlementInterceptor) Push(target string, opts *http.PushOptions) error {
	if pusher, ok := i.w.(http.Pusher); ok {
		return pusher.Push(target, opts)
	}
	return http.ErrNotSupported
}

// commit runs once the wrapped handler has returned. A handler status of
// 400 or above is forwarded unchanged with no settlement attempt; otherwise
// settleFunc runs before anything buffered reaches the client. settleFunc
// returning false means it has already written its own error response
// directly to the underlying writer, so the buffered body is discarded.
func (i *settlementInterceptor) commit(settleFunc func() bool) {
	if i.hijacked {
		return
	}

	status := i.status
	if status == 0 {
		status = http.StatusOK
	}

	if status >= 400 {
		i.release(status)
		return
	}

	if !settleFunc() {
		return
	}

	i.release(status)
}

func (i *settlementInterceptor) release(status int) {
	i.w.WriteHeader(status)
	_, _ = i.w.Write(i.buf.Bytes())
}
