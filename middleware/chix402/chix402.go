// Package chix402 re-exports the core middleware package under chi's
// naming convention. chi middleware is plain func(http.Handler) http.Handler,
// which is exactly what Interceptor.Wrap already returns, so this package
// adds no behavior of its own — it exists purely so chi users can import
// "middleware/chix402" and find the adapter they expect alongside
// "middleware/ginx402", instead of having to know the core package also
// happens to be chi-compatible.
package chix402

import (
	"net/http"

	"github.com/lattice-works/x402gateway/middleware"
)

// Interceptor is the shared payment interceptor, aliased for discoverability.
type Interceptor = middleware.Interceptor

// PaymentMetadata is the per-route payment annotation, aliased for
// discoverability.
type PaymentMetadata = middleware.PaymentMetadata

// New builds an Interceptor from cfg. See middleware.New.
func New(cfg middleware.Config) *Interceptor {
	return middleware.New(cfg)
}

// Middleware returns chi-compatible middleware gating next behind meta,
// using r.With(chix402.Middleware(ic, meta)) or r.Use(...) on a sub-router.
func Middleware(ic *Interceptor, meta PaymentMetadata) func(http.Handler) http.Handler {
	return ic.Wrap(meta)
}
