package pricing

import (
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
)

// ErrPriceConfig indicates a route names no static price and no resolvable
// calculator, or names a calculator ref that isn't registered.
var ErrPriceConfig = errors.New("price configuration error")

// ErrPriceCalc indicates a registered Calculator returned an error or an
// amount that doesn't parse as a decimal number.
var ErrPriceCalc = errors.New("price calculation error")

// Resolver converts a route's human-readable price (static or computed) into
// an atomic-unit amount, using a fixed decimals count.
type Resolver struct {
	Registry *Registry
	Decimals int
}

// NewResolver builds a Resolver backed by registry, converting at decimals
// digits of precision.
func NewResolver(registry *Registry, decimals int) *Resolver {
	return &Resolver{Registry: registry, Decimals: decimals}
}

// ReadsBody reports whether the calculator registered under ref needs the
// request body, so callers can wrap r.Body in a caching reader before
// Resolve consumes it.
func (res *Resolver) ReadsBody(calculatorRef string) bool {
	if calculatorRef == "" {
		return false
	}
	_, readsBody, ok := res.Registry.Lookup(calculatorRef)
	return ok && readsBody
}

// Resolve produces the atomic-unit amount for a request given a route's
// static price and/or calculator reference. price takes precedence when
// non-empty.
func (res *Resolver) Resolve(r *http.Request, price, calculatorRef string) (string, error) {
	human := strings.TrimSpace(price)

	if human == "" {
		if calculatorRef == "" {
			return "", fmt.Errorf("%w: no price or calculator configured", ErrPriceConfig)
		}
		calculator, _, ok := res.Registry.Lookup(calculatorRef)
		if !ok {
			return "", errCalculatorNotFound(calculatorRef)
		}
		computed, err := calculator.Calculate(r)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrPriceCalc, err)
		}
		human = strings.TrimSpace(computed)
	}

	if human == "" {
		return "", fmt.Errorf("%w: resolved price is empty", ErrPriceConfig)
	}

	return toAtomic(human, res.Decimals)
}

// toAtomic converts a decimal string to an atomic-unit integer string at the
// given decimals, truncating toward zero. The conversion runs entirely over
// big.Rat/big.Int so it is exact regardless of decimals or magnitude — no
// float64 round-trip is ever involved.
func toAtomic(human string, decimals int) (string, error) {
	value, ok := new(big.Rat).SetString(human)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a valid decimal amount", ErrPriceCalc, human)
	}
	if value.Sign() < 0 {
		return "", fmt.Errorf("%w: negative amount %q", ErrPriceCalc, human)
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	scaled := new(big.Rat).Mul(value, new(big.Rat).SetInt(scale))

	// Truncate toward zero: for a non-negative Rat, that's floor division of
	// the numerator by the denominator.
	atomic := new(big.Int).Quo(scaled.Num(), scaled.Denom())

	return atomic.String(), nil
}
