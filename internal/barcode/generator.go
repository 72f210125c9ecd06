// Package barcode derives deterministic per-SKU barcode values and encodes
// them as 1-D symbols.
package barcode

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
)

// Digit bounds. 18 digits is the most a uint64 offset can hold without overflow.
const (
	MinDigits = 6
	MaxDigits = 18
)

const saltLength = 16

// maxAttempts bounds collision retries; the value space is at least 900000
const maxAttempts = 1000

var (
	// ErrInvalidDigits is returned for digit counts outside [MinDigits, MaxDigits]
	ErrInvalidDigits = errors.New("barcode digits out of range")
	// ErrExhausted is returned when no free value was found for a SKU
	ErrExhausted = errors.New("no free barcode value")
	// ErrTaken is returned by Reserve when the value already belongs to another SKU
	ErrTaken = errors.New("barcode already assigned to another SKU")
)

// Generator hands out barcode values. The same SKU, seed and digit count
// always produce the same value, independent of call order, unless the value
// collides with one already handed to a different SKU.
type Generator struct {
	salt []byte
	base uint64 // 10^(digits-1)
	span uint64 // 9 * 10^(digits-1)

	bySKU   map[string]string
	byValue map[string]string
}

// NewGenerator creates a generator whose salt is drawn from a PCG source seeded with seed
func NewGenerator(seed uint64, digits int) (*Generator, error) {
	if digits < MinDigits || digits > MaxDigits {
		return nil, fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidDigits, digits, MinDigits, MaxDigits)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	salt := make([]byte, saltLength)
	for i := range salt {
		salt[i] = byte(rng.UintN(256))
	}

	base := uint64(1)
	for range digits - 1 {
		base *= 10
	}

	return &Generator{
		salt:    salt,
		base:    base,
		span:    9 * base,
		bySKU:   make(map[string]string),
		byValue: make(map[string]string),
	}, nil
}

// Value returns the barcode for sku, deriving it on first use
func (g *Generator) Value(sku string) (string, error) {
	if v, ok := g.bySKU[sku]; ok {
		return v, nil
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		v := g.derive(sku, attempt)
		if owner, taken := g.byValue[v]; taken && owner != sku {
			continue
		}
		g.bySKU[sku] = v
		g.byValue[v] = sku
		return v, nil
	}
	return "", fmt.Errorf("%w: sku %q after %d attempts", ErrExhausted, sku, maxAttempts)
}

// Reserve registers a barcode that already exists for sku, so Value returns
// it and never derives it for another SKU.
func (g *Generator) Reserve(sku, value string) error {
	if owner, taken := g.byValue[value]; taken && owner != sku {
		return fmt.Errorf("%w: %s belongs to %q", ErrTaken, value, owner)
	}
	if prev, ok := g.bySKU[sku]; ok && prev != value {
		delete(g.byValue, prev)
	}
	g.bySKU[sku] = value
	g.byValue[value] = sku
	return nil
}

// Assigned reports how many SKUs have a value
func (g *Generator) Assigned() int { return len(g.bySKU) }

func (g *Generator) derive(sku string, attempt int) string {
	h := sha256.New()
	h.Write([]byte(sku))
	h.Write(g.salt)
	if attempt > 0 {
		h.Write([]byte(":" + strconv.Itoa(attempt)))
	}
	sum := h.Sum(nil)

	n := binary.BigEndian.Uint64(sum[:8])
	return strconv.FormatUint(g.base+n%g.span, 10)
}
