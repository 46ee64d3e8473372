// Package txidpkg generates human-readable transaction identifiers.
package txidpkg

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Prefix starts every transaction identifier.
const Prefix = "TXN"

// suffixSpace bounds the per-day disambiguator (4 digits).
const suffixSpace = 10_000

// New returns an identifier of the form TXN<yymmdd><4-digit suffix>.
//
// The suffix space is small enough that same-day collisions are possible;
// callers must probe for uniqueness and regenerate on collision.
func New(now time.Time) string {
	nBig, err := rand.Int(rand.Reader, big.NewInt(suffixSpace))
	if err != nil {
		panic(err)
	}

	return fmt.Sprintf("%s%s%04d", Prefix, now.Format("060102"), nBig.Int64())
}
