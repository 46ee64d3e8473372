// Package randompkg provides functionality for generating random application common items.
package randompkg

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz"
	digits   = "0123456789"
)

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// Float64 is a shortcut for generating a random float between 0 and 1 using crypto/rand.
func Float64() float64 {
	return float64(Intn(1<<32)) / (1 << 32)
}

// FloatBetween generates a random decimal number between min and max rounded to 4 decimals.
func FloatBetween(min, max float64) float64 {
	numInRange := min + Float64()*(max-min)
	return math.Floor(numInRange*10_000) / 10_000
}

// String generates a random string of length n.
func String(n int) string {
	var sb strings.Builder

	k := len(alphabet)

	for i := 0; i < n; i++ {
		c := alphabet[Intn(k)]

		_ = sb.WriteByte(c) // The returned err is always nil.
	}

	return sb.String()
}

// Digits generates a random digit string of length n.
func Digits(n int) string {
	var sb strings.Builder

	k := len(digits)

	for i := 0; i < n; i++ {
		_ = sb.WriteByte(digits[Intn(k)])
	}

	return sb.String()
}

// Owner generates a random teller username.
func Owner() string {
	return String(6)
}

// AccountNumber generates a random customer account number.
func AccountNumber() string {
	return "ACC" + Digits(10)
}

// ChequeNumber generates a random cheque number.
func ChequeNumber() string {
	return "CHQ" + Digits(8)
}

// Bank generates a random issuing bank name.
func Bank() string {
	banks := []string{"First National", "Crescent Trust", "Harbour Savings", "Union Mutual"}
	return banks[Intn(len(banks))]
}

// MoneyAmountBetween generates a random amount of money between min and max rounded to 4 decimals.
func MoneyAmountBetween(min, max float64) string {
	return decimal.NewFromFloat(FloatBetween(min, max)).String()
}

// Email generates a random email.
func Email() string {
	return fmt.Sprintf("%s@email.com", String(10))
}
