package checkout

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/erazemk/gearkiosk/internal/model"
)

// TempCodePrefix starts the code of every item created by a one-time checkout.
const TempCodePrefix = "TEMP-"

// NextTempCode returns TEMP-<n> for the smallest positive n not in existing.
// Comparison ignores case.
func NextTempCode(existing []string) string {
	used := make(map[int]bool, len(existing))
	for _, code := range existing {
		if len(code) <= len(TempCodePrefix) || !strings.EqualFold(code[:len(TempCodePrefix)], TempCodePrefix) {
			continue
		}
		n, err := strconv.Atoi(code[len(TempCodePrefix):])
		if err != nil || n <= 0 || strconv.Itoa(n) != code[len(TempCodePrefix):] {
			continue
		}
		used[n] = true
	}

	n := 1
	for used[n] {
		n++
	}
	return TempCodePrefix + strconv.Itoa(n)
}

// ErrCodesExhausted is returned when no free generated code could be found.
var ErrCodesExhausted = errors.New("no free student code")

const maxCodeAttempts = 64

// RandomCode returns a random GeneratedCodeLength-digit code, without a
// leading zero, for which taken returns false.
func RandomCode(taken func(code string) (bool, error)) (string, error) {
	low := pow10(model.GeneratedCodeLength - 1)
	span := big.NewInt(9 * low)

	for range maxCodeAttempts {
		n, err := rand.Int(rand.Reader, span)
		if err != nil {
			return "", fmt.Errorf("generating code: %w", err)
		}
		code := strconv.FormatInt(low+n.Int64(), 10)

		used, err := taken(code)
		if err != nil {
			return "", err
		}
		if !used {
			return code, nil
		}
	}
	return "", ErrCodesExhausted
}

func pow10(n int) int64 {
	v := int64(1)
	for range n {
		v *= 10
	}
	return v
}
