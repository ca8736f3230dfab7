// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strconv"
	"unicode/utf16"

	"golang.org/x/crypto/blake2b"
)

const (
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	CodePrefix = "KK-"
	codeLength = 8
)

// GenerateCode returns a tracking code: "KK-" followed by 8 characters
// from A-Z and 0-9.
func GenerateCode() (string, error) {
	suffix, err := randomFromCharset(codeCharset, codeLength)
	if err != nil {
		return "", err
	}
	return CodePrefix + suffix, nil
}

func randomFromCharset(charset string, length int) (string, error) {
	b := make([]byte, length)
	max := big.NewInt(int64(len(charset)))

	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}

	return string(b), nil
}

// HashIP obfuscates a client address for scan history. With an empty key it
// produces the legacy 32-bit rolling hash (base 36) so existing rows stay
// comparable; with a key it produces a keyed BLAKE2b digest.
func HashIP(ip string, key []byte) string {
	if len(key) == 0 {
		return rollingHash(ip)
	}

	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}

	h, err := blake2b.New256(key)
	if err != nil {
		return rollingHash(ip)
	}
	h.Write([]byte(ip))
	return hex.EncodeToString(h.Sum(nil)[:16])
}

// rollingHash is h = h*31 + c over UTF-16 code units with int32 wrap-around.
func rollingHash(s string) string {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(unit)
	}

	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return strconv.FormatInt(abs, 36)
}
