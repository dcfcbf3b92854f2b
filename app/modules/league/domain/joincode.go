package leaguedomain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	JoinCodeLength   = 6
	joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// NewJoinCode generates a random join code without look-alike characters.
func NewJoinCode() (string, error) {
	var b strings.Builder
	b.Grow(JoinCodeLength)
	size := big.NewInt(int64(len(joinCodeAlphabet)))
	for i := 0; i < JoinCodeLength; i++ {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("failed to generate join code: %w", err)
		}
		b.WriteByte(joinCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeJoinCode upper-cases a user supplied code and reports whether it
// could have been generated by NewJoinCode.
func NormalizeJoinCode(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != JoinCodeLength {
		return "", false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(joinCodeAlphabet, code[i]) < 0 {
			return "", false
		}
	}
	return code, true
}
