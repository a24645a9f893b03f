// Package codec holds the reversible obfuscation applied to OTP codes, reset
// tokens and refresh cookies before they leave the process. It is not
// encryption: anyone holding the salt can reverse it.
package codec

import (
	"encoding/hex"
	"fmt"

	"github.com/Sadman95/bike-island-server/domain"
)

// XORCodec implements domain.SecretCodec
type XORCodec struct {
	key byte
}

// NewXORCodec folds every byte of salt into a single key byte with XOR
func NewXORCodec(salt string) *XORCodec {
	var key byte
	for i := 0; i < len(salt); i++ {
		key ^= salt[i]
	}
	return &XORCodec{key: key}
}

// Encode implements domain.SecretCodec. Each byte of plain becomes two lowercase hex digits.
func (c *XORCodec) Encode(plain string) string {
	out := make([]byte, len(plain))
	for i := 0; i < len(plain); i++ {
		out[i] = plain[i] ^ c.key
	}
	return hex.EncodeToString(out)
}

// Decode implements domain.SecretCodec
func (c *XORCodec) Decode(encoded string) (string, error) {
	raw, err := hex.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCodecMalformed, err)
	}
	for i := range raw {
		raw[i] ^= c.key
	}
	return string(raw), nil
}

var _ domain.SecretCodec = (*XORCodec)(nil)
