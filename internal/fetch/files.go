package fetch

import (
	"crypto/sha256"
	"encoding/hex"
)

func bodyName(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:]) + ".bin"
}
