package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

func SHA256Hex(b []byte) string {
	x := sha256.Sum256(b)
	return hex.EncodeToString(x[:])
}

// ChunkID is stable for a given chunk of a given source so re-ingesting the
// same document produces the same ids.
func ChunkID(collection, source string, page, index int, text string) string {
	return SHA256Hex([]byte(fmt.Sprintf("%s/%s:%d:%d:%s", collection, source, page, index, text)))
}
