package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash returns the hex SHA-256 digest of chunks. Every chunk is written with
// its length first, so ("ab", "c") and ("a", "bc") never share a digest.
func Hash(chunks ...[]byte) string {
	h := sha256.New()
	var n [8]byte
	for _, c := range chunks {
		binary.BigEndian.PutUint64(n[:], uint64(len(c)))
		h.Write(n[:])
		h.Write(c)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// keyFor builds "<kind>:<digest>" from the upstream content hash and the
// options that shaped the artifact.
func keyFor(kind, upstream string, opts any) string {
	data, err := json.Marshal(opts)
	if err != nil {
		// Params that don't encode still need a stable key.
		data = fmt.Appendf(nil, "%#v", opts)
	}
	return kind + ":" + Hash([]byte(upstream), data)
}
