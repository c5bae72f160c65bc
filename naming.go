package assetcache

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"hash/fnv"
	"strconv"
)

// NameGenerator maps a cache key to the file name used inside the cache
// directory. Implementations must be deterministic and must not produce
// path separators.
type NameGenerator func(key string) string

// HashCodeNames names entries by the decimal FNV-1a hash of the key.
// Short names, small collision risk for small caches.
func HashCodeNames(key string) string {
	h := fnv.New64a()
	h.Write([]byte(key))
	return strconv.FormatUint(h.Sum64(), 10)
}

// MD5Names names entries by the hex MD5 digest of the key.
func MD5Names(key string) string {
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// SHA256Names names entries by the hex SHA-256 digest of the key.
func SHA256Names(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
