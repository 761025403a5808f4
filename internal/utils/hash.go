package utils

import (
	"crypto/md5"
	"encoding/hex"
)

// MD5Hex returns the 32 character lowercase hex MD5 digest of s.
func MD5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
