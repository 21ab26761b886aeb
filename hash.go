// Content checksums for collection files.
//
// A checksum is a 16 hex character digest of the raw file bytes, streamed
// through Chunks so large files are never held in memory. Three algorithms
// are supported, selectable via Config.HashAlgorithm.
package rowfile

import (
	"encoding/hex"
	"fmt"
	"hash"
	"hash/fnv"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Hash algorithm constants.
const (
	AlgXXHash3 = 1 // Default, fastest
	AlgFNV1a   = 2 // No external dependencies
	AlgBlake2b = 3 // Best distribution
)

// hasher returns a 64-bit digest for the given algorithm, or nil.
func hasher(alg int) hash.Hash {
	switch alg {
	case AlgXXHash3:
		return xxh3.New()
	case AlgFNV1a:
		return fnv.New64a()
	case AlgBlake2b:
		h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits; only fails on bad key/size
		return h
	default:
		return nil
	}
}

// Checksum returns the digest of the file content. Like Chunks, a missing
// file or one of at most one byte hashes as empty.
func (f *File) Checksum() (string, error) {
	h := hasher(f.config.HashAlgorithm)
	if h == nil {
		return "", fmt.Errorf("checksum: unknown algorithm %d", f.config.HashAlgorithm)
	}
	if _, err := f.Chunks(func(b []byte) error {
		// hash.Hash.Write never returns an error.
		_, _ = h.Write(b)
		return nil
	}); err != nil {
		return "", fmt.Errorf("checksum: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
