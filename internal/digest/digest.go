// Package digest computes hex-encoded digests of byte strings under a named
// algorithm. It is the only place in the module that knows how a name maps to
// a hash function.
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"slices"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/md4"
	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
)

// ErrUnsupportedAlgorithm is returned when an algorithm name is not registered.
var ErrUnsupportedAlgorithm = errors.New("unsupported hash algorithm")

var registry = map[string]func() hash.Hash{
	"md4":        md4.New,
	"md5":        md5.New,
	"sha1":       sha1.New,
	"sha224":     sha256.New224,
	"sha256":     sha256.New,
	"sha384":     sha512.New384,
	"sha512":     sha512.New,
	"sha512_224": sha512.New512_224,
	"sha512_256": sha512.New512_256,
	"sha3_224":   sha3.New224,
	"sha3_256":   sha3.New256,
	"sha3_384":   sha3.New384,
	"sha3_512":   sha3.New512,
	"ripemd160":  ripemd160.New,
	"blake2b":    func() hash.Hash { h, _ := blake2b.New512(nil); return h },
	"blake2s":    func() hash.Hash { h, _ := blake2s.New256(nil); return h },
	"blake3":     func() hash.Hash { return blake3.New() },
}

// Digest returns the lowercase hex digest of input under algorithm.
func Digest(input []byte, algorithm string) (string, error) {
	newHash, ok := registry[algorithm]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}

	h := newHash()
	h.Write(input)

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Adapter exposes Digest as a value so callers can depend on an interface.
type Adapter struct{}

// Digest implements the cracker's digester contract.
func (Adapter) Digest(input []byte, algorithm string) (string, error) {
	return Digest(input, algorithm)
}

// Normalize maps user spellings such as "SHA3-256" onto registry names.
func Normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

// IsSupported reports whether name is a registered algorithm. The name must
// already be normalized.
func IsSupported(name string) bool {
	_, ok := registry[name]
	return ok
}

// Supported returns the registered algorithm names in sorted order.
func Supported() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}

	slices.Sort(out)

	return out
}

// HexLen returns the length of the hex digest produced by name.
func HexLen(name string) (int, bool) {
	newHash, ok := registry[name]
	if !ok {
		return 0, false
	}

	return newHash().Size() * 2, true
}

// HexLengths returns every distinct hex digest length in the registry, sorted.
func HexLengths() []int {
	seen := make(map[int]struct{}, len(registry))
	for _, newHash := range registry {
		seen[newHash().Size()*2] = struct{}{}
	}

	out := make([]int, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}

	slices.Sort(out)

	return out
}
