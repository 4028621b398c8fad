package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id cost defaults, applied when the configuration leaves a
// parameter at zero.
const (
	DefaultHashMemoryKiB   = 64 * 1024
	DefaultHashIterations  = 3
	DefaultHashParallelism = 2
)

const (
	saltLength = 16
	keyLength  = 32
)

var errMalformedHash = errors.New("malformed password hash")

// Hasher derives argon2id password hashes. Cost parameters are fixed at
// construction; verification reads them back out of the stored hash, so
// existing hashes keep verifying after a parameter change.
type Hasher struct {
	memoryKiB   uint32
	iterations  uint32
	parallelism uint8
}

// NewHasher builds a hasher with the given cost parameters. Zero values
// fall back to the defaults.
func NewHasher(memoryKiB, iterations uint32, parallelism uint8) *Hasher {
	h := &Hasher{memoryKiB: memoryKiB, iterations: iterations, parallelism: parallelism}
	if h.memoryKiB == 0 {
		h.memoryKiB = DefaultHashMemoryKiB
	}
	if h.iterations == 0 {
		h.iterations = DefaultHashIterations
	}
	if h.parallelism == 0 {
		h.parallelism = DefaultHashParallelism
	}
	return h
}

// Hash derives an argon2id hash of the password with a fresh random salt.
// The result is self-describing: $argon2id$v=19$m=..,t=..,p=..$salt$key.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.iterations, h.memoryKiB, h.parallelism, keyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memoryKiB, h.iterations, h.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword checks a password against an encoded argon2id hash. The
// cost parameters come from the hash itself, not from any Hasher.
func VerifyPassword(password, encoded string) (bool, error) {
	memoryKiB, iterations, parallelism, salt, want, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memoryKiB, parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

func decodeHash(encoded string) (memoryKiB, iterations uint32, parallelism uint8, salt, key []byte, err error) {
	rest, ok := strings.CutPrefix(encoded, "$argon2id$")
	if !ok {
		return 0, 0, 0, nil, nil, errMalformedHash
	}

	fields := strings.Split(rest, "$")
	if len(fields) != 4 {
		return 0, 0, 0, nil, nil, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(fields[0], "v=%d", &version); err != nil || version != argon2.Version {
		return 0, 0, 0, nil, nil, errMalformedHash
	}
	if n, err := fmt.Sscanf(fields[1], "m=%d,t=%d,p=%d", &memoryKiB, &iterations, &parallelism); err != nil || n != 3 {
		return 0, 0, 0, nil, nil, errMalformedHash
	}

	salt, err = base64.RawStdEncoding.DecodeString(fields[2])
	if err != nil {
		return 0, 0, 0, nil, nil, errMalformedHash
	}
	key, err = base64.RawStdEncoding.DecodeString(fields[3])
	if err != nil {
		return 0, 0, 0, nil, nil, errMalformedHash
	}

	return memoryKiB, iterations, parallelism, salt, key, nil
}
