// Package passhash implements the salted password-hashing protocol used by
// the credential store: a key-derivation function applied at registration and
// a constant-time verification routine applied at login.
//
// Hashes are stored as PHC-style strings that carry the algorithm and its
// parameters, e.g.:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt_b64>$<key_b64>
//	$pbkdf2-sha256$i=600000$<salt_b64>$<key_b64>
//
// Verification reads the parameters back from the stored hash, so cost
// settings can change without invalidating existing records.
package passhash

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// Algorithm identifies a supported key-derivation function.
type Algorithm string

const (
	AlgorithmArgon2id Algorithm = "argon2id"
	AlgorithmPBKDF2   Algorithm = "pbkdf2-sha256"
)

var (
	ErrMalformedHash    = errors.New("malformed password hash")
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")
	ErrInvalidParams    = errors.New("invalid hash parameters")
)

// Params controls hashing cost. All values are fixed at Hasher construction;
// MemoryKiB and Parallelism only apply to argon2id.
type Params struct {
	Algorithm   Algorithm
	Iterations  uint32
	MemoryKiB   uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams returns the argon2id baseline used when no configuration
// overrides are given.
func DefaultParams() Params {
	return Params{
		Algorithm:   AlgorithmArgon2id,
		Iterations:  1,
		MemoryKiB:   64 * 1024,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Hasher derives and verifies password hashes with a fixed parameter set.
type Hasher struct {
	params Params
}

// NewHasher validates the parameter set and returns a Hasher.
func NewHasher(p Params) (*Hasher, error) {
	switch p.Algorithm {
	case AlgorithmArgon2id:
		if p.MemoryKiB == 0 || p.Parallelism == 0 || p.Iterations == 0 {
			return nil, ErrInvalidParams
		}
	case AlgorithmPBKDF2:
		// anything below this is not a serious work factor
		if p.Iterations < 1000 {
			return nil, ErrInvalidParams
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, p.Algorithm)
	}

	if p.SaltLength < 8 || p.SaltLength > 64 {
		return nil, ErrInvalidParams
	}
	if p.KeyLength < 16 || p.KeyLength > 128 {
		return nil, ErrInvalidParams
	}

	return &Hasher{params: p}, nil
}

// Hash derives a key from password with a fresh random salt and returns the
// PHC-encoded result. The plaintext is not retained.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key, err := deriveKey(h.params, []byte(password), salt, h.params.KeyLength)
	if err != nil {
		return "", err
	}

	b64 := base64.RawStdEncoding

	switch h.params.Algorithm {
	case AlgorithmArgon2id:
		return fmt.Sprintf(
			"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
			argon2.Version,
			h.params.MemoryKiB,
			h.params.Iterations,
			h.params.Parallelism,
			b64.EncodeToString(salt),
			b64.EncodeToString(key),
		), nil
	case AlgorithmPBKDF2:
		return fmt.Sprintf(
			"$pbkdf2-sha256$i=%d$%s$%s",
			h.params.Iterations,
			b64.EncodeToString(salt),
			b64.EncodeToString(key),
		), nil
	}

	// unreachable: NewHasher rejects unknown algorithms
	return "", ErrUnknownAlgorithm
}

// Verify reports whether password matches the given encoded hash.
// Returns (false, ErrMalformedHash) for hashes that cannot be parsed or whose
// parameters fall outside sane bounds. The final comparison is constant-time.
func (h *Hasher) Verify(encoded, password string) (bool, error) {
	params, salt, expected, err := decode(encoded)
	if err != nil {
		return false, err
	}

	// Refuse hash strings whose cost parameters would cause pathological
	// resource usage if an attacker ever controls the stored value.
	if !withinBounds(params) {
		return false, ErrMalformedHash
	}

	key, err := deriveKey(params, []byte(password), salt, uint32(len(expected)))
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}

func deriveKey(p Params, password, salt []byte, keyLen uint32) ([]byte, error) {
	switch p.Algorithm {
	case AlgorithmArgon2id:
		return argon2.IDKey(password, salt, p.Iterations, p.MemoryKiB, p.Parallelism, keyLen), nil
	case AlgorithmPBKDF2:
		return pbkdf2.Key(password, salt, int(p.Iterations), int(keyLen), sha256.New), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, p.Algorithm)
}

func withinBounds(p Params) bool {
	if p.SaltLength < 8 || p.SaltLength > 64 {
		return false
	}
	if p.KeyLength < 16 || p.KeyLength > 128 {
		return false
	}
	switch p.Algorithm {
	case AlgorithmArgon2id:
		return p.MemoryKiB <= 1024*1024 && p.Iterations <= 32 && p.Parallelism <= 16
	case AlgorithmPBKDF2:
		return p.Iterations <= 10_000_000
	}
	return false
}

// decode parses a PHC-encoded hash and returns its parameters, salt, and key.
func decode(encoded string) (Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	b64 := base64.RawStdEncoding

	switch {
	case len(parts) == 6 && parts[0] == "" && parts[1] == string(AlgorithmArgon2id):
		if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
			return Params{}, nil, nil, ErrMalformedHash
		}

		var mem, iter, par uint32
		if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iter, &par); err != nil {
			return Params{}, nil, nil, ErrMalformedHash
		}
		if mem == 0 || iter == 0 || par == 0 || par > 255 {
			return Params{}, nil, nil, ErrMalformedHash
		}

		salt, err := b64.DecodeString(parts[4])
		if err != nil {
			return Params{}, nil, nil, ErrMalformedHash
		}
		key, err := b64.DecodeString(parts[5])
		if err != nil {
			return Params{}, nil, nil, ErrMalformedHash
		}

		p := Params{
			Algorithm:   AlgorithmArgon2id,
			Iterations:  iter,
			MemoryKiB:   mem,
			Parallelism: uint8(par),
			SaltLength:  uint32(len(salt)),
			KeyLength:   uint32(len(key)),
		}
		return p, salt, key, nil

	case len(parts) == 5 && parts[0] == "" && parts[1] == string(AlgorithmPBKDF2):
		var iter uint32
		if _, err := fmt.Sscanf(parts[2], "i=%d", &iter); err != nil {
			return Params{}, nil, nil, ErrMalformedHash
		}
		if iter == 0 {
			return Params{}, nil, nil, ErrMalformedHash
		}

		salt, err := b64.DecodeString(parts[3])
		if err != nil {
			return Params{}, nil, nil, ErrMalformedHash
		}
		key, err := b64.DecodeString(parts[4])
		if err != nil {
			return Params{}, nil, nil, ErrMalformedHash
		}

		p := Params{
			Algorithm:  AlgorithmPBKDF2,
			Iterations: iter,
			SaltLength: uint32(len(salt)),
			KeyLength:  uint32(len(key)),
		}
		return p, salt, key, nil
	}

	return Params{}, nil, nil, ErrMalformedHash
}
