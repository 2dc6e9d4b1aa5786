// Package config handles configuration for the credential store,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"time"

	"github.com/dmitrijs2005/credstore/internal/passhash"
)

// Config holds the runtime settings of the store.
//
// The hashing fields form the enumerated configuration surface of the
// password protocol: algorithm identifier, cost parameters, and salt length.
// They are fixed at store construction, never per call.
//
// Fields:
//   - HashAlgorithm: "argon2id" or "pbkdf2-sha256".
//   - HashIterations / HashMemoryKiB / HashParallelism: KDF cost (memory and
//     parallelism apply to argon2id only).
//   - HashSaltLength / HashKeyLength: sizes in bytes.
//   - DatabaseDSN: PostgreSQL DSN (pgx); empty selects the in-memory backend.
//   - SecretKey: HMAC secret for signing session JWTs (HS256). Do not use the
//     test default in prod.
//   - TokenValidityDuration: session token lifetime.
type Config struct {
	HashAlgorithm         string
	HashIterations        int
	HashMemoryKiB         int
	HashParallelism       int
	HashSaltLength        int
	HashKeyLength         int
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: The secret key is insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	p := passhash.DefaultParams()
	c.HashAlgorithm = string(p.Algorithm)
	c.HashIterations = int(p.Iterations)
	c.HashMemoryKiB = int(p.MemoryKiB)
	c.HashParallelism = int(p.Parallelism)
	c.HashSaltLength = int(p.SaltLength)
	c.HashKeyLength = int(p.KeyLength)
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 15 * time.Minute
}

// HashParams converts the hashing fields into a passhash.Params value.
// Validation of the values is passhash.NewHasher's job.
func (c *Config) HashParams() passhash.Params {
	return passhash.Params{
		Algorithm:   passhash.Algorithm(c.HashAlgorithm),
		Iterations:  uint32(c.HashIterations),
		MemoryKiB:   uint32(c.HashMemoryKiB),
		Parallelism: uint8(c.HashParallelism),
		SaltLength:  uint32(c.HashSaltLength),
		KeyLength:   uint32(c.HashKeyLength),
	}
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
