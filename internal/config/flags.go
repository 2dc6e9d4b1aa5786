package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/credstore/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   hash algorithm ("argon2id" or "pbkdf2-sha256")
//	-i int      KDF iterations
//	-m int      argon2id memory, KiB
//	-p int      argon2id parallelism
//	-l int      salt length, bytes
//	-k int      derived key length, bytes
//	-d string   PostgreSQL DSN (empty selects the in-memory backend)
//	-s string   JWT HMAC secret key
//	-t int      session token validity, minutes
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with the -c/-config flags handled by
// the JSON overlay.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-m", "-p", "-l", "-k", "-d", "-s", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HashAlgorithm, "a", config.HashAlgorithm, "hash algorithm")
	fs.IntVar(&config.HashIterations, "i", config.HashIterations, "KDF iterations")
	fs.IntVar(&config.HashMemoryKiB, "m", config.HashMemoryKiB, "argon2id memory (KiB)")
	fs.IntVar(&config.HashParallelism, "p", config.HashParallelism, "argon2id parallelism")
	fs.IntVar(&config.HashSaltLength, "l", config.HashSaltLength, "salt length (bytes)")
	fs.IntVar(&config.HashKeyLength, "k", config.HashKeyLength, "derived key length (bytes)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidityDuration := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token_validity_duration (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidityDuration) * time.Minute
}
