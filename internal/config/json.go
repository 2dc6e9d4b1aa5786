package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/credstore/internal/flagx"
)

// Duration wraps time.Duration for JSON unmarshalling: it accepts both
// string values such as "15m" and integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration: %v", v)
	}
}

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	HashAlgorithm         string   `json:"hash_algorithm"`
	HashIterations        int      `json:"hash_iterations"`
	HashMemoryKiB         int      `json:"hash_memory_kib"`
	HashParallelism       int      `json:"hash_parallelism"`
	HashSaltLength        int      `json:"hash_salt_length"`
	HashKeyLength         int      `json:"hash_key_length"`
	DatabaseDSN           string   `json:"database_dsn"`
	SecretKey             string   `json:"secret_key"`
	TokenValidityDuration Duration `json:"token_validity_duration"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; if neither
// is set, no JSON file is loaded. Fields absent from the file keep their
// current values. If the file cannot be read or contains invalid JSON, the
// function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	// pre-populate the DTO so missing JSON fields keep current values
	c := &JsonConfig{
		HashAlgorithm:         config.HashAlgorithm,
		HashIterations:        config.HashIterations,
		HashMemoryKiB:         config.HashMemoryKiB,
		HashParallelism:       config.HashParallelism,
		HashSaltLength:        config.HashSaltLength,
		HashKeyLength:         config.HashKeyLength,
		DatabaseDSN:           config.DatabaseDSN,
		SecretKey:             config.SecretKey,
		TokenValidityDuration: Duration{config.TokenValidityDuration},
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.HashAlgorithm = c.HashAlgorithm
	config.HashIterations = c.HashIterations
	config.HashMemoryKiB = c.HashMemoryKiB
	config.HashParallelism = c.HashParallelism
	config.HashSaltLength = c.HashSaltLength
	config.HashKeyLength = c.HashKeyLength
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.TokenValidityDuration = c.TokenValidityDuration.Duration
}
