package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/pelicoin/ledger-server/internal/flagx"
)

// Keys recognized in the .env file. TOKEN_VALIDITY_MINUTES is an integer;
// ADMIN_EMAILS and KAFKA_BROKERS are comma-separated lists.
const (
	envKeyAddr          = "HTTP_ADDR"
	envKeyDatabaseDSN   = "DATABASE_DSN"
	envKeySecretKey     = "SECRET_KEY"
	envKeyTokenValidity = "TOKEN_VALIDITY_MINUTES"
	envKeyAdminEmails   = "ADMIN_EMAILS"
	envKeyKafkaBrokers  = "KAFKA_BROKERS"
	envKeyKafkaTopic    = "KAFKA_TOPIC"
)

// parseEnvFile loads configuration values from a .env file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags. If neither
// is set, no file is loaded and the Config is left untouched. Keys absent
// from the file also leave their fields untouched, so the file only needs to
// name what it overrides.
//
// If the file cannot be read or a numeric value does not parse, the function
// panics: a deployment that points at a broken config file should not start.
func parseEnvFile(config *Config) {

	// try flags
	envFile := flagx.EnvFileFlags()

	// nothing to load
	if envFile == "" {
		return
	}

	values, err := godotenv.Read(envFile)
	if err != nil {
		panic(err)
	}

	if v, ok := values[envKeyAddr]; ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := values[envKeyDatabaseDSN]; ok {
		config.DatabaseDSN = v
	}
	if v, ok := values[envKeySecretKey]; ok {
		config.SecretKey = v
	}
	if v, ok := values[envKeyTokenValidity]; ok {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.TokenValidityDuration = time.Duration(minutes) * time.Minute
	}
	if v, ok := values[envKeyAdminEmails]; ok {
		config.AdminEmails = splitList(v)
	}
	if v, ok := values[envKeyKafkaBrokers]; ok {
		config.KafkaBrokers = splitList(v)
	}
	if v, ok := values[envKeyKafkaTopic]; ok {
		config.KafkaTopic = v
	}
}

// splitList splits a comma-separated value, trimming whitespace and dropping
// empty items. Returns nil for an empty input.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
