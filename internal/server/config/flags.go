package config

import (
	"flag"
	"os"
	"time"

	"github.com/pelicoin/ledger-server/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      session token validity, minutes
//	-m string   admin emails, comma-separated
//	-k string   Kafka brokers, comma-separated (empty disables publishing)
//	-q string   Kafka topic for audit events
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - The duration flag is accepted as an integer in minutes and then
//     converted to a time.Duration value.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-m", "-k", "-q"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidityMinutes := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token_validity_duration (in minutes)")

	adminEmails := fs.String("m", "", "admin emails, comma-separated")
	kafkaBrokers := fs.String("k", "", "Kafka brokers, comma-separated")
	fs.StringVar(&config.KafkaTopic, "q", config.KafkaTopic, "Kafka topic for audit events")

	err := fs.Parse(args)
	if err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidityMinutes) * time.Minute

	if *adminEmails != "" {
		config.AdminEmails = splitList(*adminEmails)
	}
	if *kafkaBrokers != "" {
		config.KafkaBrokers = splitList(*kafkaBrokers)
	}
}
