package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/projectgate/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      token lifetime, minutes
//	-i string   token issuer
//	-l int      token expiry leeway, seconds
//	-h string   password hash algorithm: bcrypt | argon2id
//	-w int      password hash work factor
//
// Args are pre-filtered with flagx.FilterArgs so -c/-config and flags owned
// by other loaders do not break parsing.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-i", "-l", "-h", "-w"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing key")
	ttl := fs.Int("t", int(config.TokenTTL.Minutes()), "token lifetime (in minutes)")
	fs.StringVar(&config.TokenIssuer, "i", config.TokenIssuer, "token issuer")
	leeway := fs.Int("l", int(config.TokenLeeway.Seconds()), "token expiry leeway (in seconds)")
	fs.StringVar(&config.HashAlgorithm, "h", config.HashAlgorithm, "password hash algorithm")
	fs.IntVar(&config.HashWorkFactor, "w", config.HashWorkFactor, "password hash work factor")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Durations from the config file keep their precision unless overridden.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.TokenTTL = time.Duration(*ttl) * time.Minute
		case "l":
			config.TokenLeeway = time.Duration(*leeway) * time.Second
		}
	})
}
