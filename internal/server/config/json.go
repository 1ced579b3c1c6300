package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/projectgate/internal/flagx"
	"github.com/dmitrijs2005/projectgate/internal/timex"
	"gopkg.in/yaml.v3"
)

// JsonConfig is the on-disk shape of the server config file, JSON or YAML.
// Durations use timex.Duration so both "30m" and integer nanoseconds are
// accepted.
// Pointer and zero-value fields left out of the file keep the values
// already present in Config.
type JsonConfig struct {
	EndpointAddrGRPC string          `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DatabaseDSN      string          `json:"database_dsn" yaml:"database_dsn"`
	SecretKey        string          `json:"secret_key" yaml:"secret_key"`
	TokenTTL         *timex.Duration `json:"token_ttl" yaml:"token_ttl"`
	TokenIssuer      string          `json:"token_issuer" yaml:"token_issuer"`
	TokenLeeway      *timex.Duration `json:"token_leeway" yaml:"token_leeway"`
	HashAlgorithm    string          `json:"hash_algorithm" yaml:"hash_algorithm"`
	HashWorkFactor   int             `json:"hash_work_factor" yaml:"hash_work_factor"`
}

// parseJson overlays values from the file named by -c/-config onto config.
// Files ending in .yaml or .yml are read as YAML, anything else as JSON.
// Without either flag it does nothing. An unreadable or invalid file panics:
// the server must not start on a half-read configuration.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := unmarshalConfig(path, file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.TokenIssuer, c.TokenIssuer)
	setString(&config.HashAlgorithm, c.HashAlgorithm)

	if c.TokenTTL != nil {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.TokenLeeway != nil {
		config.TokenLeeway = c.TokenLeeway.Duration
	}
	if c.HashWorkFactor != 0 {
		config.HashWorkFactor = c.HashWorkFactor
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func unmarshalConfig(path string, data []byte, c *JsonConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, c)
	default:
		return json.Unmarshal(data, c)
	}
}
