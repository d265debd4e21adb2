// Package config is the Configuration & Bootstrap component (SPEC_FULL.md
// §4.11): a Definition loaded once from YAML at process startup, per the
// key table in §6.3. Grounded on the teacher's internal/config.Config
// load/validate shape, re-keyed from the teacher's secret-store/service
// definitions onto this service's backend/KMS/database/RPC settings.
// Definition is immutable after Load — no globals, no setters.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	dserrors "github.com/systmms/secretcore/internal/errors"
)

const component = "config"

// Definition is the parsed, validated contents of the service's YAML
// configuration file. Every field maps to one row of §6.3's table.
type Definition struct {
	Backend     string                `yaml:"backend"`
	Encrypt     bool                  `yaml:"encrypt"`
	EncryptType string                `yaml:"encrypt_type"`
	Connectors  map[string]Connector  `yaml:"connectors"`
	Token       string                `yaml:"token"`
	Databases   map[string]Database   `yaml:"databases"`
	Log         LogConfig             `yaml:"log"`
	Metrics     MetricsConfig         `yaml:"metrics"`
	GRPC        GRPCConfig            `yaml:"grpc"`
	Identity    IdentityConfig        `yaml:"identity"`
}

// Connector holds one backend-store or KMS adapter's connection settings,
// keyed by adapter name under connectors.<Name> in the YAML file.
type Connector struct {
	Region    string            `yaml:"region,omitempty"`
	Endpoint  string            `yaml:"endpoint,omitempty"`
	KeyAlias  string            `yaml:"key_alias,omitempty"`
	TimeoutMs int               `yaml:"timeout_ms,omitempty"`
	Options   map[string]string `yaml:",inline"`
}

// TimeoutOrDefault returns the connector's configured timeout, or 30s in
// milliseconds when unset.
func (c Connector) TimeoutOrDefault() int {
	if c.TimeoutMs <= 0 {
		return 30000
	}
	return c.TimeoutMs
}

// Database is one entry of databases.<name> — the metadata store's DSN.
type Database struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// LogConfig controls C12's structured logger.
type LogConfig struct {
	Debug   bool          `yaml:"debug"`
	Filters MaskingConfig `yaml:"filters"`
}

type MaskingConfig struct {
	Masking MaskingRules `yaml:"masking"`
}

type MaskingRules struct {
	Rules []string `yaml:"rules"`
}

// MetricsConfig controls the Prometheus /metrics handler C12 exposes.
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// GRPCConfig controls the C10 RPC Surface's listener.
type GRPCConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// IdentityConfig configures the C3 Identity Adapter's upstream connection.
type IdentityConfig struct {
	Endpoint string `yaml:"endpoint"`
	Insecure bool   `yaml:"insecure"`
}

// Load reads and parses path into a Definition, then validates it.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, dserrors.New(dserrors.KindWrongConfiguration, component, fmt.Sprintf("configuration file %q not found", path))
		}
		return nil, dserrors.Wrap(dserrors.KindWrongConfiguration, component, err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, dserrors.Wrap(dserrors.KindWrongConfiguration, component, err)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks the fields every component in C6–C9 requires to be
// present before bootstrap wires them; it does not validate that the
// referenced endpoints are reachable, only that the shape is complete.
func (d *Definition) Validate() error {
	if d.Backend == "" {
		return dserrors.New(dserrors.KindRequiredParameter, component, "backend must name a configured backend-store adapter")
	}
	if d.Encrypt {
		switch d.EncryptType {
		case "AWS_KMS", "VAULT_TRANSIT":
		case "":
			return dserrors.New(dserrors.KindRequiredParameter, component, "encrypt_type is required when encrypt is true")
		default:
			return dserrors.New(dserrors.KindWrongConfiguration, component, fmt.Sprintf("unsupported encrypt_type %q", d.EncryptType))
		}
	}
	if _, ok := d.Connectors[d.Backend]; !ok {
		return dserrors.New(dserrors.KindBackendNotDefined, component, fmt.Sprintf("no connectors.%s entry for configured backend", d.Backend))
	}
	if _, ok := d.Databases["default"]; !ok {
		return dserrors.New(dserrors.KindRequiredParameter, component, "databases.default is required")
	}
	if d.GRPC.ListenAddr == "" {
		return dserrors.New(dserrors.KindRequiredParameter, component, "grpc.listen_addr is required")
	}
	return nil
}

// Connector returns the named connector's settings, or an error if unset.
func (d *Definition) Connector(name string) (Connector, error) {
	c, ok := d.Connectors[name]
	if !ok {
		return Connector{}, dserrors.New(dserrors.KindBackendNotDefined, component, fmt.Sprintf("no connectors.%s entry", name))
	}
	return c, nil
}

// DefaultDatabase returns the databases.default entry.
func (d *Definition) DefaultDatabase() (Database, error) {
	db, ok := d.Databases["default"]
	if !ok {
		return Database{}, dserrors.New(dserrors.KindRequiredParameter, component, "databases.default is required")
	}
	return db, nil
}
