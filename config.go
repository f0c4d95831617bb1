package sqle

import (
	"io/ioutil"
	"strings"

	"github.com/sirupsen/logrus"
	errors "gopkg.in/src-d/go-errors.v1"
	yaml "gopkg.in/yaml.v2"

	"github.com/brunoribeiro/sql-parser-sub002/sql"
	"github.com/brunoribeiro/sql-parser-sub002/sql/analyzer"
)

// ErrInvalidConfig is returned when the engine configuration can not be
// used.
var ErrInvalidConfig = errors.NewKind("invalid config: %s")

const (
	// KeyUniqueness proves a subquery returns at most one row from the
	// primary keys of its tables.
	KeyUniqueness = "keys"
	// PermissiveUniqueness considers every subquery to return at most one
	// row.
	PermissiveUniqueness = "permissive"
)

// Config for the Engine.
type Config struct {
	// DefaultSchema is the schema of unqualified table names.
	DefaultSchema string `yaml:"default_schema"`
	// Catalog is the path of the YAML catalog definition loaded by
	// NewFromConfig.
	Catalog string `yaml:"catalog"`
	// Debug enables the analyzer debug messages.
	Debug bool `yaml:"debug"`
	// Verbose logs the tree after every analyzer rule.
	Verbose bool `yaml:"verbose"`
	// Uniqueness is either "keys" or "permissive".
	Uniqueness string `yaml:"uniqueness"`
	// GroupAliasPrefix is the prefix of generated group aliases.
	GroupAliasPrefix string `yaml:"group_alias_prefix"`
	// LogLevel is a logrus level name.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() *Config {
	return &Config{
		DefaultSchema:    sql.DefaultSchema,
		Uniqueness:       KeyUniqueness,
		GroupAliasPrefix: analyzer.DefaultGroupAliasPrefix,
		LogLevel:         logrus.InfoLevel.String(),
	}
}

// LoadConfig reads the configuration from the YAML file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, ErrInvalidConfig.Wrap(err, path)
	}
	return ParseConfig(data)
}

// ParseConfig parses a YAML configuration. Missing keys take their default
// values.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, ErrInvalidConfig.Wrap(err, err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values of the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DefaultSchema) == "" {
		return ErrInvalidConfig.New("default_schema can not be empty")
	}

	switch c.Uniqueness {
	case KeyUniqueness, PermissiveUniqueness:
	default:
		return ErrInvalidConfig.New("unknown uniqueness " + c.Uniqueness)
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return ErrInvalidConfig.Wrap(err, err.Error())
	}
	return nil
}

func (c *Config) uniquenessProver() analyzer.UniquenessProver {
	if c.Uniqueness == PermissiveUniqueness {
		return analyzer.PermissiveUniqueness{}
	}
	return analyzer.KeyUniqueness{}
}

func (c *Config) analyzerBuilder(catalog sql.Catalog) *analyzer.Builder {
	b := analyzer.NewBuilder(catalog).
		WithUniqueness(c.uniquenessProver()).
		WithGroupAliasPrefix(c.GroupAliasPrefix)
	if c.Debug {
		b = b.WithDebug()
	}
	if c.Verbose {
		b = b.WithVerbose()
	}
	return b
}
