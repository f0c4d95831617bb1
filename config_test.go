package sqle

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/brunoribeiro/sql-parser-sub002/sql/analyzer"
)

func TestParseConfig(t *testing.T) {
	require := require.New(t)

	cfg, err := ParseConfig([]byte(`
default_schema: shop
debug: true
uniqueness: permissive
log_level: debug
`))
	require.NoError(err)
	require.Equal(&Config{
		DefaultSchema:    "shop",
		Debug:            true,
		Uniqueness:       PermissiveUniqueness,
		GroupAliasPrefix: analyzer.DefaultGroupAliasPrefix,
		LogLevel:         "debug",
	}, cfg)
	require.Equal(analyzer.PermissiveUniqueness{}, cfg.uniquenessProver())

	a := cfg.analyzerBuilder(nil).Build()
	require.True(a.Debug)
	require.False(a.Verbose)
	require.Equal(analyzer.PermissiveUniqueness{}, a.Uniqueness)

	cfg, err = ParseConfig(nil)
	require.NoError(err)
	require.Equal(DefaultConfig(), cfg)
	require.Equal(analyzer.KeyUniqueness{}, cfg.uniquenessProver())
}

func TestParseConfigErrors(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{"unknown key", "nope: 1"},
		{"empty schema", "default_schema: ''"},
		{"unknown uniqueness", "uniqueness: maybe"},
		{"bad level", "log_level: loud"},
		{"bad yaml", "debug: [1"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			_, err := ParseConfig([]byte(tt.data))
			require.Error(err)
			require.True(ErrInvalidConfig.Is(err))
		})
	}
}

func TestLoadConfig(t *testing.T) {
	require := require.New(t)

	dir, err := ioutil.TempDir("", "config")
	require.NoError(err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "config.yml")
	require.NoError(ioutil.WriteFile(path, []byte("group_alias_prefix: grp\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(err)
	require.Equal("grp", cfg.GroupAliasPrefix)

	_, err = LoadConfig(filepath.Join(dir, "nope.yml"))
	require.True(ErrInvalidConfig.Is(err))
}

func TestConfigureLogging(t *testing.T) {
	require := require.New(t)

	prev := logrus.GetLevel()
	defer logrus.SetLevel(prev)

	cfg := DefaultConfig()
	cfg.LogLevel = "warning"
	require.NoError(ConfigureLogging(cfg))
	require.Equal(logrus.WarnLevel, logrus.GetLevel())

	cfg.LogLevel = "loud"
	require.True(ErrInvalidConfig.Is(ConfigureLogging(cfg)))
}
