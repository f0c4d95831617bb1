package sqle

import (
	"github.com/sirupsen/logrus"
)

const (
	// CompileIDLogField is the log field of the identifier of a
	// compilation.
	CompileIDLogField = "compileID"
	// QueryLogField is the log field of the compiled query.
	QueryLogField = "query"
	// FingerprintLogField is the log field of the binding fingerprint of a
	// compiled query.
	FingerprintLogField = "fingerprint"
)

// ConfigureLogging sets the level of the standard logrus logger from the
// configuration.
func ConfigureLogging(cfg *Config) error {
	lvl, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return ErrInvalidConfig.Wrap(err, err.Error())
	}
	logrus.SetLevel(lvl)
	return nil
}
