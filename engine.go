package sqle

import (
	"context"

	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"

	"github.com/brunoribeiro/sql-parser-sub002/memory"
	"github.com/brunoribeiro/sql-parser-sub002/sql"
	"github.com/brunoribeiro/sql-parser-sub002/sql/analyzer"
	"github.com/brunoribeiro/sql-parser-sub002/sql/parse"
	"github.com/brunoribeiro/sql-parser-sub002/sql/plan"
)

// Engine compiles queries against a catalog: it parses them and runs the
// analyzer, which binds, types, flattens and groups them.
type Engine struct {
	Catalog  sql.Catalog
	Analyzer *analyzer.Analyzer
	Config   *Config
}

// New creates a new Engine with the given configuration. A nil
// configuration is the default one.
func New(c sql.Catalog, cfg *Config) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Engine{
		Catalog:  c,
		Analyzer: cfg.analyzerBuilder(c).Build(),
		Config:   cfg,
	}
}

// NewDefault creates a new Engine with the default configuration.
func NewDefault(c sql.Catalog) *Engine {
	return New(c, nil)
}

// NewFromConfig creates a new Engine over the catalog the configuration
// points to. The level of the standard logger is set from the
// configuration.
func NewFromConfig(cfg *Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Catalog == "" {
		return nil, ErrInvalidConfig.New("catalog path is required")
	}
	if err := ConfigureLogging(cfg); err != nil {
		return nil, err
	}

	c, err := memory.LoadCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	return New(c, cfg), nil
}

// NewContext returns a compilation context using the engine defaults.
func (e *Engine) NewContext(ctx context.Context, opts ...sql.ContextOption) *sql.Context {
	opts = append([]sql.ContextOption{sql.WithDefaultSchema(e.Config.DefaultSchema)}, opts...)
	return sql.NewContext(ctx, opts...)
}

// Compile parses and analyzes the query. The returned tree is fully bound
// and typed, and its FROM lists reference group tables where possible.
func (e *Engine) Compile(ctx *sql.Context, query string) (*plan.Cursor, error) {
	log := logrus.WithFields(logrus.Fields{
		CompileIDLogField: uuid.NewV4().String(),
		QueryLogField:     query,
	})

	parsed, err := parse.Parse(ctx, query)
	if err != nil {
		log.WithError(err).Debug("unable to parse query")
		return nil, err
	}

	analyzed, err := e.Analyzer.Analyze(ctx, parsed)
	if err != nil {
		log.WithError(err).Debug("unable to analyze query")
		return nil, err
	}

	cursor, ok := analyzed.(*plan.Cursor)
	if !ok {
		return nil, sql.ErrInvalidChildType.New(parsed, analyzed, "*plan.Cursor")
	}

	if fp, err := analyzer.BindingFingerprint(cursor); err == nil {
		log = log.WithField(FingerprintLogField, fp)
	}
	log.Debug("query compiled")

	return cursor, nil
}
