package analyzer

import (
	"os"
	"strings"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/brunoribeiro/sql-parser-sub002/sql"
)

const debugAnalyzerKey = "DEBUG_ANALYZER"

const maxAnalysisIterations = 1000

// DefaultGroupAliasPrefix is the prefix of the aliases generated for group
// table accesses.
const DefaultGroupAliasPrefix = "_G"

// ErrMaxAnalysisIters is thrown when the analysis iterations are exceeded
var ErrMaxAnalysisIters = errors.NewKind("exceeded max analysis iterations (%d)")

// Builder provides an easy way to generate Analyzer with custom rules and options.
type Builder struct {
	preAnalyzeRules  []Rule
	postAnalyzeRules []Rule
	catalog          sql.Catalog
	debug            bool
	verbose          bool
	uniqueness       UniquenessProver
	groupAliasPrefix string
}

// NewBuilder creates a new Builder from a specific catalog.
// This builder allow us add custom Rules and modify some internal properties.
func NewBuilder(c sql.Catalog) *Builder {
	return &Builder{
		catalog:          c,
		uniqueness:       KeyUniqueness{},
		groupAliasPrefix: DefaultGroupAliasPrefix,
	}
}

// WithDebug activates debug on the Analyzer.
func (ab *Builder) WithDebug() *Builder {
	ab.debug = true
	return ab
}

// WithVerbose makes the Analyzer log the tree after every rule.
func (ab *Builder) WithVerbose() *Builder {
	ab.verbose = true
	return ab
}

// WithUniqueness sets the test the subquery flattener uses to prove a
// subquery returns at most one row.
func (ab *Builder) WithUniqueness(u UniquenessProver) *Builder {
	ab.uniqueness = u
	return ab
}

// WithGroupAliasPrefix sets the prefix of generated group aliases.
func (ab *Builder) WithGroupAliasPrefix(prefix string) *Builder {
	ab.groupAliasPrefix = prefix
	return ab
}

// AddPreAnalyzeRule adds a new rule to the analyze before the standard analyzer rules.
func (ab *Builder) AddPreAnalyzeRule(name string, fn RuleFunc) *Builder {
	ab.preAnalyzeRules = append(ab.preAnalyzeRules, Rule{name, fn})
	return ab
}

// AddPostAnalyzeRule adds a new rule to the analyzer after standard analyzer rules.
func (ab *Builder) AddPostAnalyzeRule(name string, fn RuleFunc) *Builder {
	ab.postAnalyzeRules = append(ab.postAnalyzeRules, Rule{name, fn})
	return ab
}

// Build creates a new Analyzer using all previous data setted to the Builder
func (ab *Builder) Build() *Analyzer {
	_, debug := os.LookupEnv(debugAnalyzerKey)
	var batches = []*Batch{
		{
			Desc:       "pre-analyzer",
			Iterations: maxAnalysisIterations,
			Rules:      ab.preAnalyzeRules,
		},
		{
			Desc:       "binding",
			Iterations: 1,
			Rules:      BindingRules,
		},
		{
			Desc:       "normalization",
			Iterations: 1,
			Rules:      NormalizationRules,
		},
		{
			Desc:       "typing",
			Iterations: 1,
			Rules:      TypingRules,
		},
		{
			Desc:       "rewriting",
			Iterations: 1,
			Rules:      RewritingRules,
		},
		{
			Desc:       "grouping",
			Iterations: 1,
			Rules:      GroupingRules,
		},
		{
			Desc:       "post-analyzer",
			Iterations: maxAnalysisIterations,
			Rules:      ab.postAnalyzeRules,
		},
	}

	uniqueness := ab.uniqueness
	if uniqueness == nil {
		uniqueness = KeyUniqueness{}
	}

	prefix := ab.groupAliasPrefix
	if prefix == "" {
		prefix = DefaultGroupAliasPrefix
	}

	return &Analyzer{
		Debug:            debug || ab.debug,
		Verbose:          ab.verbose,
		Batches:          batches,
		Catalog:          ab.catalog,
		Uniqueness:       uniqueness,
		GroupAliasPrefix: prefix,
	}
}

// Analyzer analyzes nodes of the statement tree and applies rules to them.
type Analyzer struct {
	// Whether to log various debugging messages
	Debug bool
	// Whether to output the tree at each step of the analyzer
	Verbose bool
	// debugCtx belongs to a single Analyze call, see forCall.
	debugCtx []string
	// Batches of Rules to apply.
	Batches []*Batch
	// Catalog tables are looked up in.
	Catalog sql.Catalog
	// Uniqueness proves subqueries return at most one row.
	Uniqueness UniquenessProver
	// GroupAliasPrefix is the prefix of generated group aliases.
	GroupAliasPrefix string
}

// NewDefault creates a default Analyzer instance with all default Rules and configuration.
// To add custom rules, the easiest way is use the Builder.
func NewDefault(c sql.Catalog) *Analyzer {
	return NewBuilder(c).Build()
}

// Log prints an INFO message to stdout with the given message and args
// if the analyzer is in debug mode.
func (a *Analyzer) Log(msg string, args ...interface{}) {
	if a != nil && a.Debug {
		if len(a.debugCtx) > 0 {
			ctx := strings.Join(a.debugCtx, "/")
			logrus.Infof("%s: "+msg, append([]interface{}{ctx}, args...)...)
		} else {
			logrus.Infof(msg, args...)
		}
	}
}

// LogNode prints the node given if Verbose logging is enabled.
func (a *Analyzer) LogNode(n sql.Node) {
	if a != nil && n != nil && a.Verbose {
		if len(a.debugCtx) > 0 {
			ctx := strings.Join(a.debugCtx, "/")
			logrus.Infof("%s: %s", ctx, n.String())
		} else {
			logrus.Info(n.String())
		}
	}
}

// PushDebugContext pushes the given context string onto the context stack, to use when logging debug messages.
func (a *Analyzer) PushDebugContext(msg string) {
	if a != nil {
		a.debugCtx = append(a.debugCtx, msg)
	}
}

// PopDebugContext pops a context message off the context stack.
func (a *Analyzer) PopDebugContext() {
	if a != nil && len(a.debugCtx) > 0 {
		a.debugCtx = a.debugCtx[:len(a.debugCtx)-1]
	}
}

// forCall returns a copy of the analyzer with an empty debug context stack.
// Rules of one Analyze call receive the copy, so an Analyzer can be shared
// by concurrent calls.
func (a *Analyzer) forCall() *Analyzer {
	c := *a
	c.debugCtx = make([]string, 0, 2)
	return &c
}

// Analyze the node and all its children. The tree is modified in place and
// must not be reused if an error is returned. It is safe to call Analyze
// concurrently with different trees.
func (a *Analyzer) Analyze(ctx *sql.Context, n sql.Node) (sql.Node, error) {
	a = a.forCall()

	span, ctx := ctx.Span("analyze", opentracing.Tags{
		"tree": n.String(),
	})
	defer span.Finish()

	prev := n
	var err error
	a.Log("starting analysis of node of type: %T", n)
	for _, batch := range a.Batches {
		a.PushDebugContext(batch.Desc)
		prev, err = batch.Eval(ctx, a, prev)
		a.PopDebugContext()
		if ErrMaxAnalysisIters.Is(err) {
			a.Log(err.Error())
			continue
		}
		if err != nil {
			span.SetTag("error", true)
			return nil, err
		}
	}

	return prev, nil
}
