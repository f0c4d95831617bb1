package sql

import (
	"context"
	"strings"

	opentracing "github.com/opentracing/opentracing-go"
)

// DefaultSchema is the schema unqualified table names resolve to when the
// context does not say otherwise.
const DefaultSchema = "test"

// Context of the compilation of a statement.
type Context struct {
	context.Context
	schema string
	tracer opentracing.Tracer
}

// ContextOption is a function to configure the context.
type ContextOption func(*Context)

// WithTracer adds the given tracer to the context.
func WithTracer(t opentracing.Tracer) ContextOption {
	return func(ctx *Context) {
		ctx.tracer = t
	}
}

// WithDefaultSchema sets the schema unqualified table names resolve to.
func WithDefaultSchema(schema string) ContextOption {
	return func(ctx *Context) {
		ctx.schema = strings.ToLower(schema)
	}
}

// NewContext creates a new compilation context.
func NewContext(ctx context.Context, opts ...ContextOption) *Context {
	c := &Context{
		Context: ctx,
		schema:  DefaultSchema,
		tracer:  opentracing.NoopTracer{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewEmptyContext returns a default context with default values.
func NewEmptyContext() *Context { return NewContext(context.TODO()) }

// DefaultSchema returns the schema unqualified table names resolve to.
func (c *Context) DefaultSchema() string {
	return c.schema
}

// Span creates a new tracing span with the given context.
// It will return the span and a new context that should be passed to all
// children of this span.
func (c *Context) Span(
	opName string,
	opts ...opentracing.StartSpanOption,
) (opentracing.Span, *Context) {
	parentSpan := opentracing.SpanFromContext(c.Context)
	if parentSpan != nil {
		opts = append(opts, opentracing.ChildOf(parentSpan.Context()))
	}
	span := c.tracer.StartSpan(opName, opts...)
	ctx := opentracing.ContextWithSpan(c.Context, span)

	return span, c.WithContext(ctx)
}

// WithContext returns a new context with the given underlying context.
func (c *Context) WithContext(ctx context.Context) *Context {
	nc := *c
	nc.Context = ctx
	return &nc
}
