package assist

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Engine runs a set of handlers at a cursor position.
//
// An Engine holds no per-invocation state and is safe for concurrent use,
// provided each call gets its own Context.
type Engine struct {
	handlers []Handler
	disabled map[string]bool
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDisabled turns off the handlers with the given id names.
func WithDisabled(names ...string) Option {
	return func(e *Engine) {
		for _, n := range names {
			e.disabled[n] = true
		}
	}
}

// NewEngine returns an engine running handlers in the given order.
func NewEngine(handlers []Handler, opts ...Option) *Engine {
	e := &Engine{
		handlers: handlers,
		disabled: make(map[string]bool),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Handlers returns the registered handlers, disabled ones included.
func (e *Engine) Handlers() []Handler {
	return e.handlers
}

// Enabled reports whether the handler with the given id name is
// registered and not disabled.
func (e *Engine) Enabled(name string) bool {
	if e.disabled[name] {
		return false
	}
	for _, h := range e.handlers {
		if h.ID.Name == name {
			return true
		}
	}
	return false
}

// Assists runs every enabled handler and returns the applicable assists
// in handler order.
func (e *Engine) Assists(ctx context.Context, actx *Context) []Assist {
	acc := &Assists{}
	for _, h := range e.handlers {
		e.run(ctx, h, acc, actx)
	}
	return acc.List()
}

// Resolve returns the first applicable assist. When name is not empty
// only the handler with that id name is run.
func (e *Engine) Resolve(ctx context.Context, actx *Context, name string) (Assist, bool) {
	for _, h := range e.handlers {
		if name != "" && h.ID.Name != name {
			continue
		}
		acc := &Assists{}
		if e.run(ctx, h, acc, actx) {
			return acc.List()[0], true
		}
	}
	return Assist{}, false
}

func (e *Engine) run(ctx context.Context, h Handler, acc *Assists, actx *Context) bool {
	name := h.ID.Name
	if e.disabled[name] {
		invocationsTotal.WithLabelValues(name, resultDisabled).Inc()
		return false
	}

	_, span := otel.Tracer(tracerName).Start(ctx, "assist.Engine.run",
		trace.WithAttributes(
			attribute.String("assist", name),
			attribute.Int("offset", actx.Offset),
		),
	)
	defer span.End()

	before := len(acc.List())
	applied := h.Run(acc, actx) && len(acc.List()) > before

	result := resultNotApplicable
	if applied {
		result = resultApplied
		for _, a := range acc.List()[before:] {
			editsTotal.WithLabelValues(name).Add(float64(len(a.Edits)))
		}
	}
	invocationsTotal.WithLabelValues(name, result).Inc()
	span.SetAttributes(attribute.Bool("applied", applied))

	e.logger.Debug("assist invoked",
		slog.String("assist", name),
		slog.String("path", actx.Path),
		slog.Int("offset", actx.Offset),
		slog.Bool("applied", applied),
	)
	return applied
}
