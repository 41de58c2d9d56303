package hostfuncs

import (
	"context"
	"sync"
	"time"
)

// HostContext wraps a standard context.Context with host function-specific helpers.
// It provides access to the invoked function name and allows middleware to store
// request-scoped values without polluting the standard context.
type HostContext interface {
	context.Context

	// FunctionName returns the name of the host function being invoked.
	FunctionName() string

	// StartedAt returns when dispatch of the call began.
	StartedAt() time.Time

	// SetValue stores a request-scoped value. Unlike context.WithValue,
	// this mutates the existing HostContext.
	SetValue(key, value any)

	// GetValue retrieves a request-scoped value set by SetValue.
	GetValue(key any) (value any, ok bool)
}

type hostContext struct {
	context.Context
	started  time.Time
	values   map[any]any
	funcName string
	mu       sync.RWMutex
}

// NewHostContext creates a new HostContext wrapping the given context.
func NewHostContext(ctx context.Context, funcName string) HostContext {
	return &hostContext{
		Context:  ctx,
		funcName: funcName,
		started:  time.Now(),
		values:   make(map[any]any),
	}
}

func (c *hostContext) FunctionName() string {
	return c.funcName
}

func (c *hostContext) StartedAt() time.Time {
	return c.started
}

func (c *hostContext) SetValue(key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

func (c *hostContext) GetValue(key any) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

// HostContextFrom extracts a HostContext from a context.Context.
// If the context is already a HostContext for funcName, it is returned
// directly. Otherwise, a new HostContext is created wrapping the given context.
func HostContextFrom(ctx context.Context, funcName string) HostContext {
	if hc, ok := ctx.(HostContext); ok && hc.FunctionName() == funcName {
		return hc
	}
	return NewHostContext(ctx, funcName)
}
