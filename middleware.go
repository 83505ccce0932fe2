package tagger

import (
	"context"
	"sync"
)

// OpType names a repository operation.
type OpType string

const (
	OpList     OpType = "list"
	OpGet      OpType = "get"
	OpCreate   OpType = "create"
	OpReplace  OpType = "replace"
	OpRemove   OpType = "remove"
	OpPopulate OpType = "populate"
)

// OpInfo describes the store call a middleware is wrapping. Create fills in
// ID once the identifier has been generated.
type OpInfo struct {
	Operation  OpType
	Collection string
	ModelName  string
	ID         string
	Model      interface{} // entity written or populated; nil for list, get and remove
}

// MiddlewareFunc wraps one store call. It must call next to let the call
// proceed; returning without calling next skips the store entirely.
type MiddlewareFunc func(ctx context.Context, op *OpInfo, next func(context.Context) error) error

type middlewareSet struct {
	mu      sync.RWMutex
	global  []MiddlewareFunc
	byModel map[string][]MiddlewareFunc
}

var middleware middlewareSet

// Use adds middleware that wraps every repository call. Outer to inner order
// is registration order, and all of it runs outside per-model middleware.
func Use(fns ...MiddlewareFunc) {
	middleware.mu.Lock()
	defer middleware.mu.Unlock()
	middleware.global = append(middleware.global, fns...)
}

// UseFor adds middleware that only wraps calls on the named model.
func UseFor(modelName string, fns ...MiddlewareFunc) {
	middleware.mu.Lock()
	defer middleware.mu.Unlock()
	if middleware.byModel == nil {
		middleware.byModel = make(map[string][]MiddlewareFunc)
	}
	middleware.byModel[modelName] = append(middleware.byModel[modelName], fns...)
}

// ClearMiddleware drops everything registered with Use and UseFor.
func ClearMiddleware() {
	middleware.mu.Lock()
	defer middleware.mu.Unlock()
	middleware.global = nil
	middleware.byModel = nil
}

// chainFor copies the middleware applying to modelName so the chain can run
// without holding the lock.
func (s *middlewareSet) chainFor(modelName string) []MiddlewareFunc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chain := make([]MiddlewareFunc, 0, len(s.global)+len(s.byModel[modelName]))
	chain = append(chain, s.global...)
	return append(chain, s.byModel[modelName]...)
}

// runMiddleware executes fn wrapped in the chain for info.ModelName.
func runMiddleware(ctx context.Context, info *OpInfo, fn func(context.Context) error) error {
	call := fn
	chain := middleware.chainFor(info.ModelName)
	for i := len(chain) - 1; i >= 0; i-- {
		mw, next := chain[i], call
		call = func(ctx context.Context) error {
			return mw(ctx, info, next)
		}
	}
	return call(ctx)
}
