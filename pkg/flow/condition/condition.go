package condition

import (
	"strings"
	"sync"
)

// Expression is a compiled condition.
type Expression struct {
	source string
	root   node
}

// Compile parses expr. An empty or blank expression compiles to one that is
// always true.
func Compile(expr string) (*Expression, error) {
	trimmed := strings.TrimSpace(expr)
	out := &Expression{source: trimmed}
	if trimmed == "" {
		return out, nil
	}

	tokens, err := lex(trimmed)
	if err != nil {
		return nil, err
	}
	root, err := parse(tokens)
	if err != nil {
		return nil, err
	}
	out.root = root
	return out, nil
}

// String returns the trimmed source text.
func (e *Expression) String() string {
	return e.source
}

// Eval evaluates the expression against values. Unknown names read as null.
func (e *Expression) Eval(values map[string]any) (bool, error) {
	if e == nil || e.root == nil {
		return true, nil
	}
	result, err := e.root.eval(values)
	if err != nil {
		return false, err
	}
	return truthy(result), nil
}

// Evaluate compiles and evaluates expr in one step.
func Evaluate(expr string, values map[string]any) (bool, error) {
	compiled, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return compiled.Eval(values)
}

// Evaluator caches compiled expressions. It is safe for concurrent use and
// its zero value is ready to use.
type Evaluator struct {
	mu       sync.RWMutex
	compiled map[string]*Expression
}

// New returns an empty Evaluator.
func New() *Evaluator {
	return &Evaluator{compiled: make(map[string]*Expression)}
}

// Evaluate compiles expr on first use and evaluates it against values.
func (e *Evaluator) Evaluate(expr string, values map[string]any) (bool, error) {
	compiled, err := e.compile(expr)
	if err != nil {
		return false, err
	}
	return compiled.Eval(values)
}

func (e *Evaluator) compile(expr string) (*Expression, error) {
	e.mu.RLock()
	compiled, ok := e.compiled[expr]
	e.mu.RUnlock()
	if ok {
		return compiled, nil
	}

	compiled, err := Compile(expr)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	if e.compiled == nil {
		e.compiled = make(map[string]*Expression)
	}
	e.compiled[expr] = compiled
	e.mu.Unlock()
	return compiled, nil
}
