package engine

import (
	"context"
)

// Result is produced by every rule execution. Success=false is an expected
// domain outcome (a missing precondition, an ineligible charge), not an
// error; Go errors are reserved for broken internal invariants.
type Result struct {
	Success   bool
	Message   string
	Data      any
	Damage    []int
	StopChain bool
}

// OK creates a successful result
func OK(message string) *Result {
	return &Result{Success: true, Message: message}
}

// Fail creates an expected-failure result
func Fail(message string) *Result {
	return &Result{Success: false, Message: message}
}

// WithData attaches rule-specific data
func (r *Result) WithData(data any) *Result {
	r.Data = data
	return r
}

// WithDamage attaches per-attack damage values
func (r *Result) WithDamage(damage ...int) *Result {
	r.Damage = damage
	return r
}

// Stop marks the result as terminating the chain
func (r *Result) Stop() *Result {
	r.StopChain = true
	return r
}

// Rule is an atomic unit of domain logic. CanApply must be total and pure:
// returning false is the only way to signal inapplicability. Execute may
// mutate the resolution context through clone-and-set.
type Rule interface {
	Name() string
	Priority() int
	CanApply(gctx *Context, cmd Command) bool
	Execute(ctx context.Context, gctx *Context, cmd Command) (*Result, error)
}
